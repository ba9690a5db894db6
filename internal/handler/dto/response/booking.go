package response

import (
	"time"

	"studio-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type EquipmentLineResponse struct {
	EquipmentID   uuid.UUID `json:"equipment_id"`
	EquipmentName string    `json:"equipment_name"`
	Quantity      int       `json:"quantity"`
}

type TransactionResponse struct {
	ID          uuid.UUID `json:"id"`
	Kind        string    `json:"kind"`
	AmountCents int64     `json:"amount_cents"`
	Timestamp   time.Time `json:"timestamp"`
	Method      string    `json:"method"`
	Notes       string    `json:"notes,omitempty"`
}

type PaymentResponse struct {
	AmountCents  int64                 `json:"amount_cents"`
	Currency     string                `json:"currency"`
	Status       string                `json:"status"`
	NetPaidCents int64                 `json:"net_paid_cents"`
	Transactions []TransactionResponse `json:"transactions"`
}

type NoteResponse struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type PrepMaterialResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	FileURL     string    `json:"file_url"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type ReminderResponse struct {
	ID     uuid.UUID `json:"id"`
	Kind   string    `json:"kind"`
	SentAt time.Time `json:"sent_at"`
	Status string    `json:"status"`
}

type BookingResponse struct {
	ID              uuid.UUID               `json:"id"`
	StudioID        uuid.UUID               `json:"studio_id"`
	RoomID          uuid.UUID               `json:"room_id"`
	RoomName        string                  `json:"room_name"`
	ClientID        uuid.UUID               `json:"client_id"`
	StaffAssigned   []uuid.UUID             `json:"staff_assigned"`
	StartTime       time.Time               `json:"start_time"`
	EndTime         time.Time               `json:"end_time"`
	Status          string                  `json:"status"`
	Purpose         string                  `json:"purpose,omitempty"`
	Attendees       int                     `json:"attendees"`
	SpecialRequests string                  `json:"special_requests,omitempty"`
	Equipment       []EquipmentLineResponse `json:"equipment"`
	Payment         PaymentResponse         `json:"payment"`
	Notes           []NoteResponse          `json:"notes"`
	PrepMaterials   []PrepMaterialResponse  `json:"prep_materials"`
	Reminders       []ReminderResponse      `json:"reminders"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

type BookingListItemResponse struct {
	ID        uuid.UUID `json:"id"`
	RoomID    uuid.UUID `json:"room_id"`
	RoomName  string    `json:"room_name"`
	ClientID  uuid.UUID `json:"client_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	Purpose   string    `json:"purpose,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

type PaymentStatusResponse struct {
	Status string `json:"status"`
}

func FromBookingView(view *queries.BookingView) BookingResponse {
	var resp BookingResponse
	_ = copier.Copy(&resp, view)
	return resp
}

func FromBookingList(items []queries.BookingListItem) []BookingListItemResponse {
	out := make([]BookingListItemResponse, 0, len(items))
	_ = copier.Copy(&out, &items)
	return out
}
