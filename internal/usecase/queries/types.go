package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for the read side)

// BookingSummary is the conflict-report shape: enough for a caller to
// show what blocks a requested slot and suggest alternatives.
type BookingSummary struct {
	ID        uuid.UUID `json:"id"`
	RoomID    uuid.UUID `json:"room_id"`
	ClientID  uuid.UUID `json:"client_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
}

type RoomAvailabilityResult struct {
	Available bool             `json:"available"`
	Conflicts []BookingSummary `json:"conflicts"`
}

type EquipmentShortage struct {
	EquipmentID    uuid.UUID `json:"equipment_id"`
	Requested      int       `json:"requested"`
	AvailableCount int       `json:"available_count"`
}

type EquipmentAvailabilityResult struct {
	Available bool                `json:"available"`
	Shortages []EquipmentShortage `json:"shortages"`
}

type EquipmentRequest struct {
	EquipmentID uuid.UUID
	Quantity    int
}

type EquipmentLineView struct {
	EquipmentID   uuid.UUID `json:"equipment_id"`
	EquipmentName string    `json:"equipment_name"`
	Quantity      int       `json:"quantity"`
}

type TransactionView struct {
	ID          uuid.UUID `json:"id"`
	Kind        string    `json:"kind"`
	AmountCents int64     `json:"amount_cents"`
	Timestamp   time.Time `json:"timestamp"`
	Method      string    `json:"method"`
	Notes       string    `json:"notes,omitempty"`
}

type PaymentView struct {
	AmountCents  int64             `json:"amount_cents"`
	Currency     string            `json:"currency"`
	Status       string            `json:"status"`
	NetPaidCents int64             `json:"net_paid_cents"`
	Transactions []TransactionView `json:"transactions"`
}

type PrepMaterialView struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	FileURL     string    `json:"file_url"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// ReminderView surfaces reminder dispatch records; rows are written by the
// notification dispatcher, not this service.
type ReminderView struct {
	ID     uuid.UUID `json:"id"`
	Kind   string    `json:"kind"`
	SentAt time.Time `json:"sent_at"`
	Status string    `json:"status"`
}

type NoteView struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type BookingView struct {
	ID              uuid.UUID           `json:"id"`
	StudioID        uuid.UUID           `json:"studio_id"`
	RoomID          uuid.UUID           `json:"room_id"`
	RoomName        string              `json:"room_name"`
	ClientID        uuid.UUID           `json:"client_id"`
	StaffAssigned   []uuid.UUID         `json:"staff_assigned"`
	StartTime       time.Time           `json:"start_time"`
	EndTime         time.Time           `json:"end_time"`
	Status          string              `json:"status"`
	Purpose         string              `json:"purpose,omitempty"`
	Attendees       int                 `json:"attendees"`
	SpecialRequests string              `json:"special_requests,omitempty"`
	Equipment       []EquipmentLineView `json:"equipment"`
	Payment         PaymentView         `json:"payment"`
	Notes           []NoteView          `json:"notes"`
	PrepMaterials   []PrepMaterialView  `json:"prep_materials"`
	Reminders       []ReminderView      `json:"reminders"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type BookingListItem struct {
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

type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}
