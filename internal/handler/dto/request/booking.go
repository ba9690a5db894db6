package request

import (
	"regexp"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type EquipmentLineRequest struct {
	EquipmentID uuid.UUID `json:"equipment_id" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required,gt=0"`
}

type CreateBookingRequest struct {
	RoomID          uuid.UUID              `json:"room_id" binding:"required"`
	ClientID        uuid.UUID              `json:"client_id" binding:"required"`
	StaffAssigned   []uuid.UUID            `json:"staff_assigned"`
	StartTime       time.Time              `json:"start_time" binding:"required"`
	EndTime         time.Time              `json:"end_time" binding:"required,gtfield=StartTime"`
	Purpose         string                 `json:"purpose" binding:"max=500"`
	Attendees       int                    `json:"attendees" binding:"gte=0"`
	SpecialRequests string                 `json:"special_requests" binding:"max=2000"`
	Equipment       []EquipmentLineRequest `json:"equipment" binding:"dive"`
	Currency        string                 `json:"currency" binding:"omitempty,currency_code"`
}

type UpdateBookingRequest struct {
	RoomID          *uuid.UUID             `json:"room_id"`
	StartTime       *time.Time             `json:"start_time"`
	EndTime         *time.Time             `json:"end_time"`
	Purpose         *string                `json:"purpose" binding:"omitempty,max=500"`
	Attendees       *int                   `json:"attendees" binding:"omitempty,gte=0"`
	SpecialRequests *string                `json:"special_requests" binding:"omitempty,max=2000"`
	Equipment       []EquipmentLineRequest `json:"equipment" binding:"omitempty,dive"`
	StaffAssigned   []uuid.UUID            `json:"staff_assigned"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type AddNoteRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type AttachPrepMaterialRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
	FileURL     string `json:"file_url" binding:"required,url"`
}

type RecordTransactionRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=payment refund"`
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Method      string `json:"method" binding:"max=100"`
	Notes       string `json:"notes" binding:"max=500"`
}

var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// RegisterValidations installs custom binding rules on gin's validator.
// Call once at startup.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currency_code", func(fl validator.FieldLevel) bool {
			return currencyCodeRegex.MatchString(fl.Field().String())
		})
	}
}
