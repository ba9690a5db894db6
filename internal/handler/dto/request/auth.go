package request

import "github.com/google/uuid"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email         string                `json:"email" binding:"required,email"`
	Password      string                `json:"password" binding:"required,min=8"`
	Name          string                `json:"name" binding:"required"`
	Phone         string                `json:"phone"`
	Role          string                `json:"role" binding:"omitempty,oneof=admin staff client"`
	StaffProfile  *StaffProfileRequest  `json:"staff_profile,omitempty"`
	ClientProfile *ClientProfileRequest `json:"client_profile,omitempty"`
}

type StaffProfileRequest struct {
	Position     string                      `json:"position"`
	Specialties  []string                    `json:"specialties"`
	Availability []AvailabilityWindowRequest `json:"availability"`
}

type AvailabilityWindowRequest struct {
	Weekday  int `json:"weekday" binding:"min=0,max=6"`
	StartMin int `json:"start_min" binding:"min=0,max=1440"`
	EndMin   int `json:"end_min" binding:"min=0,max=1440"`
}

type ClientProfileRequest struct {
	Company          string      `json:"company"`
	PaymentMethodIDs []uuid.UUID `json:"payment_method_ids"`
}
