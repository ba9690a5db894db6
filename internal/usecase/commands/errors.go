package commands

import (
	"fmt"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/usecase/queries"
)

var (
	ErrForbidden            = errs.New("actor is not allowed to perform this operation")
	ErrBookingNotFound      = errs.New("booking not found")
	ErrRoomNotFound         = errs.New("room not found")
	ErrEquipmentNotFound    = errs.New("equipment not found")
	ErrRoomCapacityExceeded = errs.New("attendee count exceeds room capacity")
	ErrEmailTaken           = errs.New("email address already registered")
	ErrInvalidCredentials   = errs.New("invalid email or password")
	ErrUserInactive         = errs.New("user account is deactivated")
)

// ConflictError reports every blocking booking that overlaps the requested
// slot, so the caller can render alternatives rather than retry blindly.
type ConflictError struct {
	Conflicts []queries.BookingSummary
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("room is not available: %d conflicting booking(s)", len(e.Conflicts))
}

// ShortageError reports every equipment item whose requested quantity
// exceeds what remains available for the slot.
type ShortageError struct {
	Shortages []queries.EquipmentShortage
}

func (e *ShortageError) Error() string {
	return fmt.Sprintf("insufficient equipment: %d item(s) short", len(e.Shortages))
}

// InvalidTransitionError names both endpoints of a rejected status change.
type InvalidTransitionError struct {
	From booking.Status
	To   booking.Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition booking from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == booking.ErrInvalidTransition
}
