package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTimeRange    = errors.New("start time must be before end time")
	ErrInvalidStatus       = errors.New("invalid booking status")
	ErrInvalidTransition   = errors.New("illegal booking status transition")
	ErrNotYetEnded         = errors.New("booking cannot be completed before its end time")
	ErrInvalidQuantity     = errors.New("equipment quantity must be a positive integer")
	ErrInvalidEquipmentRef = errors.New("equipment reference is required")
	ErrMissingRoom         = errors.New("room reference is required")
	ErrMissingClient       = errors.New("client reference is required")
	ErrInvalidAttendees    = errors.New("attendee count cannot be negative")
	ErrDuplicateEquipment  = errors.New("duplicate equipment line")
)

type Booking struct {
	id              uuid.UUID
	studioID        uuid.UUID
	roomID          uuid.UUID
	clientID        uuid.UUID
	staffAssigned   []uuid.UUID
	slot            TimeSlot
	status          Status
	purpose         string
	attendees       int
	specialRequests string
	equipment       []EquipmentLine
	createdAt       time.Time
	updatedAt       time.Time
}

type NewBookingInput struct {
	StudioID        uuid.UUID
	RoomID          uuid.UUID
	ClientID        uuid.UUID
	StaffAssigned   []uuid.UUID
	Slot            TimeSlot
	Purpose         string
	Attendees       int
	SpecialRequests string
	Equipment       []EquipmentLine
}

// NewBooking validates structural invariants and starts the lifecycle at
// pending. Availability against other bookings is the scheduler's concern,
// not the aggregate's.
func NewBooking(in NewBookingInput) (*Booking, error) {
	if in.RoomID == uuid.Nil {
		return nil, ErrMissingRoom
	}
	if in.ClientID == uuid.Nil {
		return nil, ErrMissingClient
	}
	if in.Attendees < 0 {
		return nil, ErrInvalidAttendees
	}
	seen := make(map[uuid.UUID]struct{}, len(in.Equipment))
	for _, line := range in.Equipment {
		if _, dup := seen[line.EquipmentID()]; dup {
			return nil, ErrDuplicateEquipment
		}
		seen[line.EquipmentID()] = struct{}{}
	}

	return &Booking{
		id:              uuid.New(),
		studioID:        in.StudioID,
		roomID:          in.RoomID,
		clientID:        in.ClientID,
		staffAssigned:   in.StaffAssigned,
		slot:            in.Slot,
		status:          StatusPending,
		purpose:         in.Purpose,
		attendees:       in.Attendees,
		specialRequests: in.SpecialRequests,
		equipment:       in.Equipment,
	}, nil
}

func ReconstructBooking(
	id, studioID, roomID, clientID uuid.UUID,
	staffAssigned []uuid.UUID,
	slot TimeSlot,
	status Status,
	purpose string,
	attendees int,
	specialRequests string,
	equipment []EquipmentLine,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		studioID:        studioID,
		roomID:          roomID,
		clientID:        clientID,
		staffAssigned:   staffAssigned,
		slot:            slot,
		status:          status,
		purpose:         purpose,
		attendees:       attendees,
		specialRequests: specialRequests,
		equipment:       equipment,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (b *Booking) transition(next Status) error {
	if !b.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	b.status = next
	return nil
}

func (b *Booking) Confirm() error {
	return b.transition(StatusConfirmed)
}

func (b *Booking) Cancel() error {
	return b.transition(StatusCancelled)
}

// Complete requires the slot to have ended; the manager enforces this,
// not the caller.
func (b *Booking) Complete(now time.Time) error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return ErrInvalidTransition
	}
	if !b.slot.HasEnded(now) {
		return ErrNotYetEnded
	}
	b.status = StatusCompleted
	return nil
}

// Reschedule replaces the time slot and/or room. Only legal while the
// booking still blocks; the caller re-runs availability with this booking
// excluded before persisting.
func (b *Booking) Reschedule(roomID uuid.UUID, slot TimeSlot) error {
	if b.status.IsTerminal() {
		return ErrInvalidTransition
	}
	if roomID == uuid.Nil {
		return ErrMissingRoom
	}
	b.roomID = roomID
	b.slot = slot
	return nil
}

func (b *Booking) ReplaceEquipment(lines []EquipmentLine) error {
	if b.status.IsTerminal() {
		return ErrInvalidTransition
	}
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if _, dup := seen[line.EquipmentID()]; dup {
			return ErrDuplicateEquipment
		}
		seen[line.EquipmentID()] = struct{}{}
	}
	b.equipment = lines
	return nil
}

func (b *Booking) SetDetails(purpose string, attendees int, specialRequests string) error {
	if attendees < 0 {
		return ErrInvalidAttendees
	}
	b.purpose = purpose
	b.attendees = attendees
	b.specialRequests = specialRequests
	return nil
}

func (b *Booking) AssignStaff(staff []uuid.UUID) {
	b.staffAssigned = staff
}

func (b *Booking) IsActive() bool {
	return b.status.Blocks()
}

func (b *Booking) ID() uuid.UUID               { return b.id }
func (b *Booking) StudioID() uuid.UUID         { return b.studioID }
func (b *Booking) RoomID() uuid.UUID           { return b.roomID }
func (b *Booking) ClientID() uuid.UUID         { return b.clientID }
func (b *Booking) StaffAssigned() []uuid.UUID  { return b.staffAssigned }
func (b *Booking) Slot() TimeSlot              { return b.slot }
func (b *Booking) Status() Status              { return b.status }
func (b *Booking) Purpose() string             { return b.purpose }
func (b *Booking) Attendees() int              { return b.attendees }
func (b *Booking) SpecialRequests() string     { return b.specialRequests }
func (b *Booking) Equipment() []EquipmentLine  { return b.equipment }
func (b *Booking) CreatedAt() time.Time        { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time        { return b.updatedAt }
