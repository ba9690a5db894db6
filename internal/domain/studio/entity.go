package studio

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrEmptyName       = errors.New("name is required")
	ErrInvalidCapacity = errors.New("room capacity must be positive")
	ErrNegativeRate    = errors.New("hourly rate cannot be negative")
)

// Room is the schedulable unit inside a studio. Studios themselves exist
// only as a grouping key; nothing in the service mutates them.
type Room struct {
	id              uuid.UUID
	studioID        uuid.UUID
	name            string
	capacity        int
	hourlyRateCents int64
}

func NewRoom(studioID uuid.UUID, name string, capacity int, hourlyRateCents int64) (*Room, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if hourlyRateCents < 0 {
		return nil, ErrNegativeRate
	}
	return &Room{
		id:              uuid.New(),
		studioID:        studioID,
		name:            name,
		capacity:        capacity,
		hourlyRateCents: hourlyRateCents,
	}, nil
}

func ReconstructRoom(id, studioID uuid.UUID, name string, capacity int, hourlyRateCents int64) *Room {
	return &Room{id: id, studioID: studioID, name: name, capacity: capacity, hourlyRateCents: hourlyRateCents}
}

func (r *Room) ID() uuid.UUID          { return r.id }
func (r *Room) StudioID() uuid.UUID    { return r.studioID }
func (r *Room) Name() string           { return r.name }
func (r *Room) Capacity() int          { return r.capacity }
func (r *Room) HourlyRateCents() int64 { return r.hourlyRateCents }

// Fits reports whether the room can hold the attendee count.
func (r *Room) Fits(attendees int) bool {
	return attendees <= r.capacity
}
