package booking

import (
	"time"

	"github.com/google/uuid"
)

// TimeSlot is a half-open interval [start, end) in UTC.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, ErrInvalidTimeRange
	}
	return TimeSlot{start: start.UTC(), end: end.UTC()}, nil
}

func (ts TimeSlot) Start() time.Time {
	return ts.start
}

func (ts TimeSlot) End() time.Time {
	return ts.end
}

func (ts TimeSlot) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

// Overlaps implements the half-open rule: [a,b) and [c,d) intersect
// iff a < d and c < b. Touching edges do not conflict.
func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return ts.start.Before(other.end) && other.start.Before(ts.end)
}

func (ts TimeSlot) HasEnded(now time.Time) bool {
	return !now.Before(ts.end)
}

// EquipmentLine reserves a quantity of one equipment item for the
// booking's time slot.
type EquipmentLine struct {
	equipmentID uuid.UUID
	quantity    int
}

func NewEquipmentLine(equipmentID uuid.UUID, quantity int) (EquipmentLine, error) {
	if equipmentID == uuid.Nil {
		return EquipmentLine{}, ErrInvalidEquipmentRef
	}
	if quantity <= 0 {
		return EquipmentLine{}, ErrInvalidQuantity
	}
	return EquipmentLine{equipmentID: equipmentID, quantity: quantity}, nil
}

func (l EquipmentLine) EquipmentID() uuid.UUID { return l.equipmentID }
func (l EquipmentLine) Quantity() int          { return l.quantity }

// Note is an audit-trail entry appended on lifecycle transitions and by users.
type Note struct {
	AuthorID  uuid.UUID
	Content   string
	CreatedAt time.Time
}

// PrepMaterial is a file reference attached to a booking before the session.
type PrepMaterial struct {
	Title       string
	Description string
	FileURL     string
	UploadedBy  uuid.UUID
	UploadedAt  time.Time
}
