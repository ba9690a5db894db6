package equipment

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrEmptyName     = errors.New("name is required")
	ErrNegativeStock = errors.New("stock cannot be negative")
)

// Equipment is an owned inventory item. Stock is the total owned count;
// the reserved quantity at any instant is derived from active bookings.
type Equipment struct {
	id       uuid.UUID
	studioID uuid.UUID
	name     string
	stock    int
}

func NewEquipment(studioID uuid.UUID, name string, stock int) (*Equipment, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if stock < 0 {
		return nil, ErrNegativeStock
	}
	return &Equipment{
		id:       uuid.New(),
		studioID: studioID,
		name:     name,
		stock:    stock,
	}, nil
}

func ReconstructEquipment(id, studioID uuid.UUID, name string, stock int) *Equipment {
	return &Equipment{id: id, studioID: studioID, name: name, stock: stock}
}

func (e *Equipment) ID() uuid.UUID       { return e.id }
func (e *Equipment) StudioID() uuid.UUID { return e.studioID }
func (e *Equipment) Name() string        { return e.name }
func (e *Equipment) Stock() int          { return e.stock }

// AvailableFor reports how many units remain free given the quantity
// already reserved by overlapping active bookings.
func (e *Equipment) AvailableFor(reserved int) int {
	remaining := e.stock - reserved
	if remaining < 0 {
		return 0
	}
	return remaining
}
