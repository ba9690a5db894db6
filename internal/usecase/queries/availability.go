package queries

import (
	"context"
	"time"

	"studio-booking/internal/domain/equipment"
	"studio-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidRange      = errs.New("start time must be before end time")
	ErrInvalidQuantity   = errs.New("equipment quantity must be a positive integer")
	ErrNoEquipment       = errs.New("at least one equipment item is required")
	ErrEquipmentNotFound = errs.New("equipment not found")
	ErrRoomNotFound      = errs.New("room not found")
)

// AvailabilityReadStore is the indexed range query over
// (room_id, start_time, end_time, status).
type AvailabilityReadStore interface {
	FindRoomConflicts(ctx context.Context, roomID uuid.UUID, start, end time.Time, exclude *uuid.UUID) ([]BookingSummary, error)
	SumEquipmentReserved(ctx context.Context, equipmentIDs []uuid.UUID, start, end time.Time, exclude *uuid.UUID) (map[uuid.UUID]int, error)
	RoomExists(ctx context.Context, roomID uuid.UUID) (bool, error)
}

type EquipmentReadStore interface {
	ByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*equipment.Equipment, error)
}

// AvailabilityCache is an optional read-through cache for the relaxed,
// non-authoritative pre-check. The authoritative check on the write path
// always runs inside the store transaction, bypassing this cache.
type AvailabilityCache interface {
	GetRoomConflicts(ctx context.Context, roomID uuid.UUID, start, end time.Time) ([]BookingSummary, bool)
	SetRoomConflicts(ctx context.Context, roomID uuid.UUID, start, end time.Time, conflicts []BookingSummary)
	InvalidateRoom(ctx context.Context, roomID uuid.UUID) error
}

type AvailabilityQueries interface {
	CheckRoom(ctx context.Context, roomID uuid.UUID, start, end time.Time, exclude *uuid.UUID) (*RoomAvailabilityResult, error)
	CheckEquipment(ctx context.Context, items []EquipmentRequest, start, end time.Time, exclude *uuid.UUID) (*EquipmentAvailabilityResult, error)
}

type availabilityQueriesImpl struct {
	store     AvailabilityReadStore
	equipment EquipmentReadStore
	cache     AvailabilityCache
}

func NewAvailabilityQueries(store AvailabilityReadStore, equipment EquipmentReadStore, cache AvailabilityCache) AvailabilityQueries {
	return &availabilityQueriesImpl{
		store:     store,
		equipment: equipment,
		cache:     cache,
	}
}

func (q *availabilityQueriesImpl) CheckRoom(ctx context.Context, roomID uuid.UUID, start, end time.Time, exclude *uuid.UUID) (*RoomAvailabilityResult, error) {
	if !start.Before(end) {
		return nil, ErrInvalidRange
	}

	exists, err := q.store.RoomExists(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRoomNotFound
	}

	// Cache only the exclude-free case; edits re-checking an existing
	// booking go straight to the store.
	if q.cache != nil && exclude == nil {
		if conflicts, ok := q.cache.GetRoomConflicts(ctx, roomID, start, end); ok {
			return &RoomAvailabilityResult{
				Available: len(conflicts) == 0,
				Conflicts: conflicts,
			}, nil
		}
	}

	conflicts, err := q.store.FindRoomConflicts(ctx, roomID, start, end, exclude)
	if err != nil {
		return nil, err
	}

	if q.cache != nil && exclude == nil {
		q.cache.SetRoomConflicts(ctx, roomID, start, end, conflicts)
	}

	return &RoomAvailabilityResult{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}

func (q *availabilityQueriesImpl) CheckEquipment(ctx context.Context, items []EquipmentRequest, start, end time.Time, exclude *uuid.UUID) (*EquipmentAvailabilityResult, error) {
	if !start.Before(end) {
		return nil, ErrInvalidRange
	}
	if len(items) == 0 {
		return nil, ErrNoEquipment
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		ids = append(ids, item.EquipmentID)
	}

	catalog, err := q.equipment.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := catalog[id]; !ok {
			return nil, errs.Mark(errs.New("unknown equipment id "+id.String()), ErrEquipmentNotFound)
		}
	}

	reserved, err := q.store.SumEquipmentReserved(ctx, ids, start, end, exclude)
	if err != nil {
		return nil, err
	}

	return EvaluateShortages(items, catalog, reserved), nil
}

// EvaluateShortages compares each requested quantity against
// stock minus already-reserved-overlapping. Every shortage is reported,
// not just the first. Callers must have resolved every requested id.
func EvaluateShortages(items []EquipmentRequest, catalog map[uuid.UUID]*equipment.Equipment, reserved map[uuid.UUID]int) *EquipmentAvailabilityResult {
	result := &EquipmentAvailabilityResult{Available: true}
	for _, item := range items {
		available := 0
		if eq := catalog[item.EquipmentID]; eq != nil {
			available = eq.AvailableFor(reserved[item.EquipmentID])
		}
		if item.Quantity > available {
			result.Available = false
			result.Shortages = append(result.Shortages, EquipmentShortage{
				EquipmentID:    item.EquipmentID,
				Requested:      item.Quantity,
				AvailableCount: available,
			})
		}
	}
	return result
}
