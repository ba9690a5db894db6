package queries

import (
	"context"
	"time"

	"studio-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrBookingNotFound = errs.New("booking not found")

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]BookingListItem, error)
	ListByRoom(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]BookingListItem, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]BookingListItem, error)
	ListByRoom(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]BookingListItem, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, ErrBookingNotFound
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByClient(ctx context.Context, clientID uuid.UUID) ([]BookingListItem, error) {
	return q.store.ListByClient(ctx, clientID)
}

func (q *bookingQueriesImpl) ListByRoom(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]BookingListItem, error) {
	if !from.Before(to) {
		return nil, ErrInvalidRange
	}
	return q.store.ListByRoom(ctx, roomID, from, to)
}
