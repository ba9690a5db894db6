package shared

import (
	"context"
	"time"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/domain/equipment"
	"studio-booking/internal/domain/payment"
	"studio-booking/internal/domain/studio"
	"studio-booking/internal/domain/user"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

// UnitOfWork is the single-flight boundary: Within runs fn inside a
// serializable transaction with bounded retry on serialization failures,
// so a check-and-reserve sequence can never interleave with a competing
// writer on the same rows.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Bookings() BookingRepository
	Payments() PaymentRepository
	Users() UserRepository
	Notifications() NotificationRepository
	Reads() CommandReads
}

// CommandReads are the strongly consistent reads available on the write
// path, executed against the same transaction as the writes.
type CommandReads interface {
	// RoomByID returns nil when the room does not exist.
	RoomByID(ctx context.Context, id uuid.UUID) (*studio.Room, error)
	// EquipmentByIDs returns the known items keyed by id; unknown ids are
	// simply absent from the result.
	EquipmentByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*equipment.Equipment, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking, pay payment.Record) (uuid.UUID, error)
	// FindByID locks the booking row for the remainder of the transaction.
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	Update(ctx context.Context, b *booking.Booking) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status) error
	AppendNote(ctx context.Context, bookingID uuid.UUID, note booking.Note) error
	AttachPrepMaterial(ctx context.Context, bookingID uuid.UUID, material booking.PrepMaterial) error
	// FindRoomConflicts returns every active booking on the room whose
	// half-open range overlaps slot, optionally excluding one booking id.
	FindRoomConflicts(ctx context.Context, roomID uuid.UUID, slot booking.TimeSlot, exclude *uuid.UUID) ([]queries.BookingSummary, error)
	// SumEquipmentReserved aggregates reserved quantities per equipment id
	// across active bookings overlapping slot.
	SumEquipmentReserved(ctx context.Context, equipmentIDs []uuid.UUID, slot booking.TimeSlot, exclude *uuid.UUID) (map[uuid.UUID]int, error)
}

type PaymentRepository interface {
	// RecordForBooking loads the payment sub-ledger, locking the owning
	// booking row against concurrent ledger writers.
	RecordForBooking(ctx context.Context, bookingID uuid.UUID) (payment.Record, error)
	AppendTransaction(ctx context.Context, bookingID uuid.UUID, tx payment.Transaction, derived payment.Status) error
}

// ErrDuplicateEmail is returned by UserRepository.Create when the email is
// already registered; the store enforces case-insensitive uniqueness.
var ErrDuplicateEmail = errs.New("email already registered")

type UserRepository interface {
	Create(ctx context.Context, u *user.User) (uuid.UUID, error)
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error
}

// NotificationRepository writes outbox jobs; delivery transport lives
// outside this service.
type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}
