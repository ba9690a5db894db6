package commands

import (
	"context"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/domain/payment"
	"studio-booking/internal/domain/user"
	"studio-booking/internal/pkg/clock"
	"studio-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type RecordTransactionInput struct {
	Kind        string
	AmountCents int64
	Method      string
	Notes       string
}

type PaymentCommands interface {
	RecordTransaction(ctx context.Context, actor Actor, bookingID uuid.UUID, in RecordTransactionInput) (payment.Status, error)
}

type paymentCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewPaymentCommands(uow shared.UnitOfWork, clk clock.Clock) PaymentCommands {
	return &paymentCommandsImpl{uow: uow, clock: clk}
}

// RecordTransaction appends a payment or refund to the booking's sub-ledger.
// The booking row is locked for the duration, so two concurrent writers on
// the same ledger serialize and the second sees the first's balance.
func (c *paymentCommandsImpl) RecordTransaction(ctx context.Context, actor Actor, bookingID uuid.UUID, in RecordTransactionInput) (payment.Status, error) {
	if !actor.Role.Has(user.CapRecordPayment) {
		return "", ErrForbidden
	}
	kind, err := payment.NewKind(in.Kind)
	if err != nil {
		return "", err
	}

	var derived payment.Status
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if b == nil {
			return ErrBookingNotFound
		}

		record, err := tx.Payments().RecordForBooking(ctx, bookingID)
		if err != nil {
			return err
		}

		entry := payment.Transaction{
			ID:          uuid.New(),
			Kind:        kind,
			AmountCents: in.AmountCents,
			Timestamp:   c.clock.Now(),
			Method:      in.Method,
			Notes:       in.Notes,
		}
		next, err := record.Apply(entry)
		if err != nil {
			return err
		}
		derived = next.Status()

		if err := tx.Payments().AppendTransaction(ctx, bookingID, entry, derived); err != nil {
			return err
		}
		note := "payment recorded"
		if kind == payment.KindRefund {
			note = "refund recorded"
		}
		return tx.Bookings().AppendNote(ctx, bookingID, booking.Note{
			AuthorID:  actor.ID,
			Content:   note,
			CreatedAt: c.clock.Now(),
		})
	})
	if err != nil {
		return "", err
	}
	return derived, nil
}
