package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"studio-booking/internal/domain/payment"
	"studio-booking/internal/infra"
	"studio-booking/internal/infra/db"
	"studio-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PaymentRepository struct {
	dbtx   db.DBTX
	logger *slog.Logger
}

func NewPaymentRepository(dbtx db.DBTX) shared.PaymentRepository {
	return &PaymentRepository{dbtx: dbtx, logger: slog.Default()}
}

func (r *PaymentRepository) RecordForBooking(ctx context.Context, bookingID uuid.UUID) (payment.Record, error) {
	const header = `
		SELECT total_amount_cents, currency
		FROM bookings
		WHERE id = $1
		FOR UPDATE`

	var amountCents int64
	var currency string
	err := r.dbtx.QueryRow(ctx, header, bookingID).Scan(&amountCents, &currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return payment.Record{}, infra.WrapRepoErr(r.logger, infra.KindNotFound, "select payment record", err)
	}
	if err != nil {
		return payment.Record{}, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "select payment record", err)
	}

	const history = `
		SELECT id, kind, amount_cents, method, notes, created_at
		FROM payment_transactions
		WHERE booking_id = $1
		ORDER BY created_at, id`

	rows, err := r.dbtx.Query(ctx, history, bookingID)
	if err != nil {
		return payment.Record{}, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "select payment transactions", err)
	}
	defer rows.Close()

	var transactions []payment.Transaction
	for rows.Next() {
		var (
			id        uuid.UUID
			kind      string
			amount    int64
			method    string
			notes     string
			createdAt time.Time
		)
		if err := rows.Scan(&id, &kind, &amount, &method, &notes, &createdAt); err != nil {
			return payment.Record{}, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "scan payment transaction", err)
		}
		transactions = append(transactions, payment.Transaction{
			ID:          id,
			Kind:        payment.Kind(kind),
			AmountCents: amount,
			Timestamp:   createdAt,
			Method:      method,
			Notes:       notes,
		})
	}
	if err := rows.Err(); err != nil {
		return payment.Record{}, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "iterate payment transactions", err)
	}

	return payment.ReconstructRecord(amountCents, currency, transactions), nil
}

func (r *PaymentRepository) AppendTransaction(ctx context.Context, bookingID uuid.UUID, tx payment.Transaction, derived payment.Status) error {
	const insert = `
		INSERT INTO payment_transactions (id, booking_id, kind, amount_cents, method, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.dbtx.Exec(ctx, insert,
		tx.ID, bookingID, string(tx.Kind), tx.AmountCents, tx.Method, tx.Notes, tx.Timestamp,
	)
	if err != nil {
		return wrapWriteErr(r.logger, "insert payment transaction", err)
	}

	tag, err := r.dbtx.Exec(ctx,
		`UPDATE bookings SET payment_status = $2 WHERE id = $1`,
		bookingID, derived.String(),
	)
	if err != nil {
		return wrapWriteErr(r.logger, "update payment status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "update payment status", pgx.ErrNoRows)
	}
	return nil
}
