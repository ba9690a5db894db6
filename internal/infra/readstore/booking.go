package readstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"studio-booking/internal/infra"
	"studio-booking/internal/infra/db"
	"studio-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingReadStore struct {
	dbtx   db.DBTX
	logger *slog.Logger
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{dbtx: dbtx, logger: slog.Default()}
}

// FindByID assembles the full booking view: header, equipment lines, payment
// sub-ledger and notes. Returns nil when the booking does not exist.
func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	const header = `
		SELECT b.id, b.studio_id, b.room_id, r.name, b.client_id,
		       b.start_time, b.end_time, b.status, b.purpose, b.attendees,
		       b.special_requests, b.total_amount_cents, b.currency,
		       b.payment_status, b.created_at, b.updated_at
		FROM bookings b
		JOIN rooms r ON r.id = b.room_id
		WHERE b.id = $1`

	var view queries.BookingView
	err := s.dbtx.QueryRow(ctx, header, id).Scan(
		&view.ID, &view.StudioID, &view.RoomID, &view.RoomName, &view.ClientID,
		&view.StartTime, &view.EndTime, &view.Status, &view.Purpose, &view.Attendees,
		&view.SpecialRequests, &view.Payment.AmountCents, &view.Payment.Currency,
		&view.Payment.Status, &view.CreatedAt, &view.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "select booking view", err)
	}

	if view.StaffAssigned, err = s.loadStaff(ctx, id); err != nil {
		return nil, err
	}
	if view.Equipment, err = s.loadEquipment(ctx, id); err != nil {
		return nil, err
	}
	if view.Payment.Transactions, err = s.loadTransactions(ctx, id); err != nil {
		return nil, err
	}
	for _, tx := range view.Payment.Transactions {
		switch tx.Kind {
		case "payment":
			view.Payment.NetPaidCents += tx.AmountCents
		case "refund":
			view.Payment.NetPaidCents -= tx.AmountCents
		}
	}
	if view.Notes, err = s.loadNotes(ctx, id); err != nil {
		return nil, err
	}
	if view.PrepMaterials, err = s.loadPrepMaterials(ctx, id); err != nil {
		return nil, err
	}
	if view.Reminders, err = s.loadReminders(ctx, id); err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *BookingReadStore) ListByClient(ctx context.Context, clientID uuid.UUID) ([]queries.BookingListItem, error) {
	const query = `
		SELECT b.id, b.room_id, r.name, b.client_id, b.start_time, b.end_time,
		       b.status, b.purpose, b.created_at
		FROM bookings b
		JOIN rooms r ON r.id = b.room_id
		WHERE b.client_id = $1
		ORDER BY b.start_time DESC`

	return s.list(ctx, query, clientID)
}

func (s *BookingReadStore) ListByRoom(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]queries.BookingListItem, error) {
	const query = `
		SELECT b.id, b.room_id, r.name, b.client_id, b.start_time, b.end_time,
		       b.status, b.purpose, b.created_at
		FROM bookings b
		JOIN rooms r ON r.id = b.room_id
		WHERE b.room_id = $1
		  AND b.start_time < $3
		  AND b.end_time > $2
		ORDER BY b.start_time`

	return s.list(ctx, query, roomID, from, to)
}

func (s *BookingReadStore) list(ctx context.Context, query string, args ...any) ([]queries.BookingListItem, error) {
	rows, err := s.dbtx.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "select booking list", err)
	}
	defer rows.Close()

	var out []queries.BookingListItem
	for rows.Next() {
		var item queries.BookingListItem
		if err := rows.Scan(&item.ID, &item.RoomID, &item.RoomName, &item.ClientID,
			&item.StartTime, &item.EndTime, &item.Status, &item.Purpose, &item.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "scan booking list item", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "iterate booking list", err)
	}
	return out, nil
}

func (s *BookingReadStore) loadStaff(ctx context.Context, bookingID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.dbtx.Query(ctx, `SELECT staff_id FROM booking_staff WHERE booking_id = $1`, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "select booking staff", err)
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "scan booking staff", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *BookingReadStore) loadEquipment(ctx context.Context, bookingID uuid.UUID) ([]queries.EquipmentLineView, error) {
	const query = `
		SELECT be.equipment_id, e.name, be.quantity
		FROM booking_equipment be
		JOIN equipment e ON e.id = be.equipment_id
		WHERE be.booking_id = $1
		ORDER BY e.name`

	rows, err := s.dbtx.Query(ctx, query, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "select booking equipment", err)
	}
	defer rows.Close()

	var out []queries.EquipmentLineView
	for rows.Next() {
		var line queries.EquipmentLineView
		if err := rows.Scan(&line.EquipmentID, &line.EquipmentName, &line.Quantity); err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "scan booking equipment", err)
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

func (s *BookingReadStore) loadTransactions(ctx context.Context, bookingID uuid.UUID) ([]queries.TransactionView, error) {
	const query = `
		SELECT id, kind, amount_cents, method, notes, created_at
		FROM payment_transactions
		WHERE booking_id = $1
		ORDER BY created_at, id`

	rows, err := s.dbtx.Query(ctx, query, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "select payment transactions", err)
	}
	defer rows.Close()

	var out []queries.TransactionView
	for rows.Next() {
		var tx queries.TransactionView
		if err := rows.Scan(&tx.ID, &tx.Kind, &tx.AmountCents, &tx.Method, &tx.Notes, &tx.Timestamp); err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "scan payment transaction", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (s *BookingReadStore) loadNotes(ctx context.Context, bookingID uuid.UUID) ([]queries.NoteView, error) {
	const query = `
		SELECT id, author_id, content, created_at
		FROM booking_notes
		WHERE booking_id = $1
		ORDER BY created_at`

	rows, err := s.dbtx.Query(ctx, query, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "select booking notes", err)
	}
	defer rows.Close()

	var out []queries.NoteView
	for rows.Next() {
		var note queries.NoteView
		if err := rows.Scan(&note.ID, &note.AuthorID, &note.Content, &note.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "scan booking note", err)
		}
		out = append(out, note)
	}
	return out, rows.Err()
}

func (s *BookingReadStore) loadPrepMaterials(ctx context.Context, bookingID uuid.UUID) ([]queries.PrepMaterialView, error) {
	const query = `
		SELECT id, title, description, file_url, uploaded_by, uploaded_at
		FROM prep_materials
		WHERE booking_id = $1
		ORDER BY uploaded_at`

	rows, err := s.dbtx.Query(ctx, query, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "select prep materials", err)
	}
	defer rows.Close()

	var out []queries.PrepMaterialView
	for rows.Next() {
		var m queries.PrepMaterialView
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.FileURL, &m.UploadedBy, &m.UploadedAt); err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "scan prep material", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *BookingReadStore) loadReminders(ctx context.Context, bookingID uuid.UUID) ([]queries.ReminderView, error) {
	const query = `
		SELECT id, kind, sent_at, status
		FROM reminders
		WHERE booking_id = $1
		ORDER BY sent_at`

	rows, err := s.dbtx.Query(ctx, query, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "select reminders", err)
	}
	defer rows.Close()

	var out []queries.ReminderView
	for rows.Next() {
		var r queries.ReminderView
		if err := rows.Scan(&r.ID, &r.Kind, &r.SentAt, &r.Status); err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "scan reminder", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
