package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/domain/payment"
	"studio-booking/internal/infra"
	"studio-booking/internal/infra/db"
	"studio-booking/internal/usecase/queries"
	"studio-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingRepository struct {
	dbtx   db.DBTX
	logger *slog.Logger
}

func NewBookingRepository(dbtx db.DBTX) shared.BookingRepository {
	return &BookingRepository{dbtx: dbtx, logger: slog.Default()}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking, pay payment.Record) (uuid.UUID, error) {
	const insertBooking = `
		INSERT INTO bookings (
			id, studio_id, room_id, client_id, start_time, end_time, status,
			purpose, attendees, special_requests, total_amount_cents, currency, payment_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.dbtx.Exec(ctx, insertBooking,
		b.ID(), b.StudioID(), b.RoomID(), b.ClientID(),
		b.Slot().Start(), b.Slot().End(), b.Status().String(),
		b.Purpose(), b.Attendees(), b.SpecialRequests(),
		pay.AmountCents(), pay.Currency(), pay.Status().String(),
	)
	if err != nil {
		return uuid.Nil, wrapWriteErr(r.logger, "insert booking", err)
	}

	if err := r.insertStaff(ctx, b.ID(), b.StaffAssigned()); err != nil {
		return uuid.Nil, err
	}
	if err := r.insertEquipment(ctx, b.ID(), b.Equipment()); err != nil {
		return uuid.Nil, err
	}
	return b.ID(), nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	const query = `
		SELECT id, studio_id, room_id, client_id, start_time, end_time, status,
		       purpose, attendees, special_requests, created_at, updated_at
		FROM bookings
		WHERE id = $1
		FOR UPDATE`

	var (
		bookingID, studioID, roomID, clientID uuid.UUID
		start, end, createdAt, updatedAt      time.Time
		status, purpose, requests             string
		attendees                             int
	)
	err := r.dbtx.QueryRow(ctx, query, id).Scan(
		&bookingID, &studioID, &roomID, &clientID, &start, &end, &status,
		&purpose, &attendees, &requests, &createdAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "select booking for update", err)
	}

	staff, err := r.loadStaff(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	lines, err := r.loadEquipment(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	slot, err := booking.NewTimeSlot(start, end)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "rehydrate booking slot", err)
	}
	st, err := booking.NewStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "rehydrate booking status", err)
	}

	return booking.ReconstructBooking(
		bookingID, studioID, roomID, clientID,
		staff, slot, st, purpose, attendees, requests, lines,
		createdAt, updatedAt,
	), nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	const query = `
		UPDATE bookings
		SET room_id = $2, start_time = $3, end_time = $4,
		    purpose = $5, attendees = $6, special_requests = $7
		WHERE id = $1`

	tag, err := r.dbtx.Exec(ctx, query,
		b.ID(), b.RoomID(), b.Slot().Start(), b.Slot().End(),
		b.Purpose(), b.Attendees(), b.SpecialRequests(),
	)
	if err != nil {
		return wrapWriteErr(r.logger, "update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "update booking", pgx.ErrNoRows)
	}

	if _, err := r.dbtx.Exec(ctx, `DELETE FROM booking_staff WHERE booking_id = $1`, b.ID()); err != nil {
		return wrapWriteErr(r.logger, "replace booking staff", err)
	}
	if err := r.insertStaff(ctx, b.ID(), b.StaffAssigned()); err != nil {
		return err
	}
	if _, err := r.dbtx.Exec(ctx, `DELETE FROM booking_equipment WHERE booking_id = $1`, b.ID()); err != nil {
		return wrapWriteErr(r.logger, "replace booking equipment", err)
	}
	return r.insertEquipment(ctx, b.ID(), b.Equipment())
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status) error {
	tag, err := r.dbtx.Exec(ctx, `UPDATE bookings SET status = $2 WHERE id = $1`, id, status.String())
	if err != nil {
		return wrapWriteErr(r.logger, "update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "update booking status", pgx.ErrNoRows)
	}
	return nil
}

func (r *BookingRepository) AppendNote(ctx context.Context, bookingID uuid.UUID, note booking.Note) error {
	const query = `
		INSERT INTO booking_notes (booking_id, author_id, content, created_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.dbtx.Exec(ctx, query, bookingID, note.AuthorID, note.Content, note.CreatedAt); err != nil {
		return wrapWriteErr(r.logger, "insert booking note", err)
	}
	return nil
}

func (r *BookingRepository) AttachPrepMaterial(ctx context.Context, bookingID uuid.UUID, material booking.PrepMaterial) error {
	const query = `
		INSERT INTO prep_materials (booking_id, title, description, file_url, uploaded_by, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := r.dbtx.Exec(ctx, query, bookingID,
		material.Title, material.Description, material.FileURL,
		material.UploadedBy, material.UploadedAt,
	); err != nil {
		return wrapWriteErr(r.logger, "insert prep material", err)
	}
	return nil
}

func (r *BookingRepository) FindRoomConflicts(ctx context.Context, roomID uuid.UUID, slot booking.TimeSlot, exclude *uuid.UUID) ([]queries.BookingSummary, error) {
	const query = `
		SELECT id, room_id, client_id, start_time, end_time, status
		FROM bookings
		WHERE room_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND start_time < $3
		  AND end_time > $2
		  AND ($4::uuid IS NULL OR id <> $4)
		ORDER BY start_time`

	rows, err := r.dbtx.Query(ctx, query, roomID, slot.Start(), slot.End(), exclude)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "select room conflicts", err)
	}
	defer rows.Close()

	var out []queries.BookingSummary
	for rows.Next() {
		var s queries.BookingSummary
		if err := rows.Scan(&s.ID, &s.RoomID, &s.ClientID, &s.StartTime, &s.EndTime, &s.Status); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "scan room conflict", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "iterate room conflicts", err)
	}
	return out, nil
}

func (r *BookingRepository) SumEquipmentReserved(ctx context.Context, equipmentIDs []uuid.UUID, slot booking.TimeSlot, exclude *uuid.UUID) (map[uuid.UUID]int, error) {
	const query = `
		SELECT be.equipment_id, COALESCE(SUM(be.quantity), 0)
		FROM booking_equipment be
		JOIN bookings b ON b.id = be.booking_id
		WHERE be.equipment_id = ANY($1::uuid[])
		  AND b.status IN ('pending', 'confirmed')
		  AND b.start_time < $3
		  AND b.end_time > $2
		  AND ($4::uuid IS NULL OR b.id <> $4)
		GROUP BY be.equipment_id`

	rows, err := r.dbtx.Query(ctx, query, uuidStrings(equipmentIDs), slot.Start(), slot.End(), exclude)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "sum reserved equipment", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]int, len(equipmentIDs))
	for rows.Next() {
		var id uuid.UUID
		var total int
		if err := rows.Scan(&id, &total); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "scan reserved equipment", err)
		}
		out[id] = total
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "iterate reserved equipment", err)
	}
	return out, nil
}

func (r *BookingRepository) insertStaff(ctx context.Context, bookingID uuid.UUID, staff []uuid.UUID) error {
	for _, staffID := range staff {
		const query = `INSERT INTO booking_staff (booking_id, staff_id) VALUES ($1, $2)`
		if _, err := r.dbtx.Exec(ctx, query, bookingID, staffID); err != nil {
			return wrapWriteErr(r.logger, "insert booking staff", err)
		}
	}
	return nil
}

func (r *BookingRepository) insertEquipment(ctx context.Context, bookingID uuid.UUID, lines []booking.EquipmentLine) error {
	for _, line := range lines {
		const query = `INSERT INTO booking_equipment (booking_id, equipment_id, quantity) VALUES ($1, $2, $3)`
		if _, err := r.dbtx.Exec(ctx, query, bookingID, line.EquipmentID(), line.Quantity()); err != nil {
			return wrapWriteErr(r.logger, "insert booking equipment", err)
		}
	}
	return nil
}

func (r *BookingRepository) loadStaff(ctx context.Context, bookingID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.dbtx.Query(ctx, `SELECT staff_id FROM booking_staff WHERE booking_id = $1`, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "select booking staff", err)
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "scan booking staff", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *BookingRepository) loadEquipment(ctx context.Context, bookingID uuid.UUID) ([]booking.EquipmentLine, error) {
	rows, err := r.dbtx.Query(ctx, `SELECT equipment_id, quantity FROM booking_equipment WHERE booking_id = $1`, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "select booking equipment", err)
	}
	defer rows.Close()

	var out []booking.EquipmentLine
	for rows.Next() {
		var id uuid.UUID
		var qty int
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "scan booking equipment", err)
		}
		line, err := booking.NewEquipmentLine(id, qty)
		if err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "rehydrate equipment line", err)
		}
		out = append(out, line)
	}
	return out, rows.Err()
}
