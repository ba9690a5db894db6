package readstore

import (
	"context"
	"log/slog"
	"time"

	"studio-booking/internal/infra"
	"studio-booking/internal/infra/db"
	"studio-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

// AvailabilityReadStore serves the relaxed read-side checks. The write path
// re-runs the same predicates inside its transaction, so results here may
// lag the latest committed bookings.
type AvailabilityReadStore struct {
	dbtx   db.DBTX
	logger *slog.Logger
}

func NewAvailabilityReadStore(dbtx db.DBTX) *AvailabilityReadStore {
	return &AvailabilityReadStore{dbtx: dbtx, logger: slog.Default()}
}

func (s *AvailabilityReadStore) FindRoomConflicts(ctx context.Context, roomID uuid.UUID, start, end time.Time, exclude *uuid.UUID) ([]queries.BookingSummary, error) {
	const query = `
		SELECT id, room_id, client_id, start_time, end_time, status
		FROM bookings
		WHERE room_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND start_time < $3
		  AND end_time > $2
		  AND ($4::uuid IS NULL OR id <> $4)
		ORDER BY start_time`

	rows, err := s.dbtx.Query(ctx, query, roomID, start, end, exclude)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "select room conflicts", err)
	}
	defer rows.Close()

	var out []queries.BookingSummary
	for rows.Next() {
		var summary queries.BookingSummary
		if err := rows.Scan(&summary.ID, &summary.RoomID, &summary.ClientID,
			&summary.StartTime, &summary.EndTime, &summary.Status); err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "scan room conflict", err)
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "iterate room conflicts", err)
	}
	return out, nil
}

func (s *AvailabilityReadStore) SumEquipmentReserved(ctx context.Context, equipmentIDs []uuid.UUID, start, end time.Time, exclude *uuid.UUID) (map[uuid.UUID]int, error) {
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

	ids := make([]string, len(equipmentIDs))
	for i, id := range equipmentIDs {
		ids[i] = id.String()
	}

	rows, err := s.dbtx.Query(ctx, query, ids, start, end, exclude)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "sum reserved equipment", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]int, len(equipmentIDs))
	for rows.Next() {
		var id uuid.UUID
		var total int
		if err := rows.Scan(&id, &total); err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "scan reserved equipment", err)
		}
		out[id] = total
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "iterate reserved equipment", err)
	}
	return out, nil
}

func (s *AvailabilityReadStore) RoomExists(ctx context.Context, roomID uuid.UUID) (bool, error) {
	var exists bool
	err := s.dbtx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rooms WHERE id = $1)`, roomID).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "check room exists", err)
	}
	return exists, nil
}
