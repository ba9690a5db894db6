package readstore

import (
	"context"
	"errors"
	"log/slog"

	"studio-booking/internal/domain/studio"
	"studio-booking/internal/infra"
	"studio-booking/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RoomReadStore struct {
	dbtx   db.DBTX
	logger *slog.Logger
}

func NewRoomReadStore(dbtx db.DBTX) *RoomReadStore {
	return &RoomReadStore{dbtx: dbtx, logger: slog.Default()}
}

// FindByID returns nil when the room does not exist.
func (s *RoomReadStore) FindByID(ctx context.Context, id uuid.UUID) (*studio.Room, error) {
	const query = `
		SELECT id, studio_id, name, capacity, hourly_rate_cents
		FROM rooms
		WHERE id = $1`

	var (
		roomID, studioID uuid.UUID
		name             string
		capacity         int
		rateCents        int64
	)
	err := s.dbtx.QueryRow(ctx, query, id).Scan(&roomID, &studioID, &name, &capacity, &rateCents)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "select room", err)
	}
	return studio.ReconstructRoom(roomID, studioID, name, capacity, rateCents), nil
}
