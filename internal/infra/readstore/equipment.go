package readstore

import (
	"context"
	"log/slog"

	"studio-booking/internal/domain/equipment"
	"studio-booking/internal/infra"
	"studio-booking/internal/infra/db"

	"github.com/google/uuid"
)

type EquipmentReadStore struct {
	dbtx   db.DBTX
	logger *slog.Logger
}

func NewEquipmentReadStore(dbtx db.DBTX) *EquipmentReadStore {
	return &EquipmentReadStore{dbtx: dbtx, logger: slog.Default()}
}

// ByIDs returns the known items keyed by id; unknown ids are simply absent
// from the result.
func (s *EquipmentReadStore) ByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*equipment.Equipment, error) {
	const query = `SELECT id, studio_id, name, stock FROM equipment WHERE id = ANY($1::uuid[])`

	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}

	rows, err := s.dbtx.Query(ctx, query, strs)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "select equipment", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]*equipment.Equipment, len(ids))
	for rows.Next() {
		var id, studioID uuid.UUID
		var name string
		var stock int
		if err := rows.Scan(&id, &studioID, &name, &stock); err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "scan equipment", err)
		}
		out[id] = equipment.ReconstructEquipment(id, studioID, name, stock)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "iterate equipment", err)
	}
	return out, nil
}
