package repository

import (
	"errors"
	"log/slog"

	"studio-booking/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation    = "23505"
	pgErrCodeForeignKeyViolated = "23503"
	pgErrCodeExclusionViolation = "23P01"
)

// wrapWriteErr classifies a write failure into a repository error kind.
// Serialization failures stay reachable through Unwrap so the unit of work
// can still retry them.
func wrapWriteErr(logger *slog.Logger, msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeUniqueViolation:
			return infra.WrapRepoErr(logger, infra.KindDuplicateKey, msg, err)
		case pgErrCodeForeignKeyViolated:
			return infra.WrapRepoErr(logger, infra.KindForeignKeyViolated, msg, err)
		case pgErrCodeExclusionViolation:
			return infra.WrapRepoErr(logger, infra.KindConflict, msg, err)
		}
	}
	return infra.WrapRepoErr(logger, infra.KindDBFailure, msg, err)
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
