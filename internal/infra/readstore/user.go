package readstore

import (
	"context"
	"errors"
	"log/slog"

	"studio-booking/internal/infra"
	"studio-booking/internal/infra/db"
	"studio-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserReadStore struct {
	dbtx   db.DBTX
	logger *slog.Logger
}

func NewUserReadStore(dbtx db.DBTX) *UserReadStore {
	return &UserReadStore{dbtx: dbtx, logger: slog.Default()}
}

// FindByEmail returns the view plus the stored password hash; the hash never
// leaves the auth path. Returns a nil view when the email is unknown.
func (s *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	const query = `
		SELECT id, email, name, role, is_active, password_hash
		FROM users
		WHERE lower(email) = lower($1)`

	var view queries.AuthorizedUserView
	var hash string
	err := s.dbtx.QueryRow(ctx, query, email).Scan(
		&view.ID, &view.Email, &view.Name, &view.Role, &view.IsActive, &hash,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", infra.WrapRepoErr(s.logger, infra.KindDBFailure, "select user by email", err)
	}
	return &view, hash, nil
}

func (s *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	const query = `
		SELECT id, email, name, role, is_active
		FROM users
		WHERE id = $1`

	var view queries.AuthorizedUserView
	err := s.dbtx.QueryRow(ctx, query, id).Scan(
		&view.ID, &view.Email, &view.Name, &view.Role, &view.IsActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "select user by id", err)
	}
	return &view, nil
}
