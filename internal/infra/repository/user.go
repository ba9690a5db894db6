package repository

import (
	"context"
	"errors"
	"log/slog"

	"studio-booking/internal/domain/user"
	"studio-booking/internal/infra"
	"studio-booking/internal/infra/db"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository struct {
	dbtx   db.DBTX
	logger *slog.Logger
}

func NewUserRepository(dbtx db.DBTX) shared.UserRepository {
	return &UserRepository{dbtx: dbtx, logger: slog.Default()}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) (uuid.UUID, error) {
	const insert = `
		INSERT INTO users (
			id, email, password_hash, name, phone, role,
			staff_position, staff_specialties, client_company, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	var position *string
	var specialties []string
	if sd := u.StaffDetails(); sd != nil {
		position = &sd.Position
		specialties = sd.Specialties
	}
	var company *string
	if cd := u.ClientDetails(); cd != nil {
		company = &cd.Company
	}

	_, err := r.dbtx.Exec(ctx, insert,
		u.ID(), u.Email().Value(), u.PasswordHash(), u.Name(), u.Phone(), u.Role().String(),
		position, specialties, company, u.IsActive(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return uuid.Nil, infra.WrapRepoErr(r.logger, infra.KindDuplicateKey, "insert user",
				errs.Mark(err, shared.ErrDuplicateEmail))
		}
		return uuid.Nil, wrapWriteErr(r.logger, "insert user", err)
	}

	if sd := u.StaffDetails(); sd != nil {
		for _, w := range sd.Availability {
			const insertWindow = `
				INSERT INTO staff_availability (user_id, weekday, start_min, end_min)
				VALUES ($1, $2, $3, $4)`
			if _, err := r.dbtx.Exec(ctx, insertWindow, u.ID(), w.Weekday(), w.StartMin(), w.EndMin()); err != nil {
				return uuid.Nil, wrapWriteErr(r.logger, "insert staff availability", err)
			}
		}
	}
	if cd := u.ClientDetails(); cd != nil {
		for i, methodID := range cd.PaymentMethodIDs {
			const insertMethod = `
				INSERT INTO client_payment_methods (user_id, payment_method_id, position)
				VALUES ($1, $2, $3)`
			if _, err := r.dbtx.Exec(ctx, insertMethod, u.ID(), methodID, i); err != nil {
				return uuid.Nil, wrapWriteErr(r.logger, "insert client payment method", err)
			}
		}
	}

	return u.ID(), nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	tag, err := r.dbtx.Exec(ctx, `UPDATE users SET last_login = now() WHERE id = $1`, userID)
	if err != nil {
		return wrapWriteErr(r.logger, "update last login", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "update last login", pgx.ErrNoRows)
	}
	return nil
}
