package commands

import (
	"context"
	"errors"

	"studio-booking/internal/domain/user"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/pkg/jwt"
	"studio-booking/internal/pkg/password"
	"studio-booking/internal/usecase/queries"
	"studio-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type RegisterInput struct {
	Email         string
	Password      string
	Name          string
	Phone         string
	Role          string
	StaffProfile  *StaffProfileInput
	ClientProfile *ClientProfileInput
}

type StaffProfileInput struct {
	Position     string
	Specialties  []string
	Availability []AvailabilityWindowInput
}

// AvailabilityWindowInput is a weekly recurring working window in minutes
// from midnight, weekday 0 = Sunday.
type AvailabilityWindowInput struct {
	Weekday  int
	StartMin int
	EndMin   int
}

type ClientProfileInput struct {
	Company          string
	PaymentMethodIDs []uuid.UUID
}

type LoginResult struct {
	Token string
	User  queries.AuthorizedUserView
}

type AuthCommands interface {
	Register(ctx context.Context, actor *Actor, in RegisterInput) (uuid.UUID, error)
	Login(ctx context.Context, email, plain string) (*LoginResult, error)
}

type authCommandsImpl struct {
	uow    shared.UnitOfWork
	users  queries.UserReadStore
	tokens *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, users queries.UserReadStore, tokens *jwt.Service) AuthCommands {
	return &authCommandsImpl{uow: uow, users: users, tokens: tokens}
}

// Register creates a new account. Anonymous signup is limited to the client
// role; staff and admin accounts require an admin actor.
func (c *authCommandsImpl) Register(ctx context.Context, actor *Actor, in RegisterInput) (uuid.UUID, error) {
	role, err := user.NewRole(in.Role)
	if err != nil {
		return uuid.Nil, err
	}
	if role != user.RoleClient {
		if actor == nil || !actor.Role.Has(user.CapManageUsers) {
			return uuid.Nil, ErrForbidden
		}
	}

	email, err := user.NewEmail(in.Email)
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := user.NewPassword(in.Password); err != nil {
		return uuid.Nil, err
	}
	hash, err := password.HashPassword(in.Password)
	if err != nil {
		return uuid.Nil, err
	}

	u := user.NewUser(email, hash, in.Name, in.Phone, role)
	if in.StaffProfile != nil {
		windows := make([]user.AvailabilityWindow, 0, len(in.StaffProfile.Availability))
		for _, w := range in.StaffProfile.Availability {
			window, err := user.NewAvailabilityWindow(w.Weekday, w.StartMin, w.EndMin)
			if err != nil {
				return uuid.Nil, err
			}
			windows = append(windows, window)
		}
		if err := u.SetStaffDetails(&user.StaffDetails{
			Position:     in.StaffProfile.Position,
			Specialties:  in.StaffProfile.Specialties,
			Availability: windows,
		}); err != nil {
			return uuid.Nil, err
		}
	}
	if in.ClientProfile != nil {
		if err := u.SetClientDetails(&user.ClientDetails{
			Company:          in.ClientProfile.Company,
			PaymentMethodIDs: in.ClientProfile.PaymentMethodIDs,
		}); err != nil {
			return uuid.Nil, err
		}
	}

	var id uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created, err := tx.Users().Create(ctx, u)
		if err != nil {
			if errors.Is(err, shared.ErrDuplicateEmail) {
				return errs.Mark(err, ErrEmailTaken)
			}
			return err
		}
		id = created
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (c *authCommandsImpl) Login(ctx context.Context, email, plain string) (*LoginResult, error) {
	normalized, err := user.NewEmail(email)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCredentials)
	}

	view, hash, err := c.users.FindByEmail(ctx, normalized.Value())
	if err != nil {
		return nil, err
	}
	if view == nil {
		// Burn a comparison so a missing account costs the same as a
		// wrong password.
		_ = password.ComparePassword("$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinvali", plain)
		return nil, ErrInvalidCredentials
	}
	if err := password.ComparePassword(hash, plain); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !view.IsActive {
		return nil, ErrUserInactive
	}

	role, err := user.NewRole(view.Role)
	if err != nil {
		return nil, err
	}
	token, err := c.tokens.GenerateToken(view.ID, role)
	if err != nil {
		return nil, errs.Wrap(err, "sign access token")
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdateLastLogin(ctx, view.ID)
	})
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: *view}, nil
}
