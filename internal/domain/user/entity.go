package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrDetailsRoleMismatch is returned when a role-specific profile is set on
// a user of a different role.
var ErrDetailsRoleMismatch = errors.New("profile details do not match the user role")

type User struct {
	id            uuid.UUID
	email         Email
	passwordHash  string
	name          string
	phone         string
	role          Role
	staffDetails  *StaffDetails
	clientDetails *ClientDetails
	lastLogin     *time.Time
	isActive      bool
	createdAt     time.Time
	updatedAt     time.Time
}

// StaffDetails is populated only for staff-role users.
type StaffDetails struct {
	Position     string
	Specialties  []string
	Availability []AvailabilityWindow
}

// ClientDetails is populated only for client-role users. Booking history is
// a derived view and queried separately.
type ClientDetails struct {
	Company          string
	PaymentMethodIDs []uuid.UUID
}

func NewUser(email Email, passwordHash, name, phone string, role Role) *User {
	return &User{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		name:         name,
		phone:        phone,
		role:         role,
		isActive:     true,
	}
}

func (u *User) SetStaffDetails(d *StaffDetails) error {
	if u.role != RoleStaff {
		return ErrDetailsRoleMismatch
	}
	u.staffDetails = d
	return nil
}

func (u *User) SetClientDetails(d *ClientDetails) error {
	if u.role != RoleClient {
		return ErrDetailsRoleMismatch
	}
	u.clientDetails = d
	return nil
}

func (u *User) ID() uuid.UUID                 { return u.id }
func (u *User) Email() Email                  { return u.email }
func (u *User) PasswordHash() string          { return u.passwordHash }
func (u *User) Name() string                  { return u.name }
func (u *User) Phone() string                 { return u.phone }
func (u *User) Role() Role                    { return u.role }
func (u *User) StaffDetails() *StaffDetails   { return u.staffDetails }
func (u *User) ClientDetails() *ClientDetails { return u.clientDetails }
func (u *User) LastLogin() *time.Time         { return u.lastLogin }
func (u *User) IsActive() bool                { return u.isActive }
func (u *User) CreatedAt() time.Time          { return u.createdAt }
func (u *User) UpdatedAt() time.Time          { return u.updatedAt }
