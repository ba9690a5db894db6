package user

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleClient Role = "client"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleClient:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// Capability is a named action checked at the start of each lifecycle
// transition instead of scattering ad hoc role comparisons.
type Capability string

const (
	CapCreateBooking   Capability = "booking:create"
	CapConfirmBooking  Capability = "booking:confirm"
	CapCompleteBooking Capability = "booking:complete"
	CapCancelAny       Capability = "booking:cancel_any"
	CapUpdateAny       Capability = "booking:update_any"
	CapRecordPayment   Capability = "payment:record"
	CapManageUsers     Capability = "user:manage"
)

var roleCapabilities = map[Role]map[Capability]struct{}{
	RoleClient: {
		CapCreateBooking: {},
	},
	RoleStaff: {
		CapCreateBooking:   {},
		CapConfirmBooking:  {},
		CapCompleteBooking: {},
		CapCancelAny:       {},
		CapUpdateAny:       {},
		CapRecordPayment:   {},
	},
	RoleAdmin: {
		CapCreateBooking:   {},
		CapConfirmBooking:  {},
		CapCompleteBooking: {},
		CapCancelAny:       {},
		CapUpdateAny:       {},
		CapRecordPayment:   {},
		CapManageUsers:     {},
	},
}

func (r Role) Has(cap Capability) bool {
	caps, ok := roleCapabilities[r]
	if !ok {
		return false
	}
	_, ok = caps[cap]
	return ok
}
