package user

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrInvalidRole       = errors.New("invalid role")
	ErrPasswordTooWeak   = errors.New("password must be at least 8 characters long")
	ErrInvalidWindow     = errors.New("invalid availability window")
	ErrInvalidWeekday    = errors.New("weekday must be between 0 (Sunday) and 6 (Saturday)")
	ErrWindowOutOfBounds = errors.New("availability window must fall within a single day")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email is stored lowercase; uniqueness is case-insensitive at the store boundary.
type Email struct {
	value string
}

func NewEmail(s string) (Email, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !emailRegex.MatchString(s) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: s}, nil
}

func (e Email) Value() string {
	return e.value
}

type Password struct {
	value string
}

func NewPassword(s string) (Password, error) {
	if len(s) < 8 {
		return Password{}, ErrPasswordTooWeak
	}
	return Password{value: s}, nil
}

func (p Password) Value() string {
	return p.value
}

// AvailabilityWindow is a weekly recurring staff working window,
// minutes from midnight, half-open [StartMin, EndMin).
type AvailabilityWindow struct {
	weekday  int
	startMin int
	endMin   int
}

func NewAvailabilityWindow(weekday, startMin, endMin int) (AvailabilityWindow, error) {
	if weekday < 0 || weekday > 6 {
		return AvailabilityWindow{}, ErrInvalidWeekday
	}
	if startMin < 0 || endMin > 24*60 {
		return AvailabilityWindow{}, ErrWindowOutOfBounds
	}
	if startMin >= endMin {
		return AvailabilityWindow{}, ErrInvalidWindow
	}
	return AvailabilityWindow{weekday: weekday, startMin: startMin, endMin: endMin}, nil
}

func (w AvailabilityWindow) Weekday() int  { return w.weekday }
func (w AvailabilityWindow) StartMin() int { return w.startMin }
func (w AvailabilityWindow) EndMin() int   { return w.endMin }

// Contains reports whether [startMin, endMin) on the given weekday
// falls entirely inside this window.
func (w AvailabilityWindow) Contains(weekday, startMin, endMin int) bool {
	return w.weekday == weekday && w.startMin <= startMin && endMin <= w.endMin
}
