package services

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Catalog errors
var (
	ErrEventNotFound              = errors.New("event not found")
	ErrEventNotActive             = errors.New("event is not active")
	ErrCapacityBelowRegistrations = errors.New("max participants cannot be lower than current registrations")
	ErrInvalidSchedule            = errors.New("event schedule is inconsistent")
	ErrInvalidImage               = errors.New("image must be a jpeg, png or webp file")
	ErrImageTooLarge              = errors.New("image exceeds the maximum size")
	ErrImageUploadDisabled        = errors.New("image storage is not configured")
)

// Ledger errors
var (
	ErrRegistrationClosed    = errors.New("registration deadline has passed")
	ErrAlreadyRegistered     = errors.New("already registered for this event")
	ErrEventFull             = errors.New("event is full")
	ErrNotRegistered         = errors.New("not registered for this event")
	ErrAlreadyCheckedIn      = errors.New("already checked in")
	ErrCheckInNotOpen        = errors.New("check-in not available yet")
	ErrCannotCancelCheckedIn = errors.New("cannot cancel after check-in")
)

// Identity errors
var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrStudentIDTaken     = errors.New("student id is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStudentNotFound    = errors.New("student not found")
	ErrAdminNotFound      = errors.New("admin not found")
)

// isUniqueViolation reports whether err is a unique constraint failure on any
// supported driver
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
