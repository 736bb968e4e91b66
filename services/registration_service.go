package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campus-events/api/model"
	"github.com/campus-events/api/utils/metrics"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RegistrationService owns the registration ledger: register, check in, cancel
type RegistrationService struct {
	db *gorm.DB
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{db: db}
}

// activeStatuses are the registration states that occupy a seat
var activeStatuses = []model.RegistrationStatus{
	model.RegistrationStatusRegistered,
	model.RegistrationStatusCheckedIn,
}

// Register creates a registration for studentID on eventID.
//
// The event row is locked for the whole transaction, so concurrent registrations for
// the same event run the checks one at a time. Checks run in order: event exists and
// is active, deadline not passed, no existing registration, a seat is free.
func (s *RegistrationService) Register(ctx context.Context, eventID, studentID uint, now time.Time) (*model.Registration, error) {
	var registration *model.Registration

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event model.Event
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, eventID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load event: %w", err)
		}

		if !event.IsActive() {
			return ErrEventNotActive
		}

		if now.After(event.RegistrationDeadline) {
			return ErrRegistrationClosed
		}

		var existing int64
		if err := tx.Model(&model.Registration{}).
			Where("event_id = ? AND student_id = ?", eventID, studentID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check existing registration: %w", err)
		}
		if existing > 0 {
			return ErrAlreadyRegistered
		}

		var taken int64
		if err := tx.Model(&model.Registration{}).
			Where("event_id = ? AND status IN ?", eventID, activeStatuses).
			Count(&taken).Error; err != nil {
			return fmt.Errorf("failed to count registrations: %w", err)
		}
		if taken >= int64(event.MaxParticipants) {
			return ErrEventFull
		}

		r := model.Registration{
			EventID:          eventID,
			StudentID:        studentID,
			RegistrationDate: now,
			Status:           model.RegistrationStatusRegistered,
		}
		if err := tx.Create(&r).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyRegistered
			}
			return fmt.Errorf("failed to create registration: %w", err)
		}

		registration = &r
		return nil
	})

	metrics.RecordRegistration(registrationOutcome(err))
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("event_id", eventID).
		Uint("student_id", studentID).
		Msg("student registered for event")

	return registration, nil
}

func registrationOutcome(err error) string {
	switch {
	case err == nil:
		return "registered"
	case errors.Is(err, ErrEventFull):
		return "event_full"
	case errors.Is(err, ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, ErrRegistrationClosed):
		return "registration_closed"
	case errors.Is(err, ErrEventNotFound), errors.Is(err, ErrEventNotActive):
		return "not_found"
	default:
		return "error"
	}
}

// CheckIn moves a registration from registered to checked_in. Check-in opens
// model.CheckInLeadTime before the event starts and stays open after that.
func (s *RegistrationService) CheckIn(ctx context.Context, eventID, studentID uint, now time.Time) (*model.Registration, error) {
	var registration model.Registration

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Event").
			Where("event_id = ? AND student_id = ?", eventID, studentID).
			First(&registration).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotRegistered
		}
		if err != nil {
			return fmt.Errorf("failed to load registration: %w", err)
		}

		if registration.IsCheckedIn() {
			return ErrAlreadyCheckedIn
		}

		if registration.Event == nil {
			return ErrEventNotFound
		}
		if now.Before(registration.Event.CheckInOpensAt()) {
			return ErrCheckInNotOpen
		}

		result := tx.Model(&model.Registration{}).
			Where("id = ? AND status = ?", registration.ID, model.RegistrationStatusRegistered).
			Updates(map[string]interface{}{
				"status":        model.RegistrationStatusCheckedIn,
				"check_in_time": now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to check in: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyCheckedIn
		}

		registration.Status = model.RegistrationStatusCheckedIn
		registration.CheckInTime = &now
		return nil
	})

	metrics.RecordCheckIn(checkInOutcome(err))
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("event_id", eventID).
		Uint("student_id", studentID).
		Msg("student checked in")

	return &registration, nil
}

func checkInOutcome(err error) string {
	switch {
	case err == nil:
		return "checked_in"
	case errors.Is(err, ErrNotRegistered):
		return "not_registered"
	case errors.Is(err, ErrAlreadyCheckedIn):
		return "already_checked_in"
	case errors.Is(err, ErrCheckInNotOpen):
		return "not_open"
	default:
		return "error"
	}
}

// Cancel removes a registration that has not been checked in
func (s *RegistrationService) Cancel(ctx context.Context, eventID, studentID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var registration model.Registration
		err := tx.Where("event_id = ? AND student_id = ?", eventID, studentID).
			First(&registration).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotRegistered
		}
		if err != nil {
			return fmt.Errorf("failed to load registration: %w", err)
		}

		if registration.IsCheckedIn() {
			return ErrCannotCancelCheckedIn
		}

		result := tx.Where("id = ? AND status = ?", registration.ID, model.RegistrationStatusRegistered).
			Delete(&model.Registration{})
		if result.Error != nil {
			return fmt.Errorf("failed to cancel registration: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Checked in between the read and the delete
			return ErrCannotCancelCheckedIn
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().
		Uint("event_id", eventID).
		Uint("student_id", studentID).
		Msg("registration cancelled")

	return nil
}

// studentSummary limits joined student rows to what organizers and the public listing show
func studentSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "student_number", "college")
}

// ListForEvent returns the event's registrations joined with student details
func (s *RegistrationService) ListForEvent(ctx context.Context, eventID uint) ([]model.Registration, error) {
	var registrations []model.Registration
	err := s.db.WithContext(ctx).
		Preload("Student", studentSummary).
		Where("event_id = ?", eventID).
		Order("registration_date ASC").
		Find(&registrations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return registrations, nil
}

// ListForStudent returns the student's registrations joined with event and organizer,
// newest first
func (s *RegistrationService) ListForStudent(ctx context.Context, studentID uint) ([]model.Registration, error) {
	var registrations []model.Registration
	err := s.db.WithContext(ctx).
		Preload("Event").
		Preload("Event.Admin").
		Where("student_id = ?", studentID).
		Order("registration_date DESC").
		Find(&registrations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return registrations, nil
}
