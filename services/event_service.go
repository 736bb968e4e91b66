package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campus-events/api/model"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventService manages the event catalog
type EventService struct {
	db *gorm.DB
}

// NewEventService creates a new event service
func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// CreateEventInput is the data needed to create an event
type CreateEventInput struct {
	Title                string    `json:"title" validate:"required,max=255"`
	Description          string    `json:"description"`
	EventType            string    `json:"eventType" validate:"required,max=100"`
	StartDate            time.Time `json:"startDate" validate:"required"`
	EndDate              time.Time `json:"endDate" validate:"required,gtefield=StartDate"`
	Location             string    `json:"location" validate:"required,max=255"`
	MaxParticipants      int       `json:"maxParticipants" validate:"required,gt=0"`
	RegistrationDeadline time.Time `json:"registrationDeadline" validate:"required,ltefield=StartDate"`
	Requirements         string    `json:"requirements"`
	Prizes               string    `json:"prizes"`
	ContactInfo          string    `json:"contactInfo" validate:"max=255"`
	ImageURL             string    `json:"imageUrl" validate:"omitempty,url,max=512"`
}

// UpdateEventInput patches an event; nil fields are left unchanged.
// Status is not patchable; use Cancel.
type UpdateEventInput struct {
	Title                *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description          *string    `json:"description"`
	EventType            *string    `json:"eventType" validate:"omitempty,min=1,max=100"`
	StartDate            *time.Time `json:"startDate"`
	EndDate              *time.Time `json:"endDate"`
	Location             *string    `json:"location" validate:"omitempty,min=1,max=255"`
	MaxParticipants      *int       `json:"maxParticipants" validate:"omitempty,gt=0"`
	RegistrationDeadline *time.Time `json:"registrationDeadline"`
	Requirements         *string    `json:"requirements"`
	Prizes               *string    `json:"prizes"`
	ContactInfo          *string    `json:"contactInfo" validate:"omitempty,max=255"`
	ImageURL             *string    `json:"imageUrl" validate:"omitempty,url,max=512"`
}

func validateSchedule(start, end, deadline time.Time) error {
	if end.Before(start) {
		return fmt.Errorf("%w: end date must not be before start date", ErrInvalidSchedule)
	}
	if deadline.After(start) {
		return fmt.Errorf("%w: registration deadline must not be after start date", ErrInvalidSchedule)
	}
	return nil
}

// adminSummary limits joined organizer rows to display fields
func adminSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "college")
}

// Create adds an active event owned by adminID
func (s *EventService) Create(ctx context.Context, adminID uint, input CreateEventInput) (*model.Event, error) {
	if err := validateSchedule(input.StartDate, input.EndDate, input.RegistrationDeadline); err != nil {
		return nil, err
	}

	event := &model.Event{
		Title:                strings.TrimSpace(input.Title),
		Description:          input.Description,
		EventType:            strings.TrimSpace(input.EventType),
		StartDate:            input.StartDate.UTC(),
		EndDate:              input.EndDate.UTC(),
		Location:             strings.TrimSpace(input.Location),
		MaxParticipants:      input.MaxParticipants,
		RegistrationDeadline: input.RegistrationDeadline.UTC(),
		Requirements:         input.Requirements,
		Prizes:               input.Prizes,
		ContactInfo:          input.ContactInfo,
		ImageURL:             input.ImageURL,
		CreatedBy:            adminID,
		Status:               model.EventStatusActive,
	}

	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	log.Info().Uint("event_id", event.ID).Uint("admin_id", adminID).Msg("event created")
	return event, nil
}

// ListActive returns active events with their organizer, newest first
func (s *EventService) ListActive(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	err := s.db.WithContext(ctx).
		Preload("Admin", adminSummary).
		Where("status = ?", model.EventStatusActive).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// Get returns any event by id with its organizer and registrations
func (s *EventService) Get(ctx context.Context, id uint) (*model.Event, error) {
	var event model.Event
	err := s.db.WithContext(ctx).
		Preload("Admin", adminSummary).
		Preload("Registrations", func(db *gorm.DB) *gorm.DB {
			return db.Order("registration_date ASC")
		}).
		Preload("Registrations.Student", studentSummary).
		First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

// GetOwned returns the event only if adminID created it. Events owned by
// someone else are reported as ErrEventNotFound.
func (s *EventService) GetOwned(ctx context.Context, adminID, id uint) (*model.Event, error) {
	var event model.Event
	err := s.db.WithContext(ctx).
		Where("id = ? AND created_by = ?", id, adminID).
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

// ListByAdmin returns every event adminID created, in any status, with registrations
func (s *EventService) ListByAdmin(ctx context.Context, adminID uint) ([]model.Event, error) {
	var events []model.Event
	err := s.db.WithContext(ctx).
		Preload("Registrations", func(db *gorm.DB) *gorm.DB {
			return db.Order("registration_date ASC")
		}).
		Preload("Registrations.Student", studentSummary).
		Where("created_by = ?", adminID).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list admin events: %w", err)
	}
	return events, nil
}

// Update applies a patch to an event owned by adminID and returns the event
// before and after the change
func (s *EventService) Update(ctx context.Context, adminID, id uint, input UpdateEventInput) (before, after *model.Event, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event model.Event
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND created_by = ?", id, adminID).
			First(&event).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load event: %w", err)
		}

		original := event
		applyEventPatch(&event, input)

		if err := validateSchedule(event.StartDate, event.EndDate, event.RegistrationDeadline); err != nil {
			return err
		}

		if input.MaxParticipants != nil && *input.MaxParticipants < original.MaxParticipants {
			var taken int64
			if err := tx.Model(&model.Registration{}).
				Where("event_id = ? AND status IN ?", id, activeStatuses).
				Count(&taken).Error; err != nil {
				return fmt.Errorf("failed to count registrations: %w", err)
			}
			if int64(event.MaxParticipants) < taken {
				return ErrCapacityBelowRegistrations
			}
		}

		if err := tx.Save(&event).Error; err != nil {
			return fmt.Errorf("failed to update event: %w", err)
		}

		before, after = &original, &event
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info().Uint("event_id", id).Uint("admin_id", adminID).Msg("event updated")
	return before, after, nil
}

func applyEventPatch(event *model.Event, input UpdateEventInput) {
	if input.Title != nil {
		event.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.EventType != nil {
		event.EventType = strings.TrimSpace(*input.EventType)
	}
	if input.StartDate != nil {
		event.StartDate = input.StartDate.UTC()
	}
	if input.EndDate != nil {
		event.EndDate = input.EndDate.UTC()
	}
	if input.Location != nil {
		event.Location = strings.TrimSpace(*input.Location)
	}
	if input.MaxParticipants != nil {
		event.MaxParticipants = *input.MaxParticipants
	}
	if input.RegistrationDeadline != nil {
		event.RegistrationDeadline = input.RegistrationDeadline.UTC()
	}
	if input.Requirements != nil {
		event.Requirements = *input.Requirements
	}
	if input.Prizes != nil {
		event.Prizes = *input.Prizes
	}
	if input.ContactInfo != nil {
		event.ContactInfo = *input.ContactInfo
	}
	if input.ImageURL != nil {
		event.ImageURL = *input.ImageURL
	}
}

// Cancel moves an event owned by adminID to cancelled. Registrations are kept.
// Cancelling a cancelled event is a no-op.
func (s *EventService) Cancel(ctx context.Context, adminID, id uint) (*model.Event, error) {
	var event model.Event

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND created_by = ?", id, adminID).
			First(&event).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load event: %w", err)
		}

		if !event.Status.CanTransitionTo(model.EventStatusCancelled) {
			return nil
		}

		if err := tx.Model(&event).Update("status", model.EventStatusCancelled).Error; err != nil {
			return fmt.Errorf("failed to cancel event: %w", err)
		}
		event.Status = model.EventStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("event_id", id).Uint("admin_id", adminID).Msg("event cancelled")
	return &event, nil
}

// SetImageURL records the poster URL for an event owned by adminID
func (s *EventService) SetImageURL(ctx context.Context, adminID, id uint, url string) (*model.Event, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("id = ? AND created_by = ?", id, adminID).
		Update("image_url", url)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to set image: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrEventNotFound
	}
	return s.GetOwned(ctx, adminID, id)
}
