package model

import "time"

// EventStatus is the lifecycle status of an event
type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusCancelled EventStatus = "cancelled"
)

// IsValid reports whether s is a known status
func (s EventStatus) IsValid() bool {
	return s == EventStatusActive || s == EventStatusCancelled
}

// CanTransitionTo reports whether moving from s to next is a legal lifecycle step.
// The only transition is active -> cancelled.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	return s == EventStatusActive && next == EventStatusCancelled
}

// CheckInLeadTime is how long before the start an event opens for check-in
const CheckInLeadTime = 30 * time.Minute

// Event is a campus event owned by exactly one admin.
// Events are never deleted; cancelling moves Status to cancelled and keeps registrations.
type Event struct {
	ID                   uint        `gorm:"primaryKey" json:"id"`
	CreatedAt            time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
	Title                string      `gorm:"not null;type:varchar(255)" json:"title"`
	Description          string      `gorm:"type:text" json:"description"`
	EventType            string      `gorm:"not null;type:varchar(100)" json:"event_type"`
	StartDate            time.Time   `gorm:"not null;index" json:"start_date"`
	EndDate              time.Time   `gorm:"not null" json:"end_date"`
	Location             string      `gorm:"not null;type:varchar(255)" json:"location"`
	MaxParticipants      int         `gorm:"not null;check:max_participants > 0" json:"max_participants"`
	RegistrationDeadline time.Time   `gorm:"not null" json:"registration_deadline"`
	Requirements         string      `gorm:"type:text" json:"requirements"`
	Prizes               string      `gorm:"type:text" json:"prizes"`
	ContactInfo          string      `gorm:"type:varchar(255)" json:"contact_info"`
	ImageURL             string      `gorm:"type:varchar(512)" json:"image_url"`
	CreatedBy            uint        `gorm:"not null;index" json:"created_by"`
	Status               EventStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	// Relationships
	Admin         *Admin         `gorm:"foreignKey:CreatedBy;constraint:OnDelete:RESTRICT" json:"admin,omitempty"`
	Registrations []Registration `gorm:"foreignKey:EventID" json:"registrations,omitempty"`
}

// IsActive reports whether the event accepts registrations at all
func (e *Event) IsActive() bool {
	return e.Status == EventStatusActive
}

// CheckInOpensAt is the first instant at which registered students may check in
func (e *Event) CheckInOpensAt() time.Time {
	return e.StartDate.Add(-CheckInLeadTime)
}
