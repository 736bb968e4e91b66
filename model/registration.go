package model

import "time"

// RegistrationStatus is the state of a student's registration for an event
type RegistrationStatus string

const (
	RegistrationStatusRegistered RegistrationStatus = "registered"
	RegistrationStatusCheckedIn  RegistrationStatus = "checked_in"
)

// Registration ties one student to one event.
// (event_id, student_id) is unique; checked_in is terminal.
type Registration struct {
	ID               uint               `gorm:"primaryKey" json:"id"`
	EventID          uint               `gorm:"not null;uniqueIndex:idx_registration_event_student;index" json:"event_id"`
	StudentID        uint               `gorm:"not null;uniqueIndex:idx_registration_event_student;index" json:"student_id"`
	RegistrationDate time.Time          `gorm:"not null" json:"registration_date"`
	CheckInTime      *time.Time         `json:"check_in_time"`
	Status           RegistrationStatus `gorm:"type:varchar(20);not null;default:'registered';index" json:"status"`
	CreatedAt        time.Time          `json:"created_at"`

	// Relationships
	Event   *Event   `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"event,omitempty"`
	Student *Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
}

// TableName keeps the table name used by the student and admin front-ends
func (Registration) TableName() string {
	return "event_registrations"
}

// IsCheckedIn reports whether the registration reached its terminal state
func (r *Registration) IsCheckedIn() bool {
	return r.Status == RegistrationStatusCheckedIn
}
