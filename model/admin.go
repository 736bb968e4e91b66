package model

import "time"

// Admin is an event organizer. Admins and students are disjoint principals.
type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"uniqueIndex;not null;type:varchar(254)" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"` // Never expose password in JSON
	Name         string    `gorm:"not null;type:varchar(255)" json:"name"`
	College      string    `gorm:"not null;type:varchar(255)" json:"college"`
	TokenVersion int       `gorm:"default:0" json:"-"` // Increment to invalidate all tokens

	// Relationships
	Events []Event `gorm:"foreignKey:CreatedBy" json:"-"`
}
