package model

import "time"

// Student is a principal that registers for and checks into events
type Student struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Email         string    `gorm:"uniqueIndex;not null;type:varchar(254)" json:"email"`
	PasswordHash  string    `gorm:"not null" json:"-"`
	Name          string    `gorm:"not null;type:varchar(255)" json:"name"`
	StudentNumber string    `gorm:"column:student_number;uniqueIndex;not null;type:varchar(64)" json:"student_id"` // External student identifier
	College       string    `gorm:"not null;type:varchar(255)" json:"college"`
	Phone         *string   `gorm:"type:varchar(32)" json:"phone"`
	TokenVersion  int       `gorm:"default:0" json:"-"`

	// Relationships
	Registrations []Registration `gorm:"foreignKey:StudentID" json:"-"`
}
