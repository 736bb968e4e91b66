package database

import (
	"fmt"
	"strings"

	"github.com/campus-events/api/model"
	"github.com/campus-events/api/utils/auth"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// AdminSeed carries the credentials for the default admin account
type AdminSeed struct {
	Email    string
	Password string
	Name     string
	College  string
}

// SeedAdmin creates the default admin when the admins table is empty.
// It is a no-op when credentials are not configured.
func (s *Seeder) SeedAdmin(seed AdminSeed) error {
	var count int64
	if err := s.db.Model(&model.Admin{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Debug().Msg("admin already exists, skipping seed")
		return nil
	}

	if seed.Email == "" || seed.Password == "" {
		log.Warn().Msg("ADMIN_EMAIL and ADMIN_PASSWORD not set, skipping default admin")
		return nil
	}

	passwordHash, err := auth.HashPassword(seed.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.Admin{
		Email:        strings.ToLower(strings.TrimSpace(seed.Email)),
		PasswordHash: passwordHash,
		Name:         seed.Name,
		College:      seed.College,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Info().Str("email", admin.Email).Msg("created default admin")
	return nil
}
