package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campus-events/api/model"
	"github.com/campus-events/api/utils/auth"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// IdentityService manages admin and student accounts
type IdentityService struct {
	db *gorm.DB
}

// NewIdentityService creates a new identity service
func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{db: db}
}

// RegisterAdminInput is the data needed to create an admin account
type RegisterAdminInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=255"`
	College  string `json:"college" validate:"required,max=255"`
}

// RegisterStudentInput is the data needed to create a student account
type RegisterStudentInput struct {
	Email     string  `json:"email" validate:"required,email,max=254"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
	Name      string  `json:"name" validate:"required,max=255"`
	StudentID string  `json:"studentId" validate:"required,max=64"`
	College   string  `json:"college" validate:"required,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
}

// UpdateProfileInput patches a student's profile; nil fields are unchanged
type UpdateProfileInput struct {
	Name  *string `json:"name" validate:"omitempty,notblank,max=255"`
	Phone *string `json:"phone" validate:"omitempty,max=32"`
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterAdmin creates an admin account
func (s *IdentityService) RegisterAdmin(ctx context.Context, input RegisterAdminInput) (*model.Admin, error) {
	email := NormalizeEmail(input.Email)
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&model.Admin{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	passwordHash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	admin := &model.Admin{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         strings.TrimSpace(input.Name),
		College:      strings.TrimSpace(input.College),
	}
	if err := db.Create(admin).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	log.Info().Uint("admin_id", admin.ID).Msg("admin registered")
	return admin, nil
}

// RegisterStudent creates a student account
func (s *IdentityService) RegisterStudent(ctx context.Context, input RegisterStudentInput) (*model.Student, error) {
	email := NormalizeEmail(input.Email)
	studentNumber := strings.TrimSpace(input.StudentID)
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&model.Student{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	if err := db.Model(&model.Student{}).Where("student_number = ?", studentNumber).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check student id: %w", err)
	}
	if count > 0 {
		return nil, ErrStudentIDTaken
	}

	passwordHash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	student := &model.Student{
		Email:         email,
		PasswordHash:  passwordHash,
		Name:          strings.TrimSpace(input.Name),
		StudentNumber: studentNumber,
		College:       strings.TrimSpace(input.College),
		Phone:         input.Phone,
	}
	if err := db.Create(student).Error; err != nil {
		if isUniqueViolation(err) {
			// Lost a race; the index does not say which column collided
			if strings.Contains(err.Error(), "student_number") {
				return nil, ErrStudentIDTaken
			}
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	log.Info().Uint("student_id", student.ID).Msg("student registered")
	return student, nil
}

// AuthenticateAdmin checks admin credentials
func (s *IdentityService) AuthenticateAdmin(ctx context.Context, email, password string) (*model.Admin, error) {
	var admin model.Admin
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}

	if err := auth.VerifyPassword(admin.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &admin, nil
}

// AuthenticateStudent checks student credentials
func (s *IdentityService) AuthenticateStudent(ctx context.Context, email, password string) (*model.Student, error) {
	var student model.Student
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	if err := auth.VerifyPassword(student.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &student, nil
}

// GetAdmin loads an admin by id
func (s *IdentityService) GetAdmin(ctx context.Context, id uint) (*model.Admin, error) {
	var admin model.Admin
	if err := s.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}
	return &admin, nil
}

// GetStudent loads a student by id
func (s *IdentityService) GetStudent(ctx context.Context, id uint) (*model.Student, error) {
	var student model.Student
	if err := s.db.WithContext(ctx).First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	return &student, nil
}

// UpdateStudentProfile changes a student's name and phone
func (s *IdentityService) UpdateStudentProfile(ctx context.Context, id uint, input UpdateProfileInput) (*model.Student, error) {
	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone == "" {
			updates["phone"] = nil
		} else {
			updates["phone"] = phone
		}
	}

	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&model.Student{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update profile: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrStudentNotFound
		}
	}

	return s.GetStudent(ctx, id)
}
