package auth

import (
	"context"
	"time"

	"github.com/campus-events/api/model"
	"gorm.io/gorm"
)

// BlacklistService handles JWT token revocation
type BlacklistService struct {
	db *gorm.DB
}

// NewBlacklistService creates a new blacklist service
func NewBlacklistService(db *gorm.DB) *BlacklistService {
	return &BlacklistService{db: db}
}

// RevokeToken adds a token to the blacklist
func (s *BlacklistService) RevokeToken(ctx context.Context, claims *Claims, reason string) error {
	entry := model.JWTTokenBlacklist{
		Token:       claims.ID,
		PrincipalID: claims.UserID,
		Role:        claims.Role,
		Reason:      reason,
		ExpiresAt:   claims.ExpiresAt.Time,
	}

	return s.db.WithContext(ctx).Create(&entry).Error
}

// IsTokenRevoked checks if a token is in the blacklist
func (s *BlacklistService) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.JWTTokenBlacklist{}).
		Where("token = ?", jti).
		Count(&count).
		Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// RevokeAllTokens increments the principal's token version to invalidate all tokens
func (s *BlacklistService) RevokeAllTokens(ctx context.Context, role string, principalID uint) error {
	var target interface{}
	switch role {
	case RoleAdmin:
		target = &model.Admin{}
	case RoleStudent:
		target = &model.Student{}
	default:
		return ErrInvalidClaims
	}

	return s.db.WithContext(ctx).
		Model(target).
		Where("id = ?", principalID).
		UpdateColumn("token_version", gorm.Expr("token_version + ?", 1)).
		Error
}

// CleanupExpiredTokens removes entries whose tokens have expired and returns how many were removed
func (s *BlacklistService) CleanupExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&model.JWTTokenBlacklist{})
	return result.RowsAffected, result.Error
}
