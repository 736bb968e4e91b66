package auth

import (
	"github.com/campus-events/api/model"
	"github.com/campus-events/api/services"
	authutil "github.com/campus-events/api/utils/auth"
	"github.com/campus-events/api/utils/middleware"
	"github.com/campus-events/api/utils/validation"
	"gorm.io/gorm"
)

// AuthHandler handles authentication-related requests for admins and students
type AuthHandler struct {
	identity             *services.IdentityService
	jwtManager           *authutil.JWTManager
	blacklistService     *authutil.BlacklistService
	bruteForceProtection *middleware.BruteForceProtection
	validator            *validation.Validator
}

// NewAuthHandler creates a new auth handler. bruteForceProtection may be nil.
func NewAuthHandler(db *gorm.DB, jwtManager *authutil.JWTManager, bruteForceProtection *middleware.BruteForceProtection) *AuthHandler {
	return &AuthHandler{
		identity:             services.NewIdentityService(db),
		jwtManager:           jwtManager,
		blacklistService:     authutil.NewBlacklistService(db),
		bruteForceProtection: bruteForceProtection,
		validator:            validation.NewValidator(),
	}
}

// AuthResponse is returned by every successful register or login call
type AuthResponse struct {
	Token        string         `json:"token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresIn    int            `json:"expires_in"` // in seconds
	Admin        *model.Admin   `json:"admin,omitempty"`
	Student      *model.Student `json:"student,omitempty"`
}

func (h *AuthHandler) issue(p authutil.Principal) (*AuthResponse, error) {
	pair, err := h.jwtManager.IssueTokens(p)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

func adminPrincipal(a *model.Admin) authutil.Principal {
	return authutil.Principal{ID: a.ID, Email: a.Email, Role: authutil.RoleAdmin, TokenVersion: a.TokenVersion}
}

func studentPrincipal(s *model.Student) authutil.Principal {
	return authutil.Principal{ID: s.ID, Email: s.Email, Role: authutil.RoleStudent, TokenVersion: s.TokenVersion}
}
