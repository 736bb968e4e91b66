package middleware

import (
	"errors"
	"strings"

	"github.com/campus-events/api/model"
	"github.com/campus-events/api/utils/auth"
	"github.com/campus-events/api/utils/response"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AuthMiddleware handles JWT authentication and role checks
type AuthMiddleware struct {
	jwtManager       *auth.JWTManager
	blacklistService *auth.BlacklistService
	db               *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:       jwtManager,
		blacklistService: auth.NewBlacklistService(db),
		db:               db,
	}
}

// Required is middleware that requires a valid access token for either role
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := m.authenticate(c); !ok {
			return err
		}
		return c.Next()
	}
}

// RequireAdmin is middleware that requires an admin access token
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return m.requireRole(auth.RoleAdmin, "Admin role required")
}

// RequireStudent is middleware that requires a student access token
func (m *AuthMiddleware) RequireStudent() fiber.Handler {
	return m.requireRole(auth.RoleStudent, "Student role required")
}

func (m *AuthMiddleware) requireRole(role, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := m.authenticate(c); !ok {
			return err
		}

		if userRole, _ := GetUserRole(c); userRole != role {
			return response.Forbidden(c, message)
		}

		return c.Next()
	}
}

// authenticate resolves the bearer token into a principal and stores it in Locals.
// When it reports false the rejection has already been written to c.
func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (bool, error) {
	// Get token from Authorization header
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return false, response.Unauthorized(c, "Missing authorization token")
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return false, response.Unauthorized(c, "Invalid authorization format")
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return false, response.Unauthorized(c, "Token has expired")
		}
		return false, response.Unauthorized(c, "Invalid token")
	}

	// Check if it's an access token
	if claims.TokenType != auth.TokenTypeAccess {
		return false, response.Unauthorized(c, "Invalid token type")
	}

	// Check if token is revoked (blacklisted)
	isRevoked, err := m.blacklistService.IsTokenRevoked(c.UserContext(), claims.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to check token blacklist")
		return false, response.InternalServerError(c, "Failed to check token status")
	}
	if isRevoked {
		return false, response.Unauthorized(c, "Token has been revoked")
	}

	// Load the principal from the table matching its role and verify token version
	tokenVersion, err := m.loadTokenVersion(c, claims)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, response.Unauthorized(c, "User not found")
		}
		log.Error().Err(err).Uint("user_id", claims.UserID).Msg("failed to load principal")
		return false, response.InternalServerError(c, "Failed to load user")
	}

	if tokenVersion != claims.TokenVersion {
		return false, response.Unauthorized(c, "Token has been invalidated")
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("user_email", claims.Email)
	c.Locals("user_role", claims.Role)
	c.Locals("claims", claims)
	c.Locals("token_jti", claims.ID)

	return true, nil
}

func (m *AuthMiddleware) loadTokenVersion(c *fiber.Ctx, claims *auth.Claims) (int, error) {
	db := m.db.WithContext(c.UserContext())

	switch claims.Role {
	case auth.RoleAdmin:
		var admin model.Admin
		if err := db.Select("id", "token_version").First(&admin, claims.UserID).Error; err != nil {
			return 0, err
		}
		return admin.TokenVersion, nil
	case auth.RoleStudent:
		var student model.Student
		if err := db.Select("id", "token_version").First(&student, claims.UserID).Error; err != nil {
			return 0, err
		}
		return student.TokenVersion, nil
	default:
		return 0, gorm.ErrRecordNotFound
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) (uint, bool) {
	userID := c.Locals("user_id")
	if userID == nil {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *fiber.Ctx) (string, bool) {
	email := c.Locals("user_email")
	if email == nil {
		return "", false
	}
	e, ok := email.(string)
	return e, ok
}

// GetUserRole extracts user role from context
func GetUserRole(c *fiber.Ctx) (string, bool) {
	role := c.Locals("user_role")
	if role == nil {
		return "", false
	}
	r, ok := role.(string)
	return r, ok
}

// GetClaims extracts full claims from context
func GetClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims := c.Locals("claims")
	if claims == nil {
		return nil, false
	}
	claimsData, ok := claims.(*auth.Claims)
	return claimsData, ok
}
