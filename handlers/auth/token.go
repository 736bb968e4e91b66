package auth

import (
	"errors"

	"github.com/campus-events/api/services"
	authutil "github.com/campus-events/api/utils/auth"
	"github.com/campus-events/api/utils/middleware"
	"github.com/campus-events/api/utils/response"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse represents a token refresh response
type RefreshResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// RefreshToken handles POST /api/auth/refresh
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	// Validate refresh token
	claims, err := h.jwtManager.ValidateToken(req.RefreshToken)
	if err != nil {
		return response.Unauthorized(c, "Invalid or expired refresh token")
	}

	if claims.TokenType != authutil.TokenTypeRefresh {
		return response.Unauthorized(c, "Invalid token type")
	}

	isRevoked, err := h.blacklistService.IsTokenRevoked(c.UserContext(), claims.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to check token blacklist")
		return response.InternalServerError(c, "Failed to check token status")
	}
	if isRevoked {
		return response.Unauthorized(c, "Token has been revoked")
	}

	// Load the principal to get its current token version
	tokenVersion, err := h.currentTokenVersion(c, claims)
	if err != nil {
		if errors.Is(err, services.ErrAdminNotFound) || errors.Is(err, services.ErrStudentNotFound) {
			return response.Unauthorized(c, "User not found")
		}
		log.Error().Err(err).Uint("user_id", claims.UserID).Msg("failed to load principal")
		return response.InternalServerError(c, "Failed to load user")
	}

	token, _, err := h.jwtManager.RefreshAccessToken(req.RefreshToken, tokenVersion)
	if err != nil {
		return response.Unauthorized(c, "Token has been invalidated")
	}

	return response.Success(c, RefreshResponse{
		Token:     token,
		ExpiresIn: int(h.jwtManager.Expiry().Seconds()),
	})
}

func (h *AuthHandler) currentTokenVersion(c *fiber.Ctx, claims *authutil.Claims) (int, error) {
	switch claims.Role {
	case authutil.RoleAdmin:
		admin, err := h.identity.GetAdmin(c.UserContext(), claims.UserID)
		if err != nil {
			return 0, err
		}
		return admin.TokenVersion, nil
	case authutil.RoleStudent:
		student, err := h.identity.GetStudent(c.UserContext(), claims.UserID)
		if err != nil {
			return 0, err
		}
		return student.TokenVersion, nil
	default:
		return 0, services.ErrStudentNotFound
	}
}

// Logout handles POST /api/auth/logout by blacklisting the presented access token
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	if err := h.blacklistService.RevokeToken(c.UserContext(), claims, "logout"); err != nil {
		log.Error().Err(err).Uint("user_id", claims.UserID).Msg("failed to revoke token")
		return response.InternalServerError(c, "Failed to logout")
	}

	return response.SuccessWithMessage(c, "Successfully logged out", nil)
}
