package auth

import (
	"errors"

	"github.com/campus-events/api/handlers"
	"github.com/campus-events/api/services"
	"github.com/campus-events/api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// LoginRequest represents an admin or student login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginAdmin handles POST /api/auth/login-admin
func (h *AuthHandler) LoginAdmin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	admin, err := h.identity.AuthenticateAdmin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.bruteForceProtection.RecordFailedAttempt(c)
		}
		return handlers.ServiceError(c, err, "Failed to login")
	}

	h.bruteForceProtection.RecordSuccessfulAttempt(c)

	res, err := h.issue(adminPrincipal(admin))
	if err != nil {
		return response.InternalServerError(c, "Failed to generate token")
	}
	res.Admin = admin

	return response.SuccessWithMessage(c, "Login successful", res)
}

// LoginStudent handles POST /api/auth/login-student
func (h *AuthHandler) LoginStudent(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	student, err := h.identity.AuthenticateStudent(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.bruteForceProtection.RecordFailedAttempt(c)
		}
		return handlers.ServiceError(c, err, "Failed to login")
	}

	h.bruteForceProtection.RecordSuccessfulAttempt(c)

	res, err := h.issue(studentPrincipal(student))
	if err != nil {
		return response.InternalServerError(c, "Failed to generate token")
	}
	res.Student = student

	return response.SuccessWithMessage(c, "Login successful", res)
}
