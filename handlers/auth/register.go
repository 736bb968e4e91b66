package auth

import (
	"github.com/campus-events/api/handlers"
	"github.com/campus-events/api/services"
	"github.com/campus-events/api/utils/response"
	"github.com/campus-events/api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// RegisterAdmin handles POST /api/auth/register-admin
func (h *AuthHandler) RegisterAdmin(c *fiber.Ctx) error {
	var req services.RegisterAdminInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Name = validation.SanitizeString(req.Name)
	req.College = validation.SanitizeString(req.College)

	admin, err := h.identity.RegisterAdmin(c.UserContext(), req)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to register admin")
	}

	res, err := h.issue(adminPrincipal(admin))
	if err != nil {
		log.Error().Err(err).Uint("admin_id", admin.ID).Msg("failed to issue tokens")
		return response.InternalServerError(c, "Failed to generate token")
	}
	res.Admin = admin

	return response.Created(c, "Admin registered successfully", res)
}

// RegisterStudent handles POST /api/auth/register-student
func (h *AuthHandler) RegisterStudent(c *fiber.Ctx) error {
	var req services.RegisterStudentInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Name = validation.SanitizeString(req.Name)
	req.College = validation.SanitizeString(req.College)

	student, err := h.identity.RegisterStudent(c.UserContext(), req)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to register student")
	}

	res, err := h.issue(studentPrincipal(student))
	if err != nil {
		log.Error().Err(err).Uint("student_id", student.ID).Msg("failed to issue tokens")
		return response.InternalServerError(c, "Failed to generate token")
	}
	res.Student = student

	return response.Created(c, "Student registered successfully", res)
}
