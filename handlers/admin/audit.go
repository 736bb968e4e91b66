package admin

import (
	"errors"
	"strconv"

	"github.com/campus-events/api/database"
	"github.com/campus-events/api/model"
	"github.com/campus-events/api/utils/middleware"
	"github.com/campus-events/api/utils/response"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ListAuditLogs retrieves the calling admin's audit trail with pagination
// GET /api/admin/audit-logs
func ListAuditLogs(c *fiber.Ctx, store database.Storage) error {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	// Pagination
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	// Filters
	query := store.GetDB().WithContext(c.UserContext()).
		Model(&model.AdminAuditLog{}).
		Where("admin_id = ?", adminID)

	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if eventIDStr := c.Query("event_id"); eventIDStr != "" {
		eventID, err := strconv.ParseUint(eventIDStr, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid event ID")
		}
		query = query.Where("resource = ? AND resource_id = ?", "events", eventID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Error().Err(err).Uint("admin_id", adminID).Msg("failed to count audit logs")
		return response.InternalServerError(c, "Failed to fetch audit logs")
	}

	var logs []model.AdminAuditLog
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at DESC, id DESC").Find(&logs).Error; err != nil {
		log.Error().Err(err).Uint("admin_id", adminID).Msg("failed to fetch audit logs")
		return response.InternalServerError(c, "Failed to fetch audit logs")
	}

	return response.SuccessWithMessage(c, "Audit logs retrieved successfully", fiber.Map{
		"logs": logs,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// GetAuditLog retrieves one of the calling admin's audit entries
// GET /api/admin/audit-logs/:id
func GetAuditLog(c *fiber.Ctx, store database.Storage) error {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	logID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid log ID")
	}

	var entry model.AdminAuditLog
	err = store.GetDB().WithContext(c.UserContext()).
		Where("id = ? AND admin_id = ?", logID, adminID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Audit log not found")
		}
		return response.InternalServerError(c, "Failed to fetch audit log")
	}

	return response.SuccessWithMessage(c, "Audit log retrieved successfully", entry)
}
