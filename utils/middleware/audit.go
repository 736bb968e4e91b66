package middleware

import (
	"encoding/json"

	"github.com/campus-events/api/model"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	localAuditResourceID = "audit_resource_id"
	localAuditOld        = "audit_old_value"
	localAuditNew        = "audit_new_value"
)

// SetAuditValues lets a handler describe what it changed for AdminAuditLog
func SetAuditValues(c *fiber.Ctx, resourceID uint, oldValue, newValue interface{}) {
	c.Locals(localAuditResourceID, resourceID)
	c.Locals(localAuditOld, oldValue)
	c.Locals(localAuditNew, newValue)
}

// AdminAuditLog writes an audit row for every successful admin mutation.
// It must run after RequireAdmin.
func AdminAuditLog(db *gorm.DB, action, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
			return err
		}

		adminID, ok := GetUserID(c)
		if !ok {
			return nil
		}

		resourceID, _ := c.Locals(localAuditResourceID).(uint)

		entry := model.AdminAuditLog{
			AdminID:     adminID,
			Action:      action,
			Resource:    resource,
			ResourceID:  resourceID,
			OldValue:    marshalAuditValue(c.Locals(localAuditOld)),
			NewValue:    marshalAuditValue(c.Locals(localAuditNew)),
			IPAddress:   c.IP(),
			UserAgent:   c.Get(fiber.HeaderUserAgent),
			Description: c.Method() + " " + c.Path(),
		}

		if dbErr := db.WithContext(c.UserContext()).Create(&entry).Error; dbErr != nil {
			log.Error().Err(dbErr).
				Uint("admin_id", adminID).
				Str("action", action).
				Msg("failed to write admin audit log")
		}

		return nil
	}
}

func marshalAuditValue(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
