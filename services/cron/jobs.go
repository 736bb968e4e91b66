package cron

import (
	"context"
	"fmt"

	"github.com/campus-events/api/model"
)

// PurgeExpiredTokens removes blacklist entries for tokens that have expired.
// An expired token fails validation anyway so the row is no longer needed.
func (m *CronManager) PurgeExpiredTokens(ctx context.Context) (string, error) {
	removed, err := m.blacklist.CleanupExpiredTokens(ctx, m.now())
	if err != nil {
		return "", fmt.Errorf("failed to purge token blacklist: %w", err)
	}
	return fmt.Sprintf("removed %d expired tokens", removed), nil
}

// PurgeOldJobLogs removes cron_job_logs rows older than JobLogRetention
func (m *CronManager) PurgeOldJobLogs(ctx context.Context) (string, error) {
	cutoff := m.now().Add(-JobLogRetention)

	result := m.db.WithContext(ctx).
		Where("started_at < ?", cutoff).
		Delete(&model.CronJobLog{})
	if result.Error != nil {
		return "", fmt.Errorf("failed to purge job logs: %w", result.Error)
	}
	return fmt.Sprintf("removed %d job logs", result.RowsAffected), nil
}
