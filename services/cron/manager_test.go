package cron

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/campus-events/api/database"
	"github.com/campus-events/api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestManager(t *testing.T, now time.Time) (*CronManager, *gorm.DB) {
	t.Helper()

	store, err := database.OpenSQLite(filepath.Join(t.TempDir(), "cron.db"), nil)
	require.NoError(t, err)
	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })

	m := NewCronManager(store.GetDB())
	m.now = func() time.Time { return now }
	return m, store.GetDB()
}

func TestPurgeExpiredTokens(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	m, db := newTestManager(t, now)

	require.NoError(t, db.Create(&[]model.JWTTokenBlacklist{
		{Token: "expired", ExpiresAt: now.Add(-time.Minute)},
		{Token: "live", ExpiresAt: now.Add(time.Hour)},
	}).Error)

	msg, err := m.PurgeExpiredTokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "removed 1 expired tokens", msg)

	var remaining []model.JWTTokenBlacklist
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "live", remaining[0].Token)
}

func TestPurgeOldJobLogs(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	m, db := newTestManager(t, now)

	require.NoError(t, db.Create(&[]model.CronJobLog{
		{JobName: "old", Status: "completed", StartedAt: now.Add(-31 * 24 * time.Hour)},
		{JobName: "recent", Status: "completed", StartedAt: now.Add(-24 * time.Hour)},
	}).Error)

	_, err := m.PurgeOldJobLogs(context.Background())
	require.NoError(t, err)

	var names []string
	require.NoError(t, db.Model(&model.CronJobLog{}).Pluck("job_name", &names).Error)
	assert.Equal(t, []string{"recent"}, names)
}

func TestRunRecordsOutcome(t *testing.T) {
	m, db := newTestManager(t, time.Now())
	ctx := context.Background()

	require.NoError(t, m.Run(ctx, "ok_job", func(context.Context) (string, error) {
		return "done", nil
	}))
	err := m.Run(ctx, "bad_job", func(context.Context) (string, error) {
		return "", errors.New("boom")
	})
	assert.EqualError(t, err, "boom")

	var ok, bad model.CronJobLog
	require.NoError(t, db.Where("job_name = ?", "ok_job").First(&ok).Error)
	require.NoError(t, db.Where("job_name = ?", "bad_job").First(&bad).Error)

	assert.Equal(t, "completed", ok.Status)
	assert.Equal(t, "done", ok.Message)
	assert.NotNil(t, ok.CompletedAt)
	assert.Equal(t, "failed", bad.Status)
	assert.Equal(t, "boom", bad.ErrorMsg)
}

func TestStartRegistersJobs(t *testing.T) {
	m, _ := newTestManager(t, time.Now())
	require.NoError(t, m.Start())
	defer m.Stop()

	assert.Len(t, m.cron.Entries(), 2)
}
