package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/campus-events/api/model"
	"github.com/campus-events/api/utils/auth"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	JobPurgeExpiredTokens = "purge_expired_tokens"
	JobPurgeJobLogs       = "purge_cron_job_logs"

	// JobLogRetention is how long cron_job_logs rows are kept
	JobLogRetention = 30 * 24 * time.Hour

	jobTimeout = 5 * time.Minute
)

// JobFunc runs one maintenance job and returns a short summary
type JobFunc func(ctx context.Context) (string, error)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron      *cron.Cron
	db        *gorm.DB
	blacklist *auth.BlacklistService
	now       func() time.Time
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:      c,
		db:        db,
		blacklist: auth.NewBlacklistService(db),
		now:       time.Now,
	}
}

// Start registers all jobs and starts the scheduler
func (m *CronManager) Start() error {
	log.Info().Msg("starting cron jobs")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Info().Int("jobs", len(m.cron.Entries())).Msg("cron jobs started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (m *CronManager) Stop() {
	log.Info().Msg("stopping cron jobs")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	jobs := []struct {
		spec string
		name string
		fn   JobFunc
	}{
		// Every hour: drop blacklist rows whose tokens have expired
		{"0 0 * * * *", JobPurgeExpiredTokens, m.PurgeExpiredTokens},
		// Daily at 3 AM: drop old job logs
		{"0 0 3 * * *", JobPurgeJobLogs, m.PurgeOldJobLogs},
	}

	for _, job := range jobs {
		job := job
		if _, err := m.cron.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			_ = m.Run(ctx, job.name, job.fn)
		}); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", job.name, err)
		}
	}

	return nil
}

// Run executes fn and records it in cron_job_logs
func (m *CronManager) Run(ctx context.Context, name string, fn JobFunc) error {
	started := m.now()
	entry := model.CronJobLog{
		JobName:   name,
		Status:    "running",
		StartedAt: started,
	}
	if err := m.db.WithContext(ctx).Create(&entry).Error; err != nil {
		log.Error().Err(err).Str("job", name).Msg("failed to record cron job start")
	}

	message, err := fn(ctx)

	completed := m.now()
	updates := map[string]interface{}{
		"completed_at": completed,
		"duration":     completed.Sub(started).Milliseconds(),
	}
	if err != nil {
		updates["status"] = "failed"
		updates["error_msg"] = err.Error()
		log.Error().Err(err).Str("job", name).Msg("cron job failed")
	} else {
		updates["status"] = "completed"
		updates["message"] = message
		log.Info().Str("job", name).Str("result", message).Msg("cron job completed")
	}

	if entry.ID != 0 {
		if dbErr := m.db.WithContext(ctx).Model(&entry).Updates(updates).Error; dbErr != nil {
			log.Error().Err(dbErr).Str("job", name).Msg("failed to record cron job result")
		}
	}

	return err
}
