//go:build integration

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/campus-events/api/database"
	"github.com/campus-events/api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Runs the capacity race against PostgreSQL, where the event row lock is a real
// SELECT ... FOR UPDATE instead of a single pooled connection.
func TestConcurrentRegistrationPostgres(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("campus"),
		postgres.WithUsername("campus"),
		postgres.WithPassword("campus"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := database.OpenPostgres(dsn, nil)
	require.NoError(t, err)
	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })

	db := store.GetDB()
	svc := NewRegistrationService(db)
	admin := createAdmin(t, db, "admin@college.edu")
	event := createEvent(t, db, admin.ID, 5)
	students := createStudents(t, db, 50)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		full      int
	)
	for _, s := range students {
		wg.Add(1)
		go func(studentID uint) {
			defer wg.Done()
			_, err := svc.Register(ctx, event.ID, studentID, base)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrEventFull):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(s.ID)
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 45, full)

	var count int64
	require.NoError(t, db.Model(&model.Registration{}).Where("event_id = ?", event.ID).Count(&count).Error)
	assert.EqualValues(t, 5, count)
}
