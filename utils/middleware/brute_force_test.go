package middleware

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryAttemptStore struct {
	mu     sync.Mutex
	counts map[string]int64
	values map[string]time.Duration
}

func newMemoryAttemptStore() *memoryAttemptStore {
	return &memoryAttemptStore{
		counts: map[string]int64{},
		values: map[string]time.Duration{},
	}
}

func (m *memoryAttemptStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok, nil
}

func (m *memoryAttemptStore) TTL(_ context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *memoryAttemptStore) Increment(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memoryAttemptStore) Expire(context.Context, string, time.Duration) error { return nil }

func (m *memoryAttemptStore) Set(_ context.Context, key string, _ interface{}, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = expiration
	return nil
}

func (m *memoryAttemptStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
		delete(m.counts, k)
	}
	return nil
}

func newLoginApp(b *BruteForceProtection) *fiber.App {
	app := fiber.New()
	app.Post("/login", b.CheckAndRecordAttempt(), func(c *fiber.Ctx) error {
		if c.Get("X-Password") != "right" {
			b.RecordFailedAttempt(c)
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		b.RecordSuccessfulAttempt(c)
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func login(t *testing.T, app *fiber.App, password string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/login", nil)
	req.Header.Set("X-Password", password)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestBruteForceLocksAfterFiveFailures(t *testing.T) {
	app := newLoginApp(NewBruteForceProtection(newMemoryAttemptStore()))

	for i := 0; i < 5; i++ {
		assert.Equal(t, fiber.StatusUnauthorized, login(t, app, "wrong"))
	}

	// Locked out even with the right password
	assert.Equal(t, fiber.StatusTooManyRequests, login(t, app, "right"))
}

func TestBruteForceSuccessClearsAttempts(t *testing.T) {
	store := newMemoryAttemptStore()
	app := newLoginApp(NewBruteForceProtection(store))

	for i := 0; i < 4; i++ {
		login(t, app, "wrong")
	}
	assert.Equal(t, fiber.StatusOK, login(t, app, "right"))
	assert.Empty(t, store.counts)
}

func TestBruteForceNilNeverBlocks(t *testing.T) {
	var b *BruteForceProtection
	app := newLoginApp(b)

	for i := 0; i < 10; i++ {
		assert.Equal(t, fiber.StatusUnauthorized, login(t, app, "wrong"))
	}
}

func TestLockoutFor(t *testing.T) {
	assert.Zero(t, LockoutFor(4))
	assert.Equal(t, 2*time.Minute, LockoutFor(5))
	assert.Equal(t, time.Hour, LockoutFor(10))
	assert.Equal(t, 24*time.Hour, LockoutFor(25))
}
