package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/campus-events/api/utils/response"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// AttemptStore is the subset of the Redis cache used for login throttling
type AttemptStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// BruteForceProtection locks out IPs after repeated failed logins.
// A nil *BruteForceProtection is valid and never blocks.
type BruteForceProtection struct {
	store AttemptStore
}

// NewBruteForceProtection creates a new brute force protection instance
func NewBruteForceProtection(store AttemptStore) *BruteForceProtection {
	return &BruteForceProtection{
		store: store,
	}
}

func attemptKey(ip string) string { return fmt.Sprintf("brute_force:attempts:%s", ip) }
func lockKey(ip string) string    { return fmt.Sprintf("brute_force:lock:%s", ip) }

// CheckAndRecordAttempt middleware rejects requests from locked out IPs
func (b *BruteForceProtection) CheckAndRecordAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if b == nil {
			return c.Next()
		}

		key := lockKey(c.IP())

		locked, err := b.store.Exists(c.UserContext(), key)
		if err != nil {
			// Cache outages must not lock users out
			log.Warn().Err(err).Msg("brute force check skipped")
			return c.Next()
		}

		if locked {
			ttl, _ := b.store.TTL(c.UserContext(), key)
			retryAfter := int(ttl.Seconds())
			if retryAfter <= 0 {
				retryAfter = 60
			}

			c.Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			return response.TooManyRequests(c, fmt.Sprintf("Too many failed attempts. Try again in %d seconds", retryAfter))
		}

		return c.Next()
	}
}

// LockoutFor returns the lockout applied after the given number of failed attempts
func LockoutFor(attempts int64) time.Duration {
	switch {
	case attempts >= 25:
		return 24 * time.Hour
	case attempts >= 10:
		return time.Hour
	case attempts >= 5:
		return 2 * time.Minute
	default:
		return 0
	}
}

// RecordFailedAttempt records a failed login attempt and applies progressive lockouts
func (b *BruteForceProtection) RecordFailedAttempt(c *fiber.Ctx) {
	if b == nil {
		return
	}

	ctx := c.UserContext()
	ip := c.IP()

	attempts, err := b.store.Increment(ctx, attemptKey(ip))
	if err != nil {
		log.Warn().Err(err).Msg("failed to record login attempt")
		return
	}

	// 15 minute window for counting attempts
	if attempts == 1 {
		_ = b.store.Expire(ctx, attemptKey(ip), 15*time.Minute)
	}

	if lockDuration := LockoutFor(attempts); lockDuration > 0 {
		if err := b.store.Set(ctx, lockKey(ip), "locked", lockDuration); err != nil {
			log.Warn().Err(err).Msg("failed to apply login lockout")
			return
		}
		log.Warn().Str("ip", ip).Int64("attempts", attempts).Dur("lockout", lockDuration).Msg("login locked out")
	}
}

// RecordSuccessfulAttempt clears failed attempts on successful login
func (b *BruteForceProtection) RecordSuccessfulAttempt(c *fiber.Ctx) {
	if b == nil {
		return
	}

	ip := c.IP()
	_ = b.store.Delete(c.UserContext(), attemptKey(ip), lockKey(ip))
}
