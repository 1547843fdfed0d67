package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// lockoutTTL and lockoutThreshold match internal/session/redis.go's own
// LockoutTTL/LockoutThreshold constants; this is the same throttle
// applied ahead of /user/signin instead of a tenant-scoped login.
const (
	lockoutTTL       = 15 * time.Minute
	lockoutThreshold = 5
)

// Lockout throttles repeated failed /user/signin attempts for the same
// email, adapting internal/session/redis.go's CheckLockout/
// RecordFailedAttempt key shapes and constants without that package's
// tenant scoping, since RED-Safe has no tenant concept.
type Lockout struct {
	client *redis.Client
}

func NewLockout(client *redis.Client) *Lockout {
	return &Lockout{client: client}
}

func lockKey(email string) string      { return fmt.Sprintf("lockout:%s", email) }
func lockCountKey(email string) string { return fmt.Sprintf("lockout_count:%s", email) }

// Locked reports whether email is currently locked out.
func (l *Lockout) Locked(ctx context.Context, email string) (bool, error) {
	val, err := l.client.Get(ctx, lockKey(email)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val == "locked", nil
}

// RecordFailure increments email's failure count, locking it out once
// lockoutThreshold is reached within lockoutTTL.
func (l *Lockout) RecordFailure(ctx context.Context, email string) error {
	countKey := lockCountKey(email)
	count, err := l.client.Incr(ctx, countKey).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		l.client.Expire(ctx, countKey, lockoutTTL)
	}
	if count >= lockoutThreshold {
		l.client.Set(ctx, lockKey(email), "locked", lockoutTTL)
		l.client.Del(ctx, countKey)
	}
	return nil
}

// Clear resets email's failure count and lock on a successful signin.
func (l *Lockout) Clear(ctx context.Context, email string) error {
	return l.client.Del(ctx, lockCountKey(email), lockKey(email)).Err()
}
