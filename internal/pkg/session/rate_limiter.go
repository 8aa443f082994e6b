// internal/pkg/session/rate_limiter.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles OTP issuance per phone number with a fixed
// window counter in Redis.
type RateLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

func NewRateLimiter(client *redis.Client, max int64, window time.Duration) *RateLimiter {
	if max <= 0 {
		max = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RateLimiter{client: client, max: max, window: window}
}

// Allow reports whether another OTP may be issued for the phone number
// within the current window.
func (r *RateLimiter) Allow(ctx context.Context, phone string) (bool, error) {
	key := "otp_rl:" + phone

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("rate limiter incr: %w", err)
	}
	if count == 1 {
		// First hit opens the window
		if err := r.client.Expire(ctx, key, r.window).Err(); err != nil {
			return false, fmt.Errorf("rate limiter expire: %w", err)
		}
	}

	return count <= r.max, nil
}
