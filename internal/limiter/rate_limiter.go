package limiter

import (
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// SubmissionLimiter bounds how often one user may submit quest proofs.
type SubmissionLimiter struct {
	rdb *redis.Client
}

// NewSubmissionLimiter creates a limiter backed by the shared Redis client.
func NewSubmissionLimiter() *SubmissionLimiter {
	return &SubmissionLimiter{rdb: GetRedisClient()}
}

// Config defines the rate limit rule for proof submissions.
type Config struct {
	MaxSubmissions int           // per window
	Window         time.Duration // fixed window length
}

// DefaultConfig returns the default submission rate limit.
func DefaultConfig() Config {
	return Config{
		MaxSubmissions: 10,
		Window:         1 * time.Minute,
	}
}

// Allow reports whether the user may submit another proof now, counting
// this attempt. When Redis is unavailable the limiter degrades open so
// verification keeps working.
func (l *SubmissionLimiter) Allow(userID string, config Config) bool {
	if l == nil || l.rdb == nil {
		return true
	}

	key := fmt.Sprintf("rate:submit:%s", userID)

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("Submission rate limit check failed for %s: %v", userID, err)
		return true
	}

	// Set expiration if first time
	if count == 1 {
		l.rdb.Expire(ctx, key, config.Window)
	}

	return count <= int64(config.MaxSubmissions)
}
