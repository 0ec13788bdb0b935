package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter caps how fast one sender can post direct messages
type RateLimiter struct {
	rdb *redis.Client
	ctx context.Context
}

// NewRateLimiter creates a new RateLimiter instance
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		rdb: GetRedisClient(),
		ctx: GetContext(),
	}
}

// RateLimitConfig defines rate limit rules
type RateLimitConfig struct {
	MaxMessages   int           // per window
	MessageWindow time.Duration // time window for messages
}

// DefaultRateLimitConfig returns default rate limit configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxMessages:   20,
		MessageWindow: 30 * time.Second,
	}
}

// CheckMessageRateLimit checks if the sender may post another message
func (rl *RateLimiter) CheckMessageRateLimit(sender string, config RateLimitConfig) (bool, error) {
	if rl == nil || rl.rdb == nil {
		return false, fmt.Errorf("Redis client not available")
	}

	key := fmt.Sprintf("rate:dm:%s", sender)

	count, err := rl.rdb.Get(rl.ctx, key).Int()
	if err == redis.Nil {
		// First message in the window, allow it
		return true, nil
	} else if err != nil {
		return false, err
	}

	if count >= config.MaxMessages {
		return false, nil
	}

	return true, nil
}

// RecordMessage records a sent message for rate limiting
func (rl *RateLimiter) RecordMessage(sender string, config RateLimitConfig) error {
	if rl == nil || rl.rdb == nil {
		return fmt.Errorf("Redis client not available")
	}

	key := fmt.Sprintf("rate:dm:%s", sender)

	count, err := rl.rdb.Incr(rl.ctx, key).Result()
	if err != nil {
		return err
	}

	// Set expiration if first time
	if count == 1 {
		rl.rdb.Expire(rl.ctx, key, config.MessageWindow)
	}

	return nil
}
