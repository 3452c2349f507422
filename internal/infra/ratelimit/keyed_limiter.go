// Package ratelimit throttles per-key operations such as OTP sends.
package ratelimit

import (
	"sync"
	"time"

	"agrimarket/config"
	"agrimarket/internal/domain/service"

	"golang.org/x/time/rate"
)

const (
	defaultInterval = 30 * time.Second
	defaultBurst    = 3
	idleTTL         = 10 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter keeps one token bucket per key and forgets keys idle for idleTTL.
type KeyedLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	every    rate.Limit
	burst    int
	now      func() time.Time
}

// NewKeyedLimiter allows burst operations per key, refilling one every interval.
func NewKeyedLimiter(interval time.Duration, burst int) *KeyedLimiter {
	if interval <= 0 {
		interval = defaultInterval
	}
	if burst <= 0 {
		burst = defaultBurst
	}

	return &KeyedLimiter{
		visitors: make(map[string]*visitor),
		every:    rate.Every(interval),
		burst:    burst,
		now:      time.Now,
	}
}

// NewOTPLimiter builds the OTP send throttle from the otp config section.
func NewOTPLimiter(cfg *config.Config) service.RateLimiter {
	if cfg.OTP == nil {
		return NewKeyedLimiter(defaultInterval, defaultBurst)
	}

	return NewKeyedLimiter(cfg.OTP.SendInterval, cfg.OTP.SendBurst)
}

// Allow consumes a token for key if one is available.
func (l *KeyedLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictIdle(now)

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.every, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

func (l *KeyedLimiter) evictIdle(now time.Time) {
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > idleTTL {
			delete(l.visitors, key)
		}
	}
}
