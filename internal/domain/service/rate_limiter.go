package service

// RateLimiter decides whether an operation identified by key may proceed now.
type RateLimiter interface {
	Allow(key string) bool
}
