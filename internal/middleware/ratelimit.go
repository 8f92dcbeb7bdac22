// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/time/rate"
)

// Limiter registry defaults.
const (
	DefaultLimiterIdleTTL  = 10 * time.Minute
	DefaultLimiterCapacity = 10000
)

// RateLimiter throttles requests per client IP. Limiters of idle clients
// expire from the registry after the idle TTL.
type RateLimiter struct {
	limiters *ttlcache.Cache[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

// NewRateLimiter creates a per-IP rate limiter allowing rps requests per
// second with the given burst. Call Start to run the expiry loop and Stop
// to end it.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: ttlcache.New[string, *rate.Limiter](
			ttlcache.WithTTL[string, *rate.Limiter](DefaultLimiterIdleTTL),
			ttlcache.WithCapacity[string, *rate.Limiter](DefaultLimiterCapacity),
		),
		rate:  rate.Limit(rps),
		burst: burst,
	}
}

// Start runs the expired-limiter sweep in a goroutine.
func (rl *RateLimiter) Start() {
	go rl.limiters.Start()
}

// Stop ends the expired-limiter sweep.
func (rl *RateLimiter) Stop() {
	rl.limiters.Stop()
}

// get returns the limiter of a client, creating one if needed.
// A hit extends the limiter's idle TTL.
func (rl *RateLimiter) get(key string) *rate.Limiter {
	if item := rl.limiters.Get(key); item != nil {
		return item.Value()
	}
	item, _ := rl.limiters.GetOrSet(key, rate.NewLimiter(rl.rate, rl.burst))
	return item.Value()
}

// Len returns the number of tracked clients.
func (rl *RateLimiter) Len() int {
	return rl.limiters.Len()
}

// Middleware returns the rate limiting middleware (JSON errors).
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			if !rl.get(ip).Allow() {
				slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path, "category", "system")
				w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfter()))
				WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// retryAfter returns the seconds until one token is available again.
func (rl *RateLimiter) retryAfter() int {
	if rl.rate <= 0 {
		return 1
	}
	return max(1, int(math.Ceil(1/float64(rl.rate))))
}
