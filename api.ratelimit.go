package main

import (
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// visitor pairs a token bucket with the last time its ip showed up.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per source ip with a token bucket each.
// Buckets idle for longer than three cleanup intervals get evicted.
type RateLimiter struct {
	logger   *zap.Logger
	config   *RateLimitConfig
	clock    TickerClocker
	mu       sync.Mutex
	visitors map[string]*visitor
	stop     chan struct{}
	done     chan struct{}
}

func NewRateLimiter(logger *zap.Logger, config *RateLimitConfig, clock TickerClocker) *RateLimiter {
	rl := &RateLimiter{
		logger:   logger,
		config:   config,
		clock:    clock,
		visitors: make(map[string]*visitor),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = rl.clock.Now()
	return v.limiter
}

// cleanup periodically drops buckets of ips not seen for a while.
func (rl *RateLimiter) cleanup() {
	defer close(rl.done)
	ticker := rl.clock.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if rl.clock.Now().Sub(v.lastSeen) > 3*rl.config.CleanupInterval {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop terminates the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stop)
	<-rl.done
}

// Middleware rejects with 429 any request whose source ip has exhausted
// its token bucket.
func (rl *RateLimiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.config.Enable {
			next.ServeHTTP(w, r)
			return
		}
		ip := GetRequestSourceIP(r)
		if !rl.limiter(ip).Allow() {
			rl.logger.Warn("ratelimiter: too many requests", zap.String("request.ip", ip), zap.String("request.path", r.URL.Path))
			requestid := GetValueFromContext(r.Context(), ContextRequestID)
			w.Header().Set("Retry-After", "1")
			errResp := NewAPIError(requestid, http.StatusTooManyRequests, "Too many requests. Please retry later.", EmptyData)
			if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
				rl.logger.Error("failed to send error response", zap.String("request.id", requestid), zap.Error(err))
			}
			return
		}
		next.ServeHTTP(w, r)
	}
}
