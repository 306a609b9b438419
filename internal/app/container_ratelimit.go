package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"github.com/localkart/dispatch/internal/config"
	"github.com/localkart/dispatch/internal/http/middleware/ratelimit"
	"github.com/localkart/dispatch/internal/logx"
)

func newRateLimiter(cfg *config.Config, clock ratelimit.Clock) ratelimit.Limiter {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return ratelimit.NopLimiter{}
	}
	return ratelimit.NewTokenBucketPerWindow(clock, rl.Limit, rl.Window, rl.TTL, rl.MaxBuckets)
}

func newRateLimitClock() ratelimit.Clock {
	return ratelimit.RealClock{}
}

type rateLimitIn struct {
	dig.In

	Logger  logx.Logger
	Counter prometheus.Counter `name:"rate_limit_exceeded_total"`
	Limiter ratelimit.Limiter
}

func newRateLimitMiddleware(in rateLimitIn) *ratelimit.Middleware {
	return ratelimit.New(in.Logger, in.Counter, in.Limiter)
}
