package ratelimit

import (
	"context"
	"fmt"

	"github.com/example/bfhl-api/domain/ratelimit"
	"github.com/example/bfhl-api/logging"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

var log = logging.GetLogger()

// Options configures the rate limiting module.
type Options struct {
	// RedisAddr selects the Redis sliding window limiter. Empty means in-memory.
	RedisAddr     string
	RedisPassword string
	Limit         ratelimit.Config
	// OfficialEmail is reported in the 429 envelope.
	OfficialEmail string
}

// Module provides the rate limiting handler as a mono module.
type Module struct {
	opts    Options
	client  *redis.Client
	limiter *SlidingWindowLimiter
	handler fiber.Handler
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new rate limiting module. The Redis client connects lazily, so
// the handler is usable before Start.
func NewModule(opts Options) *Module {
	m := &Module{opts: opts}

	if opts.RedisAddr == "" {
		m.handler = NewMemoryHandler(opts.Limit, opts.OfficialEmail)
		return m
	}

	m.client = redis.NewClient(&redis.Options{
		Addr:     opts.RedisAddr,
		Password: opts.RedisPassword,
	})
	m.limiter = NewSlidingWindowLimiter(m.client, opts.Limit)
	m.handler = NewMiddleware(m.limiter, opts.Limit, opts.OfficialEmail).IPRateLimit()
	return m
}

// Name returns the module name.
func (m *Module) Name() string {
	return "ratelimit"
}

// Start verifies the Redis connection when one is configured.
func (m *Module) Start(ctx context.Context) error {
	if m.client == nil {
		log.Infof("[ratelimit] Module started (in-memory, %d requests per %s)",
			m.opts.Limit.RequestsPerWindow, m.opts.Limit.WindowSize)
		return nil
	}

	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Infof("[ratelimit] Connected to Redis at %s (%d requests per %s)",
		m.opts.RedisAddr, m.opts.Limit.RequestsPerWindow, m.opts.Limit.WindowSize)
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			log.WithError(err).Errorln("[ratelimit] Error closing Redis connection")
		}
	}
	log.Infoln("[ratelimit] Module stopped")
	return nil
}

// Handler returns the Fiber middleware enforcing the limit.
func (m *Module) Handler() fiber.Handler {
	return m.handler
}

// Health reports whether the backing store is reachable.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.client == nil {
		return mono.HealthStatus{
			Healthy: true,
			Message: "in-memory",
		}
	}
	if err := m.client.Ping(ctx).Err(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: err.Error(),
			Details: map[string]any{"redis_addr": m.opts.RedisAddr},
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "redis",
		Details: map[string]any{"redis_addr": m.opts.RedisAddr},
	}
}
