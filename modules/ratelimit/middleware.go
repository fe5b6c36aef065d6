package ratelimit

import (
	"strconv"
	"time"

	domain "github.com/example/bfhl-api/domain/bfhl"
	"github.com/example/bfhl-api/domain/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Middleware limits requests per client IP using a ratelimit.Limiter.
type Middleware struct {
	limiter ratelimit.Limiter
	config  ratelimit.Config
	email   string
}

// NewMiddleware creates a rate limiting middleware. email is reported in the
// envelope of rejected requests.
func NewMiddleware(l ratelimit.Limiter, config ratelimit.Config, email string) *Middleware {
	return &Middleware{
		limiter: l,
		config:  config,
		email:   email,
	}
}

// IPRateLimit returns middleware that limits requests by client IP. Limiter errors
// let the request through.
func (m *Middleware) IPRateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := m.limiter.Allow(c.UserContext(), c.IP())
		if err != nil {
			log.WithError(err).Warnln("[ratelimit] Limiter failed, allowing request")
			return c.Next()
		}

		setRateLimitHeaders(c, result, m.config.RequestsPerWindow)

		if !result.Allowed {
			return sendRateLimitExceeded(c, m.email, result.RetryAfter)
		}
		return c.Next()
	}
}

// legacyHeaders maps the X-RateLimit-* headers Fiber's limiter writes onto the
// standard RateLimit-* names. Both use seconds until reset.
var legacyHeaders = map[string]string{
	"X-RateLimit-Limit":     "RateLimit-Limit",
	"X-RateLimit-Remaining": "RateLimit-Remaining",
	"X-RateLimit-Reset":     "RateLimit-Reset",
}

// NewMemoryHandler returns Fiber's in-memory sliding window limiter configured with
// the same limits, headers and rejection envelope. It is used when no Redis is
// configured.
func NewMemoryHandler(config ratelimit.Config, email string) fiber.Handler {
	handler := limiter.New(limiter.Config{
		Max:        config.RequestsPerWindow,
		Expiration: config.WindowSize,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).
				JSON(domain.Failure(email, domain.MsgTooManyRequest))
		},
		LimiterMiddleware: limiter.SlidingWindow{},
	})

	return func(c *fiber.Ctx) error {
		err := handler(c)
		renameLegacyHeaders(c)
		return err
	}
}

// renameLegacyHeaders moves any X-RateLimit-* response header to its RateLimit-* name.
func renameLegacyHeaders(c *fiber.Ctx) {
	header := &c.Response().Header
	for legacy, standard := range legacyHeaders {
		value := header.Peek(legacy)
		if len(value) == 0 {
			continue
		}
		header.Set(standard, string(value))
		header.Del(legacy)
	}
}

// setRateLimitHeaders sets the standard RateLimit-* headers on the response.
func setRateLimitHeaders(c *fiber.Ctx, result *ratelimit.Result, limit int) {
	reset := int(time.Until(result.ResetAt).Round(time.Second).Seconds())
	if reset < 0 {
		reset = 0
	}

	c.Set("RateLimit-Limit", strconv.Itoa(limit))
	c.Set("RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Set("RateLimit-Reset", strconv.Itoa(reset))
}

// sendRateLimitExceeded sends a 429 error envelope with a Retry-After header.
func sendRateLimitExceeded(c *fiber.Ctx, email string, retry time.Duration) error {
	retryAfter := int(retry.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))

	return c.Status(fiber.StatusTooManyRequests).
		JSON(domain.Failure(email, domain.MsgTooManyRequest))
}
