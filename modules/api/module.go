// Package api serves the HTTP surface of the service on Fiber.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/example/bfhl-api/config"
	domain "github.com/example/bfhl-api/domain/bfhl"
	"github.com/example/bfhl-api/logging"
	"github.com/example/bfhl-api/modules/answer"
	"github.com/example/bfhl-api/modules/bfhl"
	ratelimitmod "github.com/example/bfhl-api/modules/ratelimit"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var log = logging.GetLogger()

// APIModule is the HTTP API module.
type APIModule struct {
	cfg             config.Config
	app             *fiber.App
	accessLog       *io.PipeWriter
	rateLimitModule *ratelimitmod.Module
	answerContainer mono.ServiceContainer
	answerAdapter   answer.AnswerPort
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*APIModule)(nil)
	_ mono.DependentModule       = (*APIModule)(nil)
	_ mono.HealthCheckableModule = (*APIModule)(nil)
)

// NewModule creates a new APIModule.
func NewModule(cfg config.Config) *APIModule {
	return &APIModule{cfg: cfg}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"answer"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "answer":
		m.answerContainer = container
		m.answerAdapter = answer.NewAnswerAdapter(container)
	}
}

// SetRateLimitModule sets the rate limiting module dependency.
func (m *APIModule) SetRateLimitModule(rlm *ratelimitmod.Module) {
	m.rateLimitModule = rlm
}

// Start builds the Fiber app and starts listening.
func (m *APIModule) Start(_ context.Context) error {
	if m.answerContainer == nil {
		return fmt.Errorf("answer dependency not set")
	}

	var limit fiber.Handler
	if m.rateLimitModule != nil {
		limit = m.rateLimitModule.Handler()
	}

	dispatcher := bfhl.NewDispatcher(m.answerAdapter, m.cfg.AnswerTimeout)
	m.accessLog = log.WriterLevel(logrus.InfoLevel)
	m.app = NewApp(m.cfg, dispatcher, limit, m.accessLog)

	addr := m.cfg.ListenAddress()
	go func() {
		if err := m.app.Listen(addr); err != nil {
			log.WithError(err).Errorln("[api] HTTP server error")
		}
	}()

	log.Infof("[api] HTTP server started on %s", addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Infoln("[api] Shutting down HTTP server...")
	err := m.app.ShutdownWithContext(ctx)
	if m.accessLog != nil {
		if cerr := m.accessLog.Close(); cerr != nil {
			log.WithError(cerr).Warnln("[api] Error closing access log writer")
		}
	}
	return err
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.cfg.Port,
		},
	}
}

// NewApp builds the Fiber application with middleware and routes. limit may be nil
// to disable rate limiting. Access log lines go to accessLog, which the caller owns.
func NewApp(cfg config.Config, dispatcher *bfhl.Dispatcher, limit fiber.Handler, accessLog io.Writer) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          newErrorHandler(cfg.OfficialEmail),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		Output: accessLog,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowedOrigins,
	}))
	app.Use(helmet.New())
	if limit != nil {
		app.Use(limit)
	}

	setupRoutes(app, NewHandlers(dispatcher, cfg.OfficialEmail))
	return app
}

// setupRoutes configures all API routes.
func setupRoutes(app *fiber.App, h *Handlers) {
	app.Get("/", h.Index)
	app.Get("/health", h.Health)
	app.Post("/bfhl", h.Operate)

	app.Use(h.NotFound)
}

// newErrorHandler maps handler errors onto the response envelope.
func newErrorHandler(email string) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusBadRequest).JSON(domain.Failure(email, vErr.Message))
		}

		var fErr *fiber.Error
		if errors.As(err, &fErr) && fErr.Code < fiber.StatusInternalServerError {
			message := fErr.Message
			if fErr.Code == fiber.StatusNotFound {
				message = domain.MsgNotFound
			}
			return c.Status(fErr.Code).JSON(domain.Failure(email, message))
		}

		log.WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
		}).WithError(err).Errorln("[api] Request failed")

		return c.Status(fiber.StatusInternalServerError).JSON(domain.Failure(email, domain.MsgInternalError))
	}
}
