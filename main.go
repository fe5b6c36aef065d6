// BFHL API - a Fiber service exposing Fibonacci, prime filtering, LCM, HCF and a
// single-word AI answer behind one POST /bfhl endpoint.
//
// Modules:
//   - ratelimit: per-IP sliding window limiter (Redis or in-memory)
//   - numeric:   numeric kernels as services.numeric.compute
//   - answer:    Gemini-backed services.answer.ask
//   - api:       Fiber HTTP server
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/example/bfhl-api/config"
	"github.com/example/bfhl-api/domain/ratelimit"
	"github.com/example/bfhl-api/logging"
	"github.com/example/bfhl-api/modules/answer"
	"github.com/example/bfhl-api/modules/api"
	"github.com/example/bfhl-api/modules/numeric"
	ratelimitmod "github.com/example/bfhl-api/modules/ratelimit"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var log = logging.GetLogger()

var (
	envFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "bfhl-api",
	Short: "Serve the BFHL operations API",
	Long: `Serve POST /bfhl over HTTP. Configuration comes from the environment and an
optional dotenv file (PORT, OFFICIAL_EMAIL, GEMINI_API_KEY, REDIS_ADDR, ...).`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&envFile, "config", "c", ".env", "dotenv file to load (ignored when missing)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.New(), envFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level := logging.ParseLevel(cfg.LogLevel)
	if debug {
		level = logrus.DebugLevel
	}
	logging.InitLogger(level)

	log.Infoln("=== BFHL API - Fiber + mono ===")
	log.WithFields(logrus.Fields{
		"port":       cfg.Port,
		"email":      cfg.OfficialEmail,
		"model":      cfg.GeminiModel,
		"redis_addr": cfg.RedisAddr,
		"rate_limit": fmt.Sprintf("%d/%s", cfg.RateLimitMax, cfg.RateLimitWindow),
	}).Infoln("Configuration loaded")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	limit := ratelimit.DefaultConfig()
	limit.RequestsPerWindow = cfg.RateLimitMax
	limit.WindowSize = cfg.RateLimitWindow

	rateLimitModule := ratelimitmod.NewModule(ratelimitmod.Options{
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		Limit:         limit,
		OfficialEmail: cfg.OfficialEmail,
	})
	numericModule := numeric.NewModule()
	answerModule := answer.NewModule(cfg.GeminiAPIKey, cfg.GeminiModel)
	apiModule := api.NewModule(cfg)

	apiModule.SetRateLimitModule(rateLimitModule)

	// Rate limiter first so its handler is ready when the api module builds routes.
	for _, m := range []mono.Module{rateLimitModule, numericModule, answerModule, apiModule} {
		if err := app.Register(m); err != nil {
			return fmt.Errorf("failed to register module %s: %w", m.Name(), err)
		}
	}

	if err := app.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Infoln("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Infof("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
	return nil
}

func printStartupInfo(cfg config.Config) {
	log.Infoln("")
	log.Infoln("Application started successfully!")
	log.Infoln("")
	log.Infof("Rate limit: %d requests per %s per client IP", cfg.RateLimitMax, cfg.RateLimitWindow)
	log.Infoln("")
	log.Infof("REST API Endpoints (http://localhost:%d):", cfg.Port)
	log.Infoln("  GET  /        - Endpoint listing")
	log.Infoln("  GET  /health  - Health check")
	log.Infoln("  POST /bfhl    - fibonacci | prime | lcm | hcf | AI")
	log.Infoln("")
	log.Infoln("Press Ctrl+C to shutdown gracefully")
}
