// Package config loads the service configuration from the environment and an optional
// dotenv file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultOfficialEmail is the contact address reported when OFFICIAL_EMAIL is unset.
const DefaultOfficialEmail = "yasir0393.be23@chitkara.edu.in"

// Config holds the application configuration. It is built once at startup and
// passed by value to the modules that need it.
type Config struct {
	Port          int
	OfficialEmail string
	LogLevel      string

	GeminiAPIKey  string
	GeminiModel   string
	AnswerTimeout time.Duration

	RedisAddr       string
	RedisPassword   string
	RateLimitMax    int
	RateLimitWindow time.Duration

	BodyLimit          int
	CORSAllowedOrigins string
}

// ListenAddress returns the address the HTTP server binds to.
func (c Config) ListenAddress() string {
	return fmt.Sprintf(":%d", c.Port)
}

// setDefaults registers every known key so env lookups resolve through viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 5000)
	v.SetDefault("official_email", DefaultOfficialEmail)
	v.SetDefault("log_level", "info")

	v.SetDefault("google_generative_ai_api_key", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("answer_timeout", 15*time.Second)

	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("rate_limit_max", 100)
	v.SetDefault("rate_limit_window", 15*time.Minute)

	v.SetDefault("body_limit", 10*1024*1024)
	v.SetDefault("cors_allowed_origins", "*")
}

// New returns a viper instance with defaults and environment binding applied.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads envFile (when it exists) on top of the environment and defaults, then
// validates the result. An empty envFile skips file loading.
func Load(v *viper.Viper, envFile string) (Config, error) {
	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	apiKey := v.GetString("google_generative_ai_api_key")
	if apiKey == "" {
		apiKey = v.GetString("gemini_api_key")
	}

	cfg := Config{
		Port:               v.GetInt("port"),
		OfficialEmail:      v.GetString("official_email"),
		LogLevel:           v.GetString("log_level"),
		GeminiAPIKey:       apiKey,
		GeminiModel:        v.GetString("gemini_model"),
		AnswerTimeout:      v.GetDuration("answer_timeout"),
		RedisAddr:          v.GetString("redis_addr"),
		RedisPassword:      v.GetString("redis_password"),
		RateLimitMax:       v.GetInt("rate_limit_max"),
		RateLimitWindow:    v.GetDuration("rate_limit_window"),
		BodyLimit:          v.GetInt("body_limit"),
		CORSAllowedOrigins: v.GetString("cors_allowed_origins"),
	}

	if cfg.OfficialEmail == "" {
		cfg.OfficialEmail = DefaultOfficialEmail
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.AnswerTimeout <= 0 {
		return errors.New("answer_timeout must be positive")
	}
	if c.RateLimitMax <= 0 {
		return errors.New("rate_limit_max must be positive")
	}
	if c.RateLimitWindow <= 0 {
		return errors.New("rate_limit_window must be positive")
	}
	if c.BodyLimit <= 0 {
		return errors.New("body_limit must be positive")
	}
	return nil
}
