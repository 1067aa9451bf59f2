package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/V4T54L/leatherstore/internal/pkg/logger"
)

// Config holds all application configuration.
type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"production"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":5000"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9091"`

	PostgresURL string `env:"POSTGRES_URL,required,notEmpty"`
	RedisAddr   string `env:"REDIS_ADDR,required,notEmpty"`

	SessionTTL          time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionCookieName   string        `env:"SESSION_COOKIE_NAME" envDefault:"session_id"`
	SessionCookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"true"`

	MaxContentLength int64         `env:"MAX_CONTENT_LENGTH" envDefault:"16777216"` // 16MB
	ContentCacheTTL  time.Duration `env:"CONTENT_CACHE_TTL" envDefault:"5m"`

	LoginRatePerMinute int `env:"LOGIN_RATE_PER_MINUTE" envDefault:"10"`
	LoginBurst         int `env:"LOGIN_BURST" envDefault:"5"`

	TrustedProxies []string `env:"TRUSTED_PROXIES" envDefault:"127.0.0.1,::1" envSeparator:","`

	StaticPrefix         string        `env:"STATIC_PREFIX" envDefault:"/static/"`
	StaticDir            string        `env:"STATIC_DIR" envDefault:"static"`
	SlowRequestThreshold time.Duration `env:"SLOW_REQUEST_THRESHOLD" envDefault:"1s"`

	Log LogConfig `envPrefix:"LOG_"`
}

// LogConfig configures the log channels.
type LogConfig struct {
	Level         logger.Level `env:"LEVEL" envDefault:"INFO"`
	Dir           string       `env:"DIR" envDefault:"logs"`
	MaxBytes      int64        `env:"MAX_BYTES" envDefault:"10485760"` // 10MB
	BackupCount   int          `env:"BACKUP_COUNT" envDefault:"5"`
	Format        string       `env:"FORMAT" envDefault:"auto"`
	Console       bool         `env:"CONSOLE" envDefault:"true"`
	ConsoleLevel  logger.Level `env:"CONSOLE_LEVEL" envDefault:"INFO"`
	RequestsLevel logger.Level `env:"REQUESTS_LEVEL" envDefault:"INFO"`
	ActionsLevel  logger.Level `env:"ACTIONS_LEVEL" envDefault:"INFO"`
	AuthLevel     logger.Level `env:"AUTH_LEVEL" envDefault:"INFO"`
	ErrorsLevel   logger.Level `env:"ERRORS_LEVEL" envDefault:"ERROR"`
	// SensitiveTerms replaces the default redaction denylist when set.
	SensitiveTerms []string `env:"SENSITIVE_TERMS" envSeparator:","`
}

// SeedConfig holds the settings of the seed command.
type SeedConfig struct {
	PostgresURL   string `env:"POSTGRES_URL,required,notEmpty"`
	AdminUsername string `env:"SEED_ADMIN_USERNAME" envDefault:"admin"`
	AdminEmail    string `env:"SEED_ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD,required,notEmpty"`

	Log LogConfig `envPrefix:"LOG_"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.LoginRatePerMinute <= 0 {
		return nil, fmt.Errorf("LOGIN_RATE_PER_MINUTE must be positive, got %d", cfg.LoginRatePerMinute)
	}

	return cfg, nil
}

// LoadSeed reads the seed command configuration.
func LoadSeed() (*SeedConfig, error) {
	_ = godotenv.Load()

	cfg := &SeedConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Development reports whether the service runs in a development environment.
func (c *Config) Development() bool {
	return isDevelopment(c.AppEnv)
}

func isDevelopment(appEnv string) bool {
	switch strings.ToLower(appEnv) {
	case "development", "dev", "local":
		return true
	}
	return false
}

// Router converts the log settings into a logger.Config. console receives the
// echo when LOG_CONSOLE is enabled.
func (c LogConfig) Router(development bool, console io.Writer) (logger.Config, error) {
	format, err := logger.ResolveFormat(c.Format, development)
	if err != nil {
		return logger.Config{}, err
	}

	levels := logger.DefaultLevels()
	levels[logger.ChannelGeneral] = c.Level
	levels[logger.ChannelRequests] = c.RequestsLevel
	levels[logger.ChannelActions] = c.ActionsLevel
	levels[logger.ChannelAuth] = c.AuthLevel
	levels[logger.ChannelErrors] = c.ErrorsLevel

	cfg := logger.Config{
		Dir:            c.Dir,
		Format:         format,
		MaxBytes:       c.MaxBytes,
		BackupCount:    c.BackupCount,
		Levels:         levels,
		ConsoleLevel:   c.ConsoleLevel,
		SensitiveTerms: c.SensitiveTerms,
	}
	if c.Console {
		cfg.Console = console
	}
	return cfg, nil
}
