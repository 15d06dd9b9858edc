package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Logger   LoggerConfig
	Security SecurityConfig
	Session  SessionConfig
	View     ViewConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DataConfig struct {
	CSVFile     string
	CacheDir    string
	LoadTimeout time.Duration
}

type LoggerConfig struct {
	Level  string
	Format string
}

type SecurityConfig struct {
	EnableRateLimit bool
	RateLimitRPS    int
	RateLimitBurst  int
	AllowedOrigins  []string
	TrustedProxies  []string
}

// SessionConfig bounds the per-browser selection sessions.
type SessionConfig struct {
	TTL          time.Duration
	MaxSessions  int
	ClickRPS     float64
	ClickBurst   int
	SecureCookie bool
}

// Timeline y-axis policies.
const (
	YDomainDynamic = "dynamic"
	YDomainFixed   = "fixed"
)

// ViewConfig holds display policies. SelectionLimit 0 means unbounded.
type ViewConfig struct {
	SelectionLimit  int
	TimelineYDomain string
	TimelineYMax    float64
	Palette         string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnvString("SERVER_HOST", "localhost"),
			Port:            getEnvInt("SERVER_PORT", 8084),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Data: DataConfig{
			CSVFile:     getEnvString("CSV_FILE", "data/pizza_sales.csv"),
			CacheDir:    getEnvString("CACHE_DIR", ".cache"),
			LoadTimeout: getEnvDuration("CSV_LOAD_TIMEOUT", 30*time.Second),
		},
		Logger: LoggerConfig{
			Level:  getEnvString("LOG_LEVEL", "info"),
			Format: getEnvString("LOG_FORMAT", "json"),
		},
		Security: SecurityConfig{
			EnableRateLimit: getEnvBool("SECURITY_RATE_LIMIT_ENABLED", true),
			RateLimitRPS:    getEnvInt("SECURITY_RATE_LIMIT_RPS", 100),
			RateLimitBurst:  getEnvInt("SECURITY_RATE_LIMIT_BURST", 20),
			AllowedOrigins:  getEnvStringSlice("SECURITY_ALLOWED_ORIGINS", []string{"http://localhost:8084"}),
			TrustedProxies:  getEnvStringSlice("SECURITY_TRUSTED_PROXIES", []string{"127.0.0.1"}),
		},
		Session: SessionConfig{
			TTL:          getEnvDuration("SESSION_TTL", 2*time.Hour),
			MaxSessions:  getEnvInt("SESSION_MAX", 10000),
			ClickRPS:     getEnvFloat("SESSION_CLICK_RPS", 8),
			ClickBurst:   getEnvInt("SESSION_CLICK_BURST", 4),
			SecureCookie: getEnvBool("SESSION_SECURE_COOKIE", false),
		},
		View: ViewConfig{
			SelectionLimit:  getEnvInt("SELECTION_LIMIT", 0),
			TimelineYDomain: getEnvString("TIMELINE_Y_DOMAIN", YDomainDynamic),
			TimelineYMax:    getEnvFloat("TIMELINE_Y_MAX", 110),
			Palette:         getEnvString("COLOR_PALETTE", "deep"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Data.CSVFile == "" {
		return fmt.Errorf("CSV file path cannot be empty")
	}

	if c.Data.LoadTimeout <= 0 {
		return fmt.Errorf("CSV load timeout must be positive")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}

	if c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}

	if c.Session.MaxSessions <= 0 {
		return fmt.Errorf("session max must be positive")
	}

	if c.Session.ClickRPS <= 0 || c.Session.ClickBurst <= 0 {
		return fmt.Errorf("session click rate and burst must be positive")
	}

	if c.View.SelectionLimit < 0 {
		return fmt.Errorf("selection limit cannot be negative, got %d", c.View.SelectionLimit)
	}

	validYDomains := []string{YDomainDynamic, YDomainFixed}
	if !contains(validYDomains, c.View.TimelineYDomain) {
		return fmt.Errorf("invalid timeline y domain %q, must be one of: %s", c.View.TimelineYDomain, strings.Join(validYDomains, ", "))
	}

	if c.View.TimelineYMax <= 0 {
		return fmt.Errorf("timeline y max must be positive")
	}

	validPalettes := []string{"bright", "deep"}
	if !contains(validPalettes, c.View.Palette) {
		return fmt.Errorf("invalid color palette %q, must be one of: %s", c.View.Palette, strings.Join(validPalettes, ", "))
	}

	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
