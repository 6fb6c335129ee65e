package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vertextoedge/cache-size-report/internal/domain"
)

// EnvPrefix is the prefix for environment overrides, e.g. CACHE_REPORT_DATABASE_DSN
const EnvPrefix = "CACHE_REPORT"

// maxQueryTimeout caps the catalog query deadline. A metadata lookup that
// takes longer points at an infrastructure problem.
const maxQueryTimeout = time.Minute

// Config represents the entire application configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Driver        string `mapstructure:"driver"`
	Path          string `mapstructure:"path"`
	DSN           string `mapstructure:"dsn"`
	QueryTimeout  string `mapstructure:"query_timeout"`
	BusyTimeoutMs int    `mapstructure:"busy_timeout_ms"`
	MaxOpenConns  int    `mapstructure:"max_open_conns"`
}

// HTTPConfig contains HTTP server configuration
type HTTPConfig struct {
	BindAddr      string `mapstructure:"bind_addr"`
	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"admin_password"`
	ReadTimeout   string `mapstructure:"read_timeout"`
	WriteTimeout  string `mapstructure:"write_timeout"`
	IdleTimeout   string `mapstructure:"idle_timeout"`

	// AuthRetryInterval is the wait imposed after a failed admin login; "0s" disables it
	AuthRetryInterval string `mapstructure:"auth_retry_interval"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig contains Prometheus exposition settings
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.query_timeout", "5s")
	v.SetDefault("database.busy_timeout_ms", 5000)
	v.SetDefault("database.max_open_conns", 4)
	v.SetDefault("http.bind_addr", "127.0.0.1:8080")
	v.SetDefault("http.admin_username", "admin")
	v.SetDefault("http.admin_password", "")
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "30s")
	v.SetDefault("http.idle_timeout", "60s")
	v.SetDefault("http.auth_retry_interval", "1s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("metrics.enabled", true)
}

// Load loads configuration from the specified file path.
// An empty path loads defaults and environment overrides only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		// Read config file
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate database config
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return invalid("database.path is required for the sqlite driver")
		}
	case "mysql", "postgres":
		if c.Database.DSN == "" {
			return invalid("database.dsn is required for the %s driver", c.Database.Driver)
		}
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownDriver, c.Database.Driver)
	}

	d, err := time.ParseDuration(c.Database.QueryTimeout)
	if err != nil {
		return invalid("invalid database.query_timeout: %v", err)
	}
	if d <= 0 || d > maxQueryTimeout {
		return invalid("database.query_timeout must be between 0 and %s", maxQueryTimeout)
	}
	if c.Database.MaxOpenConns < 0 {
		return invalid("database.max_open_conns must not be negative")
	}

	// Validate HTTP timeouts
	for key, value := range map[string]string{
		"http.read_timeout":        c.HTTP.ReadTimeout,
		"http.write_timeout":       c.HTTP.WriteTimeout,
		"http.idle_timeout":        c.HTTP.IdleTimeout,
		"http.auth_retry_interval": c.HTTP.AuthRetryInterval,
	} {
		if value == "" {
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return invalid("invalid %s: %v", key, err)
		}
		if d < 0 {
			return invalid("%s must not be negative", key)
		}
	}

	// Validate logging config
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		return invalid("invalid logging.level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
		// Valid formats
	default:
		return invalid("invalid logging.format: %s", c.Logging.Format)
	}

	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// GetQueryTimeout returns the catalog query timeout as time.Duration
func (c *DatabaseConfig) GetQueryTimeout() time.Duration {
	d, _ := time.ParseDuration(c.QueryTimeout)
	if d <= 0 {
		return 5 * time.Second
	}
	return d
}

// GetReadTimeout returns the read timeout as time.Duration
func (c *HTTPConfig) GetReadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.ReadTimeout)
	if d == 0 {
		return 10 * time.Second
	}
	return d
}

// GetWriteTimeout returns the write timeout as time.Duration
func (c *HTTPConfig) GetWriteTimeout() time.Duration {
	d, _ := time.ParseDuration(c.WriteTimeout)
	if d == 0 {
		return 30 * time.Second
	}
	return d
}

// GetIdleTimeout returns the idle timeout as time.Duration
func (c *HTTPConfig) GetIdleTimeout() time.Duration {
	d, _ := time.ParseDuration(c.IdleTimeout)
	if d == 0 {
		return 60 * time.Second
	}
	return d
}

// GetAuthRetryInterval returns the failed-login wait as time.Duration
func (c *HTTPConfig) GetAuthRetryInterval() time.Duration {
	d, _ := time.ParseDuration(c.AuthRetryInterval)
	return d
}

// AdminAuthEnabled reports whether the admin page requires basic auth
func (c *HTTPConfig) AdminAuthEnabled() bool {
	return c.AdminPassword != ""
}
