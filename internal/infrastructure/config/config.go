// Package config loads the service settings from config.toml and STORE_
// environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// EnvPrefix prefixes every environment override, e.g. STORE_DATABASE_PASSWORD
const EnvPrefix = "STORE"

const devJWTSecret = "development-only-secret-change-me-please"

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Supplier  SupplierConfig  `mapstructure:"supplier"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Profiling ProfilingConfig `mapstructure:"profiling"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, or file path
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

// DatabaseConfig selects postgres or a sqlite file. Connection lifetimes are
// in minutes.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Path            string `mapstructure:"path"` // sqlite file, ":memory:" allowed
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"`
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

// RedisConfig holds Redis connection settings. With Enabled false the sync
// lock and token blacklist stay in process memory.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
	Issuer     string        `mapstructure:"issuer"`
}

// AdminConfig holds the bootstrap administrator account
type AdminConfig struct {
	Name     string `mapstructure:"name"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// SupplierConfig holds the supplier site connection settings
type SupplierConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	UserAgent    string        `mapstructure:"user_agent"`
	LoginTimeout time.Duration `mapstructure:"login_timeout"`
	ItemTimeout  time.Duration `mapstructure:"item_timeout"`
	LockTTL      time.Duration `mapstructure:"lock_ttl"`
}

type HTTPConfig struct {
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	IdleTimeout      time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes   int           `mapstructure:"max_header_bytes"`
	MaxBodySize      int64         `mapstructure:"max_body_size"`
	CORSAllowOrigins []string      `mapstructure:"cors_allow_origins"`
	CORSAllowMethods []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders []string      `mapstructure:"cors_allow_headers"`
	TrustedProxies   []string      `mapstructure:"trusted_proxies"`
	AuthRateLimit    int           `mapstructure:"auth_rate_limit"` // login/register attempts per client per minute
}

// TelemetryConfig holds OpenTelemetry configuration. With Enabled false the
// otel no-op providers are used.
type TelemetryConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	CollectorEndpoint string        `mapstructure:"collector_endpoint"` // OTLP gRPC, e.g. localhost:4317
	SamplingRatio     float64       `mapstructure:"sampling_ratio"`
	ServiceName       string        `mapstructure:"service_name"`
	Insecure          bool          `mapstructure:"insecure"`
	MetricsInterval   time.Duration `mapstructure:"metrics_interval"`
	DBTraceEnabled    bool          `mapstructure:"db_trace_enabled"`
	DBSlowQueryThresh time.Duration `mapstructure:"db_slow_query_threshold"`
	LogsEnabled       bool          `mapstructure:"logs_enabled"` // ship zap entries over OTLP too
}

// ProfilingConfig holds Pyroscope continuous profiling settings
type ProfilingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	ServerAddress     string `mapstructure:"server_address"`
	BasicAuthUser     string `mapstructure:"basic_auth_user"`
	BasicAuthPassword string `mapstructure:"basic_auth_password"`
	SpanProfiles      bool   `mapstructure:"span_profiles"` // link profiles to trace spans
}

// Load reads configuration. Environment variables win over config.toml,
// which wins over the built-in defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key. Unmarshal only sees environment
// overrides for keys viper already knows, so empty ones are listed too.
func setDefaults(v *viper.Viper) {
	defaults := map[string]any{
		"app.name": "storefront",
		"app.env":  "development",
		"app.port": "8080",

		"database.driver":             DriverPostgres,
		"database.path":               "storefront.db",
		"database.host":               "localhost",
		"database.port":               5432,
		"database.user":               "postgres",
		"database.password":           "",
		"database.dbname":             "storefront",
		"database.sslmode":            "disable",
		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  60,
		"database.conn_max_idle_time": 30,
		"database.auto_migrate":       false,

		"redis.enabled":  false,
		"redis.host":     "localhost",
		"redis.port":     6379,
		"redis.password": "",
		"redis.db":       0,

		"jwt.secret":     "",
		"jwt.expiration": 7 * 24 * time.Hour,
		"jwt.issuer":     "storefront",

		"admin.name":     "Administrator",
		"admin.email":    "",
		"admin.password": "",

		"supplier.base_url":      "https://my.muscles.co.za",
		"supplier.user_agent":    "Mozilla/5.0 (compatible; storefront-sync/1.0)",
		"supplier.login_timeout": 20 * time.Second,
		"supplier.item_timeout":  15 * time.Second,
		"supplier.lock_ttl":      5 * time.Minute,

		"log.level":  "info",
		"log.format": "console",
		"log.output": "stdout",

		"http.read_timeout": 15 * time.Second,
		// a full supplier sync runs inside one request
		"http.write_timeout":    5 * time.Minute,
		"http.idle_timeout":     60 * time.Second,
		"http.max_header_bytes": 1 << 20,
		"http.max_body_size":    2 << 20,
		// no default origin: cross-origin requests are refused until configured
		"http.cors_allow_origins": []string{},
		"http.cors_allow_methods": []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		"http.cors_allow_headers": []string{"Content-Type", "Authorization", "X-Request-ID"},
		"http.trusted_proxies":    []string{},
		"http.auth_rate_limit":    20,

		"telemetry.enabled":                 false,
		"telemetry.collector_endpoint":      "localhost:4317",
		"telemetry.sampling_ratio":          1.0,
		"telemetry.service_name":            "storefront",
		"telemetry.insecure":                false,
		"telemetry.metrics_interval":        30 * time.Second,
		"telemetry.db_trace_enabled":        false,
		"telemetry.db_slow_query_threshold": 200 * time.Millisecond,
		"telemetry.logs_enabled":            true,

		"profiling.enabled":             false,
		"profiling.server_address":      "http://localhost:4040",
		"profiling.basic_auth_user":     "",
		"profiling.basic_auth_password": "",
		"profiling.span_profiles":       true,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return errors.New("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 || c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns must be between 0 and max_open_conns (%d), got %d",
			c.Database.MaxOpenConns, c.Database.MaxIdleConns)
	}

	if _, err := url.ParseRequestURI(c.Supplier.BaseURL); err != nil {
		return fmt.Errorf("supplier.base_url is not a valid URL: %w", err)
	}
	if c.Supplier.ItemTimeout <= 0 || c.Supplier.LoginTimeout <= 0 {
		return errors.New("supplier timeouts must be positive")
	}
	// the lease is renewed after every item, so it only has to outlive the
	// login plus one item
	if floor := c.Supplier.LoginTimeout + c.Supplier.ItemTimeout; c.Supplier.LockTTL <= floor {
		return fmt.Errorf("supplier.lock_ttl must exceed login_timeout + item_timeout (%s), got %s",
			floor, c.Supplier.LockTTL)
	}
	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0 and 1, got %g", c.Telemetry.SamplingRatio)
	}

	if c.Profiling.Enabled && c.Profiling.ServerAddress == "" {
		return errors.New("profiling.server_address is required when profiling is enabled")
	}

	if !c.IsProduction() {
		if c.JWT.Secret == "" {
			c.JWT.Secret = devJWTSecret
		}
		return nil
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("jwt.secret must be at least 32 characters in production")
	}
	if c.Database.Driver == DriverPostgres {
		if c.Database.Password == "" {
			return errors.New("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return errors.New("database.sslmode cannot be 'disable' in production")
		}
	}
	for _, origin := range c.HTTP.CORSAllowOrigins {
		if origin == "*" {
			return errors.New("http.cors_allow_origins cannot contain '*' in production")
		}
	}
	return nil
}

// DSN returns the sqlite path, or a postgres URL with escaped credentials
func (d *DatabaseConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return d.Path
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
