package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig    `yaml:"server"`
	Database    DatabaseConfig  `yaml:"database"`
	Logging     LoggingConfig   `yaml:"logging"`
	Tracing     TracingConfig   `yaml:"tracing"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	Assets      AssetsConfig    `yaml:"assets"`
	Matching    MatchingConfig  `yaml:"matching"`
	Environment string          `yaml:"environment"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	BaseURL         string        `yaml:"base_url"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

type DatabaseConfig struct {
	URL            string `yaml:"url"`
	MaxConnections int    `yaml:"max_connections"`
	MinConnections int    `yaml:"min_connections"`
	MigrationsPath string `yaml:"migrations_path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	ServiceName  string  `yaml:"service_name"`
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	SampleRate   float64 `yaml:"sample_rate"`
}

type RateLimitConfig struct {
	PublicPerMinute   int      `yaml:"public_per_minute"`
	TrustedProxyCIDRs []string `yaml:"trusted_proxy_cidrs"`
}

// AssetsConfig selects where the default venue image comes from.
// Backend is "static" or "s3".
type AssetsConfig struct {
	Backend           string        `yaml:"backend"`
	DefaultVenueImage string        `yaml:"default_venue_image"`
	S3Bucket          string        `yaml:"s3_bucket"`
	S3Key             string        `yaml:"s3_key"`
	S3Region          string        `yaml:"s3_region"`
	S3Endpoint        string        `yaml:"s3_endpoint"`
	S3AccessKey       string        `yaml:"s3_access_key"`
	S3SecretKey       string        `yaml:"s3_secret_key"`
	PresignExpiry     time.Duration `yaml:"presign_expiry"`
}

// MatchingConfig holds the inclusive tolerances used by venue searches.
type MatchingConfig struct {
	AreaTolerance   float64 `yaml:"area_tolerance"`
	BudgetTolerance float64 `yaml:"budget_tolerance"`
}

// Defaults returns the configuration used before any file or environment
// overrides are applied.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			BaseURL:         "http://localhost:8080",
			ShutdownTimeout: 15 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Database: DatabaseConfig{
			MaxConnections: 25,
			MinConnections: 2,
			MigrationsPath: "internal/storage/postgres/migrations",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Exporter:     "none",
			ServiceName:  "eventsg-backend",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		RateLimit: RateLimitConfig{
			PublicPerMinute: 120,
		},
		Assets: AssetsConfig{
			Backend:           "static",
			DefaultVenueImage: "/static/images/default-venue.png",
			S3Region:          "ap-southeast-1",
			PresignExpiry:     time.Hour,
		},
		Matching: MatchingConfig{
			AreaTolerance:   10,
			BudgetTolerance: 50,
		},
		Environment: "development",
	}
}

// Load builds the configuration from defaults, the optional YAML file at path,
// and environment variables, in increasing order of precedence.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("SERVER_PORT", cfg.Server.Port)
	cfg.Server.BaseURL = getEnv("SERVER_BASE_URL", cfg.Server.BaseURL)
	cfg.Server.ShutdownTimeout = getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)
	cfg.Server.MaxBodyBytes = int64(getEnvInt("SERVER_MAX_BODY_BYTES", int(cfg.Server.MaxBodyBytes)))

	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)
	cfg.Database.MaxConnections = getEnvInt("DATABASE_MAX_CONNECTIONS", cfg.Database.MaxConnections)
	cfg.Database.MinConnections = getEnvInt("DATABASE_MIN_CONNECTIONS", cfg.Database.MinConnections)
	cfg.Database.MigrationsPath = getEnv("MIGRATIONS_PATH", cfg.Database.MigrationsPath)

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)

	cfg.Tracing.Enabled = getEnvBool("TRACING_ENABLED", cfg.Tracing.Enabled)
	cfg.Tracing.Exporter = getEnv("TRACING_EXPORTER", cfg.Tracing.Exporter)
	cfg.Tracing.ServiceName = getEnv("TRACING_SERVICE_NAME", cfg.Tracing.ServiceName)
	cfg.Tracing.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Tracing.OTLPEndpoint)
	cfg.Tracing.SampleRate = getEnvFloat("TRACING_SAMPLE_RATE", cfg.Tracing.SampleRate)

	cfg.RateLimit.PublicPerMinute = getEnvInt("RATE_LIMIT_PUBLIC", cfg.RateLimit.PublicPerMinute)
	if cidrs := getEnv("TRUSTED_PROXY_CIDRS", ""); cidrs != "" {
		cfg.RateLimit.TrustedProxyCIDRs = splitList(cidrs)
	}

	cfg.Assets.Backend = getEnv("ASSETS_BACKEND", cfg.Assets.Backend)
	cfg.Assets.DefaultVenueImage = getEnv("DEFAULT_VENUE_IMAGE", cfg.Assets.DefaultVenueImage)
	cfg.Assets.S3Bucket = getEnv("ASSETS_S3_BUCKET", cfg.Assets.S3Bucket)
	cfg.Assets.S3Key = getEnv("ASSETS_S3_KEY", cfg.Assets.S3Key)
	cfg.Assets.S3Region = getEnv("AWS_REGION", cfg.Assets.S3Region)
	cfg.Assets.S3Endpoint = getEnv("ASSETS_S3_ENDPOINT", cfg.Assets.S3Endpoint)
	cfg.Assets.S3AccessKey = getEnv("AWS_ACCESS_KEY_ID", cfg.Assets.S3AccessKey)
	cfg.Assets.S3SecretKey = getEnv("AWS_SECRET_ACCESS_KEY", cfg.Assets.S3SecretKey)
	cfg.Assets.PresignExpiry = getEnvDuration("ASSETS_PRESIGN_EXPIRY", cfg.Assets.PresignExpiry)

	cfg.Matching.AreaTolerance = getEnvFloat("MATCH_AREA_TOLERANCE", cfg.Matching.AreaTolerance)
	cfg.Matching.BudgetTolerance = getEnvFloat("MATCH_BUDGET_TOLERANCE", cfg.Matching.BudgetTolerance)

	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
}

func (c Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT %d out of range", c.Server.Port))
	}
	if c.Matching.AreaTolerance < 0 {
		errs = append(errs, errors.New("MATCH_AREA_TOLERANCE must not be negative"))
	}
	if c.Matching.BudgetTolerance < 0 {
		errs = append(errs, errors.New("MATCH_BUDGET_TOLERANCE must not be negative"))
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		errs = append(errs, errors.New("TRACING_SAMPLE_RATE must be between 0 and 1"))
	}
	switch strings.ToLower(c.Assets.Backend) {
	case "static":
		if c.Assets.DefaultVenueImage == "" {
			errs = append(errs, errors.New("DEFAULT_VENUE_IMAGE is required for the static assets backend"))
		}
	case "s3":
		if c.Assets.S3Bucket == "" || c.Assets.S3Key == "" {
			errs = append(errs, errors.New("ASSETS_S3_BUCKET and ASSETS_S3_KEY are required for the s3 assets backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported ASSETS_BACKEND %q", c.Assets.Backend))
	}
	return errors.Join(errs...)
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
