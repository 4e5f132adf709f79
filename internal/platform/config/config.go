// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root configuration. Empty connection strings select the
// in-memory or log-only implementation of the corresponding component.
type Config struct {
	Env      string `env:"APP_ENV" env-default:"development" yaml:"env"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info" yaml:"log_level"`

	Server       Server       `yaml:"server"`
	Database     Database     `yaml:"database"`
	Redis        RedisConfig  `yaml:"redis"`
	Storage      Storage      `yaml:"storage"`
	Notify       Notify       `yaml:"notify"`
	Auth         Auth         `yaml:"auth"`
	RateLimit    RateLimit    `yaml:"rate_limit"`
	Verification Verification `yaml:"verification"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr              string        `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"5s" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"shutdown_timeout"`
	MaxUploadBytes    int64         `env:"HTTP_MAX_UPLOAD_BYTES" env-default:"10485760" yaml:"max_upload_bytes"`
}

type Database struct {
	URL             string        `env:"DATABASE_URL" yaml:"url"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" env-default:"20" yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" env-default:"30m" yaml:"conn_max_lifetime"`
	AutoMigrate     bool          `env:"DATABASE_AUTO_MIGRATE" env-default:"false" yaml:"auto_migrate"`
}

type RedisConfig struct {
	URL          string        `env:"REDIS_URL" yaml:"url"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" env-default:"10" yaml:"pool_size"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" env-default:"2" yaml:"min_idle_conns"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" env-default:"5s" yaml:"dial_timeout"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" env-default:"3s" yaml:"read_timeout"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" env-default:"3s" yaml:"write_timeout"`
	DirectoryTTL time.Duration `env:"REDIS_DIRECTORY_TTL" env-default:"5m" yaml:"directory_ttl"`
}

type Storage struct {
	S3Bucket   string `env:"S3_BUCKET" yaml:"s3_bucket"`
	S3Prefix   string `env:"S3_PREFIX" env-default:"verifications" yaml:"s3_prefix"`
	S3Endpoint string `env:"S3_ENDPOINT" yaml:"s3_endpoint"`
	Region     string `env:"AWS_REGION" env-default:"eu-west-2" yaml:"region"`
}

type Notify struct {
	SESSender    string   `env:"SES_SENDER" yaml:"ses_sender"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" env-separator:"," yaml:"kafka_brokers"`
	KafkaTopic   string   `env:"KAFKA_TOPIC" env-default:"verification-events" yaml:"kafka_topic"`
	BufferSize   int      `env:"NOTIFY_BUFFER_SIZE" env-default:"256" yaml:"buffer_size"`
}

type Auth struct {
	JWTSigningKey string        `env:"JWT_SIGNING_KEY" yaml:"jwt_signing_key"`
	JWTIssuer     string        `env:"JWT_ISSUER" env-default:"credverify" yaml:"jwt_issuer"`
	JWTClockSkew  time.Duration `env:"JWT_CLOCK_SKEW" env-default:"30s" yaml:"jwt_clock_skew"`
}

// RateLimit budgets are per minute.
type RateLimit struct {
	Disabled           bool `env:"RATE_LIMIT_DISABLED" env-default:"false" yaml:"disabled"`
	ApplicantPerMinute int  `env:"RATE_LIMIT_APPLICANT_PER_MINUTE" env-default:"60" yaml:"applicant_per_minute"`
	WebhookPerMinute   int  `env:"RATE_LIMIT_WEBHOOK_PER_MINUTE" env-default:"120" yaml:"webhook_per_minute"`
}

// Verification holds engine defaults that institutions may override.
type Verification struct {
	WorkerPoolSize      int           `env:"VERIFICATION_WORKERS" env-default:"4" yaml:"worker_pool_size"`
	WorkerQueueSize     int           `env:"VERIFICATION_QUEUE_SIZE" env-default:"128" yaml:"worker_queue_size"`
	InstitutionTimeout  time.Duration `env:"INSTITUTION_API_TIMEOUT" env-default:"30s" yaml:"institution_timeout"`
	InstitutionRetries  int           `env:"INSTITUTION_API_RETRIES" env-default:"3" yaml:"institution_retries"`
	AnalyzerURL         string        `env:"ANALYZER_URL" yaml:"analyzer_url"`
	AnalyzerTimeout     time.Duration `env:"ANALYZER_TIMEOUT" env-default:"60s" yaml:"analyzer_timeout"`
	BreakerFailures     int           `env:"INSTITUTION_BREAKER_FAILURES" env-default:"5" yaml:"breaker_failures"`
	BreakerCooldown     time.Duration `env:"INSTITUTION_BREAKER_COOLDOWN" env-default:"30s" yaml:"breaker_cooldown"`
	InstitutionSeedPath string        `env:"INSTITUTION_SEED_PATH" yaml:"institution_seed_path"`
}

const devSigningKey = "dev-secret-key-change-in-production"

// Load reads .env (if present), an optional YAML file named by CONFIG_PATH,
// and the environment, in that order of increasing precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if cfg.Auth.JWTSigningKey == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SIGNING_KEY is required in production")
		}
		cfg.Auth.JWTSigningKey = devSigningKey
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
