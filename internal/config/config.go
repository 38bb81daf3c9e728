package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	TablePrefix string `yaml:"table_prefix"`
	// Transport
	BotToken     string `yaml:"bot_token"`
	StorageChat  int64  `yaml:"storage_chat"`
	PollTimeout  int    `yaml:"poll_timeout"` // seconds, long-poll window
	// Storage: a postgres:// URL selects PostgreSQL, anything else is a SQLite path
	DatabaseURL string `yaml:"database_url"`
	// Dispatch
	WorkerLimit  int           `yaml:"worker_limit"`
	InputTimeout time.Duration `yaml:"input_timeout"`
	PageSize     int           `yaml:"page_size"`
	// Change events
	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`
	// Ops API (disabled when OpsAddr is empty)
	OpsAddr        string `yaml:"ops_addr"`
	OpsJWKSURL     string `yaml:"ops_jwks_url"`
	OpsCORSOrigins string `yaml:"ops_cors_origins"`
	// Logging
	LogDir      string `yaml:"log_dir"`
	LogMaxFiles int    `yaml:"log_max_files"`
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}

	if cfg.TablePrefix == "" {
		cfg.TablePrefix = getTablePrefix(cfg.Environment)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Environment:    "dev",
		PollTimeout:    60,
		DatabaseURL:    "data.db",
		WorkerLimit:    DefaultWorkerLimit,
		InputTimeout:   DefaultInputTimeout,
		PageSize:       DefaultPageSize,
		KafkaTopic:     "tgdrive.changes",
		OpsCORSOrigins: "http://localhost:3000",
		LogMaxFiles:    10,
	}
}

// mergeFile overlays values from a YAML file. A missing file is an error
// because the caller asked for it explicitly.
func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s does not exist", path)
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse yaml config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.TablePrefix = getEnv("TABLE_PREFIX", c.TablePrefix)
	c.BotToken = getEnv("TG_BOT_KEY", c.BotToken)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.KafkaTopic = getEnv("KAFKA_TOPIC", c.KafkaTopic)
	c.OpsAddr = getEnv("OPS_ADDR", c.OpsAddr)
	c.OpsJWKSURL = getEnv("OPS_JWKS_URL", c.OpsJWKSURL)
	c.OpsCORSOrigins = getEnv("OPS_CORS_ORIGINS", c.OpsCORSOrigins)
	c.LogDir = getEnv("LOG_DIR", c.LogDir)

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		c.KafkaBrokers = splitList(brokers)
	}

	var err error
	if c.StorageChat, err = getEnvInt64("STORAGE_CHAT", c.StorageChat); err != nil {
		return err
	}
	if c.WorkerLimit, err = getEnvInt("WORKER_LIMIT", c.WorkerLimit); err != nil {
		return err
	}
	if c.PageSize, err = getEnvInt("PAGE_SIZE", c.PageSize); err != nil {
		return err
	}
	if c.PollTimeout, err = getEnvInt("POLL_TIMEOUT", c.PollTimeout); err != nil {
		return err
	}
	if c.LogMaxFiles, err = getEnvInt("LOG_MAX_FILES", c.LogMaxFiles); err != nil {
		return err
	}
	if v := os.Getenv("INPUT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid INPUT_TIMEOUT %q: %w", v, err)
		}
		c.InputTimeout = d
	}

	return nil
}

// Validate checks the values the bot cannot start without
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BotToken, validation.Required.Error("TG_BOT_KEY is required")),
		validation.Field(&c.StorageChat, validation.Required.Error("STORAGE_CHAT is required")),
		validation.Field(&c.DatabaseURL, validation.Required),
		validation.Field(&c.WorkerLimit, validation.Required, validation.Min(1)),
		validation.Field(&c.PageSize, validation.Required, validation.Min(1), validation.Max(MaxPageSize)),
		validation.Field(&c.InputTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.Environment, validation.In("dev", "test", "prod")),
		validation.Field(&c.OpsJWKSURL,
			validation.When(c.OpsAddr != "", validation.Required.Error("OPS_JWKS_URL is required when OPS_ADDR is set"))),
	)
}

// UsePostgres reports whether DatabaseURL points at PostgreSQL
func (c *Config) UsePostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
