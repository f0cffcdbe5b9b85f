// Package config loads the runtime configuration of the notification service.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/next-trace/scg-rfid-reader/adapters/kafka"
	"github.com/next-trace/scg-rfid-reader/adapters/nats"
	"github.com/next-trace/scg-rfid-reader/adapters/postgres"
	"github.com/next-trace/scg-rfid-reader/adapters/rabbitmq"
	"github.com/next-trace/scg-rfid-reader/adapters/redis"
)

// Transport names accepted in Config.Transport.
const (
	TransportMemory   = "memory"
	TransportNATS     = "nats"
	TransportRabbitMQ = "rabbitmq"
	TransportKafka    = "kafka"
	TransportRedis    = "redis"
	TransportPostgres = "postgres"
)

// Config is the resolved runtime configuration.
type Config struct {
	HTTPAddr        string        `yaml:"http_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	LogLevel        string        `yaml:"log_level"`
	Transport       string        `yaml:"transport"`

	NATS     nats.Config     `yaml:"nats"`
	RabbitMQ rabbitmq.Config `yaml:"rabbitmq"`
	Kafka    kafka.Config    `yaml:"kafka"`
	Redis    redis.Config    `yaml:"redis"`
	Postgres postgres.Config `yaml:"postgres"`
}

// Default returns the configuration used when no file or env override is given.
func Default() Config {
	return Config{
		HTTPAddr:        ":8070",
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		Transport:       TransportMemory,
		Postgres:        postgres.Config{Channel: postgres.DefaultChannel},
		Kafka:           kafka.Config{Topic: kafka.DefaultTopic},
	}
}

// Load resolves configuration in priority order: defaults -> file -> env.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}

		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("RFID_HTTP_ADDR", &cfg.HTTPAddr)
	str("RFID_LOG_LEVEL", &cfg.LogLevel)
	str("RFID_TRANSPORT", &cfg.Transport)
	str("RFID_NATS_URL", &cfg.NATS.URL)
	str("RFID_RABBITMQ_URL", &cfg.RabbitMQ.URL)
	str("RFID_KAFKA_TOPIC", &cfg.Kafka.Topic)
	str("RFID_REDIS_ADDR", &cfg.Redis.Addr)
	str("RFID_REDIS_PASSWORD", &cfg.Redis.Password)
	str("RFID_POSTGRES_DSN", &cfg.Postgres.DSN)
	str("RFID_POSTGRES_CHANNEL", &cfg.Postgres.Channel)

	if v, ok := lookup("RFID_KAFKA_BROKERS"); ok && v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}

	if v, ok := lookup("RFID_REDIS_DB"); ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RFID_REDIS_DB: %w", err)
		}

		cfg.Redis.DB = db
	}

	if v, ok := lookup("RFID_SHUTDOWN_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("RFID_SHUTDOWN_TIMEOUT: %w", err)
		}

		cfg.ShutdownTimeout = d
	}

	return nil
}

func splitList(v string) []string {
	var out []string

	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

// Validate checks that the selected transport has what it needs to connect.
func (c Config) Validate() error {
	var errs []error

	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http_addr is required"))
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	switch c.Transport {
	case TransportMemory:
	case TransportNATS:
		if c.NATS.URL == "" {
			errs = append(errs, errors.New("nats.url is required"))
		}
	case TransportRabbitMQ:
		if c.RabbitMQ.URL == "" {
			errs = append(errs, errors.New("rabbitmq.url is required"))
		}
	case TransportKafka:
		if len(c.Kafka.Brokers) == 0 {
			errs = append(errs, errors.New("kafka.brokers is required"))
		}
	case TransportRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis.addr is required"))
		}
	case TransportPostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("postgres.dsn is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown transport %q", c.Transport))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}

	return nil
}

// ParseLevel maps a level name onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", s, err)
	}

	return l, nil
}
