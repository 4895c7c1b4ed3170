package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type AppEnv string

const (
	ProductionEnv AppEnv = "production"
	StageEnv      AppEnv = "stage"
	DevelopEnv    AppEnv = "develop"
	LocalEnv      AppEnv = "local"
	TestEnv       AppEnv = "test"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	// DriverMemory is a throwaway in-process sqlite database.
	DriverMemory = "memory"
)

type (
	Config struct {
		AppEnv     AppEnv
		LogLevel   logrus.Level
		APIVersion string
		HTTP       HTTP
		Database   Database
		Redis      Redis
		Kafka      Kafka
	}

	HTTP struct {
		Port        int
		CORSOrigins []string
	}

	Database struct {
		Driver     string
		SQLitePath string
		Postgres   Postgres
	}

	Postgres struct {
		Host     string
		Port     int
		Username string
		Password string
		Database string
	}

	Redis struct {
		Addr     string
		Password string
		Database int
		LockTTL  time.Duration
	}

	Kafka struct {
		Brokers     []string
		EventsTopic string
	}
)

// Enabled reports whether a redis address is configured.
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "config : failed to read .env")
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, errors.Wrap(err, "config : invalid LOG_LEVEL")
	}

	driver := getEnv("DB_DRIVER", DriverSQLite)
	switch driver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return nil, errors.Errorf("config : unsupported DB_DRIVER %q", driver)
	}

	cfg := &Config{
		AppEnv:     AppEnv(getEnv("APP_ENV", string(LocalEnv))),
		LogLevel:   level,
		APIVersion: getEnv("API_VERSION", "v1"),
		HTTP: HTTP{
			Port:        getEnvAsInt("HTTP_PORT", 8080),
			CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),
		},
		Database: Database{
			Driver:     driver,
			SQLitePath: getEnv("SQLITE_PATH", "queuewise.db"),
			Postgres: Postgres{
				Host:     getEnv("DB_HOST", "localhost"),
				Port:     getEnvAsInt("DB_PORT", 5432),
				Username: getEnv("DB_USER", "postgres"),
				Password: getEnv("DB_PASSWORD", ""),
				Database: getEnv("DB_NAME", "queuewise"),
			},
		},
		Redis: Redis{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			Database: getEnvAsInt("REDIS_DB", 0),
			LockTTL:  getEnvAsDuration("LOCK_TTL", 5*time.Second),
		},
		Kafka: Kafka{
			Brokers:     getEnvAsList("KAFKA_BROKERS", nil),
			EventsTopic: getEnv("KAFKA_EVENTS_TOPIC", "queue.events"),
		},
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
