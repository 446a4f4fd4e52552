package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"paper_catalog_go_backend/internal/database"
	"paper_catalog_go_backend/internal/openalex"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database database.Config
	OpenAlex OpenAlexConfig
}

type AppConfig struct {
	Environment    string
	LogLevel       string
	AllowedOrigins []string
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type OpenAlexConfig struct {
	BaseURL   string
	Timeout   time.Duration
	Mailto    string
	RateLimit float64
}

// Load reads the configuration from the environment, falling back to
// development defaults.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Environment:    getEnv("APP_ENV", "development"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		},
		Server: ServerConfig{
			Port:            getEnv("PORT", "8000"),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: database.Config{
			Driver:       getEnv("DB_DRIVER", database.DriverPostgres),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", "papers"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			Path:         getEnv("DB_PATH", "papers.db"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
			LogQueries:   getEnv("DB_LOG_QUERIES", "") == "true",
		},
		OpenAlex: OpenAlexConfig{
			BaseURL:   getEnv("OPENALEX_BASE_URL", openalex.DefaultBaseURL),
			Timeout:   getEnvDuration("OPENALEX_TIMEOUT", openalex.DefaultTimeout),
			Mailto:    getEnv("OPENALEX_MAILTO", ""),
			RateLimit: getEnvFloat("OPENALEX_RATE_LIMIT", openalex.DefaultRateLimit),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	return validation.Errors{
		"PORT": validation.Validate(c.Server.Port, validation.Required, is.Port),
		"DB_DRIVER": validation.Validate(c.Database.Driver,
			validation.In(database.DriverPostgres, database.DriverSQLite)),
		"DB_PASSWORD": validation.Validate(c.Database.Password,
			validation.When(c.App.Environment == "production" && c.Database.Driver == database.DriverPostgres,
				validation.Required.Error("must be set in production"))),
		"DB_PATH": validation.Validate(c.Database.Path,
			validation.When(c.Database.Driver == database.DriverSQLite, validation.Required)),
		"OPENALEX_BASE_URL": validation.Validate(c.OpenAlex.BaseURL, validation.Required, is.URL),
		"OPENALEX_MAILTO":   validation.Validate(c.OpenAlex.Mailto, is.EmailFormat),
		"OPENALEX_TIMEOUT":  validation.Validate(c.OpenAlex.Timeout, validation.Required),
	}.Filter()
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
