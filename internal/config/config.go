package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pitchside/match-center/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                        string
	ServiceName                   string
	ServiceVersion                string
	HTTPAddr                      string
	DBURL                         string
	DBDisablePreparedBinary       bool
	CORSAllowedOrigins            []string
	ReadTimeout                   time.Duration
	WriteTimeout                  time.Duration
	AuthgateBaseURL               string
	AuthgateIntrospectPath        string
	AuthgateTimeout               time.Duration
	BetsAPIEnabled                bool
	BetsAPIBaseURL                string
	BetsAPIToken                  string
	BetsAPITimeout                time.Duration
	BetsAPIMaxRetries             int
	BetsAPICircuitEnabled         bool
	BetsAPICircuitFailureCount    int
	BetsAPICircuitOpenTimeout     time.Duration
	BetsAPICircuitHalfOpenMaxReq  int
	SyncMaxPages                  int
	SyncResyncBatchSize           int
	SyncResyncWorkers             int
	InternalJobToken              string
	LogLevel                      logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	betsAPIEnabled, err := strconv.ParseBool(getEnv("BETSAPI_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETSAPI_ENABLED: %w", err)
	}
	betsAPITimeout, err := time.ParseDuration(getEnv("BETSAPI_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETSAPI_TIMEOUT: %w", err)
	}
	if betsAPITimeout <= 0 {
		return Config{}, fmt.Errorf("BETSAPI_TIMEOUT must be > 0")
	}
	betsAPIMaxRetries, err := getEnvAsInt("BETSAPI_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse BETSAPI_MAX_RETRIES: %w", err)
	}
	if betsAPIMaxRetries < 0 {
		return Config{}, fmt.Errorf("BETSAPI_MAX_RETRIES must be >= 0")
	}
	betsAPICircuitEnabled, err := strconv.ParseBool(getEnv("BETSAPI_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETSAPI_CIRCUIT_ENABLED: %w", err)
	}
	betsAPICircuitFailureCount, err := getEnvAsInt("BETSAPI_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse BETSAPI_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if betsAPICircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("BETSAPI_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	betsAPICircuitOpenTimeout, err := time.ParseDuration(getEnv("BETSAPI_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETSAPI_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if betsAPICircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("BETSAPI_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	betsAPICircuitHalfOpenMaxReq, err := getEnvAsInt("BETSAPI_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse BETSAPI_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if betsAPICircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("BETSAPI_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	betsAPIBaseURL := strings.TrimSpace(getEnv("BETSAPI_BASE_URL", "https://api.b365api.com"))
	betsAPIToken := strings.TrimSpace(getEnv("BETSAPI_TOKEN", ""))
	if betsAPIEnabled && betsAPIToken == "" {
		return Config{}, fmt.Errorf("BETSAPI_TOKEN is required when BETSAPI_ENABLED=true")
	}

	syncMaxPages, err := getEnvAsInt("SYNC_MAX_PAGES", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_MAX_PAGES: %w", err)
	}
	if syncMaxPages < 1 {
		return Config{}, fmt.Errorf("SYNC_MAX_PAGES must be >= 1")
	}
	syncResyncBatchSize, err := getEnvAsInt("SYNC_RESYNC_BATCH_SIZE", 100)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_RESYNC_BATCH_SIZE: %w", err)
	}
	if syncResyncBatchSize < 1 {
		return Config{}, fmt.Errorf("SYNC_RESYNC_BATCH_SIZE must be >= 1")
	}
	syncResyncWorkers, err := getEnvAsInt("SYNC_RESYNC_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_RESYNC_WORKERS: %w", err)
	}
	if syncResyncWorkers < 1 {
		return Config{}, fmt.Errorf("SYNC_RESYNC_WORKERS must be >= 1")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	authgateTimeout, err := time.ParseDuration(getEnv("AUTHGATE_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTHGATE_TIMEOUT: %w", err)
	}
	if authgateTimeout <= 0 {
		return Config{}, fmt.Errorf("AUTHGATE_TIMEOUT must be > 0")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	cfg := Config{
		AppEnv:                       appEnv,
		ServiceName:                  getEnv("APP_SERVICE_NAME", "match-center-api"),
		ServiceVersion:               getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                     getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                        getEnv("DB_URL", ""),
		DBDisablePreparedBinary:      dbDisablePreparedBinary,
		CORSAllowedOrigins:           splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                  readTimeout,
		WriteTimeout:                 writeTimeout,
		AuthgateBaseURL:              getEnv("AUTHGATE_BASE_URL", "http://localhost:8081"),
		AuthgateIntrospectPath:       getEnv("AUTHGATE_INTROSPECT_PATH", "/v1/auth/introspect"),
		AuthgateTimeout:              authgateTimeout,
		BetsAPIEnabled:               betsAPIEnabled,
		BetsAPIBaseURL:               betsAPIBaseURL,
		BetsAPIToken:                 betsAPIToken,
		BetsAPITimeout:               betsAPITimeout,
		BetsAPIMaxRetries:            betsAPIMaxRetries,
		BetsAPICircuitEnabled:        betsAPICircuitEnabled,
		BetsAPICircuitFailureCount:   betsAPICircuitFailureCount,
		BetsAPICircuitOpenTimeout:    betsAPICircuitOpenTimeout,
		BetsAPICircuitHalfOpenMaxReq: betsAPICircuitHalfOpenMaxReq,
		SyncMaxPages:                 syncMaxPages,
		SyncResyncBatchSize:          syncResyncBatchSize,
		SyncResyncWorkers:            syncResyncWorkers,
		InternalJobToken:             strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		LogLevel:                     logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
