package app

import (
	"fmt"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/pitchside/match-center/external/authgate"
	"github.com/pitchside/match-center/external/betsapi"
	"github.com/pitchside/match-center/internal/config"
	"github.com/pitchside/match-center/internal/domain/match"
	"github.com/pitchside/match-center/internal/infrastructure/repository/memory"
	"github.com/pitchside/match-center/internal/infrastructure/repository/postgres"
	"github.com/pitchside/match-center/internal/interfaces/httpapi"
	"github.com/pitchside/match-center/internal/platform/logging"
	"github.com/pitchside/match-center/internal/platform/resilience"
	"github.com/pitchside/match-center/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	matchRepo, err := newMatchRepository(cfg, logger)
	if err != nil {
		return nil, err
	}

	betsapiClient := betsapi.NewClient(betsapi.ClientConfig{
		BaseURL:    cfg.BetsAPIBaseURL,
		Token:      cfg.BetsAPIToken,
		Timeout:    cfg.BetsAPITimeout,
		MaxRetries: cfg.BetsAPIMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.BetsAPICircuitEnabled,
			FailureThreshold: cfg.BetsAPICircuitFailureCount,
			OpenTimeout:      cfg.BetsAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.BetsAPICircuitHalfOpenMaxReq,
		},
	})

	syncSvc := usecase.NewMatchSyncService(betsapiClient, matchRepo, usecase.MatchSyncConfig{
		Enabled:         cfg.BetsAPIEnabled,
		MaxPages:        cfg.SyncMaxPages,
		ResyncBatchSize: cfg.SyncResyncBatchSize,
		ResyncWorkers:   cfg.SyncResyncWorkers,
	}, logger)
	matchSvc := usecase.NewMatchService(matchRepo, logger)
	analyticsSvc := usecase.NewAnalyticsService(matchRepo, logger)

	authgateClient := authgate.NewClient(
		&http.Client{Timeout: cfg.AuthgateTimeout},
		cfg.AuthgateBaseURL,
		cfg.AuthgateIntrospectPath,
		logger,
	)

	handler := httpapi.NewHandler(matchSvc, syncSvc, analyticsSvc, logger)
	router := httpapi.NewRouter(handler, authgateClient, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// newMatchRepository opens the traced Postgres store, or falls back to
// the in-process store when no DB_URL is configured.
func newMatchRepository(cfg config.Config, logger *logging.Logger) (match.Repository, error) {
	if cfg.DBURL == "" {
		logger.Warn("DB_URL is empty, using in-memory match store")
		return memory.NewMatchRepository(nil), nil
	}

	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return postgres.NewMatchRepository(db), nil
}
