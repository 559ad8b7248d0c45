package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/padelista/padel-stats/internal/config"
	"github.com/padelista/padel-stats/internal/infrastructure/auth"
	"github.com/padelista/padel-stats/internal/infrastructure/repository/postgres"
	"github.com/padelista/padel-stats/internal/interfaces/httpapi"
	"github.com/padelista/padel-stats/internal/interfaces/realtime"
	"github.com/padelista/padel-stats/internal/platform/cache"
	idgen "github.com/padelista/padel-stats/internal/platform/id"
	"github.com/padelista/padel-stats/internal/platform/logging"
	"github.com/padelista/padel-stats/internal/usecase"
)

// App owns the process-wide resources: the HTTP server, the live broadcast
// hub and the database pool.
type App struct {
	Server *http.Server
	Hub    *realtime.Hub

	db *sqlx.DB
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	userRepo := postgres.NewUserRepository(db)
	matchRepo := postgres.NewMatchRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	statsRepo := postgres.NewStatsRepository(db)

	hasher := auth.NewPasswordHasher(cfg.AuthBcryptCost)
	tokens, err := auth.NewTokenManager(cfg.AuthJWTSecret, cfg.AuthTokenTTL)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("build token manager: %w", err)
	}

	hub, err := realtime.NewHub(tokens, checkOriginFromCORS(cfg.CORSAllowedOrigins), logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("build live hub: %w", err)
	}

	var rosterCache *cache.Store
	if cfg.CacheEnabled {
		rosterCache = cache.NewStore(cfg.CacheTTL)
	}

	ids := idgen.NewRandomGenerator()
	authSvc := usecase.NewAuthService(userRepo, hasher, tokens, ids, logger)
	matchSvc := usecase.NewMatchService(matchRepo, userRepo, ids, hub, rosterCache, logger)
	eventSvc := usecase.NewEventService(eventRepo, matchRepo, statsRepo, ids, hub, rosterCache, logger)

	handler := httpapi.NewHandler(authSvc, matchSvc, eventSvc, logger)
	router := httpapi.NewRouter(handler, tokens, hub, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		hub.Close()
		_ = db.Close()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{Server: server, Hub: hub, db: db}, nil
}

// Close releases everything New acquired. The HTTP server is shut down first
// so no request arrives at a closed pool.
func (a *App) Close(ctx context.Context) error {
	err := a.Server.Shutdown(ctx)

	a.Hub.Close()
	if closeErr := a.db.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	return err
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.ConnectContext(ctx, "postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)

	return db, nil
}

// checkOriginFromCORS reuses the HTTP CORS allow-list for websocket upgrades.
func checkOriginFromCORS(allowed []string) func(*http.Request) bool {
	allowAll := false
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			allowAll = true
		}
		set[origin] = struct{}{}
	}

	return func(r *http.Request) bool {
		if allowAll {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			// Non-browser clients do not send an Origin header.
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
