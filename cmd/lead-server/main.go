// cmd/lead-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fiscal-forum/internal/api"
	"fiscal-forum/internal/catalog"
	"fiscal-forum/internal/common/auth"
	"fiscal-forum/internal/common/camunda"
	"fiscal-forum/internal/common/config"
	"fiscal-forum/internal/common/database"
	apperrors "fiscal-forum/internal/common/errors"
	"fiscal-forum/internal/common/logger"
	"fiscal-forum/internal/common/observability"
	"fiscal-forum/internal/forms"
	"fiscal-forum/internal/leads"
)

// retryWithBackoff runs operation until it succeeds or maxRetries is reached,
// doubling the delay after each failure.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if i < maxRetries-1 {
			log.Warn(operationName+" failed, retrying",
				zap.Error(err),
				zap.String("details", apperrors.AsStandardError(err).Details),
				zap.Int("attempt", i+1),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format).
		With(zap.String("service", "lead-server"), zap.String("version", cfg.App.Version))
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New("lead-server")
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	defer obs.Shutdown(context.Background())

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		if pg, err = database.NewPostgres(cfg.Database.Postgres); err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()

	if err := pg.Migrate(ctx); err != nil {
		zapLog.Fatal("schema migration failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected and migrated")

	// --- Redis ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		if rdb, err = database.NewRedis(cfg.Database.Redis); err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected")

	readiness := map[string]api.Pinger{"postgres": pg, "redis": rdb}

	// --- Elasticsearch (optional; search falls back to memory) ---
	var esClient *elasticsearch.Client
	if cfg.Database.Elasticsearch.Enabled {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err == nil {
			err = es.Ping(ctx)
		}
		if err != nil {
			zapLog.Warn("elasticsearch unavailable, card search uses the in-memory catalog", zap.Error(err))
		} else {
			esClient = es.Client
			readiness["elasticsearch"] = es
			zapLog.Info("Elasticsearch connected")
		}
	}

	registry := forms.MustRegistry()
	store := catalog.NewStore(rdb, cfg.Catalog, log)
	searcher := catalog.NewSearcher(esClient, cfg.Catalog.Index, cfg.Catalog.SearchLimit, store, log)

	repo := leads.NewRepository(pg)
	leadService := leads.NewService(registry, repo, rdb, cfg.Leads, log).WithObservability(obs)

	// --- Zeebe (optional) ---
	if cfg.Camunda.Enabled {
		var zb *camunda.Client
		err = retryWithBackoff(func() error {
			var err error
			zb, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
				ConnectionTimeout:      10 * time.Second,
				RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		defer zb.Close()
		leadService.WithWorkflow(zb, cfg.Camunda.ProcessID)
		zapLog.Info("Zeebe client connected", zap.String("processId", cfg.Camunda.ProcessID))
	}

	var validator api.TokenValidator
	if cfg.Auth.Keycloak.URL != "" {
		validator = auth.NewKeycloakClient(
			cfg.Auth.Keycloak.URL,
			cfg.Auth.Keycloak.Realm,
			cfg.Auth.Keycloak.ClientID,
			cfg.Auth.Keycloak.ClientSecret,
		)
	} else {
		zapLog.Warn("keycloak not configured, admin routes disabled")
	}

	var limiter *api.RateLimiter
	if cfg.Server.RateLimit.Enabled {
		limiter = api.NewRateLimiter(cfg.Server.RateLimit.RequestsPerSecond, cfg.Server.RateLimit.Burst, log)
		go limiter.Run(ctx)
	}

	handlers := api.NewHandlers(registry, leadService, store, searcher, obs, log)
	router := api.NewRouter(handlers, api.RouterOptions{
		Server:      cfg.Server,
		AdminRole:   cfg.Auth.Keycloak.AdminRole,
		Auth:        validator,
		RateLimiter: limiter,
		Readiness:   readiness,
		Logger:      log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", srv.Addr), zap.Int("forms", len(registry.List())))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zapLog.Info("Shutdown signal received, draining requests...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	zapLog.Info("Lead server stopped gracefully")
}
