// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"fiscal-forum/internal/common/aws"
	"fiscal-forum/internal/common/camunda"
	"fiscal-forum/internal/common/config"
	"fiscal-forum/internal/common/database"
	apperrors "fiscal-forum/internal/common/errors"
	"fiscal-forum/internal/common/logger"
	"fiscal-forum/internal/common/zoho"
	"fiscal-forum/internal/leads"

	clc "fiscal-forum/internal/workers/leads/crm-lead-create"
	sln "fiscal-forum/internal/workers/leads/send-lead-notification"
	uls "fiscal-forum/internal/workers/leads/update-lead-status"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.String("details", apperrors.AsStandardError(err).Details),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
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

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format).With(zap.String("service", "worker-manager"))
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Zeebe ---
	var zb *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zb, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zb.Close()
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Redis ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- External services ---
	crm := zoho.NewCRMClient(
		cfg.Integrations.Zoho.BaseURL,
		cfg.Integrations.Zoho.AuthToken,
		config.GetDuration(cfg.Integrations.Zoho.Timeout),
	)

	var mailer sln.EmailSender
	if cfg.Notifications.Email.Enabled {
		from := cfg.Notifications.Email.FromEmail
		if from == "" {
			from = cfg.Integrations.AWS.SES.FromEmail
		}
		m, err := aws.NewMailer(ctx, cfg.Integrations.AWS.Region, from)
		if err != nil {
			zapLog.Fatal("SES mailer init failed", zap.Error(err))
		}
		mailer = m
	}

	var sms sln.SMSSender
	if cfg.Notifications.SMS.Enabled {
		s, err := aws.NewSMSSender(ctx, cfg.Integrations.AWS.Region, cfg.Integrations.AWS.SNS.DefaultSMSSenderID)
		if err != nil {
			zapLog.Fatal("SNS sender init failed", zap.Error(err))
		}
		sms = s
	}

	zapLog.Info("All external service clients initialized")

	// --- Workers ---
	pool := camunda.NewWorkerPool(zb.GetClient(), log)
	defer pool.Close()

	register := func(taskType string, handler camunda.JobHandler, maxJobs int, timeout time.Duration, buildErr error) {
		if buildErr != nil {
			zapLog.Fatal("failed to create handler", zap.String("taskType", taskType), zap.Error(buildErr))
		}
		if !config.IsWorkerEnabled(cfg, taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		if err := pool.Register(camunda.Registration{
			TaskType:      taskType,
			Handler:       handler,
			MaxJobsActive: maxJobs,
			Timeout:       timeout,
		}); err != nil {
			zapLog.Fatal("worker registration failed", zap.String("taskType", taskType), zap.Error(err))
		}
	}

	crmCfg := clc.ConfigFromApp(cfg)
	crmHandler, err := clc.NewHandler(crmCfg, crm, log)
	register(clc.TaskType, crmHandler, crmCfg.MaxJobsActive, crmCfg.Timeout, err)

	notifyCfg := sln.ConfigFromApp(cfg)
	notifyHandler, err := sln.NewHandler(notifyCfg, mailer, sms, rdb.Client, log)
	register(sln.TaskType, notifyHandler, notifyCfg.MaxJobsActive, notifyCfg.Timeout, err)

	statusCfg := uls.ConfigFromApp(cfg)
	statusHandler, err := uls.NewHandler(statusCfg, leads.NewRepository(pg), log)
	register(uls.TaskType, statusHandler, statusCfg.MaxJobsActive, statusCfg.Timeout, err)

	zapLog.Info("Workers registered", zap.Int("count", pool.Len()))

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"workers": pool.Len(),
			"time":    time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		status, state := http.StatusOK, "ready"
		if err := zb.HealthCheck(r.Context()); err != nil {
			status, state = http.StatusServiceUnavailable, err.Error()
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": state})
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: mux, ReadTimeout: 5 * time.Second}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Health server shutdown failed", zap.Error(err))
	}
	zapLog.Info("Worker manager stopped gracefully")
}
