// cmd/prospector/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"prospector/internal/aviato"
	"prospector/internal/bot"
	"prospector/internal/bot/session"
	"prospector/internal/common/config"
	"prospector/internal/common/database"
	"prospector/internal/common/logger"
	"prospector/internal/pipeline/contacts"
	"prospector/internal/pipeline/enrich"
	"prospector/internal/pipeline/filters"
	"prospector/internal/pipeline/prospect"
	"prospector/internal/pipeline/roles"
	"prospector/internal/pipeline/searchreq"
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
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting prospector...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	ctx := context.Background()

	// --- Session store: Redis when configured, in-memory otherwise ---
	var sessions session.Store
	if cfg.Redis.Address != "" {
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		sessions = session.NewRedisStore(redis, cfg.Pipeline.SessionTTL())
		zapLog.Info("Redis connected successfully")
	} else {
		sessions = session.NewMemoryStore(cfg.Pipeline.SessionTTL())
		zapLog.Warn("No redis address configured, sessions are in-memory and lost on restart")
	}

	// --- Role taxonomy ---
	taxonomy, err := roles.Load(cfg.Roles.TaxonomyPath)
	if err != nil {
		zapLog.Fatal("role taxonomy load failed",
			zap.String("path", cfg.Roles.TaxonomyPath),
			zap.Error(err),
		)
	}
	zapLog.Info("Role taxonomy loaded",
		zap.Int("functions", len(taxonomy.Functions())),
	)

	// --- Data provider client ---
	aviatoClient := aviato.NewClient(cfg.Aviato, log)

	// --- Pipeline ---
	service := prospect.NewService(
		filters.NewCompiler(log),
		searchreq.NewBuilder(cfg.Pipeline.SearchLimit, log),
		aviatoClient,
		enrich.NewOrchestrator(aviatoClient, log),
		roles.NewMatcher(taxonomy, log),
		contacts.NewFlattener(aviatoClient, log),
		log,
	)

	// --- Chat surface ---
	transport := bot.NewWebhookTransport(cfg.Gateway.ReplyURL, cfg.Gateway.SharedSecret, log)
	chatBot := bot.New(transport, sessions, service, aviatoClient, bot.Config{
		EnrichLimit: cfg.Pipeline.EnrichLimit,
		MaxCSVRows:  cfg.Pipeline.MaxCSVRows,
	}, log)

	gateway, err := bot.NewGateway(chatBot, cfg.Gateway.SharedSecret, log)
	if err != nil {
		zapLog.Fatal("gateway init failed", zap.Error(err))
	}

	server := &http.Server{
		Addr:              cfg.Gateway.Address,
		Handler:           gateway.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLog.Info("Gateway listening", zap.String("address", cfg.Gateway.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("gateway server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down gateway server", zap.Error(err))
	}

	// Let in-flight prospecting runs finish posting their results.
	chatBot.Wait()

	zapLog.Info("Prospector stopped gracefully")
}
