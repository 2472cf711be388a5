package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"kellyServer/advisory"
	"kellyServer/api"
	"kellyServer/config"
	"kellyServer/db"
	"kellyServer/ws"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	if err := db.InitPostgres(cfg); err != nil {
		log.Warnf("⚠️  Warning: PostgreSQL initialization failed: %v", err)
		log.Warn("   Advisory log will be disabled")
	}
	defer db.ClosePostgres()

	if err := db.InitRedis(cfg); err != nil {
		log.Warnf("⚠️  Warning: Redis initialization failed: %v", err)
		log.Warn("   Advisory responses will not be cached")
	}
	defer db.CloseRedis()

	advisor := newAdvisor(ctx, cfg)

	server := api.NewServer(cfg.Game, advisor, ws.NewHandler(cfg.Game, advisor))
	httpServer := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logEndpoints(cfg.ServerAddr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("🛑 Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Errorf("❌ Server error: %v", err)
	}
	log.Info("👋 Server stopped")
}

func setupLogging(cfg *config.Config) {
	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("⚠️  Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func newAdvisor(ctx context.Context, cfg *config.Config) advisory.Advisor {
	opts := []advisory.Option{advisory.WithTimeout(cfg.AdvisoryTimeout)}
	if db.RedisClient != nil {
		opts = append(opts, advisory.WithCache(db.AdvisoryCache{TTL: cfg.AdvisoryCacheTTL}))
	}
	if db.PostgresEnabled() {
		opts = append(opts, advisory.WithRecorder(db.AdvisoryLog{}))
	}

	gen, err := advisory.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Warnf("⚠️  Warning: Advisory generator unavailable: %v", err)
		log.Warn("   Analysis requests will return the fallback message")
		return advisory.NewService(nil, opts...)
	}

	log.Infof("✅ Advisory generator ready (model %s)", cfg.GeminiModel)
	return advisory.NewService(gen, opts...)
}

func logEndpoints(addr string) {
	log.Infof("🚀 Server starting on %s", addr)
	log.Info("📡 WebSocket Endpoints:")
	log.Info("   /ws - one simulator + crash session per connection")
	log.Info("🔌 API Endpoints:")
	log.Info("   GET  /api/health - Health check (Redis + PostgreSQL)")
	log.Info("   POST /api/kelly - Kelly metrics for (winProbability, decimalOdds)")
	log.Info("   POST /api/simulate - Generate one four-strategy trajectory")
	log.Info("   GET  /api/crash/advice - Kelly advice for a crash cash-out target")
	log.Info("   POST /api/advisory - Text analysis of the parameters")
	log.Info("   GET  /api/advisory/recent - Recent advisory log")
}
