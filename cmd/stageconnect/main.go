// cmd/stageconnect/main.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"stageconnect/internal/authz"
	"stageconnect/internal/common/aws"
	"stageconnect/internal/common/config"
	"stageconnect/internal/common/database"
	"stageconnect/internal/common/logger"
	"stageconnect/internal/engine/candidature"
	"stageconnect/internal/engine/offer"
	"stageconnect/internal/favorites"
	"stageconnect/internal/identity"
	"stageconnect/internal/locks"
	"stageconnect/internal/notify"
	"stageconnect/internal/profile"
	"stageconnect/internal/search"
	"stageconnect/internal/stats"
	"stageconnect/internal/store"
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
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()
	log := logger.NewZapAdapter(zapLogger)

	log.Info("starting stageconnect", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// PostgreSQL
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLogger.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()
	if err := retryWithBackoff(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return pg.Ping(pingCtx)
	}, 5, time.Second, zapLogger, "postgres ping"); err != nil {
		zapLogger.Fatal("postgres unreachable", zap.Error(err))
	}

	// Redis (optional: enables the apply lock and the stats cache)
	var applyLocks candidature.Locker = locks.NopLocker{}
	var rdb *database.RedisClient
	if cfg.Database.Redis.Address != "" {
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			zapLogger.Fatal("redis init failed", zap.Error(err))
		}
		defer rdb.Close()
		if err := rdb.Ping(ctx); err != nil {
			log.Warn("redis unreachable, apply lock and stats cache disabled", map[string]interface{}{
				"error": err.Error(),
			})
			rdb = nil
		} else {
			applyLocks = locks.NewRedisLocker(rdb.Client)
		}
	}

	// Stores and gate
	gate := authz.NewGate()
	offerStore := store.NewOfferStore(pg.DB)
	candidatureStore := store.NewCandidatureStore(pg.DB)
	userStore := store.NewUserStore(pg.DB)
	profileStore := store.NewProfileStore(pg.DB)
	favoriteStore := store.NewFavoriteStore(pg.DB)
	statsStore := store.NewStatsStore(pg.DB)

	// Engines
	offerEngine := offer.NewEngine(offerStore, candidatureStore, gate, log)
	if cfg.Database.Elasticsearch.Enabled() {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLogger.Fatal("elasticsearch init failed", zap.Error(err))
		}
		idx := search.NewOfferIndex(es.Client, cfg.Database.Elasticsearch.Index, log)
		offerEngine.WithSearch(idx, idx)
	}

	candidatureEngine := candidature.NewEngine(
		candidatureStore, offerStore, offerEngine, userStore, gate, applyLocks, log)
	candidatureEngine.WithUnitOfWork(pg, func(tx *sql.Tx) (candidature.Store, candidature.Lifecycle) {
		return candidatureStore.InTx(tx), offerEngine.WithStore(offerStore.InTx(tx))
	})
	identityService := identity.NewService(userStore, profileStore, gate, log)
	profileService := profile.NewService(profileStore, log)
	favoritesLedger := favorites.NewLedger(favoriteStore, offerStore, gate, log)

	var statsService *stats.Service
	if rdb != nil {
		statsService = stats.NewService(statsStore, rdb.Client, gate, log)
	} else {
		statsService = stats.NewService(statsStore, nil, gate, log)
	}

	// Notification dispatcher
	var dispatcher *notify.Dispatcher
	if cfg.Notifications.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWSRegion)
		if err != nil {
			zapLogger.Fatal("ses init failed", zap.Error(err))
		}
		var snsClient notify.SNSService
		if cfg.Notifications.TopicARN != "" {
			c, err := aws.NewSNSClient(ctx, cfg.Notifications.AWSRegion)
			if err != nil {
				zapLogger.Fatal("sns init failed", zap.Error(err))
			}
			snsClient = c
		}
		dispatcher = notify.NewDispatcher(cfg.Notifications, log, sesClient, snsClient)
	} else {
		dispatcher = notify.NewDispatcher(cfg.Notifications, log, nil, nil)
	}

	// The transport layer (out of scope here) mounts these services; keep
	// the references alive for it and for the health endpoint below.
	_ = candidatureEngine
	_ = identityService
	_ = profileService
	_ = favoritesLedger
	_ = statsService
	_ = dispatcher

	// Metrics + pprof + health
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pg.Ping(pingCtx); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: mux,
	}
	go func() {
		log.Info("metrics server listening", map[string]interface{}{
			"port": cfg.Server.MetricsPort,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("metrics server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("metrics server shutdown failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
