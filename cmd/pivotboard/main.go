package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/pivotboard/internal/api/rest"
	"github.com/fortuna/pivotboard/internal/cache"
	"github.com/fortuna/pivotboard/internal/config"
	"github.com/fortuna/pivotboard/internal/logger"
	"github.com/fortuna/pivotboard/internal/service"
	"github.com/fortuna/pivotboard/internal/store"
	"github.com/fortuna/pivotboard/internal/store/repository"
	"github.com/fortuna/pivotboard/internal/supabase"
)

const (
	serviceName    = "pivotboard"
	serviceVersion = "1.0.0"

	redisMaxRetries = 5
	redisRetryDelay = 2 * time.Second
)

// source is what the dashboard reads tables from
type source interface {
	service.Querier
	rest.HealthChecker
}

func main() {
	cfgPath := os.Getenv("PIVOT_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()

	lg.Info("starting", zap.String("service", serviceName), zap.String("version", serviceVersion))

	src, closeSource := openSource(cfg, lg)
	defer closeSource()

	cacheStore, closeCache := openCache(cfg.Cache, lg)
	defer closeCache()

	tableCache := cache.NewTableCache(cacheStore, cfg.Cache.TTL, lg)
	fetcher := service.NewFetcher(src, tableCache, lg)
	dashboard := service.NewDashboard(fetcher, lg)

	server := rest.NewServer(cfg.Server.HTTPAddr, dashboard, src, lg)
	go func() {
		lg.Info("dashboard listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("http server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	lg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		lg.Error("http server shutdown", zap.Error(err))
	}

	lg.Info("stopped")
}

// openSource connects the configured table source. The dashboard cannot
// render anything without one, so failures are fatal.
func openSource(cfg config.Config, lg *zap.Logger) (source, func()) {
	switch cfg.Source.Driver {
	case config.DriverPostgres:
		db, err := store.NewDatabase(cfg.DB.DSN)
		if err != nil {
			lg.Fatal("connecting to postgres", zap.Error(err))
		}
		lg.Info("connected to postgres")
		return repository.NewTableRepository(db), func() { db.Close() }

	default:
		client, err := supabase.New(cfg.Supabase.URL, cfg.Supabase.Key, cfg.Source.Timeout)
		if err != nil {
			lg.Fatal("supabase client", zap.Error(err))
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Source.Timeout)
		defer cancel()
		if err := client.Ping(ctx); err != nil {
			lg.Fatal("connecting to supabase", zap.Error(err))
		}
		lg.Info("connected to supabase")
		return client, func() {}
	}
}

// openCache builds the configured cache store, retrying redis while it comes up
func openCache(cfg config.CacheConfig, lg *zap.Logger) (cache.Store, func()) {
	if cfg.Backend != config.CacheRedis {
		return cache.NewMemoryStore(), func() {}
	}

	var (
		rs  *cache.RedisStore
		err error
	)
	for i := 0; i < redisMaxRetries; i++ {
		rs, err = cache.NewRedisStore(cfg.RedisURL)
		if err == nil {
			break
		}
		if i < redisMaxRetries-1 {
			lg.Warn("redis connection failed, retrying",
				zap.Int("attempt", i+1), zap.Duration("delay", redisRetryDelay), zap.Error(err))
			time.Sleep(redisRetryDelay)
		}
	}
	if err != nil {
		lg.Fatal("connecting to redis", zap.Int("attempts", redisMaxRetries), zap.Error(err))
	}

	lg.Info("connected to redis")
	return rs, func() { rs.Close() }
}
