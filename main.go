package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"shop-catalog/internal/auth"
	"shop-catalog/internal/catalog"
	"shop-catalog/internal/config"
	"shop-catalog/internal/dataservice"
	"shop-catalog/internal/db"
	"shop-catalog/internal/featureflags"
	mw "shop-catalog/internal/http/middleware"
	"shop-catalog/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1) Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// 2) DB init
	sqlDB, err := db.Init(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	defer sqlDB.Close()

	// 3) Feature flags init (non-fatal)
	flagCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	if err := featureflags.Init(flagCtx, cfg.Flags.APIKey); err != nil {
		log.Printf("feature flags init warning: %v", err)
	} else {
		log.Printf("feature flags ready: offline=%v, logLevel=%s",
			featureflags.Values().Offline.IsEnabled(nil),
			featureflags.Values().LogLevel.GetValue(nil))
	}
	cancel()
	defer featureflags.Shutdown()

	// 3a) Levelled logger from flag, re-read on a timer
	logger.Init(featureflags.Values().LogLevel.GetValue(nil))
	defer func() { _ = logger.Sync() }()
	logger.Infof("log level set to %s", logger.GetLevel())
	go watchLogLevel(ctx)

	// 4) Data service, optionally behind Redis
	pg := dataservice.NewPostgres(sqlDB)
	var ds catalog.DataService = pg
	if cfg.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		ds = dataservice.NewCached(ds, rdb, cfg.Redis.TTL)
		logger.Infof("catalog cache enabled at %s (ttl %s)", cfg.Redis.Addr, cfg.Redis.TTL)
	}

	sorter := catalog.NewSorter(cfg.Catalog.Language)
	newStore := func() *catalog.Store {
		return catalog.NewStore(ds, catalog.WithPageSize(cfg.Catalog.PageSize), catalog.WithSorter(sorter))
	}
	sessions := catalog.NewSessions(newStore)
	defer sessions.CloseAll()
	go sweepSessions(ctx, sessions, cfg.Catalog.SessionTTL)

	// 5) Router
	r := mux.NewRouter()
	r.Use(offlineGate)
	r.Use(mw.Metrics)
	r.Use(mw.LogRequests(mw.WithSkips("/health", "/ready", "/metrics")))

	// 6) Health, metrics and flags
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.Ping(r.Context()); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret)
	r.HandleFunc("/_flags", verifier.RequireAdmin(func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]interface{}{
			"offline":  featureflags.Values().Offline.IsEnabled(nil),
			"logLevel": featureflags.Values().LogLevel.GetValue(nil),
			"sessions": sessions.Len(),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})).Methods(http.MethodGet)

	// 7) Catalog endpoints
	catalog.NewHandler(ds, sessions, newStore).Register(r)

	s := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           r,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()

	logger.Infof("shop-catalog listening on %s", s.Addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// offlineGate blocks everything but health checks while the offline flag is on
func offlineGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" || r.URL.Path == "/ready" {
			next.ServeHTTP(w, r)
			return
		}
		if featureflags.Values().Offline.IsEnabled(nil) {
			http.Error(w, "service temporarily offline", http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func watchLogLevel(ctx context.Context) {
	t := time.NewTicker(5 * time.Second)
	defer t.Stop()
	prev := featureflags.Values().LogLevel.GetValue(nil)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			cur := featureflags.Values().LogLevel.GetValue(nil)
			if cur != prev {
				logger.SetLevel(cur)
				logger.Infof("log level changed to %s", logger.GetLevel())
				prev = cur
			}
		}
	}
}

func sweepSessions(ctx context.Context, sessions *catalog.Sessions, ttl time.Duration) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := sessions.Sweep(ttl); n > 0 {
				logger.Infof("unmounted %d idle catalog sessions", n)
			}
		}
	}
}
