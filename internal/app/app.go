package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ratesync/internal/adapters"
	"ratesync/internal/adapters/cache"
	"ratesync/internal/adapters/httpclient"
	"ratesync/internal/adapters/postgres"
	"ratesync/internal/api"
	"ratesync/internal/bus"
	"ratesync/internal/config"
	"ratesync/internal/domain"
	"ratesync/internal/metrics"
	"ratesync/internal/platform/db"
	httpserver "ratesync/internal/platform/http"
	"ratesync/internal/rate"
	"ratesync/internal/rate/handler"
	"ratesync/internal/state"

	"github.com/sirupsen/logrus"
)

const persistTimeout = 5 * time.Second

// Run wires the application components, starts HTTP server and the poll loop
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	cfgLevel := appCfg.Logging.Level
	if parsedLvl, parseErr := logrus.ParseLevel(cfgLevel); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, initial reads)
	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Initial snapshot: defaults, then config overrides, then whatever
	// a previous run persisted.
	initial := domain.DefaultRateState()
	if cur, normErr := rate.NormalizeCode(appCfg.Rate.CurrentCurrency); normErr == nil {
		initial.CurrentCurrency = cur
	}
	if nat, normErr := rate.NormalizeCode(appCfg.Rate.NativeCurrency); normErr == nil {
		initial.NativeCurrency = nat
	}

	// Optional snapshot persistence
	var snapshotRepo adapters.SnapshotRepository
	if appCfg.DbServer.Enabled {
		pool, poolErr := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
		if poolErr != nil {
			logrus.WithError(poolErr).Error("Error connecting to db")
			return poolErr
		}
		defer pool.Close()
		logrus.Info("✅ Postgres connection successful")

		snapshotRepo = postgres.NewSnapshotRepository(pool)
		persisted, loadErr := snapshotRepo.Load(startupCtx)
		switch {
		case loadErr == nil:
			initial.CurrentCurrency = persisted.CurrentCurrency
			initial.NativeCurrency = persisted.NativeCurrency
			initial.ConversionRate = persisted.ConversionRate
			initial.ConversionDate = persisted.ConversionDate
			logrus.Info("✅ Persisted rate snapshot restored")
		case errors.Is(loadErr, domain.ErrSnapshotNotFound):
			logrus.Info("No persisted rate snapshot, starting fresh")
		default:
			logrus.WithError(loadErr).Error("Failed to load persisted rate snapshot")
			return loadErr
		}
	}

	// Rate source
	httpTimeout := time.Duration(appCfg.RateAPI.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout}

	apiBaseURL := strings.TrimSuffix(appCfg.RateAPI.BaseURL, "/")
	if apiBaseURL == "" {
		return fmt.Errorf("rate api base url is required")
	}
	var rateClient adapters.RateClient = httpclient.NewPriceClient(baseHTTPClient, apiBaseURL)

	if ttl := appCfg.Rate.QuoteCacheTTLSeconds; ttl > 0 {
		cachingClient, cacheErr := cache.NewCachingRateClient(rateClient, appCfg.Rate.QuoteCacheMaxItems, time.Duration(ttl)*time.Second)
		if cacheErr != nil {
			logrus.WithError(cacheErr).Error("Failed to create quote cache")
			return cacheErr
		}
		defer cachingClient.Close()
		rateClient = cachingClient
		logrus.Infof("✅ Quote cache enabled, TTL %ds", ttl)
	}

	// Core: store, controller, bus
	appMetrics := metrics.NewMetrics()
	store := state.NewStore(initial)
	controller := rate.NewController(store, rateClient, appCfg.Rate.IncludeUSDRate, appMetrics)

	messenger := bus.New()
	if attachErr := controller.AttachBus(messenger); attachErr != nil {
		return attachErr
	}

	if snapshotRepo != nil {
		repo := snapshotRepo
		store.Subscribe(func(snap domain.RateState) {
			saveCtx, saveCancel := context.WithTimeout(context.Background(), persistTimeout)
			defer saveCancel()
			if saveErr := repo.Save(saveCtx, snap.Persisted()); saveErr != nil {
				logrus.WithError(saveErr).Warn("Failed to persist rate snapshot")
			}
		})
	}

	// Poll loop
	scheduler := rate.NewScheduler(controller, time.Duration(appCfg.Rate.RefreshIntervalSeconds)*time.Second)
	// Ensure the poll loop stops before DB pool closes
	defer func() {
		if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
		}
	}()
	if startErr := scheduler.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start scheduler")
		return startErr
	}
	logrus.Info("✅ Poll loop activation successful")

	// Handlers and router
	rateHandler := handler.NewRateHandler(messenger)
	router := api.NewRouter(rateHandler)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop the poll loop and other in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}
