package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/festory/festory/internal/application"
	"github.com/festory/festory/internal/calendar"
	"github.com/festory/festory/internal/config"
	"github.com/festory/festory/internal/festival"
	httptransport "github.com/festory/festory/internal/http"
	"github.com/festory/festory/internal/persistence/sqlite"
	"github.com/festory/festory/internal/places"
	"github.com/festory/festory/internal/store"
	"github.com/festory/festory/internal/weather"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.NewConnectionPool(sqlite.DefaultConfig(cfg.SQLitePath))
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	now := time.Now

	credentialRepo := sqlite.NewCredentialRepository(pool)
	snapshotRepo := sqlite.NewSnapshotRepository(pool)

	st := store.New(snapshotRepo, now, logger)
	if err := st.Load(context.Background()); err != nil {
		logger.Error("failed to load persisted state", "error", err)
		os.Exit(1)
	}

	catalog, err := festival.NewCatalog()
	if err != nil {
		logger.Error("failed to load festival catalog", "error", err)
		os.Exit(1)
	}

	authService := application.NewAuthServiceWithLogger(credentialRepo, st, application.AuthConfig{
		StateSecret:      []byte(cfg.SessionSecret),
		StateTTL:         cfg.StateTTL,
		KakaoClientID:    cfg.KakaoClientID,
		KakaoRedirectURI: cfg.KakaoRedirectURI,
	}, now, logger)

	calendarClient := calendar.NewClient(calendar.Config{
		BaseURL:    cfg.CalendarBaseURL,
		CalendarID: cfg.CalendarID,
	}, logger)
	weatherClient := weather.NewClient(weather.Config{
		BaseURL: cfg.WeatherBaseURL,
		APIKey:  cfg.WeatherAPIKey,
	}, now, logger)
	weatherService := weather.NewService(weatherClient, cfg.WeatherTTL, now, logger)
	placesClient := places.NewClient(places.Config{
		BaseURL: cfg.PlacesBaseURL,
		APIKey:  cfg.PlacesAPIKey,
	}, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:        httptransport.NewAuthHandler(authService, logger),
		Festivals:   httptransport.NewFestivalHandler(catalog, st, logger),
		Collections: httptransport.NewCollectionHandler(st, catalog, calendarClient, newGoogleTokenClearer(st), logger),
		Calendar:    httptransport.NewCalendarHandler(st, calendarClient, newGoogleTokenClearer(st), logger),
		Trips:       httptransport.NewTripHandler(st, catalog, now, logger),
		Taste:       httptransport.NewTasteHandler(st, catalog, logger),
		Weather:     httptransport.NewWeatherHandler(weatherService, logger),
		Places:      httptransport.NewPlaceHandler(placesClient, logger),
		Middleware:  []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("festory API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

type googleTokenClearer struct {
	store *store.Store
}

func newGoogleTokenClearer(st *store.Store) *googleTokenClearer {
	return &googleTokenClearer{store: st}
}

func (c *googleTokenClearer) ClearGoogleToken(ctx context.Context) error {
	return c.store.SetGoogleAccessToken(ctx, "")
}
