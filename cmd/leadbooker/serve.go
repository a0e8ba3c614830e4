package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/omnigo/leadbooker/calendar"
	"github.com/omnigo/leadbooker/calendar/google"
	"github.com/omnigo/leadbooker/internal/availability"
	"github.com/omnigo/leadbooker/internal/booking"
	"github.com/omnigo/leadbooker/internal/config"
	"github.com/omnigo/leadbooker/internal/httpapi"
	"github.com/omnigo/leadbooker/internal/sqlite"
)

var ServeCommand = _serveCommand{
	Name:        "serve",
	Description: "Serve the availability and booking HTTP API",
}

type _serveCommand struct {
	Name        string
	Description string
}

func (s _serveCommand) Run(ctx context.Context, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := sql.Open(sqlite.DriverName, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	storage, err := sqlite.NewStorage(db)
	if err != nil {
		return err
	}

	googleCal, err := newGoogleClient(cfg, logger)
	if err != nil {
		return err
	}

	mux := calendar.NewMux()
	mux.Register(googleProvider, googleCal)
	provider, err := mux.Get(googleProvider)
	if err != nil {
		return err
	}

	availabilitySvc := availability.NewService(provider, cfg.WorkingHours, logger)
	bookingSvc := booking.NewService(provider, logger)

	handler := httpapi.NewHandler(availabilitySvc, bookingSvc, provider, storage, httpapi.Defaults{
		TimeZone:    cfg.DefaultTimeZone,
		DurationMin: cfg.DefaultDurationMin,
		Summary:     cfg.DefaultSummary,
	}, logger)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpapi.NewRouter(handler, logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newGoogleClient(cfg config.Config, logger *zap.Logger) (*google.Client, error) {
	var oauthJSON, saJSON []byte
	var err error

	if cfg.GoogleOAuthCredentialsFile != "" {
		oauthJSON, err = os.ReadFile(cfg.GoogleOAuthCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("reading oauth credentials: %w", err)
		}
	}
	if cfg.GoogleServiceAccountFile != "" {
		saJSON, err = os.ReadFile(cfg.GoogleServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("reading service-account credentials: %w", err)
		}
	}
	return google.NewClient(oauthJSON, saJSON, logger)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
