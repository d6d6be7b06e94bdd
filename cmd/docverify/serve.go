package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"docverify/internal/config"
	"docverify/internal/handlers"
	"docverify/internal/imaging"
	"docverify/internal/logging"
	"docverify/internal/metrics"
	"docverify/internal/middleware"
	"docverify/internal/ratelimit"
	"docverify/internal/receipt"
	"docverify/internal/router"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the verification HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if !cmd.Flags().Changed("log-level") && !cmd.Flags().Changed("pretty") {
				logging.Init(cfg.Log.Level, cfg.Log.Pretty)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	trusted, err := middleware.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return err
	}
	if len(trusted) == 0 {
		log.Info().Msg("no trusted proxies configured; rate limiting by socket address")
	}

	detector, closeDetector, err := newDetector(ctx, cfg.OCR)
	if err != nil {
		return fmt.Errorf("failed to init OCR engine %q: %w", cfg.OCR.Engine, err)
	}
	defer closeDetector()

	store, err := newRateLimitStore(cfg.RateLimit)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	issuer := receipt.NewIssuer(cfg.Receipt.Secret, cfg.Receipt.TTL, cfg.Receipt.BaseURL)
	if issuer == nil {
		log.Info().Msg("receipt secret not set; receipts disabled")
	}

	m := metrics.New()
	h := handlers.New(handlers.Deps{
		Detector:  detector,
		Images:    imaging.NewProcessor(cfg.Image.MaxDimension),
		Receipts:  issuer,
		Metrics:   m,
		BodyLimit: cfg.Server.BodyLimit,
	})

	server := &http.Server{
		Addr: cfg.Server.Address,
		Handler: router.RegisterRouter(h, router.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			TrustedProxies: trusted,
			Metrics:        m,
			RateLimitStore: store,
			RateLimit:      cfg.RateLimit.Requests,
			RateWindow:     cfg.RateLimit.Window,
		}),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", cfg.Server.Address).Str("ocr", cfg.OCR.Engine).Msg("Starting docverify server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info().Msg("Server exited")
	return nil
}

func newRateLimitStore(cfg config.RateLimitConfig) (ratelimit.Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.Backend == config.BackendRedis {
		s, err := ratelimit.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return ratelimit.NewMemoryStore(cfg.Window), nil
}
