package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/noah-isme/cart-pricing/internal/config"
	"github.com/noah-isme/cart-pricing/internal/health"
	"github.com/noah-isme/cart-pricing/internal/obs"
	"github.com/noah-isme/cart-pricing/internal/quote"
	"github.com/noah-isme/cart-pricing/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		shutdown, err := obs.InitTracer(ctx, obs.TracingConfig{
			ServiceName:   "cart-pricing",
			Endpoint:      cfg.OTLPEndpoint,
			SamplingRatio: cfg.TracingSampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			cfg.TracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	var (
		httpMetrics  *obs.HTTPMetrics
		quoteMetrics *obs.QuoteMetrics
		gatherer     prometheus.Gatherer
	)
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		httpMetrics = obs.NewHTTPMetrics(cfg.MetricsNamespace, reg)
		quoteMetrics = obs.NewQuoteMetrics(cfg.MetricsNamespace, reg)
		gatherer = reg
	}

	policy := cfg.Pricing
	handler, err := server.NewRouter(server.Options{
		Logger: logger,
		Quotes: &quote.Handler{Svc: &quote.Service{
			Policy:  policy,
			Metrics: quoteMetrics,
			Logger:  logger,
		}},
		Health:         health.Handler{},
		HTTPMetrics:    httpMetrics,
		Gatherer:       gatherer,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		QuoteRateLimit: cfg.QuoteRateLimit,
		Tracing:        cfg.TracingEnabled,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("build router")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown")
		}
	}()

	logger.Info().
		Str("addr", srv.Addr).
		Str("currency", policy.Currency).
		Float64("tax_rate", policy.TaxRate).
		Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
	logger.Info().Msg("server stopped")
}
