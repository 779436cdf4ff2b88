package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	limiter "github.com/ulule/limiter/v3"
	limiterhttp "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/cart-pricing/internal/health"
	"github.com/noah-isme/cart-pricing/internal/obs"
	"github.com/noah-isme/cart-pricing/internal/quote"
	"github.com/noah-isme/cart-pricing/internal/security"
)

const defaultMaxBodyBytes = 1 << 20

// Options configures the HTTP router.
type Options struct {
	Logger         zerolog.Logger
	Quotes         *quote.Handler
	Health         health.Handler
	HTTPMetrics    *obs.HTTPMetrics
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	// QuoteRateLimit uses the ulule format, e.g. "600-M". Empty disables limiting.
	QuoteRateLimit string
	// MaxBodyBytes caps API request bodies; zero means 1 MiB.
	MaxBodyBytes int64
	Tracing      bool
}

// NewRouter assembles the service routes and middleware.
func NewRouter(opts Options) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.HTTPObs{Metrics: opts.HTTPMetrics}.Middleware)
	r.Use(obs.RequestLogger{Logger: opts.Logger}.Middleware)
	r.Use(security.Headers{}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(opts.AllowedOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/health/live", opts.Health.Live)
	r.Get("/health/ready", opts.Health.Ready)

	quoteLimit, err := rateLimit(opts.QuoteRateLimit)
	if err != nil {
		return nil, err
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	r.Route("/api/v1", func(v chi.Router) {
		v.Use(security.BodyLimit{Max: maxBody}.Middleware)
		v.With(quoteLimit).Post("/quotes", opts.Quotes.Create)
	})

	if !opts.Tracing {
		return r, nil
	}
	return otelhttp.NewHandler(r, "cart-pricing"), nil
}

func rateLimit(format string) (func(http.Handler) http.Handler, error) {
	if format == "" {
		return func(next http.Handler) http.Handler { return next }, nil
	}
	rate, err := limiter.NewRateFromFormatted(format)
	if err != nil {
		return nil, fmt.Errorf("parse quote rate limit: %w", err)
	}
	instance := limiter.New(memory.NewStore(), rate)
	return limiterhttp.NewMiddleware(instance).Handler, nil
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
