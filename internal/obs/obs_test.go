package obs_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cart-pricing/internal/obs"
)

func TestRequestLoggerWritesRoute(t *testing.T) {
	var buf bytes.Buffer
	logger := obs.NewLoggerTo(&buf, "json", "info")

	r := chi.NewRouter()
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "http_request", line["message"])
	require.Equal(t, "/items/{id}", line["route"])
	require.EqualValues(t, http.StatusTeapot, line["status"])
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := obs.NewLoggerTo(&buf, "json", "bogus")
	logger.Debug().Msg("hidden")
	require.Zero(t, buf.Len())
	logger.Info().Msg("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestHTTPObsCountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := obs.NewHTTPMetrics("test", reg)

	r := chi.NewRouter()
	r.Use(obs.HTTPObs{Metrics: m}.Middleware)
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	for i := 0; i < 2; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	}
	require.Equal(t, 2.0, testutil.ToFloat64(m.ReqTotal.WithLabelValues(http.MethodGet, "/ping", "200")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))
}

func TestQuoteMetricsReuseRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := obs.NewQuoteMetrics("test", reg)
	second := obs.NewQuoteMetrics("test", reg)

	first.ObserveQuote(120, true, true, false)
	second.ObserveRejected("invalid_price")

	require.Equal(t, 1.0, testutil.ToFloat64(first.Total.WithLabelValues("ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(first.Total.WithLabelValues("invalid_price")))
	require.Equal(t, 1.0, testutil.ToFloat64(second.Discount.WithLabelValues("member")))
	require.Equal(t, 0.0, testutil.ToFloat64(second.Discount.WithLabelValues("coupon")))

	var nilMetrics *obs.QuoteMetrics
	nilMetrics.ObserveQuote(1, false, false, false)
}
