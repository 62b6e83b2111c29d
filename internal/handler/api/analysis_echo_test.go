package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"FinLens/internal/domain/models"
	domrepo "FinLens/internal/domain/repository"
	"FinLens/internal/service/metrics"
	"FinLens/internal/service/ratelimit"
	"FinLens/internal/usecase"

	"github.com/guregu/null/v6"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMarket struct {
	historyErr error
}

func (s stubMarket) GetProfile(_ context.Context, symbol string) (models.CompanyProfile, error) {
	if symbol != "ACME" {
		return models.CompanyProfile{}, domrepo.ErrNotFound
	}
	return models.CompanyProfile{
		Symbol:    "ACME",
		Name:      "Acme Corp",
		Price:     null.FloatFrom(101),
		NetIncome: null.FloatFrom(10),
	}, nil
}

func (s stubMarket) GetHistory(_ context.Context, symbol, _ string) (models.PriceSeries, error) {
	if s.historyErr != nil {
		return models.PriceSeries{}, s.historyErr
	}
	if symbol != "ACME" && symbol != "^GSPC" {
		return models.PriceSeries{}, domrepo.ErrNotFound
	}
	pts := make([]models.PricePoint, 40)
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range pts {
		pts[i] = models.PricePoint{Date: d.AddDate(0, 0, i), Close: 100 + float64(i%5), Volume: 10}
	}
	return models.NewPriceSeries(symbol, pts), nil
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type appErr struct {
	Code   string                 `json:"code"`
	Field  string                 `json:"field"`
	Params map[string]interface{} `json:"params"`
}

func newTestEcho(market domrepo.MarketData, rl *ratelimit.Limiter) *echo.Echo {
	e := echo.New()
	h := NewAnalysisEchoHandler(nil, usecase.NewAnalyzer(market), rl)
	h.RegisterRoutes(e)
	return e
}

func get(t *testing.T, e *echo.Echo, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestAnalysisOK(t *testing.T) {
	e := newTestEcho(stubMarket{}, nil)
	rec := get(t, e, "/api/analysis?ticker=acme")

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, http.StatusOK, env.Status)

	var a struct {
		Ticker  string `json:"ticker"`
		Metrics struct {
			Trend struct {
				Status string `json:"status"`
				Reason string `json:"reason"`
			} `json:"trend"`
			Volatility struct {
				Value  *float64 `json:"value"`
				Status string   `json:"status"`
			} `json:"volatility"`
		} `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.Equal(t, "ACME", a.Ticker)
	assert.Equal(t, "ok", a.Metrics.Volatility.Status)
	assert.NotNil(t, a.Metrics.Volatility.Value)
	assert.Equal(t, "not_available", a.Metrics.Trend.Status)
	assert.Equal(t, "insufficient_history", a.Metrics.Trend.Reason)
}

func TestAnalysisMissingTicker(t *testing.T) {
	e := newTestEcho(stubMarket{}, nil)
	env := decode(t, get(t, e, "/api/analysis"))

	assert.Equal(t, http.StatusBadRequest, env.Status)
	var errs []appErr
	require.NoError(t, json.Unmarshal(env.Data, &errs))
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_REQUIRED", errs[0].Code)
	assert.Equal(t, "ticker", errs[0].Field)
}

func TestAnalysisUnknownTicker(t *testing.T) {
	e := newTestEcho(stubMarket{}, nil)
	env := decode(t, get(t, e, "/api/analysis?ticker=NOPE"))

	assert.Equal(t, http.StatusNotFound, env.Status)
	var errs []appErr
	require.NoError(t, json.Unmarshal(env.Data, &errs))
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_INVALID_TICKER", errs[0].Code)
	assert.Equal(t, "NOPE", errs[0].Params["ticker"])
}

func TestAnalysisUpstreamFailure(t *testing.T) {
	e := newTestEcho(stubMarket{historyErr: errors.New("connection refused")}, nil)
	env := decode(t, get(t, e, "/api/analysis?ticker=ACME"))

	assert.Equal(t, http.StatusBadGateway, env.Status)
	var errs []appErr
	require.NoError(t, json.Unmarshal(env.Data, &errs))
	assert.Equal(t, "ERR_UPSTREAM", errs[0].Code)
}

func TestHistoryDefaultsRange(t *testing.T) {
	e := newTestEcho(stubMarket{}, nil)
	env := decode(t, get(t, e, "/api/history?ticker=ACME"))

	assert.Equal(t, http.StatusOK, env.Status)
	var s models.PriceSeries
	require.NoError(t, json.Unmarshal(env.Data, &s))
	assert.Equal(t, "ACME", s.Symbol)
	assert.Len(t, s.Points, 40)
}

func TestHistoryRejectsUnknownRange(t *testing.T) {
	e := newTestEcho(stubMarket{}, nil)
	env := decode(t, get(t, e, "/api/history?ticker=ACME&range=10y"))

	assert.Equal(t, http.StatusBadRequest, env.Status)
	var errs []appErr
	require.NoError(t, json.Unmarshal(env.Data, &errs))
	assert.Equal(t, "ERR_ONEOF", errs[0].Code)
	assert.Equal(t, "range", errs[0].Field)
}

func TestReportFormats(t *testing.T) {
	e := newTestEcho(stubMarket{}, nil)

	rec := get(t, e, "/api/analysis/report?ticker=ACME")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "ACME-report.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = get(t, e, "/api/analysis/report?ticker=ACME&format=text")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/plain")
	assert.Contains(t, rec.Body.String(), "ACME financial analysis")
}

func TestReportUnknownTickerUsesEnvelope(t *testing.T) {
	e := newTestEcho(stubMarket{}, nil)
	env := decode(t, get(t, e, "/api/analysis/report?ticker=NOPE&format=text"))
	assert.Equal(t, http.StatusNotFound, env.Status)
}

func TestInboundRateLimit(t *testing.T) {
	e := newTestEcho(stubMarket{}, ratelimit.New(1, 0.001))
	limited := metrics.EndpointErrors.WithLabelValues("history", "ERR_RATE_LIMITED")
	before := testutil.ToFloat64(limited)

	first := decode(t, get(t, e, "/api/history?ticker=ACME"))
	assert.Equal(t, http.StatusOK, first.Status)

	second := decode(t, get(t, e, "/api/history?ticker=ACME"))
	assert.Equal(t, http.StatusTooManyRequests, second.Status)
	var errs []appErr
	require.NoError(t, json.Unmarshal(second.Data, &errs))
	assert.Equal(t, "ERR_RATE_LIMITED", errs[0].Code)
	assert.Equal(t, before+1, testutil.ToFloat64(limited))

	health := get(t, e, "/healthz")
	assert.Equal(t, http.StatusOK, health.Code)
	assert.JSONEq(t, `{"status":"ok"}`, health.Body.String())
}

func TestEndpointName(t *testing.T) {
	assert.Equal(t, "analysis", endpointName("/api/analysis"))
	assert.Equal(t, "report", endpointName("/api/analysis/report"))
	assert.Equal(t, "history", endpointName("/api/history"))
	assert.Equal(t, "other", endpointName("/healthz"))
}
