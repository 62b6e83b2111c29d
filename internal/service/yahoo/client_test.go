package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"FinLens/internal/domain/models"
	domrepo "FinLens/internal/domain/repository"
	icache "FinLens/internal/service/cache"
	"FinLens/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-03-01, 03-04, 03-05, 03-06 at 14:30 UTC (09:30 New York); 03-04 has no close.
const chartOK = `{"chart":{"result":[{
  "meta":{"symbol":"AAPL","currency":"USD","exchangeName":"NMS","exchangeTimezoneName":"America/New_York","regularMarketPrice":172.5},
  "timestamp":[1709303400,1709562600,1709649000,1709735400],
  "indicators":{"quote":[{
    "close":[179.66,null,170.12,169.12],
    "volume":[73488000,null,95132400,68587700]
  }]}
}],"error":null}}`

const chartNotFound = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

const summaryOK = `{"quoteSummary":{"result":[{
  "price":{"shortName":"Apple Inc.","currency":"USD","exchangeName":"NasdaqGS","regularMarketPrice":{"raw":172.5,"fmt":"172.50"},"marketCap":{"raw":2.66e12,"fmt":"2.66T"}},
  "summaryProfile":{"sector":"Technology","industry":"Consumer Electronics","longBusinessSummary":"Designs phones."},
  "summaryDetail":{"beta":{"raw":1.29},"trailingPE":{"raw":26.8},"marketCap":{"raw":2.6e12}},
  "defaultKeyStatistics":{"beta":{}},
  "financialData":{"totalDebt":{"raw":1.08e11},"ebitda":{"raw":1.3e11},"totalRevenue":{"raw":3.85e11}},
  "balanceSheetHistory":{"balanceSheetStatements":[
    {"totalAssets":{"raw":3.52e11},"totalLiab":{"raw":2.9e11},"totalCurrentAssets":{"raw":1.43e11},"totalCurrentLiabilities":{"raw":1.45e11},"retainedEarnings":{"raw":-2.1e8},"totalStockholderEquity":{"raw":6.2e10}},
    {"totalAssets":{"raw":1.0}}
  ]},
  "incomeStatementHistory":{"incomeStatementHistory":[{"totalRevenue":{"raw":3.83e11},"ebit":{"raw":1.14e11},"netIncome":{"raw":9.7e10}}]},
  "cashflowStatementHistory":{"cashflowStatements":[{"totalCashFromOperatingActivities":{"raw":1.1e11},"capitalExpenditures":{"raw":-1.1e10}}]}
}],"error":null}}`

const summaryNoPrice = `{"quoteSummary":{"result":[{"price":{"shortName":"Ghost","regularMarketPrice":{}}}],"error":null}}`

type fakeYahoo struct {
	hits   atomic.Int32
	routes map[string]struct {
		status int
		body   string
	}
}

func newFakeYahoo() *fakeYahoo {
	return &fakeYahoo{routes: map[string]struct {
		status int
		body   string
	}{}}
}

func (f *fakeYahoo) on(path string, status int, body string) {
	f.routes[path] = struct {
		status int
		body   string
	}{status, body}
}

func (f *fakeYahoo) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)
	rt, ok := f.routes[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(chartNotFound))
		return
	}
	w.WriteHeader(rt.status)
	_, _ = w.Write([]byte(rt.body))
}

type recordingMetrics struct {
	mu      sync.Mutex
	fetches []string
}

func (m *recordingMetrics) RecordFetch(kind, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches = append(m.fetches, kind+":"+outcome)
}
func (m *recordingMetrics) RecordMetric(string, models.MetricStatus) {}
func (m *recordingMetrics) RecordLatency(string, float64)            {}

func newTestClient(t *testing.T, fake *fakeYahoo, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	base := []Option{WithChartURL(srv.URL), WithSummaryURL(srv.URL + "/"), WithRateLimit(0, 0)}
	return New(append(base, opts...)...)
}

func TestGetHistorySkipsNullBarsAndNormalizesDates(t *testing.T) {
	fake := newFakeYahoo()
	fake.on("/v8/finance/chart/AAPL", http.StatusOK, chartOK)
	c := newTestClient(t, fake)

	s, err := c.GetHistory(context.Background(), " aapl ", "5y")
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, "AAPL", s.Symbol)
	assert.Equal(t, []float64{179.66, 170.12, 169.12}, s.Closes())

	keys := make([]string, 0, s.Len())
	for _, p := range s.Points {
		keys = append(keys, util.DateKey(p.Date))
	}
	assert.Equal(t, []string{"2024-03-01", "2024-03-05", "2024-03-06"}, keys)
	assert.Equal(t, 73488000.0, s.Points[0].Volume)
}

func TestGetHistoryNotFound(t *testing.T) {
	fake := newFakeYahoo()
	c := newTestClient(t, fake)

	_, err := c.GetHistory(context.Background(), "NOPE", "5y")
	assert.ErrorIs(t, err, domrepo.ErrNotFound)
}

func TestGetHistoryErrorPayloadWithOKStatus(t *testing.T) {
	fake := newFakeYahoo()
	fake.on("/v8/finance/chart/GONE", http.StatusOK, chartNotFound)
	c := newTestClient(t, fake)

	_, err := c.GetHistory(context.Background(), "GONE", "1y")
	assert.ErrorIs(t, err, domrepo.ErrNotFound)
}

func TestGetHistoryRejectsUnknownRange(t *testing.T) {
	c := newTestClient(t, newFakeYahoo())
	_, err := c.GetHistory(context.Background(), "AAPL", "10y")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domrepo.ErrNotFound))
}

func TestGetHistoryUpstreamFailureIsNotNotFound(t *testing.T) {
	fake := newFakeYahoo()
	fake.on("/v8/finance/chart/AAPL", http.StatusInternalServerError, `oops`)
	metrics := &recordingMetrics{}
	c := newTestClient(t, fake, WithMetrics(metrics))

	_, err := c.GetHistory(context.Background(), "AAPL", "5y")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domrepo.ErrNotFound))
	assert.Equal(t, []string{"chart:error"}, metrics.fetches)
}

func TestGetHistoryServesRepeatFromCache(t *testing.T) {
	fake := newFakeYahoo()
	fake.on("/v8/finance/chart/AAPL", http.StatusOK, chartOK)
	metrics := &recordingMetrics{}
	bc := icache.NewTTLCache()
	c := newTestClient(t, fake, WithCache(bc, time.Minute), WithMetrics(metrics))

	ctx := context.Background()
	first, err := c.GetHistory(ctx, "AAPL", "5y")
	require.NoError(t, err)
	second, err := c.GetHistory(ctx, "AAPL", "5y")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, fake.hits.Load())
	assert.Equal(t, []string{"chart:ok", "chart:cache_hit"}, metrics.fetches)
}

func TestNotFoundIsNotCached(t *testing.T) {
	fake := newFakeYahoo()
	fake.on("/v8/finance/chart/GONE", http.StatusOK, chartNotFound)
	bc := icache.NewTTLCache()
	c := newTestClient(t, fake, WithCache(bc, time.Minute))

	_, _ = c.GetHistory(context.Background(), "GONE", "5y")
	assert.Equal(t, 0, bc.Len())
}

func TestGetProfileMapsFields(t *testing.T) {
	fake := newFakeYahoo()
	fake.on("/v10/finance/quoteSummary/AAPL", http.StatusOK, summaryOK)
	c := newTestClient(t, fake)

	p, err := c.GetProfile(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "Apple Inc.", p.Name)
	assert.Equal(t, "Technology", p.Sector)
	assert.Equal(t, "Designs phones.", p.Description)
	assert.Equal(t, 172.5, p.Price.Float64)
	assert.Equal(t, 2.66e12, p.MarketCap.Float64)
	assert.Equal(t, 1.29, p.Beta.Float64)
	assert.Equal(t, 26.8, p.TrailingPE.Float64)
	assert.Equal(t, 3.52e11, p.TotalAssets.Float64, "most recent statement wins")
	assert.Equal(t, -2.1e8, p.RetainedEarnings.Float64)
	assert.Equal(t, 1.14e11, p.EBIT.Float64)
	assert.Equal(t, 3.85e11, p.TotalRevenue.Float64, "financialData revenue preferred")
	assert.InDelta(t, 9.9e10, p.FreeCashFlow.Float64, 1)
	assert.InDelta(t, -2e9, p.WorkingCapital().Float64, 1)
}

func TestGetProfileWithoutMarketPriceIsNotFound(t *testing.T) {
	fake := newFakeYahoo()
	fake.on("/v10/finance/quoteSummary/GHOST", http.StatusOK, summaryNoPrice)
	c := newTestClient(t, fake)

	_, err := c.GetProfile(context.Background(), "GHOST")
	assert.ErrorIs(t, err, domrepo.ErrNotFound)
}

func TestGetProfileSendsModules(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("modules")
		_, _ = w.Write([]byte(summaryOK))
	}))
	defer srv.Close()

	c := New(WithSummaryURL(srv.URL), WithRateLimit(0, 0))
	_, err := c.GetProfile(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, strings.Contains(got, "balanceSheetHistory"))
	assert.True(t, strings.HasPrefix(got, "price,"))
}

func TestRateLimitWaitHonoursContext(t *testing.T) {
	fake := newFakeYahoo()
	fake.on("/v8/finance/chart/AAPL", http.StatusOK, chartOK)
	c := newTestClient(t, fake, WithRateLimit(0.001, 1))

	_, err := c.GetHistory(context.Background(), "AAPL", "5y")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.GetHistory(ctx, "AAPL", "5y")
	require.Error(t, err)
	assert.EqualValues(t, 1, fake.hits.Load())
}
