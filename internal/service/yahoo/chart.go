package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"FinLens/internal/domain/models"
	domrepo "FinLens/internal/domain/repository"
	icache "FinLens/internal/service/cache"
	xlogger "FinLens/pkg/logger"
	"FinLens/pkg/util"

	"github.com/guregu/null/v6"
)

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// chartResponse is the subset of /v8/finance/chart we read. Bars the
// exchange did not trade come back as JSON nulls.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string     `json:"symbol"`
				Currency             string     `json:"currency"`
				ExchangeName         string     `json:"exchangeName"`
				ExchangeTimezoneName string     `json:"exchangeTimezoneName"`
				RegularMarketPrice   null.Float `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []null.Float `json:"close"`
					Volume []null.Float `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

// GetHistory returns daily closes for symbol over period (1mo, 3mo, 6mo, 1y, 2y, 5y).
func (c *Client) GetHistory(ctx context.Context, symbol string, period string) (models.PriceSeries, error) {
	symbol = util.NormalizeTicker(symbol)
	if symbol == "" {
		return models.PriceSeries{}, fmt.Errorf("yahoo chart: empty symbol: %w", domrepo.ErrNotFound)
	}
	if !validRanges[period] {
		return models.PriceSeries{}, fmt.Errorf("yahoo chart: unsupported range %q", period)
	}

	key := icache.Key("yahoo", kindChart, symbol, period)
	u := fmt.Sprintf("%s/v8/finance/chart/%s", c.chartURL, url.PathEscape(symbol))
	body, cached, err := c.fetch(ctx, kindChart, key, u, map[string][]string{
		"interval": {"1d"},
		"range":    {period},
	})
	if err != nil {
		return models.PriceSeries{}, err
	}

	series, err := parseChart(symbol, body)
	if err != nil {
		return models.PriceSeries{}, err
	}
	if !cached {
		c.store(ctx, key, body)
	}
	c.logger.Debug("history fetched",
		xlogger.String("symbol", symbol),
		xlogger.Int("points", series.Len()),
		xlogger.Bool("cached", cached),
	)
	return series, nil
}

func parseChart(symbol string, body []byte) (models.PriceSeries, error) {
	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.PriceSeries{}, fmt.Errorf("yahoo chart decode: %w", err)
	}
	if e := resp.Chart.Error; e != nil {
		if isNotFound(e) {
			return models.PriceSeries{}, fmt.Errorf("yahoo chart %s: %s: %w", symbol, e.Description, domrepo.ErrNotFound)
		}
		return models.PriceSeries{}, fmt.Errorf("yahoo chart %s: %s", symbol, e.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return models.PriceSeries{}, fmt.Errorf("yahoo chart %s: no result: %w", symbol, domrepo.ErrNotFound)
	}

	res := resp.Chart.Result[0]
	if len(res.Indicators.Quote) == 0 {
		return models.PriceSeries{}, fmt.Errorf("yahoo chart %s: no quotes: %w", symbol, domrepo.ErrNotFound)
	}
	quote := res.Indicators.Quote[0]
	loc := util.LoadLocation(res.Meta.ExchangeTimezoneName)

	points := make([]models.PricePoint, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(quote.Close) || !quote.Close[i].Valid {
			continue
		}
		p := models.PricePoint{
			Date:  util.TradingDate(ts, loc),
			Close: quote.Close[i].Float64,
		}
		if i < len(quote.Volume) && quote.Volume[i].Valid {
			p.Volume = quote.Volume[i].Float64
		}
		points = append(points, p)
	}

	series := models.NewPriceSeries(symbol, points)
	if series.Empty() {
		return models.PriceSeries{}, fmt.Errorf("yahoo chart %s: no closes: %w", symbol, domrepo.ErrNotFound)
	}
	return series, nil
}

func isNotFound(e *apiError) bool {
	return e != nil && e.Code == "Not Found"
}
