package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"FinLens/internal/domain/models"
	domrepo "FinLens/internal/domain/repository"
	icache "FinLens/internal/service/cache"
	xlogger "FinLens/pkg/logger"
	"FinLens/pkg/util"

	"github.com/guregu/null/v6"
)

var summaryModules = []string{
	"price",
	"summaryProfile",
	"summaryDetail",
	"defaultKeyStatistics",
	"financialData",
	"balanceSheetHistory",
	"incomeStatementHistory",
	"cashflowStatementHistory",
}

// rawNum is Yahoo's {"raw": 123, "fmt": "123"} number wrapper. An empty
// object or a missing key leaves Raw invalid.
type rawNum struct {
	Raw null.Float `json:"raw"`
}

type balanceSheet struct {
	TotalAssets             rawNum `json:"totalAssets"`
	TotalLiab               rawNum `json:"totalLiab"`
	TotalCurrentAssets      rawNum `json:"totalCurrentAssets"`
	TotalCurrentLiabilities rawNum `json:"totalCurrentLiabilities"`
	RetainedEarnings        rawNum `json:"retainedEarnings"`
	TotalStockholderEquity  rawNum `json:"totalStockholderEquity"`
}

type incomeStatement struct {
	TotalRevenue rawNum `json:"totalRevenue"`
	Ebit         rawNum `json:"ebit"`
	NetIncome    rawNum `json:"netIncome"`
}

type cashflowStatement struct {
	OperatingCashFlow   rawNum `json:"totalCashFromOperatingActivities"`
	CapitalExpenditures rawNum `json:"capitalExpenditures"`
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				ShortName          string `json:"shortName"`
				LongName           string `json:"longName"`
				Currency           string `json:"currency"`
				ExchangeName       string `json:"exchangeName"`
				RegularMarketPrice rawNum `json:"regularMarketPrice"`
				MarketCap          rawNum `json:"marketCap"`
			} `json:"price"`
			SummaryProfile struct {
				Sector              string `json:"sector"`
				Industry            string `json:"industry"`
				LongBusinessSummary string `json:"longBusinessSummary"`
			} `json:"summaryProfile"`
			SummaryDetail struct {
				Beta       rawNum `json:"beta"`
				TrailingPE rawNum `json:"trailingPE"`
				MarketCap  rawNum `json:"marketCap"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				Beta rawNum `json:"beta"`
			} `json:"defaultKeyStatistics"`
			FinancialData struct {
				TotalDebt    rawNum `json:"totalDebt"`
				Ebitda       rawNum `json:"ebitda"`
				FreeCashflow rawNum `json:"freeCashflow"`
				TotalRevenue rawNum `json:"totalRevenue"`
			} `json:"financialData"`
			BalanceSheetHistory struct {
				Statements []balanceSheet `json:"balanceSheetStatements"`
			} `json:"balanceSheetHistory"`
			IncomeStatementHistory struct {
				Statements []incomeStatement `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistory"`
			CashflowStatementHistory struct {
				Statements []cashflowStatement `json:"cashflowStatements"`
			} `json:"cashflowStatementHistory"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"quoteSummary"`
}

// GetProfile returns descriptive and fundamental data for symbol. A symbol
// without a regular market price is treated as unknown.
func (c *Client) GetProfile(ctx context.Context, symbol string) (models.CompanyProfile, error) {
	symbol = util.NormalizeTicker(symbol)
	if symbol == "" {
		return models.CompanyProfile{}, fmt.Errorf("yahoo summary: empty symbol: %w", domrepo.ErrNotFound)
	}

	key := icache.Key("yahoo", kindSummary, symbol)
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s", c.summaryURL, url.PathEscape(symbol))
	body, cached, err := c.fetch(ctx, kindSummary, key, u, map[string][]string{
		"modules": {strings.Join(summaryModules, ",")},
	})
	if err != nil {
		return models.CompanyProfile{}, err
	}

	p, err := parseSummary(symbol, body)
	if err != nil {
		return models.CompanyProfile{}, err
	}
	if !cached {
		c.store(ctx, key, body)
	}
	c.logger.Debug("profile fetched", xlogger.String("symbol", symbol), xlogger.Bool("cached", cached))
	return p, nil
}

func parseSummary(symbol string, body []byte) (models.CompanyProfile, error) {
	var resp summaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.CompanyProfile{}, fmt.Errorf("yahoo summary decode: %w", err)
	}
	if e := resp.QuoteSummary.Error; e != nil {
		if isNotFound(e) {
			return models.CompanyProfile{}, fmt.Errorf("yahoo summary %s: %s: %w", symbol, e.Description, domrepo.ErrNotFound)
		}
		return models.CompanyProfile{}, fmt.Errorf("yahoo summary %s: %s", symbol, e.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return models.CompanyProfile{}, fmt.Errorf("yahoo summary %s: no result: %w", symbol, domrepo.ErrNotFound)
	}

	r := resp.QuoteSummary.Result[0]
	if !r.Price.RegularMarketPrice.Raw.Valid {
		return models.CompanyProfile{}, fmt.Errorf("yahoo summary %s: no regular market price: %w", symbol, domrepo.ErrNotFound)
	}

	p := models.CompanyProfile{
		Symbol:       symbol,
		Name:         firstNonEmpty(r.Price.ShortName, r.Price.LongName, symbol),
		Sector:       r.SummaryProfile.Sector,
		Industry:     r.SummaryProfile.Industry,
		Description:  r.SummaryProfile.LongBusinessSummary,
		Currency:     r.Price.Currency,
		Exchange:     r.Price.ExchangeName,
		Price:        r.Price.RegularMarketPrice.Raw,
		MarketCap:    firstValid(r.Price.MarketCap.Raw, r.SummaryDetail.MarketCap.Raw),
		Beta:         firstValid(r.SummaryDetail.Beta.Raw, r.DefaultKeyStatistics.Beta.Raw),
		TrailingPE:   r.SummaryDetail.TrailingPE.Raw,
		EBITDA:       r.FinancialData.Ebitda.Raw,
		TotalDebt:    r.FinancialData.TotalDebt.Raw,
		FreeCashFlow: r.FinancialData.FreeCashflow.Raw,
		TotalRevenue: r.FinancialData.TotalRevenue.Raw,
	}

	// statements are ordered most recent first
	if bs := r.BalanceSheetHistory.Statements; len(bs) > 0 {
		p.TotalAssets = bs[0].TotalAssets.Raw
		p.TotalLiabilities = bs[0].TotalLiab.Raw
		p.CurrentAssets = bs[0].TotalCurrentAssets.Raw
		p.CurrentLiabilities = bs[0].TotalCurrentLiabilities.Raw
		p.RetainedEarnings = bs[0].RetainedEarnings.Raw
		p.StockholdersEquity = bs[0].TotalStockholderEquity.Raw
	}
	if is := r.IncomeStatementHistory.Statements; len(is) > 0 {
		p.EBIT = is[0].Ebit.Raw
		p.NetIncome = is[0].NetIncome.Raw
		p.TotalRevenue = firstValid(p.TotalRevenue, is[0].TotalRevenue.Raw)
	}
	if cf := r.CashflowStatementHistory.Statements; len(cf) > 0 && !p.FreeCashFlow.Valid {
		op, capex := cf[0].OperatingCashFlow.Raw, cf[0].CapitalExpenditures.Raw
		if op.Valid && capex.Valid {
			// capital expenditures are reported as a negative outflow
			p.FreeCashFlow = null.FloatFrom(op.Float64 + capex.Float64)
		}
	}
	return p, nil
}

func firstValid(vs ...null.Float) null.Float {
	for _, v := range vs {
		if v.Valid {
			return v
		}
	}
	return null.Float{}
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
