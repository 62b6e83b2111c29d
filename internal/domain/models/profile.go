package models

import "github.com/guregu/null/v6"

// CompanyProfile holds descriptive and fundamental fields for one company.
// A field that the data source does not report stays invalid; it is never zero-filled.
type CompanyProfile struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Sector      string `json:"sector,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Description string `json:"description,omitempty"`
	Currency    string `json:"currency,omitempty"`
	Exchange    string `json:"exchange,omitempty"`

	Price      null.Float `json:"price"`
	MarketCap  null.Float `json:"market_cap"`
	Beta       null.Float `json:"beta"`
	TrailingPE null.Float `json:"trailing_pe"`

	TotalAssets        null.Float `json:"total_assets"`
	TotalLiabilities   null.Float `json:"total_liabilities"`
	CurrentAssets      null.Float `json:"current_assets"`
	CurrentLiabilities null.Float `json:"current_liabilities"`
	RetainedEarnings   null.Float `json:"retained_earnings"`
	StockholdersEquity null.Float `json:"stockholders_equity"`
	TotalRevenue       null.Float `json:"total_revenue"`
	EBIT               null.Float `json:"ebit"`
	EBITDA             null.Float `json:"ebitda"`
	NetIncome          null.Float `json:"net_income"`
	TotalDebt          null.Float `json:"total_debt"`
	FreeCashFlow       null.Float `json:"free_cash_flow"`
}

// WorkingCapital is current assets minus current liabilities; missing if either side is.
func (p CompanyProfile) WorkingCapital() null.Float {
	return subtract(p.CurrentAssets, p.CurrentLiabilities)
}

// Equity prefers reported stockholders' equity and otherwise derives it from
// total assets minus total liabilities.
func (p CompanyProfile) Equity() null.Float {
	if p.StockholdersEquity.Valid {
		return p.StockholdersEquity
	}
	return subtract(p.TotalAssets, p.TotalLiabilities)
}

func subtract(a, b null.Float) null.Float {
	if !a.Valid || !b.Valid {
		return null.Float{}
	}
	return null.FloatFrom(a.Float64 - b.Float64)
}
