package models

// Requests for the analysis HTTP endpoints.

type AnalysisRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"required,max=16"`
}

type HistoryRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"required,max=16"`
	Range  string `query:"range" json:"range" default:"5y" validate:"oneof=1mo 3mo 6mo 1y 2y 5y"`
}

type ReportRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"required,max=16"`
	Format string `query:"format" json:"format" default:"pdf" validate:"oneof=pdf text"`
}
