package service

import (
	"context"
	"io"

	"FinLens/internal/domain/models"
)

// Analyzer builds a full analysis for one ticker.
type Analyzer interface {
	Analyze(ctx context.Context, ticker string) (*models.Analysis, error)
}

// ReportRenderer writes an analysis in a presentation format.
type ReportRenderer interface {
	Render(w io.Writer, a *models.Analysis) error
	ContentType() string
}
