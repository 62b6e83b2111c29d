package render

import (
	"bufio"
	"fmt"
	"io"

	"FinLens/internal/domain/models"
	domsvc "FinLens/internal/domain/service"
	"FinLens/pkg/util"
)

// Text writes a plain-text report.
type Text struct{}

var _ domsvc.ReportRenderer = Text{}

func (Text) ContentType() string { return "text/plain; charset=utf-8" }

func (Text) Render(w io.Writer, a *models.Analysis) error {
	if a == nil {
		return fmt.Errorf("render text: nil analysis")
	}
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s financial analysis\n", a.Ticker)
	if a.Summary.Points > 0 {
		fmt.Fprintf(bw, "History: %s to %s, %d sessions, last close %.2f\n",
			util.DateKey(a.Summary.FirstDate), util.DateKey(a.Summary.LastDate),
			a.Summary.Points, a.Summary.LastClose)
	}

	for _, s := range sections(a) {
		fmt.Fprintf(bw, "\n%s\n", s.title)
		for _, l := range s.lines {
			fmt.Fprintf(bw, "  %-22s %s\n", l.label+":", l.value)
		}
	}
	if a.Profile.Description != "" {
		fmt.Fprintf(bw, "\nDescription\n  %s\n", a.Profile.Description)
	}
	return bw.Flush()
}
