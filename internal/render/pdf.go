package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"FinLens/internal/domain/models"
	domsvc "FinLens/internal/domain/service"
	"FinLens/pkg/util"

	"github.com/go-pdf/fpdf"
)

const (
	pageLeft   = 15.0
	pageRight  = 195.0
	chartH     = 70.0
	maxSegment = 600
)

// PDF writes an A4 report whose first section is the close-price chart.
type PDF struct{}

var _ domsvc.ReportRenderer = PDF{}

func (PDF) ContentType() string { return "application/pdf" }

func (PDF) Render(w io.Writer, a *models.Analysis) error {
	if a == nil {
		return fmt.Errorf("render pdf: nil analysis")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageLeft, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(a.Ticker+" financial analysis", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 9, tr(a.Ticker+" financial analysis"), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, "Generated "+a.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	drawPriceChart(pdf, a.Series)

	for _, s := range sections(a) {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 7, tr(s.title), "", 1, "L", false, 0, "")
		pdf.Line(pageLeft, pdf.GetY(), pageRight, pdf.GetY())
		pdf.Ln(1)
		pdf.SetFont("Arial", "", 10)
		for _, l := range s.lines {
			pdf.CellFormat(55, 5.5, tr(l.label), "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 5.5, tr(l.value), "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}

	if a.Profile.Description != "" {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 7, "Description", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 4.5, tr(a.Profile.Description), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// drawPriceChart plots closes as a polyline inside a framed box. Long series
// are sampled down to maxSegment points.
func drawPriceChart(pdf *fpdf.Fpdf, s models.PriceSeries) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, "Close price", "", 1, "L", false, 0, "")

	top := pdf.GetY()
	width := pageRight - pageLeft
	pdf.SetDrawColor(160, 160, 160)
	pdf.Rect(pageLeft, top, width, chartH, "D")

	if s.Len() < 2 {
		pdf.SetXY(pageLeft, top+chartH/2)
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(width, 5, NA, "", 0, "C", false, 0, "")
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetXY(pageLeft, top+chartH+4)
		return
	}

	closes := s.Closes()
	lo, hi := closes[0], closes[0]
	for _, c := range closes {
		lo, hi = min(lo, c), max(hi, c)
	}
	if hi == lo {
		hi, lo = hi+1, lo-1
	}

	step := 1
	if len(closes) > maxSegment {
		step = (len(closes) + maxSegment - 1) / maxSegment
	}
	last := len(closes) - 1
	px := func(i int) float64 { return pageLeft + width*float64(i)/float64(last) }
	py := func(v float64) float64 { return top + chartH - chartH*(v-lo)/(hi-lo) }

	pdf.SetDrawColor(46, 134, 222)
	pdf.SetLineWidth(0.3)
	prev := 0
	for i := step; ; i += step {
		if i > last {
			i = last
		}
		pdf.Line(px(prev), py(closes[prev]), px(i), py(closes[i]))
		prev = i
		if i == last {
			break
		}
	}
	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(0, 0, 0)

	pdf.SetFont("Arial", "", 8)
	pdf.Text(pageLeft+1, top+4, strconv.FormatFloat(hi, 'f', 2, 64))
	pdf.Text(pageLeft+1, top+chartH-1.5, strconv.FormatFloat(lo, 'f', 2, 64))
	first, _ := s.First()
	end, _ := s.Last()
	pdf.Text(pageLeft, top+chartH+4, util.DateKey(first.Date))
	endLabel := util.DateKey(end.Date)
	pdf.Text(pageRight-pdf.GetStringWidth(endLabel), top+chartH+4, endLabel)

	pdf.SetXY(pageLeft, top+chartH+8)
}
