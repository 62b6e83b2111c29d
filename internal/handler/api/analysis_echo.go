package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"FinLens/internal/domain/models"
	domsvc "FinLens/internal/domain/service"
	"FinLens/internal/render"
	"FinLens/internal/service/metrics"
	"FinLens/internal/service/ratelimit"
	"FinLens/internal/usecase"
	xhttp "FinLens/pkg/http"
	xlogger "FinLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalysisEchoHandler serves the analysis, history and report endpoints.
type AnalysisEchoHandler struct {
	logger    *xlogger.Logger
	analyzer  *usecase.Analyzer
	rl        *ratelimit.Limiter
	renderers map[string]domsvc.ReportRenderer
}

// NewAnalysisEchoHandler builds the handler. A nil limiter disables inbound limiting.
func NewAnalysisEchoHandler(logger *xlogger.Logger, analyzer *usecase.Analyzer, rl *ratelimit.Limiter) *AnalysisEchoHandler {
	metrics.Register()
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &AnalysisEchoHandler{
		logger:   logger,
		analyzer: analyzer,
		rl:       rl,
		renderers: map[string]domsvc.ReportRenderer{
			"pdf":  render.PDF{},
			"text": render.Text{},
		},
	}
}

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api", h.limit)
	g.GET("/analysis", h.Analysis)
	g.GET("/analysis/report", h.Report)
	g.GET("/history", h.History)
}

func (h *AnalysisEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// limit applies the per-client token bucket keyed by the caller's IP.
func (h *AnalysisEchoHandler) limit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.rl != nil && !h.rl.Allow(c.RealIP()) {
			metrics.EndpointErrors.WithLabelValues(endpointName(c.Path()), "ERR_RATE_LIMITED").Inc()
			return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limit exceeded"))
		}
		return next(c)
	}
}

// endpointName maps a route to the label used by the endpoint metrics.
func endpointName(route string) string {
	switch route {
	case "/api/analysis":
		return "analysis"
	case "/api/analysis/report":
		return "report"
	case "/api/history":
		return "history"
	default:
		return "other"
	}
}

func (h *AnalysisEchoHandler) Analysis(c echo.Context) error {
	start := time.Now()
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.Observe("analysis", start, "ERR_VALIDATION")
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.Analyze(c.Request().Context(), req.Ticker)
	if err != nil {
		appErr := h.toAppError("analysis", req.Ticker, err)
		metrics.Observe("analysis", start, appErr.Code)
		return xhttp.AppErrorResponse(c, appErr)
	}
	metrics.Observe("analysis", start, "")
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) History(c echo.Context) error {
	start := time.Now()
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.Observe("history", start, "ERR_VALIDATION")
		return xhttp.BadRequestResponse(c, verr)
	}

	series, err := h.analyzer.History(c.Request().Context(), req.Ticker, req.Range)
	if err != nil {
		appErr := h.toAppError("history", req.Ticker, err)
		metrics.Observe("history", start, appErr.Code)
		return xhttp.AppErrorResponse(c, appErr)
	}
	metrics.Observe("history", start, "")
	return xhttp.SuccessResponse(c, series)
}

// Report returns the rendered report as a file, not an envelope. Failures
// still use the envelope.
func (h *AnalysisEchoHandler) Report(c echo.Context) error {
	start := time.Now()
	req := &models.ReportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.Observe("report", start, "ERR_VALIDATION")
		return xhttp.BadRequestResponse(c, verr)
	}
	r := h.renderers[req.Format]

	res, err := h.analyzer.Analyze(c.Request().Context(), req.Ticker)
	if err != nil {
		appErr := h.toAppError("report", req.Ticker, err)
		metrics.Observe("report", start, appErr.Code)
		return xhttp.AppErrorResponse(c, appErr)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, res); err != nil {
		h.logger.Error("report render failed", xlogger.String("ticker", res.Ticker), xlogger.Error(err))
		metrics.Observe("report", start, "ERR_INTERNAL")
		return xhttp.AppErrorResponse(c, xhttp.InternalError("report rendering failed").WithError(err))
	}
	metrics.Observe("report", start, "")

	ext := "txt"
	if req.Format == "pdf" {
		ext = "pdf"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s-report.%s"`, res.Ticker, ext))
	return c.Blob(http.StatusOK, r.ContentType(), buf.Bytes())
}

func (h *AnalysisEchoHandler) toAppError(endpoint, ticker string, err error) *xhttp.AppError {
	if errors.Is(err, models.ErrInvalidTicker) {
		h.logger.Info("invalid ticker", xlogger.String("endpoint", endpoint), xlogger.String("ticker", ticker))
		return xhttp.NotFoundError("ERR_INVALID_TICKER", "unknown ticker or no price history").
			WithParam("ticker", ticker).
			WithError(err)
	}
	h.logger.Error("upstream failure",
		xlogger.String("endpoint", endpoint),
		xlogger.String("ticker", ticker),
		xlogger.Error(err),
	)
	return xhttp.BadGatewayError("market data provider unavailable").WithError(err)
}
