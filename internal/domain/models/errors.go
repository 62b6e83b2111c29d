package models

import "errors"

// Failure taxonomy shared by the engine, the pipeline and the HTTP layer.
var (
	ErrInvalidTicker       = errors.New("invalid ticker")
	ErrMissingField        = errors.New("missing field")
	ErrDegenerateInput     = errors.New("degenerate input")
	ErrInsufficientHistory = errors.New("insufficient history")
)

// ReasonFor maps an engine error onto the reason reported for an unavailable metric.
func ReasonFor(err error) Reason {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingField):
		return ReasonMissingField
	case errors.Is(err, ErrDegenerateInput):
		return ReasonDegenerateInput
	case errors.Is(err, ErrInsufficientHistory):
		return ReasonInsufficientHistory
	default:
		return ReasonUnknown
	}
}
