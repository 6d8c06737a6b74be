package common

import (
	"context"
	"errors"
	"os"
)

var (
	// ErrMalformedModel: inconsistent k-mer lengths, unknown symbols, gaps in
	// the transition topology or an empty model table.
	ErrMalformedModel = errors.New("malformed model")
	// ErrInvalidConfiguration: probability or calibration parameters out of range.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrEmptyObservations: a decode was requested for zero events.
	ErrEmptyObservations = errors.New("empty observation sequence")
	// ErrDecodingConsistency: a decoded path contradicts the transition topology.
	ErrDecodingConsistency = errors.New("decoding consistency error")
)

// Code is a short error class used for logs and metric labels.
type Code string

const (
	CodeNone              Code = "ok"
	CodeMalformedModel    Code = "malformed_model"
	CodeInvalidConfig     Code = "invalid_config"
	CodeEmptyObservations Code = "empty_observations"
	CodeConsistency       Code = "consistency"
	CodeCancel            Code = "cancel"
	CodeIO                Code = "io"
	CodeUnknown           Code = "unknown"
)

// Classify maps err onto a Code using sentinel errors only.
func Classify(err error) Code {
	switch {
	case err == nil:
		return CodeNone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCancel
	case errors.Is(err, ErrMalformedModel):
		return CodeMalformedModel
	case errors.Is(err, ErrInvalidConfiguration):
		return CodeInvalidConfig
	case errors.Is(err, ErrEmptyObservations):
		return CodeEmptyObservations
	case errors.Is(err, ErrDecodingConsistency):
		return CodeConsistency
	}
	var perr *os.PathError
	if errors.As(err, &perr) {
		return CodeIO
	}
	return CodeUnknown
}
