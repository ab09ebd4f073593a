package ncc

import (
	"errors"
	"fmt"
)

var (
	// ErrArgument reports a dimension or argument violation: mismatched
	// lengths, a template longer than the image, a non-positive FFT length,
	// or similar caller error.
	ErrArgument = errors.New("ncc: invalid argument")

	// ErrResource reports a scratch allocation or FFT plan-creation failure.
	ErrResource = errors.New("ncc: resource allocation failed")

	// ErrNormalization reports that one or more correlation values could
	// not be produced within the configured clip tolerance. Every channel's
	// unstacked correlation is still returned in PerChannel, with the
	// out-of-tolerance samples left unclamped, but the
	// failure is call-wide: MultiChannel.Stacked is left all zeros even for
	// channels that individually normalized fine. Use errors.As to recover
	// the first offending channel/template/lag.
	ErrNormalization = errors.New("ncc: normalization failure")
)

// NormalizationError identifies the first sample for which a correlation
// value fell outside the configured clip tolerance.
type NormalizationError struct {
	Channel  int
	Template int
	Lag      int
	Value    float64
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("ncc: channel %d template %d lag %d: correlation %.6f outside clip tolerance",
		e.Channel, e.Template, e.Lag, e.Value)
}

// Unwrap lets errors.Is(err, ErrNormalization) and errors.As(err, &nErr)
// both resolve through the wrapped sentinel.
func (e *NormalizationError) Unwrap() error {
	return ErrNormalization
}
