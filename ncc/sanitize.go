package ncc

import "math"

// sanitize clamps a correlation value into [-1, 1]. NaN (from a mishandled
// zero-variance window slipping through) is a recoverable anomaly: it is
// silently coerced to 0, not reported as a failure. A value outside [-1, 1]
// but with |v| <= cfg.ClipTolerance is accepted as floating-point overshoot
// and clamped; anything further out is a normalization failure, reported by
// returning ok=false — but left untouched rather than clamped, so the raw
// value that tripped the failure survives in the caller's output for
// inspection, the same way the reference implementation only counts the
// failure and never overwrites its output array for this case.
func sanitize(v float64, cfg Config) (out float64, ok bool) {
	if math.IsNaN(v) {
		return 0, true
	}
	switch {
	case v > 1:
		if v > cfg.ClipTolerance {
			return v, false
		}
		return 1, true
	case v < -1:
		if v < -cfg.ClipTolerance {
			return v, false
		}
		return -1, true
	default:
		return v, true
	}
}
