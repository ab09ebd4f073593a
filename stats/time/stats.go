// Package time reports summary statistics over a correlogram row: the
// per-lag sequence of normalized cross-correlation values ncc.Time,
// ncc.FFT, and ncc.MultiChannel produce. Every value is bounded in [-1, 1],
// so the statistics here are shaped around that —
// peak correlation and its lag, the mean and RMS correlation across the
// sweep, and how many lags are exactly zero (as the zero-variance policy
// leaves them) — rather than the amplitude/dB statistics a generic waveform needs.
package time

import "math"

// Stats holds summary statistics for one correlogram row.
type Stats struct {
	Length int

	// Peak is the largest absolute correlation value in the row (always
	// non-negative), and PeakLag its index — the template-matching result callers care about
	// most: where, and how strongly, did this template align with the
	// image.
	Peak    float64
	PeakLag int

	Mean float64 // mean correlation across every lag
	RMS  float64 // root-mean-square correlation across every lag

	// ZeroLags counts lags whose value is exactly 0, whatever the cause —
	// the zero-variance policy (ncc.Config.Epsilon), channel gating, or a
	// padded tail. A high count usually means the image segment swept by
	// this row is mostly constant.
	ZeroLags int
}

// Calculate computes Stats for row in a single pass, using Kahan
// summation for the mean so it stays accurate even over long sweeps.
func Calculate(row []float64) Stats {
	n := len(row)
	if n == 0 {
		return Stats{}
	}

	var (
		sum, c   float64 // Kahan-summed mean accumulator
		sumSq    float64
		peak     = math.Abs(row[0])
		peakLag  int
		zeroLags int
	)

	for i, v := range row {
		y := v - c
		t := sum + y
		c = (t - sum) - y
		sum = t

		sumSq += v * v

		if a := math.Abs(v); a > peak {
			peak = a
			peakLag = i
		}
		if v == 0 {
			zeroLags++
		}
	}

	nf := float64(n)
	return Stats{
		Length:   n,
		Peak:     peak,
		PeakLag:  peakLag,
		Mean:     sum / nf,
		RMS:      math.Sqrt(sumSq / nf),
		ZeroLags: zeroLags,
	}
}
