package ncc

import "math"

// windowStats holds the sliding mean and standard deviation of an image
// under every window of a fixed length, for lags k = 0..count-1 where
// count = len(image) - length + 1. zero[k] reports windows whose variance
// fell below the configured epsilon, i.e. constant-valued windows whose
// correlation is defined to be 0 rather than computed by division.
type windowStats struct {
	mean  []float64
	sigma []float64
	zero  []bool
}

// computeWindowStats seeds mean/variance once by direct summation over the
// first window, then updates them incrementally as the window slides by one
// sample at a time. The update is the exact recurrence used by the
// reference implementation:
//
//	meanNew = mean + (new - old) / length
//	var    += (new - old) * (new - meanNew + old - mean) / length
//
// which keeps a single running variance in sync with the running mean
// without ever re-summing the whole window. Floating point drift
// accumulates slowly over many lags; cfg.VarianceRecompute, when set, forces
// an exact O(length) recomputation every that-many lags to bound it.
func computeWindowStats(image []float64, length int, cfg Config) windowStats {
	count := len(image) - length + 1
	stats := windowStats{
		mean:  make([]float64, max0(count)),
		sigma: make([]float64, max0(count)),
		zero:  make([]bool, max0(count)),
	}
	if count <= 0 {
		return stats
	}

	mean, variance := exactMeanVariance(image[:length])
	stats.mean[0] = mean
	stats.sigma[0], stats.zero[0] = resolveSigma(variance, cfg.Epsilon)

	sinceRecompute := 0
	for k := 1; k < count; k++ {
		oldSamp := image[k-1]
		newSamp := image[k-1+length]

		newMean := mean + (newSamp-oldSamp)/float64(length)
		variance += (newSamp - oldSamp) * (newSamp - newMean + oldSamp - mean) / float64(length)
		mean = newMean

		sinceRecompute++
		if cfg.VarianceRecompute > 0 && sinceRecompute >= cfg.VarianceRecompute {
			_, variance = exactMeanVariance(image[k : k+length])
			sinceRecompute = 0
		}

		stats.mean[k] = mean
		stats.sigma[k], stats.zero[k] = resolveSigma(variance, cfg.Epsilon)
	}
	return stats
}

// exactMeanVariance computes the population mean and variance of w directly,
// in O(len(w)). Used both to seed the streaming recurrence and, optionally,
// to periodically correct its drift.
func exactMeanVariance(w []float64) (mean, variance float64) {
	var sum float64
	for _, v := range w {
		sum += v
	}
	mean = sum / float64(len(w))

	var sq float64
	for _, v := range w {
		d := v - mean
		sq += d * d
	}
	return mean, sq / float64(len(w))
}

func resolveSigma(variance, epsilon float64) (sigma float64, zero bool) {
	if variance < epsilon {
		return 0, true
	}
	return math.Sqrt(variance), false
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
