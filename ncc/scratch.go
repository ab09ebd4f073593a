package ncc

import (
	algofft "github.com/cwbudde/algo-fft"
)

// arena holds one worker's reusable scratch for the FFT correlation path:
// the zero-padded, time-reversed template batch and its spectrum, the
// zero-padded image and its spectrum, the spectral product, and the
// inverse-transformed correlation surface. Every group is sized for the
// largest call so far and reused across calls; nothing here is safe to
// share across goroutines.
type arena struct {
	fftLen int

	templateExt []complex128 // rows x fftLen, row-major
	specT       []complex128 // rows x fftLen
	prod        []complex128 // rows x fftLen
	ccc         []complex128 // rows x fftLen

	imageExt []complex128 // fftLen
	specI    []complex128 // fftLen

	tMean []float64 // per-template mean, len == rows

	exec *algofft.Executor[complex128]
}

// newArena allocates an arena bound to exec. exec's plan determines fftLen.
func newArena(exec *algofft.Executor[complex128], fftLen int) *arena {
	return &arena{
		fftLen:   fftLen,
		imageExt: make([]complex128, fftLen),
		specI:    make([]complex128, fftLen),
		exec:     exec,
	}
}

// reset clears the image-side buffers and grows the template-batch buffers
// to hold rows templates, zeroing every group so stale data from a previous
// (possibly shorter) call can't leak through.
func (a *arena) reset(rows int) {
	need := rows * a.fftLen

	a.templateExt = ensureComplexLen(a.templateExt, need)
	a.specT = ensureComplexLen(a.specT, need)
	a.prod = ensureComplexLen(a.prod, need)
	a.ccc = ensureComplexLen(a.ccc, need)
	a.tMean = ensureFloatLen(a.tMean, rows)

	zeroComplex(a.templateExt)
	zeroComplex(a.specT)
	zeroComplex(a.prod)
	zeroComplex(a.ccc)
	zeroComplex(a.imageExt)
	zeroComplex(a.specI)
	for i := range a.tMean {
		a.tMean[i] = 0
	}
}

// templateRow, specTRow, prodRow and cccRow return the fftLen-wide slice for
// template index t within their rows*fftLen buffer.
func (a *arena) templateRow(t int) []complex128 { return sliceRow(a.templateExt, t, a.fftLen) }
func (a *arena) specTRow(t int) []complex128    { return sliceRow(a.specT, t, a.fftLen) }
func (a *arena) prodRow(t int) []complex128     { return sliceRow(a.prod, t, a.fftLen) }
func (a *arena) cccRow(t int) []complex128      { return sliceRow(a.ccc, t, a.fftLen) }

func sliceRow(buf []complex128, row, width int) []complex128 {
	start := row * width
	return buf[start : start+width]
}

func ensureComplexLen(buf []complex128, n int) []complex128 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]complex128, n)
}

func ensureFloatLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

func zeroComplex(buf []complex128) {
	for i := range buf {
		buf[i] = 0
	}
}
