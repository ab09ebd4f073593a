package ncc

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// FFT computes the normalized cross-correlation of a batch of equal-length
// templates against one shared image in the frequency domain: one
// forward/inverse transform pair per template row instead of a direct
// O(len(template)) sweep per lag. It creates its own FFT plan and a single
// executor, so repeated calls each pay plan-creation cost; callers driving
// many channels in parallel should use MultiChannel instead, which creates
// one plan and clones an executor per worker.
//
// Every template must already be normalized to unit population standard
// deviation — sum((u[i] - mean(u))^2) == len(u) — before it reaches FFT.
// Only the image side's sliding mean/variance is computed and divided out
// here; a template that isn't pre-normalized produces the Pearson
// correlation scaled by the template's own standard deviation. Time has no such precondition:
// it derives and divides out both operands' own standard deviation at every
// lag, so it stays correct for an arbitrarily scaled template.
//
// All templates must share one length. out[t] receives template t's
// correlation against image and must have length len(image)-len(template)+1.
func FFT(templates [][]float64, image []float64, out [][]float64, cfg Config) error {
	if err := validateBatch(templates, image, out); err != nil {
		return err
	}

	lt := len(templates[0])
	li := len(image)
	fftLen := lt + li - 1

	group, err := newPlanGroup(fftLen)
	if err != nil {
		return err
	}
	a := newArena(group.newExecutor(), fftLen)

	return correlateFFT(a, templates, image, out, nil, cfg)
}

// validateBatch checks the shape invariants shared by FFT and the
// per-channel work MultiChannel dispatches: a non-empty, equal-length
// template batch, a long-enough image, and correctly sized outputs.
func validateBatch(templates [][]float64, image []float64, out [][]float64) error {
	if len(templates) == 0 {
		return fmt.Errorf("%w: templates must be non-empty", ErrArgument)
	}
	if len(templates) != len(out) {
		return fmt.Errorf("%w: templates count %d, out count %d", ErrArgument, len(templates), len(out))
	}
	lt := len(templates[0])
	li := len(image)
	if lt == 0 || li == 0 {
		return fmt.Errorf("%w: template and image must be non-empty", ErrArgument)
	}
	if lt > li {
		return fmt.Errorf("%w: template length %d exceeds image length %d", ErrArgument, lt, li)
	}
	for i, tmpl := range templates {
		if len(tmpl) != lt {
			return fmt.Errorf("%w: template %d has length %d, want %d", ErrArgument, i, len(tmpl), lt)
		}
	}
	count := li - lt + 1
	for i, row := range out {
		if len(row) != count {
			return fmt.Errorf("%w: out[%d] has length %d, want %d", ErrArgument, i, len(row), count)
		}
	}
	return nil
}

// correlateFFT runs the shared frequency-domain correlation core against a
// prepared arena and executor: pack the time-reversed, zero-padded template
// batch and the zero-padded image, transform both, multiply spectra,
// inverse-transform, then normalize every lag against the image's sliding
// mean and standard deviation alone — every template must already carry
// unit population standard deviation, see FFT's doc comment.
//
// used, when non-nil, gates rows before they ever reach the per-sample
// sanitize/clip walk: used[t] == false zeroes row t outright and skips it,
// so a gated-off template can never trip a *NormalizationError and always
// comes back all zeros. A nil used treats every row as used.
//
// It fills every used row of out even when some values fall outside the
// clip tolerance, returning a *NormalizationError identifying the first
// such sample rather than aborting.
func correlateFFT(a *arena, templates [][]float64, image []float64, out [][]float64, used []bool, cfg Config) error {
	rows := len(templates)
	lt := len(templates[0])
	li := len(image)
	count := li - lt + 1
	fftLen := a.fftLen
	startind := lt - 1

	a.reset(rows)

	for t, tmpl := range templates {
		row := a.templateRow(t)
		for i, v := range tmpl {
			row[lt-1-i] = complex(v, 0)
		}
		a.tMean[t] = mean(tmpl)
	}

	for i, v := range image {
		a.imageExt[i] = complex(v, 0)
	}

	if err := a.exec.Forward(a.specI, a.imageExt); err != nil {
		return fmt.Errorf("%w: image forward transform: %v", ErrResource, err)
	}
	for t := 0; t < rows; t++ {
		if err := a.exec.Forward(a.specTRow(t), a.templateRow(t)); err != nil {
			return fmt.Errorf("%w: template %d forward transform: %v", ErrResource, t, err)
		}
	}

	for t := 0; t < rows; t++ {
		specT := a.specTRow(t)
		prod := a.prodRow(t)
		for f := 0; f < fftLen; f++ {
			prod[f] = specT[f] * a.specI[f]
		}
	}

	for t := 0; t < rows; t++ {
		if err := a.exec.Inverse(a.cccRow(t), a.prodRow(t)); err != nil {
			return fmt.Errorf("%w: template %d inverse transform: %v", ErrResource, t, err)
		}
	}

	stats := computeWindowStats(image, lt, cfg)

	var flagged *NormalizationError
	for t := 0; t < rows; t++ {
		row := out[t]

		if used != nil && !used[t] {
			for k := 0; k < count; k++ {
				row[k] = 0
			}
			continue
		}

		ccc := a.cccRow(t)
		for k := 0; k < count; k++ {
			if stats.zero[k] {
				row[k] = 0
				continue
			}
			cov := real(ccc[startind+k])/float64(lt) - a.tMean[t]*stats.mean[k]
			row[k] = cov / stats.sigma[k]
		}

		// Every in-tolerance correlation value must land in [-1, 1]; a
		// single block-wide max-abs pass lets an entire row skip the
		// per-sample clip/flag walk below when nothing in it needs clamping
		// or flagging, which is the common case.
		if vecmath.MaxAbs(row) <= 1 {
			continue
		}
		for k := 0; k < count; k++ {
			if stats.zero[k] {
				continue
			}
			c := row[k]
			v, ok := sanitize(c, cfg)
			row[k] = v
			if !ok && flagged == nil {
				flagged = &NormalizationError{Template: t, Lag: k, Value: c}
			}
		}
	}
	if flagged != nil {
		return flagged
	}
	return nil
}

// mean computes the plain arithmetic mean of w. The FFT path only needs a
// template's mean for the norm_sum correction term; unlike the image's
// sliding window, a template's own variance is never computed or divided
// out here — see FFT's doc comment for the precondition that replaces it.
func mean(w []float64) float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}
	return sum / float64(len(w))
}
