package ncc

import "fmt"

// Time computes the normalized cross-correlation between template and every
// length-len(template) window of image by direct summation: no FFT. The
// template's own mean/variance is fixed and computed once; the sliding
// window's mean is streamed one sample at a time as the window advances
// (meanNew = mean + (new-old)/length) while its variance, and the
// template-window dot product, are still recomputed exactly every lag in
// the same O(length) pass — the same split the reference implementation
// uses. out must have length len(image)-len(template)+1.
//
// This is the arithmetic reference the other two entry points are checked
// against, and the preferred path for templates too short to amortize the
// cost of building an FFT plan.
func Time(template, image, out []float64, cfg Config) error {
	lt := len(template)
	li := len(image)
	if lt == 0 || li == 0 {
		return fmt.Errorf("%w: template and image must be non-empty", ErrArgument)
	}
	if lt > li {
		return fmt.Errorf("%w: template length %d exceeds image length %d", ErrArgument, lt, li)
	}
	count := li - lt + 1
	if len(out) != count {
		return fmt.Errorf("%w: out length %d, want %d", ErrArgument, len(out), count)
	}

	tMean, tVar := exactMeanVariance(template)
	tSigma, tZero := resolveSigma(tVar, cfg.Epsilon)

	xMean := mean(image[:lt])

	var flagged *NormalizationError
	for k := 0; k < count; k++ {
		if k > 0 {
			old, newSamp := image[k-1], image[k-1+lt]
			xMean += (newSamp - old) / float64(lt)
		}
		window := image[k : k+lt]

		var dot, xSq float64
		for i, t := range template {
			d := window[i] - xMean
			dot += t * window[i]
			xSq += d * d
		}
		xSigma, xZero := resolveSigma(xSq/float64(lt), cfg.Epsilon)

		if tZero || xZero {
			out[k] = 0
			continue
		}

		cov := dot/float64(lt) - tMean*xMean

		v, ok := sanitize(cov/(tSigma*xSigma), cfg)
		out[k] = v
		if !ok && flagged == nil {
			flagged = &NormalizationError{Template: 0, Lag: k, Value: cov / (tSigma * xSigma)}
		}
	}
	if flagged != nil {
		return flagged
	}
	return nil
}

// TimeBatch runs Time independently for every template against one shared
// image, writing template t's correlation row into out[t]. It supplements
// the single-template entry point for the (rarer) case of more than one
// very short template sharing a channel, where none of them individually
// justifies FFT's setup cost.
func TimeBatch(templates [][]float64, image []float64, out [][]float64, cfg Config) error {
	if len(templates) != len(out) {
		return fmt.Errorf("%w: templates count %d, out count %d", ErrArgument, len(templates), len(out))
	}
	var firstErr error
	for t, tmpl := range templates {
		if err := Time(tmpl, image, out[t], cfg); err != nil {
			if ne, ok := err.(*NormalizationError); ok {
				ne.Template = t
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
