package ncc

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/tjnewton/EQcorrscan/dsp/buffer"
)

// ChannelInput bundles one channel's template batch and image trace for
// MultiChannel, along with whether the channel is gated into the final
// stack and how far its correlogram must be shifted to align with its
// peers before stacking.
type ChannelInput struct {
	// Templates holds this channel's version of every template in the
	// batch; Templates[t] must have the same length across every channel.
	Templates [][]float64
	Image     []float64

	// Used gates each (channel, template) pair independently: Used[t] ==
	// false forces template t's entire row to zero on this channel, in both
	// PerChannel and Stacked, before the per-sample sanitize/clip pass ever
	// sees it. A nil Used treats every template on this channel as used.
	Used []bool

	// Pad holds, per template, the left-rotation (in samples) applied to
	// this channel's correlation row before stacking: position Pad[t]
	// becomes position 0 and the vacated tail is zero-filled. It encodes a
	// per-template arrival-time offset relative to the channel's start and
	// is kept non-negative by convention. A nil Pad applies no shift to any
	// template on this channel.
	Pad []int
}

// usedFor reports whether template t on this channel contributes to
// Stacked. A nil Used gates nothing: every template is used.
func (c ChannelInput) usedFor(t int) bool {
	if c.Used == nil {
		return true
	}
	return c.Used[t]
}

// padFor returns the rotation to apply to template t's row on this channel
// before stacking. A nil Pad applies no rotation to any template.
func (c ChannelInput) padFor(t int) int {
	if c.Pad == nil {
		return 0
	}
	return c.Pad[t]
}

// MultiChannelResult bundles every channel's raw correlation surfaces with
// the final network-stacked correlogram.
type MultiChannelResult struct {
	// PerChannel[c][t] is channel c's correlation of template t against its
	// own image, before padding or stacking. A template gated off for this
	// channel (ChannelInput.Used[t] == false) is all zeros here too, not
	// just absent from Stacked.
	PerChannel [][][]float64

	// Stacked[t] is the sum, across every used channel, of template t's
	// padded correlation. If any channel anywhere in the call failed
	// normalization, stacking is suppressed call-wide and Stacked is left
	// all zeros, leaving the output unstacked, even for
	// channels that individually normalized fine; PerChannel still holds
	// every channel's raw, unstacked result for inspection.
	Stacked [][]float64
}

// MultiChannel runs FFT across every channel on a worker pool of
// W = min(len(channels), P) workers, P the configured or hardware
// parallelism, then stacks the gated, aligned results into one correlogram
// per template.
//
// Every ChannelInput.Templates entry is subject to FFT's precondition:
// pre-normalized to unit population standard deviation before it reaches
// this call.
//
// A single FFT plan is created once, before any worker starts; each worker
// clones its own Executor and scratch arena from it. Plan creation is not
// safe to run concurrently with itself or with execution, but execution
// against a cloned Executor's own buffers is safe from multiple goroutines
// at once — mirroring the reference implementation's practice of building
// its FFTW plans on a single thread up front and then running them across
// worker threads with `fftw_execute_dft_*` against explicit buffers.
//
// If any channel's correlation values fall outside the configured clip
// tolerance, MultiChannel still returns a complete result — every channel's
// raw output in PerChannel — but Stacked is left all zeros and the error
// wraps ErrNormalization for the first offending channel/template/lag.
// This mirrors the reference implementation's global failure flag: one bad
// sample anywhere in the call, on any channel, skips the reduction for
// every channel and template, not just the offending one.
func MultiChannel(channels []ChannelInput, cfg Config) (*MultiChannelResult, error) {
	nTemplates, _, fftLen, count, err := validateChannels(channels)
	if err != nil {
		return nil, err
	}

	group, err := newPlanGroup(fftLen)
	if err != nil {
		return nil, err
	}

	result := newMultiChannelResult(len(channels), nTemplates, count)

	w := cfg.workerCount(len(channels))
	jobs := make(chan int, len(channels))
	for c := range channels {
		jobs <- c
	}
	close(jobs)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for i := 0; i < w; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			exec := group.newExecutor()
			defer exec.Close()
			a := newArena(exec, fftLen)

			for c := range jobs {
				ch := channels[c]
				cerr := correlateFFT(a, ch.Templates, ch.Image, result.PerChannel[c], ch.Used, cfg)
				if cerr != nil {
					mu.Lock()
					if firstErr == nil {
						if ne, ok := cerr.(*NormalizationError); ok {
							ne.Channel = c
						}
						firstErr = cerr
					}
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	// A normalization failure on any channel suppresses stacking for the
	// whole call, not just the offending channel — every
	// row stays in PerChannel for inspection, but Stacked stays zero.
	if firstErr != nil {
		return result, firstErr
	}

	padPool := buffer.NewPool()
	for c, ch := range channels {
		for t := 0; t < nTemplates; t++ {
			if !ch.usedFor(t) {
				// correlateFFT already zeroed this row in PerChannel, so
				// adding it would be a no-op; skip it outright instead.
				continue
			}
			row := result.PerChannel[c][t]
			if pad := ch.padFor(t); pad != 0 {
				padded := padPool.Get(len(row))
				padArrayInto(padded.Samples(), row, pad)
				vecmath.AddBlockInPlace(result.Stacked[t], padded.Samples())
				padPool.Put(padded)
				continue
			}
			vecmath.AddBlockInPlace(result.Stacked[t], row)
		}
	}

	return result, firstErr
}

// validateChannels checks that every channel shares a template count and
// template length, that every image is at least as long as the templates,
// and that every channel produces the same number of lags (stacking
// requires it). It returns the shared template count, template length, the
// FFT length needed by the longest channel, and the shared lag count.
func validateChannels(channels []ChannelInput) (nTemplates, lt, fftLen, count int, err error) {
	if len(channels) == 0 {
		return 0, 0, 0, 0, fmt.Errorf("%w: channels must be non-empty", ErrArgument)
	}
	nTemplates = len(channels[0].Templates)
	if nTemplates == 0 {
		return 0, 0, 0, 0, fmt.Errorf("%w: templates must be non-empty", ErrArgument)
	}
	lt = len(channels[0].Templates[0])
	if lt == 0 {
		return 0, 0, 0, 0, fmt.Errorf("%w: template length must be non-empty", ErrArgument)
	}

	counts := make([]int, len(channels))
	for c, ch := range channels {
		if len(ch.Templates) != nTemplates {
			return 0, 0, 0, 0, fmt.Errorf("%w: channel %d has %d templates, want %d", ErrArgument, c, len(ch.Templates), nTemplates)
		}
		for _, tmpl := range ch.Templates {
			if len(tmpl) != lt {
				return 0, 0, 0, 0, fmt.Errorf("%w: channel %d has a template of length %d, want %d", ErrArgument, c, len(tmpl), lt)
			}
		}
		li := len(ch.Image)
		if li < lt {
			return 0, 0, 0, 0, fmt.Errorf("%w: channel %d image length %d shorter than template length %d", ErrArgument, c, li, lt)
		}
		if ch.Used != nil && len(ch.Used) != nTemplates {
			return 0, 0, 0, 0, fmt.Errorf("%w: channel %d Used has length %d, want %d", ErrArgument, c, len(ch.Used), nTemplates)
		}
		if ch.Pad != nil && len(ch.Pad) != nTemplates {
			return 0, 0, 0, 0, fmt.Errorf("%w: channel %d Pad has length %d, want %d", ErrArgument, c, len(ch.Pad), nTemplates)
		}
		counts[c] = li - lt + 1
		if need := lt + li - 1; need > fftLen {
			fftLen = need
		}
	}
	count = counts[0]
	for c := 1; c < len(counts); c++ {
		if counts[c] != count {
			return 0, 0, 0, 0, fmt.Errorf("%w: channel %d yields %d lags, want %d (channels must share a lag count to stack)", ErrArgument, c, counts[c], count)
		}
	}
	return nTemplates, lt, fftLen, count, nil
}

func newMultiChannelResult(nChannels, nTemplates, count int) *MultiChannelResult {
	result := &MultiChannelResult{
		PerChannel: make([][][]float64, nChannels),
		Stacked:    make([][]float64, nTemplates),
	}
	for t := range result.Stacked {
		result.Stacked[t] = make([]float64, count)
	}
	for c := range result.PerChannel {
		result.PerChannel[c] = make([][]float64, nTemplates)
		for t := range result.PerChannel[c] {
			result.PerChannel[c][t] = make([]float64, count)
		}
	}
	return result
}

// padArray shifts row by pad samples into a fresh slice the same length as
// row. See padArrayInto for the shift semantics. row itself is untouched so
// PerChannel keeps holding the unshifted values.
func padArray(row []float64, pad int) []float64 {
	out := make([]float64, len(row))
	padArrayInto(out, row, pad)
	return out
}

// padArrayInto writes row rotated by pad samples into dst, which must
// already be zeroed and the same length as row. For pad >= 0, position pad
// of row becomes position 0 of dst (a left-rotate, the vacated tail
// zero-filled) — the convention keeps pad non-negative, but a negative pad
// is accepted here as the mirror-image right-shift (a delay, zero-filling
// the head) since nothing in the algorithm requires forbidding it. pad == 0
// is a plain copy.
func padArrayInto(dst, row []float64, pad int) {
	switch {
	case pad == 0:
		copy(dst, row)
	case pad > 0:
		if pad < len(row) {
			copy(dst[:len(row)-pad], row[pad:])
		}
	default:
		shift := -pad
		if shift < len(row) {
			copy(dst[shift:], row[:len(row)-shift])
		}
	}
}
