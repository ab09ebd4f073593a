package ncc

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
)

// planGroup wraps a single algofft.Plan[complex128], created once under the
// caller's exclusive control. Plan creation walks the planner's internal
// tables and is documented as not safe to run concurrently with other plan
// creation; execution against caller-supplied buffers is safe once cloned
// into an Executor, so every worker gets its own via newExecutor.
type planGroup struct {
	fftLen int
	plan   *algofft.Plan[complex128]
}

// newPlanGroup creates a Plan for transforms of length fftLen. Callers that
// build multiple planGroups concurrently must serialize their newPlanGroup
// calls themselves; algofft does not.
func newPlanGroup(fftLen int) (*planGroup, error) {
	if fftLen <= 0 {
		return nil, fmt.Errorf("%w: fft length must be positive, got %d", ErrArgument, fftLen)
	}
	plan, err := algofft.NewPlan64(fftLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResource, err)
	}
	return &planGroup{fftLen: fftLen, plan: plan}, nil
}

// newExecutor clones an independent workspace off the shared plan. Safe to
// call concurrently from multiple goroutines and safe to use the returned
// Executor from exactly one goroutine at a time thereafter.
func (g *planGroup) newExecutor() *algofft.Executor[complex128] {
	return g.plan.NewExecutor()
}
