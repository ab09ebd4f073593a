package ncc

import (
	"errors"
	"math"
	"testing"

	"github.com/tjnewton/EQcorrscan/internal/testutil"
)

func TestTime_PerfectMatchAtZeroLag(t *testing.T) {
	template := testutil.DeterministicSine(5, 100, 1, 32)
	image := append([]float64{}, template...)
	image = append(image, testutil.DeterministicNoise(1, 0.1, 64)...)

	out := make([]float64, len(image)-len(template)+1)
	if err := Time(template, image, out, DefaultConfig()); err != nil {
		t.Fatalf("Time() error = %v", err)
	}

	if out[0] < 0.999 {
		t.Fatalf("out[0] = %v, want ~1 (template matches image at lag 0)", out[0])
	}
	for i, v := range out {
		if v > 1.0001 || v < -1.0001 {
			t.Fatalf("out[%d] = %v outside [-1,1]", i, v)
		}
	}
}

func TestTime_ScenarioOneCenteredUnitNormPeak(t *testing.T) {
	template := normalizeUnitStd([]float64{1, 2, 3, 4})
	image := []float64{0, 0, 0, 1, 2, 3, 4, 0, 0}

	out := make([]float64, len(image)-len(template)+1)
	if err := Time(template, image, out, DefaultConfig()); err != nil {
		t.Fatalf("Time() error = %v", err)
	}

	if diff := math.Abs(out[3] - 1.0); diff > 1e-4 {
		t.Fatalf("out[3] = %v, want 1.0 within 1e-4", out[3])
	}
	for k, v := range out {
		if k == 3 {
			continue
		}
		if math.Abs(v) >= 0.99 {
			t.Fatalf("out[%d] = %v, want |v| < 0.99 away from the alignment lag", k, v)
		}
	}
}

func TestTime_ShiftingImageShiftsOutputByExactLag(t *testing.T) {
	template := testutil.DeterministicSine(5, 100, 1, 16)
	image := testutil.DeterministicNoise(3, 1, 256)
	const delta = 7

	count := len(image) - len(template) + 1
	out := make([]float64, count)
	if err := Time(template, image, out, DefaultConfig()); err != nil {
		t.Fatalf("Time() error = %v", err)
	}

	shiftedImage := make([]float64, len(image)+delta)
	copy(shiftedImage[delta:], image)
	shiftedCount := len(shiftedImage) - len(template) + 1
	shiftedOut := make([]float64, shiftedCount)
	if err := Time(template, shiftedImage, shiftedOut, DefaultConfig()); err != nil {
		t.Fatalf("Time() error = %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, shiftedOut[delta:delta+count], out, 1e-9)
}

func TestTime_ConstantTemplateIsZero(t *testing.T) {
	template := testutil.DC(3, 16)
	image := testutil.DeterministicSine(5, 100, 1, 64)

	out := make([]float64, len(image)-len(template)+1)
	if err := Time(template, image, out, DefaultConfig()); err != nil {
		t.Fatalf("Time() error = %v", err)
	}
	for i, v := range out {
		if v != 0 {
			t.Fatalf("out[%d] = %v, want 0 for constant template", i, v)
		}
	}
}

func TestTime_ConstantWindowIsZero(t *testing.T) {
	template := testutil.DeterministicSine(5, 100, 1, 16)
	image := testutil.DC(1, 64)

	out := make([]float64, len(image)-len(template)+1)
	if err := Time(template, image, out, DefaultConfig()); err != nil {
		t.Fatalf("Time() error = %v", err)
	}
	testutil.RequireFinite(t, out)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("out[%d] = %v, want 0 for constant image window", i, v)
		}
	}
}

func TestTime_RejectsTemplateLongerThanImage(t *testing.T) {
	template := make([]float64, 10)
	image := make([]float64, 5)
	out := make([]float64, 1)

	err := Time(template, image, out, DefaultConfig())
	if !errors.Is(err, ErrArgument) {
		t.Fatalf("Time() error = %v, want ErrArgument", err)
	}
}

func TestTime_RejectsWrongOutputLength(t *testing.T) {
	template := make([]float64, 4)
	image := make([]float64, 10)
	out := make([]float64, 100)

	err := Time(template, image, out, DefaultConfig())
	if !errors.Is(err, ErrArgument) {
		t.Fatalf("Time() error = %v, want ErrArgument", err)
	}
}

func TestTimeBatch_MatchesTimePerTemplate(t *testing.T) {
	image := testutil.DeterministicNoise(7, 1, 128)
	templates := [][]float64{
		testutil.DeterministicSine(3, 100, 1, 16),
		testutil.DeterministicSine(11, 100, 1, 16),
	}

	out := make([][]float64, len(templates))
	for i := range out {
		out[i] = make([]float64, len(image)-16+1)
	}
	if err := TimeBatch(templates, image, out, DefaultConfig()); err != nil {
		t.Fatalf("TimeBatch() error = %v", err)
	}

	for i, tmpl := range templates {
		want := make([]float64, len(image)-16+1)
		if err := Time(tmpl, image, want, DefaultConfig()); err != nil {
			t.Fatalf("Time() error = %v", err)
		}
		testutil.RequireSliceNearlyEqual(t, out[i], want, 1e-12)
	}
}

func TestTime_GaussianNoiseCorrelationIsSmall(t *testing.T) {
	template := testutil.DeterministicGaussian(42, 1, 64)
	image := testutil.DeterministicGaussian(99, 1, 2048)

	out := make([]float64, len(image)-len(template)+1)
	if err := Time(template, image, out, DefaultConfig()); err != nil {
		t.Fatalf("Time() error = %v", err)
	}

	var sumSq float64
	for _, v := range out {
		sumSq += v * v
	}
	rms := math.Sqrt(sumSq / float64(len(out)))
	// Independent Gaussian noise correlated against a fixed-length window
	// has an expected RMS correlation of roughly 1/sqrt(template length);
	// this is a loose statistical bound, not an exact-value check.
	if rms > 3/math.Sqrt(float64(len(template))) {
		t.Fatalf("RMS correlation %v too large for uncorrelated Gaussian noise", rms)
	}
}
