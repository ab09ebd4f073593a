package ncc

import "testing"

func TestApplyOptions(t *testing.T) {
	cfg := ApplyOptions(WithWorkers(4), WithEpsilon(1e-5), WithClipTolerance(1.05), WithVarianceRecompute(256))
	if cfg.Workers != 4 {
		t.Fatalf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.Epsilon != 1e-5 {
		t.Fatalf("Epsilon = %v, want 1e-5", cfg.Epsilon)
	}
	if cfg.ClipTolerance != 1.05 {
		t.Fatalf("ClipTolerance = %v, want 1.05", cfg.ClipTolerance)
	}
	if cfg.VarianceRecompute != 256 {
		t.Fatalf("VarianceRecompute = %d, want 256", cfg.VarianceRecompute)
	}
}

func TestApplyOptions_InvalidValuesIgnored(t *testing.T) {
	cfg := ApplyOptions(WithEpsilon(-1), WithClipTolerance(0.5))
	def := DefaultConfig()
	if cfg.Epsilon != def.Epsilon {
		t.Fatalf("Epsilon = %v, want default %v", cfg.Epsilon, def.Epsilon)
	}
	if cfg.ClipTolerance != def.ClipTolerance {
		t.Fatalf("ClipTolerance = %v, want default %v", cfg.ClipTolerance, def.ClipTolerance)
	}
}

func TestWorkerCount(t *testing.T) {
	cfg := ApplyOptions(WithWorkers(8))
	if got := cfg.workerCount(3); got != 3 {
		t.Fatalf("workerCount(3) = %d, want 3 (clamped to channel count)", got)
	}
	if got := cfg.workerCount(100); got != 8 {
		t.Fatalf("workerCount(100) = %d, want 8", got)
	}
}
