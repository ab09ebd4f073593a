package ncc

import "runtime"

// Config carries the tunables exposed across Time, FFT, and MultiChannel.
// Construct one with ApplyOptions; the zero value is not valid.
type Config struct {
	// Workers caps the worker-pool size MultiChannel uses. <= 0 means "use
	// runtime.GOMAXPROCS(0)", clamped to the channel count at call time.
	Workers int

	// Epsilon is the variance floor below which a window is treated as
	// constant: its correlation is reported as 0 rather than divided by a
	// near-zero standard deviation.
	Epsilon float64

	// ClipTolerance is the absolute boundary correlation values are allowed
	// to exceed before being reported as a NormalizationError rather than
	// silently clamped. Values within [-ClipTolerance, ClipTolerance] are
	// clamped into [-1, 1] and accepted.
	ClipTolerance float64

	// VarianceRecompute, when > 0, forces an exact O(L_t) variance
	// recomputation every VarianceRecompute lags instead of relying solely
	// on the streaming update. 0 disables it, matching the unconditional
	// streaming-only behavior of the reference algorithm.
	VarianceRecompute int
}

// Option mutates a Config under construction.
type Option func(*Config)

// DefaultConfig returns the package defaults: hardware-parallel workers, a
// variance epsilon of 1e-7, and a clip tolerance of 1.01.
func DefaultConfig() Config {
	return Config{
		Workers:           0,
		Epsilon:           1e-7,
		ClipTolerance:     1.01,
		VarianceRecompute: 0,
	}
}

// WithWorkers overrides the MultiChannel worker-pool size. n <= 0 restores
// the default (runtime.GOMAXPROCS(0), clamped to the channel count).
func WithWorkers(n int) Option {
	return func(cfg *Config) {
		cfg.Workers = n
	}
}

// WithEpsilon overrides the zero-variance threshold. Non-positive values are
// ignored.
func WithEpsilon(eps float64) Option {
	return func(cfg *Config) {
		if eps > 0 {
			cfg.Epsilon = eps
		}
	}
}

// WithClipTolerance overrides the clip/flag boundary. Values <= 1 are
// ignored since they would reject exact +/-1 correlations.
func WithClipTolerance(tol float64) Option {
	return func(cfg *Config) {
		if tol > 1 {
			cfg.ClipTolerance = tol
		}
	}
}

// WithVarianceRecompute enables periodic exact variance recomputation every
// `every` lags. every <= 0 disables it.
func WithVarianceRecompute(every int) Option {
	return func(cfg *Config) {
		cfg.VarianceRecompute = every
	}
}

// ApplyOptions folds a variadic option list onto DefaultConfig.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// workerCount resolves the effective worker-pool size for a given channel
// count, per cfg.Workers and the hardware default.
func (cfg Config) workerCount(channels int) int {
	w := cfg.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if w > channels {
		w = channels
	}
	if w < 1 {
		w = 1
	}
	return w
}
