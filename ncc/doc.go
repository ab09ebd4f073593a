// Package ncc computes normalized cross-correlation (Pearson correlation at
// every lag) between seismic templates and a continuous image trace.
//
// Three entry points, layered by cost:
//
//   - Time computes one template against one image directly in the time
//     domain. O(L_t * S) per call; used as the arithmetic reference and for
//     templates too short to amortize an FFT.
//   - FFT batches many templates sharing one image through a single
//     frequency-domain correlation pass.
//   - MultiChannel fans FFT out across channels on a worker pool, each
//     worker owning its own scratch arena and FFT executor cloned from one
//     serially-created plan.
//
// All three report floating-point correlation values in [-1, 1] (with a
// small, configurable clip tolerance) and treat constant-valued windows
// (zero variance) as a defined zero rather than a NaN.
package ncc
