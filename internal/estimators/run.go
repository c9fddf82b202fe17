// Package estimators evaluates summary statistics of nested-sampling runs.
// The default list is shared by every results table so cached tables built
// from it stay loadable.
package estimators

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrInvalidRun indicates a run with too few samples or mismatched arrays.
	ErrInvalidRun = errors.New("estimators: invalid run")
	// ErrParamIndex indicates a parameter index beyond the run's dimension.
	ErrParamIndex = errors.New("estimators: parameter index out of range")
	// ErrProbability indicates a quantile probability outside (0, 1).
	ErrProbability = errors.New("estimators: probability must be in (0, 1)")
)

// Run is a nested-sampling run with samples in order of increasing
// likelihood.
type Run struct {
	// Logl holds each sample's log-likelihood.
	Logl []float64 `json:"logl"`
	// Theta holds each sample's parameter vector, one row per sample.
	Theta [][]float64 `json:"theta"`
	// NLive holds the number of live points when each sample was removed.
	NLive []float64 `json:"nlive_array"`
}

// NDim returns the number of parameters per sample, or 0 for an empty run.
func (r *Run) NDim() int {
	if len(r.Theta) == 0 {
		return 0
	}
	return len(r.Theta[0])
}

// Validate checks array lengths and live point counts.
func (r *Run) Validate() error {
	n := len(r.Logl)
	if n < 2 {
		return fmt.Errorf("%w: need at least 2 samples, got %d", ErrInvalidRun, n)
	}
	if len(r.Theta) != n || len(r.NLive) != n {
		return fmt.Errorf("%w: logl has %d samples, theta %d, nlive %d", ErrInvalidRun, n, len(r.Theta), len(r.NLive))
	}
	ndim := r.NDim()
	for i, row := range r.Theta {
		if len(row) != ndim {
			return fmt.Errorf("%w: theta row %d has %d values, want %d", ErrInvalidRun, i, len(row), ndim)
		}
	}
	return nil
}

// LogX returns the expected log prior volume remaining after each sample.
// Each step is the expected log shrinkage of the largest of n_k uniform
// draws, so log X_i = -sum_{k<=i} 1/n_k.
func LogX(nlive []float64) ([]float64, error) {
	steps := make([]float64, len(nlive))
	for i, n := range nlive {
		if !(n > 0) {
			return nil, fmt.Errorf("%w: nlive[%d] = %v must be positive", ErrInvalidRun, i, n)
		}
		steps[i] = -1 / n
	}
	return floats.CumSum(make([]float64, len(steps)), steps), nil
}

// LogW returns the log posterior weight of each sample using the trapezium
// rule, w_i = L_i (X_{i-1} - X_{i+1}) / 2. The first sample takes the
// volume from X = 1 down to the midpoint of the first two samples and the
// last sample everything below the midpoint of the last two.
func LogW(run *Run) ([]float64, error) {
	if err := run.Validate(); err != nil {
		return nil, err
	}
	logx, err := LogX(run.NLive)
	if err != nil {
		return nil, err
	}

	n := len(logx)
	logw := make([]float64, n)
	for i := 1; i < n-1; i++ {
		logw[i] = logSubtract(logx[i-1], logx[i+1]) - math.Ln2
	}
	logw[0] = logSubtract(0, floats.LogSumExp(logx[:2])-math.Ln2)
	logw[n-1] = floats.LogSumExp(logx[n-2:]) - math.Ln2
	floats.Add(logw, run.Logl)
	return logw, nil
}

// RelativeWeights returns exp(logw - max(logw)).
func RelativeWeights(logw []float64) []float64 {
	w := make([]float64, len(logw))
	if len(logw) == 0 {
		return w
	}
	top := floats.Max(logw)
	for i, lw := range logw {
		w[i] = math.Exp(lw - top)
	}
	return w
}

// logSubtract returns log(exp(a) - exp(b)) for a > b.
func logSubtract(a, b float64) float64 {
	return a + math.Log1p(-math.Exp(b-a))
}
