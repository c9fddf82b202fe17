package estimators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

// flatRun returns a run with constant likelihood and a fixed number of live
// points, so the weights are the prior volume shells alone.
func flatRun(n int, nlive float64) *Run {
	run := &Run{
		Logl:  make([]float64, n),
		Theta: make([][]float64, n),
		NLive: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		run.Theta[i] = []float64{float64(i), 1}
		run.NLive[i] = nlive
	}
	return run
}

func TestLogX(t *testing.T) {
	logx, err := LogX([]float64{1, 1, 2})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1, -2, -2.5}, logx, 1e-12)

	logx, err = LogX([]float64{4, 4, 4, 4})
	require.NoError(t, err)
	assert.InDelta(t, -1, logx[3], 1e-12)

	_, err = LogX([]float64{1, 0})
	assert.ErrorIs(t, err, ErrInvalidRun)
}

func TestLogWSumsToOneForFlatLikelihood(t *testing.T) {
	for _, n := range []int{2, 3, 10, 500} {
		logw, err := LogW(flatRun(n, 20))
		require.NoError(t, err)
		assert.InDelta(t, 0, floats.LogSumExp(logw), 1e-10, "n=%d", n)
	}
}

func TestLogWTrapeziumShells(t *testing.T) {
	logw, err := LogW(flatRun(3, 1))
	require.NoError(t, err)
	x1, x2, x3 := math.Exp(-1), math.Exp(-2), math.Exp(-3)
	want := []float64{math.Log(1 - (x1+x2)/2), math.Log((x1 - x3) / 2), math.Log((x2 + x3) / 2)}
	assert.InDeltaSlice(t, want, logw, 1e-12)
}

func TestLogWAddsLikelihood(t *testing.T) {
	run := flatRun(4, 5)
	base, err := LogW(run)
	require.NoError(t, err)

	run.Logl = []float64{1, 2, 3, 4}
	logw, err := LogW(run)
	require.NoError(t, err)
	for i := range logw {
		assert.InDelta(t, base[i]+run.Logl[i], logw[i], 1e-12)
	}
}

func TestRunValidate(t *testing.T) {
	testCases := []struct {
		name string
		run  *Run
	}{
		{"too_few", &Run{Logl: []float64{0}, Theta: [][]float64{{0}}, NLive: []float64{1}}},
		{"theta_length", &Run{Logl: []float64{0, 1}, Theta: [][]float64{{0}}, NLive: []float64{1, 1}}},
		{"nlive_length", &Run{Logl: []float64{0, 1}, Theta: [][]float64{{0}, {1}}, NLive: []float64{1}}},
		{"ragged_theta", &Run{Logl: []float64{0, 1}, Theta: [][]float64{{0}, {1, 2}}, NLive: []float64{1, 1}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.run.Validate(), ErrInvalidRun)
			_, err := LogW(tc.run)
			assert.ErrorIs(t, err, ErrInvalidRun)
		})
	}
	assert.NoError(t, flatRun(2, 1).Validate())
}

func TestRelativeWeights(t *testing.T) {
	w := RelativeWeights([]float64{-1, 0, math.Log(0.5)})
	assert.InDeltaSlice(t, []float64{math.Exp(-1), 1, 0.5}, w, 1e-12)
	assert.Empty(t, RelativeWeights(nil))
}
