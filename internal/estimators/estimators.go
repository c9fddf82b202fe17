package estimators

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/nestdiag/internal/labels"
)

// Func computes one statistic from a run and its log weights.
type Func func(run *Run, logw []float64) (float64, error)

// Estimator is a named statistic. Name is the LaTeX column header used in
// results tables; Key identifies the estimator and its bound parameters.
type Estimator struct {
	Key  string
	Name string
	Func Func
}

// LogZ returns the log evidence.
func LogZ() Estimator {
	return Estimator{
		Key:  "logz",
		Name: `$\mathrm{log} \mathcal{Z}$`,
		Func: func(_ *Run, logw []float64) (float64, error) {
			return floats.LogSumExp(logw), nil
		},
	}
}

// Evidence returns the evidence Z.
func Evidence() Estimator {
	return Estimator{
		Key:  "evidence",
		Name: `$\mathcal{Z}$`,
		Func: func(_ *Run, logw []float64) (float64, error) {
			return math.Exp(floats.LogSumExp(logw)), nil
		},
	}
}

// ParamMean returns the posterior mean of parameter ind. With
// handleIndexError an out of range ind gives NaN instead of an error, so
// one estimator list can serve runs of any dimension.
func ParamMean(ind int, handleIndexError bool) Estimator {
	key := "param_mean"
	if ind != 0 || handleIndexError {
		key = fmt.Sprintf("param_mean(param_ind=%d,handle_indexerror=%t)", ind, handleIndexError)
	}
	return Estimator{
		Key:  key,
		Name: `$\overline{` + symbol(labels.Param(ind)) + `}$`,
		Func: func(run *Run, logw []float64) (float64, error) {
			col, err := column(run, ind)
			if err != nil {
				if handleIndexError {
					return math.NaN(), nil
				}
				return 0, err
			}
			return stat.Mean(col, RelativeWeights(logw)), nil
		},
	}
}

// ParamSquaredMean returns the posterior mean of the square of parameter ind.
func ParamSquaredMean(ind int) Estimator {
	key := "param_squared_mean"
	if ind != 0 {
		key = fmt.Sprintf("param_squared_mean(param_ind=%d)", ind)
	}
	return Estimator{
		Key:  key,
		Name: `$\overline{\theta^2_{\hat{` + strconv.Itoa(ind+1) + `}}}$`,
		Func: func(run *Run, logw []float64) (float64, error) {
			col, err := column(run, ind)
			if err != nil {
				return 0, err
			}
			floats.Mul(col, col)
			return stat.Mean(col, RelativeWeights(logw)), nil
		},
	}
}

// ParamCred returns the one-tailed credible interval of parameter ind: the
// value below which the given posterior probability lies.
func ParamCred(probability float64, ind int) Estimator {
	key := fmt.Sprintf("param_cred(probability=%s)", formatProb(probability))
	if ind != 0 {
		key = fmt.Sprintf("param_cred(probability=%s,param_ind=%d)", formatProb(probability), ind)
	}
	return Estimator{
		Key:  key,
		Name: credName(probability, symbol(labels.Param(ind))),
		Func: func(run *Run, logw []float64) (float64, error) {
			col, err := column(run, ind)
			if err != nil {
				return 0, err
			}
			return WeightedQuantile(probability, col, RelativeWeights(logw))
		},
	}
}

// RMean returns the posterior mean of the radial coordinate |theta|.
func RMean() Estimator {
	return Estimator{
		Key:  "r_mean",
		Name: `$\overline{` + symbol(labels.Norm) + `}$`,
		Func: func(run *Run, logw []float64) (float64, error) {
			return stat.Mean(radii(run), RelativeWeights(logw)), nil
		},
	}
}

// RCred returns the one-tailed credible interval of |theta|.
func RCred(probability float64) Estimator {
	return Estimator{
		Key:  fmt.Sprintf("r_cred(probability=%s)", formatProb(probability)),
		Name: credName(probability, symbol(labels.Norm)),
		Func: func(run *Run, logw []float64) (float64, error) {
			return WeightedQuantile(probability, radii(run), RelativeWeights(logw))
		},
	}
}

// WeightedQuantile returns the weighted quantile of values. Each sample's
// cumulative probability is taken at the centre of its weight and the
// result is linearly interpolated, clamped to the extreme values.
func WeightedQuantile(probability float64, values, weights []float64) (float64, error) {
	if !(probability > 0 && probability < 1) {
		return 0, fmt.Errorf("%w: got %v", ErrProbability, probability)
	}
	if len(values) == 0 || len(values) != len(weights) {
		return 0, fmt.Errorf("%w: %d values, %d weights", ErrInvalidRun, len(values), len(weights))
	}

	sorted := append([]float64(nil), values...)
	inds := make([]int, len(sorted))
	floats.Argsort(sorted, inds)

	w := make([]float64, len(inds))
	for i, ind := range inds {
		w[i] = weights[ind]
	}
	total := floats.Sum(w)
	if !(total > 0) {
		return 0, fmt.Errorf("%w: weights sum to %v", ErrInvalidRun, total)
	}
	q := floats.CumSum(make([]float64, len(w)), w)
	for i := range q {
		q[i] = (q[i] - 0.5*w[i]) / total
	}

	return interp(probability, q, sorted), nil
}

// interp linearly interpolates y at x over increasing xs, clamping outside
// the sampled range.
func interp(x float64, xs, ys []float64) float64 {
	n := len(xs)
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[n-1] {
		return ys[n-1]
	}
	j := sort.SearchFloat64s(xs, x) // xs[j-1] < x <= xs[j]
	x0, x1 := xs[j-1], xs[j]
	if x1 == x0 {
		return ys[j]
	}
	return ys[j-1] + (ys[j]-ys[j-1])*(x-x0)/(x1-x0)
}

func column(run *Run, ind int) ([]float64, error) {
	if ind < 0 || ind >= run.NDim() {
		return nil, fmt.Errorf("%w: index %d for %d parameters", ErrParamIndex, ind, run.NDim())
	}
	col := make([]float64, len(run.Theta))
	for i, row := range run.Theta {
		col[i] = row[ind]
	}
	return col, nil
}

func radii(run *Run) []float64 {
	r := make([]float64, len(run.Theta))
	for i, row := range run.Theta {
		r[i] = floats.Norm(row, 2)
	}
	return r
}

func credName(probability float64, of string) string {
	if probability == 0.5 {
		return `$\mathrm{median}(` + of + `)$`
	}
	return `$\mathrm{C.I.}_{` + formatProb(probability*100) + `\%}(` + of + `)$`
}

// formatProb prints p without float noise, e.g. 0.84*100 as "84".
func formatProb(p float64) string {
	return strconv.FormatFloat(math.Round(p*1e6)/1e6, 'f', -1, 64)
}

// symbol strips the math delimiters from a plot label.
func symbol(label string) string {
	return strings.Trim(label, "$")
}
