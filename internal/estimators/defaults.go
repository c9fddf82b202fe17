package estimators

import "fmt"

// DefaultList returns the estimators computed for every results table.
// Extra estimators are cheap, so the list is long and tables select the
// columns they need. Order is significant: cached tables are matched
// against it.
func DefaultList() []Estimator {
	return []Estimator{
		LogZ(),
		Evidence(),
		ParamMean(0, false),
		ParamMean(1, false),
		ParamMean(2, true),
		ParamMean(3, true),
		ParamMean(9, true),
		ParamSquaredMean(0),
		ParamCred(0.5, 0),
		ParamCred(0.84, 0),
		RMean(),
		RCred(0.84),
	}
}

// Names returns the column header of each estimator.
func Names(list []Estimator) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Name
	}
	return out
}

// Keys returns the identifying key of each estimator.
func Keys(list []Estimator) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Key
	}
	return out
}

// Evaluate computes the run's weights once and returns each estimator's
// value in list order.
func Evaluate(run *Run, list []Estimator) ([]float64, error) {
	logw, err := LogW(run)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(list))
	for i, e := range list {
		v, err := e.Func(run, logw)
		if err != nil {
			return nil, fmt.Errorf("estimator %s: %w", e.Key, err)
		}
		out[i] = v
	}
	return out, nil
}
