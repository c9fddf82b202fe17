// Package settings holds the default parameters used to produce the paper's
// plots and tables: axis limits per likelihood, the (ndim, nlive, nrepeats)
// sweep grid and the logx range of diagrams.
package settings

// Config is one run configuration: dimension, number of live points and
// number of slice-sampling repeats.
type Config struct {
	NDim     int `json:"ndim"`
	NLive    int `json:"nlive"`
	NRepeats int `json:"nrepeats"`
}

// Grid is an ordered list of run configurations.
type Grid []Config

// Baseline is the configuration each sweep holds fixed while varying a
// single parameter.
var Baseline = Config{NDim: 10, NLive: 250, NRepeats: 50}

// PolyChord default scaling: nlive = 25 * ndim, nrepeats = 5 * ndim.
const (
	PolyChordNLivePerDim    = 25
	PolyChordNRepeatsPerDim = 5
)

// DefaultLimitsNDim is the dimension used for limits when none is given.
const DefaultLimitsNDim = 20

// Default sweep lists. Callers must not modify them; GridOptions copies.
var (
	DefaultNDims    = []int{2, 4, 10, 20, 30, 40, 50}
	DefaultNLives   = []int{4, 10, 20, 40, 100, 200, 400, 1000}
	DefaultNRepeats = []int{4, 10, 20, 40, 100, 200, 400, 1000}
)

// BaselineMap returns Baseline keyed by parameter name.
func BaselineMap() map[string]int {
	return map[string]int{
		"ndim":     Baseline.NDim,
		"nlive":    Baseline.NLive,
		"nrepeats": Baseline.NRepeats,
	}
}

// PolyChordDefaults returns (ndim, 25*ndim, 5*ndim) for each dimension,
// in input order.
func PolyChordDefaults(ndims []int) Grid {
	out := make(Grid, 0, len(ndims))
	for _, nd := range ndims {
		out = append(out, Config{
			NDim:     nd,
			NLive:    nd * PolyChordNLivePerDim,
			NRepeats: nd * PolyChordNRepeatsPerDim,
		})
	}
	return out
}

// DefaultLogXMin returns the lower logx bound for diagrams. The likelihood
// does not currently affect it.
func DefaultLogXMin(likeName string, ndim int) float64 {
	return -4 * float64(ndim)
}
