package settings

import "fmt"

// GridOptions selects the values each sweep covers. A nil list takes its
// default; an empty non-nil list contributes no configurations.
type GridOptions struct {
	NDims    []int
	NLives   []int
	NRepeats []int
}

// DefaultGridOptions returns a copy of the default sweep lists.
func DefaultGridOptions() GridOptions {
	return GridOptions{
		NDims:    append([]int(nil), DefaultNDims...),
		NLives:   append([]int(nil), DefaultNLives...),
		NRepeats: append([]int(nil), DefaultNRepeats...),
	}
}

// withDefaults fills nil lists from the package defaults.
func (o GridOptions) withDefaults() GridOptions {
	if o.NDims == nil {
		o.NDims = DefaultNDims
	}
	if o.NLives == nil {
		o.NLives = DefaultNLives
	}
	if o.NRepeats == nil {
		o.NRepeats = DefaultNRepeats
	}
	return o
}

// Validate checks that every list entry is positive.
func (o GridOptions) Validate() error {
	lists := []struct {
		name   string
		values []int
	}{
		{"ndim", o.NDims},
		{"nlive", o.NLives},
		{"nrepeats", o.NRepeats},
	}
	for _, l := range lists {
		for i, v := range l.values {
			if v <= 0 {
				return fmt.Errorf("%w: %s list entry %d must be positive, got %d", ErrInvalidOption, l.name, i, v)
			}
		}
	}
	return nil
}

// BuildGrid returns the run configurations used in the paper: a dimension
// sweep at PolyChord default settings, then an nlive sweep and an nrepeats
// sweep about Baseline. Repeated configurations are kept only at their first
// position; list order is otherwise preserved.
func BuildGrid(opts GridOptions) Grid {
	opts = opts.withDefaults()

	grid := PolyChordDefaults(opts.NDims)
	for _, nl := range opts.NLives {
		grid = append(grid, Config{NDim: Baseline.NDim, NLive: nl, NRepeats: Baseline.NRepeats})
	}
	for _, nr := range opts.NRepeats {
		grid = append(grid, Config{NDim: Baseline.NDim, NLive: Baseline.NLive, NRepeats: nr})
	}
	return grid.Unique()
}

// Unique returns the grid with duplicates removed, keeping the first
// occurrence of each configuration.
func (g Grid) Unique() Grid {
	seen := make(map[Config]struct{}, len(g))
	out := make(Grid, 0, len(g))
	for _, c := range g {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// String formats the configuration as "ndim/nlive/nrepeats".
func (c Config) String() string {
	return fmt.Sprintf("%d/%d/%d", c.NDim, c.NLive, c.NRepeats)
}
