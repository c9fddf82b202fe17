// Package plotting renders figures for the paper using the default settings:
// axis limits per likelihood and the run configuration grid.
package plotting

import (
	"errors"
	"fmt"
	"log"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"

	"github.com/banshee-data/nestdiag/internal/settings"
)

// ErrNoLimits indicates an axis label has no entry in the limits mapping.
var ErrNoLimits = errors.New("plotting: no limits for label")

// ApplyLimits labels the x and y axes and sets their ranges from lims. An
// empty label leaves that axis untouched. Axes whose label is missing from
// lims keep their automatic range and are reported in the returned error.
func ApplyLimits(p *plot.Plot, lims settings.Limits, xLabel, yLabel string) error {
	var missing []string
	apply := func(ax *plot.Axis, label string) {
		if label == "" {
			return
		}
		ax.Label.Text = label
		b, ok := lims[label]
		if !ok {
			missing = append(missing, label)
			return
		}
		ax.Min, ax.Max = b.Low(), b.High()
	}
	apply(&p.X, xLabel)
	apply(&p.Y, yLabel)

	if len(missing) > 0 {
		return fmt.Errorf("%w: %q", ErrNoLimits, missing)
	}
	return nil
}

// LimitsPlot returns an empty figure titled with the likelihood whose axes
// carry the default limits for xLabel and yLabel. Both labels must be in
// lims.
func LimitsPlot(likeName string, lims settings.Limits, xLabel, yLabel string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = likeName
	if err := ApplyLimits(p, lims, xLabel, yLabel); err != nil {
		return nil, err
	}
	p.Add(plotter.NewGrid())
	return p, nil
}

// SaveLimitsPlot writes LimitsPlot to path; the extension selects the
// format. Width and height are in centimetres.
func SaveLimitsPlot(likeName string, lims settings.Limits, xLabel, yLabel, path string, widthCm, heightCm float64) error {
	p, err := LimitsPlot(likeName, lims, xLabel, yLabel)
	if err != nil {
		return err
	}
	if err := savePlot(p, path, widthCm, heightCm); err != nil {
		return err
	}
	log.Printf("[plotting] wrote %s (%s against %s)", path, yLabel, xLabel)
	return nil
}
