package plotting

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/nestdiag/internal/settings"
)

// Sweep names, in legend order.
const (
	SweepNDim     = "ndim (PolyChord defaults)"
	SweepNLive    = "nlive"
	SweepNRepeats = "nrepeats"
	SweepOther    = "other"
)

var sweepOrder = []string{SweepNDim, SweepNLive, SweepNRepeats, SweepOther}

// Classify names the sweep a configuration belongs to. The baseline itself
// is at PolyChord defaults and classifies as part of the ndim sweep.
func Classify(c settings.Config) string {
	b := settings.Baseline
	switch {
	case c.NLive == c.NDim*settings.PolyChordNLivePerDim && c.NRepeats == c.NDim*settings.PolyChordNRepeatsPerDim:
		return SweepNDim
	case c.NDim == b.NDim && c.NRepeats == b.NRepeats:
		return SweepNLive
	case c.NDim == b.NDim && c.NLive == b.NLive:
		return SweepNRepeats
	default:
		return SweepOther
	}
}

// groupBySweep splits the grid by Classify, keeping grid order within each
// group.
func groupBySweep(grid settings.Grid) map[string]settings.Grid {
	groups := make(map[string]settings.Grid)
	for _, c := range grid {
		name := Classify(c)
		groups[name] = append(groups[name], c)
	}
	return groups
}

// GridPlot returns a log-log scatter of nrepeats against nlive, one series
// per sweep.
func GridPlot(grid settings.Grid) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Run configurations (%d)", len(grid))
	p.X.Label.Text = "nlive"
	p.Y.Label.Text = "nrepeats"
	if len(grid) == 0 {
		return p, nil
	}
	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	groups := groupBySweep(grid)
	for i, name := range sweepOrder {
		configs, ok := groups[name]
		if !ok {
			continue
		}
		pts := make(plotter.XYs, len(configs))
		for j, c := range configs {
			pts[j] = plotter.XY{X: float64(c.NLive), Y: float64(c.NRepeats)}
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s series: %w", name, err)
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(3)
		p.Add(s)
		p.Legend.Add(name, s)
	}
	p.Legend.Top = true
	return p, nil
}

// SaveGridPlot writes the grid plot to path; the extension selects the
// format (.png, .svg, .pdf, ...). Width and height are in centimetres.
func SaveGridPlot(grid settings.Grid, path string, widthCm, heightCm float64) error {
	p, err := GridPlot(grid)
	if err != nil {
		return err
	}
	if err := savePlot(p, path, widthCm, heightCm); err != nil {
		return err
	}
	log.Printf("[plotting] wrote %s (%d configurations)", path, len(grid))
	return nil
}

func savePlot(p *plot.Plot, path string, widthCm, heightCm float64) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	if err := p.Save(vg.Length(widthCm)*vg.Centimeter, vg.Length(heightCm)*vg.Centimeter, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// IsHTML reports whether path names an HTML output file.
func IsHTML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".html" || ext == ".htm"
}
