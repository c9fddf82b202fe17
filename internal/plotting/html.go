package plotting

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/nestdiag/internal/settings"
)

// WriteGridHTML renders an interactive scatter of the grid, nrepeats
// against nlive on log axes, one series per sweep. Each point's tooltip
// carries its ndim/nlive/nrepeats triple.
func WriteGridHTML(w io.Writer, grid settings.Grid) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Run configurations", Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Run configurations", Subtitle: fmt.Sprintf("count=%d baseline=%s", len(grid), settings.Baseline)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "log", Name: "nlive", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "log", Name: "nrepeats", NameLocation: "middle", NameGap: 35}),
	)

	groups := groupBySweep(grid)
	for _, name := range sweepOrder {
		configs, ok := groups[name]
		if !ok {
			continue
		}
		data := make([]opts.ScatterData, len(configs))
		for i, c := range configs {
			data[i] = opts.ScatterData{Name: c.String(), Value: []interface{}{c.NLive, c.NRepeats}}
		}
		scatter.AddSeries(name, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render grid chart: %w", err)
	}
	return nil
}
