// Package viz renders debugging charts for perception and solution
// search as standalone HTML using go-echarts. Nothing here serves
// HTTP; callers write the output wherever they want.
package viz

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/scene.solver/internal/selector"
)

// ActivityBar is one labeled activity value.
type ActivityBar struct {
	Label    string
	Activity float64
}

// WriteActivityChart renders a bar chart of feature activities for one
// object or group.
func WriteActivityChart(w io.Writer, title string, bars []ActivityBar) error {
	x := make([]string, len(bars))
	y := make([]opts.BarData, len(bars))
	for i, b := range bars {
		x[i] = b.Label
		y[i] = opts.BarData{Value: b.Activity}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%d features", len(bars))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries("activity", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.AddCharts(bar)
	return page.Render(w)
}

// WriteMatchChart renders candidate solutions as a scatter of left
// versus right matches; solutions sit on the axes.
func WriteMatchChart(w io.Writer, title string, sols []*selector.Solution) error {
	pts := make([]opts.ScatterData, 0, len(sols))
	for _, s := range sols {
		pts = append(pts, opts.ScatterData{
			Name:  s.String(),
			Value: []interface{}{s.LMatches, s.RMatches},
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "700px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%d candidates", len(sols))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "left matches"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "right matches"}),
	)
	scatter.AddSeries("candidates", pts,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}),
	)

	page := components.NewPage()
	page.AddCharts(scatter)
	return page.Render(w)
}
