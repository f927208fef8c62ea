package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/dbscan/internal/dbscan"
)

// WriteScatterHTML renders the partition of res as an interactive HTML
// scatter chart, one series per slot. Points are projected onto their first
// two features; 1-D data is drawn on y=0.
func WriteScatterHTML(w io.Writer, res *dbscan.Result, title string) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%s clusters=%d noise=%d", res.Params(), res.NumClusters, res.NumNoise),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "feature 0", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "feature 1", NameLocation: "middle", NameGap: 30}),
	)

	for slot, members := range res.Partition {
		data := make([]opts.ScatterData, 0, len(members))
		for _, idx := range members {
			x, y := project(res.Point(idx))
			data = append(data, opts.ScatterData{Value: []interface{}{x, y, idx}})
		}
		style := opts.ScatterChart{SymbolSize: 8}
		if slot == dbscan.NoiseSlot {
			style = opts.ScatterChart{SymbolSize: 4}
		}
		scatter.AddSeries(seriesName(slot), data, charts.WithScatterChartOpts(style))
	}

	return scatter.Render(w)
}

// project maps a feature vector to chart coordinates.
func project(v []float64) (x, y float64) {
	if len(v) > 1 {
		return v[0], v[1]
	}
	return v[0], 0
}
