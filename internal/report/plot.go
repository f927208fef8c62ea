package report

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/dbscan/internal/dbscan"
)

// Plot size for static scatter images.
const plotSize = 6 * vg.Inch

// SaveScatterPlot writes a static scatter image of res to path. The format
// follows the file extension (png, svg, pdf, ...).
func SaveScatterPlot(res *dbscan.Result, title, path string) error {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if format == "" {
		return fmt.Errorf("plot path %s has no extension", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plot %s: %w", path, err)
	}
	if err := WriteScatterPlot(f, res, title, format); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return f.Close()
}

// WriteScatterPlot writes a static scatter image of res to w in the given
// format ("png", "svg", ...).
func WriteScatterPlot(w io.Writer, res *dbscan.Result, title, format string) error {
	p, err := scatterPlot(res, title)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(plotSize, plotSize, format)
	if err != nil {
		return fmt.Errorf("failed to create %s writer: %w", format, err)
	}
	_, err = wt.WriteTo(w)
	return err
}

func scatterPlot(res *dbscan.Result, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "feature 0"
	p.Y.Label.Text = "feature 1"
	p.Add(plotter.NewGrid())

	for slot, members := range res.Partition {
		if len(members) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(members))
		for i, idx := range members {
			pts[i].X, pts[i].Y = project(res.Point(idx))
		}

		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s scatter: %w", seriesName(slot), err)
		}
		if slot == dbscan.NoiseSlot {
			s.GlyphStyle.Color = color.Gray{Y: 128}
			s.GlyphStyle.Shape = draw.CrossGlyph{}
		} else {
			s.GlyphStyle.Color = plotutil.Color(slot - 1)
			s.GlyphStyle.Shape = plotutil.Shape(slot - 1)
		}
		s.GlyphStyle.Radius = vg.Points(3)

		p.Add(s)
		p.Legend.Add(seriesName(slot), s)
	}
	return p, nil
}
