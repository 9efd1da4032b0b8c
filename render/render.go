// Package render draws projected reconstructions, on their own or over a
// floorplan raster.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/geo/r2"

	"github.com/viam-labs/mapalign/floorplan"
	"github.com/viam-labs/mapalign/projection"
)

const defaultPlotSize = 800

// Style sets the plotting palette and marker sizes.
type Style struct {
	Trajectory  color.RGBA
	Cloud       color.RGBA
	Background  color.RGBA
	PointRadius float64
	LineWidth   float64
	// Margin pads Plot views, in pixels.
	Margin float64
	// PlotSize caps the longest side of a Plot view, in pixels.
	PlotSize int
}

// DefaultStyle is a red trajectory over translucent blue map points.
func DefaultStyle() Style {
	return Style{
		Trajectory:  color.RGBA{R: 255, A: 255},
		Cloud:       color.RGBA{B: 255, A: 128},
		Background:  color.RGBA{R: 255, G: 255, B: 255, A: 255},
		PointRadius: 2,
		LineWidth:   1.5,
		Margin:      20,
		PlotSize:    defaultPlotSize,
	}
}

// Overlay draws the cloud and trajectory over a grayscale copy of the
// floorplan. Points are taken as pixel coordinates with row 0 at the top, so
// geometry should have been projected with the vertical flip and registered
// onto the plan. The output has the plan's dimensions.
func Overlay(plan *floorplan.Floorplan, traj, cloud []r2.Point, style Style) image.Image {
	bounds := plan.Bounds()
	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	dc.DrawImage(plan.Gray(), 0, 0)
	drawGeometry(dc, traj, cloud, style, func(p r2.Point) (float64, float64) {
		return p.X, p.Y
	})
	return dc.Image()
}

// Plot draws the geometry alone on a plain background, scaled to fit a canvas
// whose longest side is style.PlotSize and framed by the geometry bounds plus
// style.Margin. The mapping keeps image convention: +X right, +Y down;
// project with the vertical flip if a top-left-origin view is wanted.
func Plot(traj, cloud []r2.Point, style Style) image.Image {
	b := projection.BoundsOf(traj, cloud)

	size := style.PlotSize
	if size <= 0 {
		size = defaultPlotSize
	}
	scale := 1.0
	if m := math.Max(b.Width(), b.Height()); m > 0 {
		scale = (float64(size) - 2*style.Margin) / m
	}
	width := int(math.Ceil(b.Width()*scale + 2*style.Margin))
	height := int(math.Ceil(b.Height()*scale + 2*style.Margin))
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(style.Background)
	dc.Clear()
	drawGeometry(dc, traj, cloud, style, func(p r2.Point) (float64, float64) {
		return (p.X-b.MinX)*scale + style.Margin, (p.Y-b.MinY)*scale + style.Margin
	})
	return dc.Image()
}

// drawGeometry paints the cloud first so the trajectory stays visible on top:
// cloud as dots, trajectory as a polyline with dot markers.
func drawGeometry(dc *gg.Context, traj, cloud []r2.Point, style Style, at func(r2.Point) (float64, float64)) {
	dc.SetColor(style.Cloud)
	for _, p := range cloud {
		x, y := at(p)
		dc.DrawCircle(x, y, style.PointRadius)
		dc.Fill()
	}

	dc.SetColor(style.Trajectory)
	dc.SetLineWidth(style.LineWidth)
	for i := 1; i < len(traj); i++ {
		x0, y0 := at(traj[i-1])
		x1, y1 := at(traj[i])
		dc.DrawLine(x0, y0, x1, y1)
		dc.Stroke()
	}
	for _, p := range traj {
		x, y := at(p)
		dc.DrawCircle(x, y, style.PointRadius)
		dc.Fill()
	}
}

// WritePNG writes img to fn.
func WritePNG(fn string, img image.Image) error {
	return gg.SavePNG(fn, img)
}
