// Package floorplan loads the reference raster a reconstruction is registered
// against.
package floorplan

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// A Floorplan is the reference raster for one floor. Pixel row 0 is the top
// of the plan, so a projected point with the vertical flip applied maps to
// pixel (x, y) directly.
type Floorplan struct {
	img image.Image
}

// Load decodes the raster at fn. The floorplan is a required input; a missing
// or undecodable file is an error.
func Load(fn string) (*Floorplan, error) {
	img, err := imaging.Open(fn)
	if err != nil {
		return nil, errors.Wrapf(err, "loading floorplan %q", fn)
	}
	return &Floorplan{img: img}, nil
}

// New wraps an already decoded raster.
func New(img image.Image) *Floorplan {
	return &Floorplan{img: img}
}

// Image returns the raster as decoded.
func (f *Floorplan) Image() image.Image {
	return f.img
}

// Gray returns a grayscale copy, the way the plan is usually displayed under
// an overlay.
func (f *Floorplan) Gray() *image.NRGBA {
	return imaging.Grayscale(f.img)
}

// Bounds returns the pixel bounds of the raster.
func (f *Floorplan) Bounds() image.Rectangle {
	return f.img.Bounds()
}
