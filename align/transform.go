// Package align estimates and applies the 2D transforms that register a
// projected SLAM reconstruction onto a floorplan: a correspondence store for
// user-picked point pairs, a least-squares similarity fit, and a
// thin-plate-spline warp for residual non-rigid error.
package align

import (
	"math"

	"github.com/golang/geo/r2"
)

// A Transform maps points of the projected plane into the floorplan frame.
// Implementations are pure: applying one never mutates it, so a fitted
// transform can be reused on any number of points.
type Transform interface {
	Apply(pt r2.Point) r2.Point
}

// ApplyAll maps every point through t into a fresh slice, preserving order.
func ApplyAll(t Transform, pts []r2.Point) []r2.Point {
	out := make([]r2.Point, len(pts))
	for i, p := range pts {
		out[i] = t.Apply(p)
	}
	return out
}

// ResidualRMS is the root-mean-square distance between t(src[i]) and dst[i].
// The slices must have equal length.
func ResidualRMS(t Transform, src, dst []r2.Point) float64 {
	if len(src) == 0 {
		return 0
	}
	var sum float64
	for i, p := range src {
		d := t.Apply(p).Sub(dst[i])
		sum += d.X*d.X + d.Y*d.Y
	}
	return math.Sqrt(sum / float64(len(src)))
}
