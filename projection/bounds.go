package projection

import (
	"math"

	"github.com/golang/geo/r2"
)

// Bounds is the axis-aligned extent of a 2D point set.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// NewBounds creates an empty Bounds that any merged point will tighten.
func NewBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}
}

// Merge grows the bounds to include p.
func (b *Bounds) Merge(p r2.Point) {
	if p.X < b.MinX {
		b.MinX = p.X
	}
	if p.X > b.MaxX {
		b.MaxX = p.X
	}
	if p.Y < b.MinY {
		b.MinY = p.Y
	}
	if p.Y > b.MaxY {
		b.MaxY = p.Y
	}
}

// Union grows the bounds to include all of o.
func (b *Bounds) Union(o Bounds) {
	if o.IsEmpty() {
		return
	}
	b.Merge(r2.Point{X: o.MinX, Y: o.MinY})
	b.Merge(r2.Point{X: o.MaxX, Y: o.MaxY})
}

// Expand pads the bounds by m on every side.
func (b *Bounds) Expand(m float64) {
	if b.IsEmpty() {
		return
	}
	b.MinX -= m
	b.MinY -= m
	b.MaxX += m
	b.MaxY += m
}

// IsEmpty reports whether no point has been merged yet.
func (b Bounds) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Width is the X extent, zero for empty bounds.
func (b Bounds) Width() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.MaxX - b.MinX
}

// Height is the Y extent, zero for empty bounds.
func (b Bounds) Height() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.MaxY - b.MinY
}

// BoundsOf computes the extent of one or more point sets.
func BoundsOf(sets ...[]r2.Point) Bounds {
	b := NewBounds()
	for _, set := range sets {
		for _, p := range set {
			b.Merge(p)
		}
	}
	return b
}
