// Package projection flattens a 3D reconstruction onto the 2D plane that best
// explains it, so the trajectory and map points can be compared against a
// floorplan raster. The plane is the span of the top two principal axes of the
// combined point set; fitting once on the union keeps the trajectory and the
// cloud in one shared frame.
package projection

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrInsufficientData is returned when a point set is too small or too
// degenerate (rank < 2 after centering, e.g. all points collinear) to define a
// projection plane.
var ErrInsufficientData = errors.New("not enough non-degenerate points to fit a projection plane")

// rankTol is the relative singular value threshold below which the second
// principal axis is considered absent.
const rankTol = 1e-9

// Config selects projection policies.
type Config struct {
	// FlipVertical negates the second output axis so that the projection reads
	// in image coordinates, where row 0 is the top of the raster. Off by
	// default; overlay workflows generally want it on.
	FlipVertical bool
}

// A PlanarBasis is a fitted projection from reconstruction space onto the
// dominant plane of a point set. It is immutable once fitted; projecting
// different subsets through the same basis keeps them in a consistent frame.
type PlanarBasis struct {
	mean r3.Vector
	u, v r3.Vector
	flip bool
}

// FitPlanarBasis fits the dominant plane of the given points: mean-center, then
// take the top two right singular vectors of the centered set. Axis signs are
// canonicalized (largest-magnitude component positive) so a fit is
// deterministic for a given input.
func FitPlanarBasis(points []r3.Vector, cfg Config) (*PlanarBasis, error) {
	n := len(points)
	if n < 2 {
		return nil, errors.Wrapf(ErrInsufficientData, "have %d point(s)", n)
	}

	var mean r3.Vector
	for _, p := range points {
		mean = mean.Add(p)
	}
	mean = mean.Mul(1 / float64(n))

	centered := mat.NewDense(n, 3, nil)
	for i, p := range points {
		d := p.Sub(mean)
		centered.SetRow(i, []float64{d.X, d.Y, d.Z})
	}

	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDThin); !ok {
		return nil, errors.New("failed to factorize centered point matrix")
	}
	vals := svd.Values(nil)
	if len(vals) < 2 || vals[0] == 0 || vals[1] <= vals[0]*rankTol {
		return nil, errors.Wrap(ErrInsufficientData, "points span less than two dimensions")
	}

	var rightVecs mat.Dense
	svd.VTo(&rightVecs)
	return &PlanarBasis{
		mean: mean,
		u:    canonicalAxis(&rightVecs, 0),
		v:    canonicalAxis(&rightVecs, 1),
		flip: cfg.FlipVertical,
	}, nil
}

// canonicalAxis extracts column j of vecs with its largest-magnitude component
// made positive, resolving the inherent sign ambiguity of singular vectors.
func canonicalAxis(vecs *mat.Dense, j int) r3.Vector {
	axis := r3.Vector{X: vecs.At(0, j), Y: vecs.At(1, j), Z: vecs.At(2, j)}
	largest := axis.X
	for _, c := range []float64{axis.Y, axis.Z} {
		if abs(c) > abs(largest) {
			largest = c
		}
	}
	if largest < 0 {
		return axis.Mul(-1)
	}
	return axis
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// ProjectPoint maps a single reconstruction-space point onto the plane.
func (b *PlanarBasis) ProjectPoint(p r3.Vector) r2.Point {
	d := p.Sub(b.mean)
	pt := r2.Point{X: d.Dot(b.u), Y: d.Dot(b.v)}
	if b.flip {
		pt.Y = -pt.Y
	}
	return pt
}

// Project maps a point set onto the plane, preserving order.
func (b *PlanarBasis) Project(pts []r3.Vector) []r2.Point {
	out := make([]r2.Point, len(pts))
	for i, p := range pts {
		out[i] = b.ProjectPoint(p)
	}
	return out
}

// ProjectedGeometry is the 2D face of one reconstruction: the keyframe
// trajectory (order preserved for polyline display) and the map point cloud,
// both in the same fitted plane. After projection the 3D source is not
// consulted again; all registration work happens on these coordinates.
type ProjectedGeometry struct {
	Trajectory []r2.Point
	Cloud      []r2.Point
}

// Project fits a planar basis on the union of trajectory and cloud (in that
// order) and projects each subset through it. The shared fit is what keeps the
// two sets mutually consistent on screen.
func Project(trajectory, cloud []r3.Vector, cfg Config) (*ProjectedGeometry, error) {
	all := make([]r3.Vector, 0, len(trajectory)+len(cloud))
	all = append(all, trajectory...)
	all = append(all, cloud...)
	basis, err := FitPlanarBasis(all, cfg)
	if err != nil {
		return nil, err
	}
	return &ProjectedGeometry{
		Trajectory: basis.Project(trajectory),
		Cloud:      basis.Project(cloud),
	}, nil
}
