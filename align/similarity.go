package align

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrUnderdetermined is returned when too few correspondences are available
// for the requested estimator.
var ErrUnderdetermined = errors.New("not enough correspondences to determine a transform")

// A Similarity is a 2D similarity transform: p -> s*R(theta)*p + t. Theta is
// in radians, counterclockwise. The zero value is degenerate; start from
// Identity or a constructor.
type Similarity struct {
	Scale       float64
	Theta       float64
	Translation r2.Point
}

// Identity returns the do-nothing similarity.
func Identity() *Similarity {
	return &Similarity{Scale: 1}
}

// NewTranslation returns the similarity shifting every point by delta.
func NewTranslation(delta r2.Point) *Similarity {
	return &Similarity{Scale: 1, Translation: delta}
}

// NewRotationAbout returns the similarity rotating by theta radians about
// pivot.
func NewRotationAbout(theta float64, pivot r2.Point) *Similarity {
	sin, cos := math.Sincos(theta)
	return &Similarity{
		Scale: 1,
		Theta: theta,
		Translation: r2.Point{
			X: pivot.X - (cos*pivot.X - sin*pivot.Y),
			Y: pivot.Y - (sin*pivot.X + cos*pivot.Y),
		},
	}
}

// NewScaleAbout returns the similarity scaling by factor about pivot, which
// stays fixed.
func NewScaleAbout(factor float64, pivot r2.Point) *Similarity {
	return &Similarity{
		Scale:       factor,
		Translation: pivot.Mul(1 - factor),
	}
}

// Apply maps p through the transform.
func (sim *Similarity) Apply(p r2.Point) r2.Point {
	sin, cos := math.Sincos(sim.Theta)
	return r2.Point{
		X: sim.Scale*(cos*p.X-sin*p.Y) + sim.Translation.X,
		Y: sim.Scale*(sin*p.X+cos*p.Y) + sim.Translation.Y,
	}
}

// Then returns the composition "sim first, then next". The closed form keeps a
// chain of rigid gestures as one exact stage instead of an ever-growing list.
func (sim *Similarity) Then(next *Similarity) *Similarity {
	return &Similarity{
		Scale:       next.Scale * sim.Scale,
		Theta:       sim.Theta + next.Theta,
		Translation: next.Apply(sim.Translation),
	}
}

// Inverse returns the similarity undoing sim.
func (sim *Similarity) Inverse() *Similarity {
	inv := 1 / sim.Scale
	sin, cos := math.Sincos(-sim.Theta)
	return &Similarity{
		Scale: inv,
		Theta: -sim.Theta,
		Translation: r2.Point{
			X: -inv * (cos*sim.Translation.X - sin*sim.Translation.Y),
			Y: -inv * (sin*sim.Translation.X + cos*sim.Translation.Y),
		},
	}
}

// Matrix returns the transform in 3x3 homogeneous form.
func (sim *Similarity) Matrix() *mat.Dense {
	sin, cos := math.Sincos(sim.Theta)
	return mat.NewDense(3, 3, []float64{
		sim.Scale * cos, -sim.Scale * sin, sim.Translation.X,
		sim.Scale * sin, sim.Scale * cos, sim.Translation.Y,
		0, 0, 1,
	})
}

// EstimateSimilarity solves for the least-squares similarity mapping src onto
// dst: centroids out, SVD of the 2x2 cross-covariance, a determinant sign
// correction to keep the rotation proper, scale from the corrected trace over
// the source variance. Requires at least three pairs with non-coincident
// sources.
func EstimateSimilarity(src, dst []r2.Point) (*Similarity, error) {
	if len(src) != len(dst) {
		return nil, errors.Errorf("source and target counts differ: %d vs %d", len(src), len(dst))
	}
	n := len(src)
	if n < MinRigidControls {
		return nil, errors.Wrapf(ErrUnderdetermined, "have %d pair(s), need %d", n, MinRigidControls)
	}

	srcMean := meanPoint(src)
	dstMean := meanPoint(dst)

	var sxx, sxy, syx, syy, srcVar float64
	for i := 0; i < n; i++ {
		a := src[i].Sub(srcMean)
		b := dst[i].Sub(dstMean)
		sxx += b.X * a.X
		sxy += b.X * a.Y
		syx += b.Y * a.X
		syy += b.Y * a.Y
		srcVar += a.X*a.X + a.Y*a.Y
	}
	invN := 1 / float64(n)
	srcVar *= invN
	if srcVar == 0 {
		return nil, errors.Wrap(ErrDegenerateControls, "source points are coincident")
	}
	cov := mat.NewDense(2, 2, []float64{sxx * invN, sxy * invN, syx * invN, syy * invN})

	var svd mat.SVD
	if ok := svd.Factorize(cov, mat.SVDFull); !ok {
		return nil, errors.New("failed to factorize cross-covariance")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	vals := svd.Values(nil)

	// Flip the sign of the smallest singular direction when det(U)*det(V) < 0
	// so the recovered rotation is proper rather than a reflection.
	d := []float64{1, 1}
	if mat.Det(&u)*mat.Det(&v) < 0 {
		d[1] = -1
	}
	var rot mat.Dense
	rot.Product(&u, mat.NewDiagDense(2, d), v.T())

	theta := math.Atan2(rot.At(1, 0), rot.At(0, 0))
	scale := (vals[0]*d[0] + vals[1]*d[1]) / srcVar

	sim := &Similarity{Scale: scale, Theta: theta}
	sim.Translation = dstMean.Sub(sim.Apply(srcMean))
	return sim, nil
}

func meanPoint(pts []r2.Point) r2.Point {
	var mean r2.Point
	for _, p := range pts {
		mean = mean.Add(p)
	}
	return mean.Mul(1 / float64(len(pts)))
}
