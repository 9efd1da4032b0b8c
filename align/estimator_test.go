package align

import (
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestKindForCount(t *testing.T) {
	wantByCount := []FitKind{FitNone, FitNone, FitNone, FitRigid, FitNonRigid, FitNonRigid}
	for n, want := range wantByCount {
		test.That(t, KindForCount(n), test.ShouldEqual, want)
	}
}

func TestFitKindString(t *testing.T) {
	test.That(t, FitNone.String(), test.ShouldEqual, "none")
	test.That(t, FitRigid.String(), test.ShouldEqual, "rigid")
	test.That(t, FitNonRigid.String(), test.ShouldEqual, "nonrigid")
}

func TestEstimatorPromotionDemotion(t *testing.T) {
	var s Store
	e := NewEstimator(&s)

	pts := []r2.Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {2, 0.5}}
	wantByCount := []FitKind{FitNone, FitNone, FitNone, FitRigid, FitNonRigid, FitNonRigid}

	test.That(t, e.Kind(), test.ShouldEqual, FitNone)
	for i, p := range pts {
		s.Add(p, p.Add(r2.Point{X: 3, Y: 3}))
		test.That(t, e.Kind(), test.ShouldEqual, wantByCount[i+1])
	}
	for i := len(pts); i > 0; i-- {
		_, ok := s.RemoveLast()
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, e.Kind(), test.ShouldEqual, wantByCount[i-1])
	}
}

func TestEstimatorFitRigid(t *testing.T) {
	var s Store
	s.Add(r2.Point{X: 0, Y: 0}, r2.Point{X: 5, Y: 5})
	s.Add(r2.Point{X: 1, Y: 0}, r2.Point{X: 6, Y: 5})
	s.Add(r2.Point{X: 0, Y: 1}, r2.Point{X: 5, Y: 6})

	e := NewEstimator(&s)
	test.That(t, e.Kind(), test.ShouldEqual, FitRigid)
	tf, err := e.Fit()
	test.That(t, err, test.ShouldBeNil)

	sim, ok := tf.(*Similarity)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, sim.Scale, test.ShouldAlmostEqual, 1, 1e-12)
	test.That(t, ResidualRMS(tf, s.Sources(), s.Targets()), test.ShouldAlmostEqual, 0, 1e-12)
}

func TestEstimatorFitNonRigid(t *testing.T) {
	var s Store
	s.Add(r2.Point{X: 0, Y: 0}, r2.Point{X: 0, Y: 0})
	s.Add(r2.Point{X: 10, Y: 0}, r2.Point{X: 11, Y: 1})
	s.Add(r2.Point{X: 0, Y: 10}, r2.Point{X: -1, Y: 9})
	s.Add(r2.Point{X: 10, Y: 10}, r2.Point{X: 12, Y: 12})

	e := NewEstimator(&s)
	test.That(t, e.Kind(), test.ShouldEqual, FitNonRigid)
	tf, err := e.Fit()
	test.That(t, err, test.ShouldBeNil)

	_, ok := tf.(*ThinPlateSpline)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, ResidualRMS(tf, s.Sources(), s.Targets()), test.ShouldAlmostEqual, 0, 1e-8)
}

func TestEstimatorFitUnderdetermined(t *testing.T) {
	var s Store
	s.Add(r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 1})
	e := NewEstimator(&s)
	_, err := e.Fit()
	test.That(t, err, test.ShouldWrap, ErrUnderdetermined)
}

func TestEstimatorFitDegeneratePropagates(t *testing.T) {
	// Four pairs selects the warp; collinear sources must surface the
	// degeneracy rather than quietly falling back to a lower-order fit.
	var s Store
	for i := 0; i < 4; i++ {
		p := r2.Point{X: float64(i), Y: float64(2 * i)}
		s.Add(p, p)
	}
	e := NewEstimator(&s)
	test.That(t, e.Kind(), test.ShouldEqual, FitNonRigid)
	_, err := e.Fit()
	test.That(t, err, test.ShouldWrap, ErrDegenerateControls)
}
