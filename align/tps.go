package align

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateControls is returned when control points cannot support a
// well-posed fit: too few, duplicated, or collinear sources.
var ErrDegenerateControls = errors.New("degenerate control points")

// A ThinPlateSpline warps the plane so that every control source lands exactly
// on its target, bending as little as possible in between. Two scalar
// thin-plate interpolants, one per output coordinate, each with an affine
// term. The warp is smooth but NOT guaranteed invertible or
// distance-preserving away from the controls.
type ThinPlateSpline struct {
	controls []r2.Point
	wx, wy   []float64
	ax, ay   [3]float64
}

// tpsKernel is the thin-plate radial basis U(r) = r^2 log r, with U(0) = 0.
func tpsKernel(r float64) float64 {
	if r == 0 {
		return 0
	}
	return r * r * math.Log(r)
}

// EstimateThinPlateSpline fits the warp taking src exactly onto dst. Requires
// at least four pairs with distinct, non-collinear sources; below that a
// similarity transform is the right tool.
func EstimateThinPlateSpline(src, dst []r2.Point) (*ThinPlateSpline, error) {
	if len(src) != len(dst) {
		return nil, errors.Errorf("source and target counts differ: %d vs %d", len(src), len(dst))
	}
	if len(src) < MinWarpControls {
		return nil, errors.Wrapf(ErrDegenerateControls, "have %d pair(s), need %d", len(src), MinWarpControls)
	}
	return fitThinPlateSpline(src, dst)
}

// EstimateDeformation is EstimateThinPlateSpline relaxed to three controls,
// where the spline degenerates to the exact affine interpolant. Interactive
// deform gestures begin warping at three drag pairs; callers that need a
// genuinely non-affine warp should hold to EstimateThinPlateSpline's stricter
// contract.
func EstimateDeformation(src, dst []r2.Point) (*ThinPlateSpline, error) {
	if len(src) != len(dst) {
		return nil, errors.Errorf("source and target counts differ: %d vs %d", len(src), len(dst))
	}
	if len(src) < MinRigidControls {
		return nil, errors.Wrapf(ErrDegenerateControls, "have %d pair(s), need %d", len(src), MinRigidControls)
	}
	return fitThinPlateSpline(src, dst)
}

// fitThinPlateSpline solves the bordered interpolation system
//
//	| K  P | |w|   |v|
//	| Pt 0 | |a| = |0|
//
// with K the kernel matrix over control distances and P the affine columns
// (1, x, y), sharing one factorization across both output coordinates.
func fitThinPlateSpline(src, dst []r2.Point) (*ThinPlateSpline, error) {
	n := len(src)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if src[i] == src[j] {
				return nil, errors.Wrapf(ErrDegenerateControls, "duplicate source point at %d and %d", i, j)
			}
		}
	}

	size := n + 3
	sys := mat.NewDense(size, size, nil)
	rhs := mat.NewDense(size, 2, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sys.Set(i, j, tpsKernel(src[i].Sub(src[j]).Norm()))
		}
		sys.Set(i, n, 1)
		sys.Set(i, n+1, src[i].X)
		sys.Set(i, n+2, src[i].Y)
		sys.Set(n, i, 1)
		sys.Set(n+1, i, src[i].X)
		sys.Set(n+2, i, src[i].Y)
		rhs.Set(i, 0, dst[i].X)
		rhs.Set(i, 1, dst[i].Y)
	}

	var lu mat.LU
	lu.Factorize(sys)
	var sol mat.Dense
	if err := lu.SolveTo(&sol, false, rhs); err != nil {
		return nil, errors.Wrap(ErrDegenerateControls, "source points do not span the plane")
	}

	tps := &ThinPlateSpline{
		controls: append([]r2.Point{}, src...),
		wx:       make([]float64, n),
		wy:       make([]float64, n),
	}
	for i := 0; i < n; i++ {
		tps.wx[i] = sol.At(i, 0)
		tps.wy[i] = sol.At(i, 1)
	}
	for k := 0; k < 3; k++ {
		tps.ax[k] = sol.At(n+k, 0)
		tps.ay[k] = sol.At(n+k, 1)
	}
	return tps, nil
}

// Apply evaluates the warp at p.
func (tps *ThinPlateSpline) Apply(p r2.Point) r2.Point {
	x := tps.ax[0] + tps.ax[1]*p.X + tps.ax[2]*p.Y
	y := tps.ay[0] + tps.ay[1]*p.X + tps.ay[2]*p.Y
	for i, c := range tps.controls {
		u := tpsKernel(p.Sub(c).Norm())
		x += tps.wx[i] * u
		y += tps.wy[i] * u
	}
	return r2.Point{X: x, Y: y}
}

// NumControls returns the number of control points the warp was fit on.
func (tps *ThinPlateSpline) NumControls() int {
	return len(tps.controls)
}
