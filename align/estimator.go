package align

import "github.com/pkg/errors"

// Control-count thresholds for the estimation strategies.
const (
	MinRigidControls = 3
	MinWarpControls  = 4
)

// FitKind names the estimation strategy a correspondence count supports.
type FitKind int

const (
	// FitNone means too few pairs for any transform.
	FitNone FitKind = iota
	// FitRigid selects the least-squares similarity transform.
	FitRigid
	// FitNonRigid selects the thin-plate-spline warp.
	FitNonRigid
)

func (k FitKind) String() string {
	switch k {
	case FitRigid:
		return "rigid"
	case FitNonRigid:
		return "nonrigid"
	default:
		return "none"
	}
}

// KindForCount returns the highest-fidelity strategy n pairs support.
func KindForCount(n int) FitKind {
	switch {
	case n >= MinWarpControls:
		return FitNonRigid
	case n >= MinRigidControls:
		return FitRigid
	default:
		return FitNone
	}
}

// An Estimator runs the best strategy for the live contents of a store.
// Adding pairs promotes the strategy and removing them demotes it; every Fit
// reads the store fresh, so there is no stale higher-order fit to invalidate.
type Estimator struct {
	store *Store
}

// NewEstimator wraps a store. The store stays owned by the caller; the
// estimator only reads it.
func NewEstimator(store *Store) *Estimator {
	return &Estimator{store: store}
}

// Kind reports the strategy the current pair count supports.
func (e *Estimator) Kind() FitKind {
	return KindForCount(e.store.Len())
}

// Fit runs the active strategy over the store contents.
func (e *Estimator) Fit() (Transform, error) {
	src, dst := e.store.Sources(), e.store.Targets()
	switch e.Kind() {
	case FitNonRigid:
		tps, err := EstimateThinPlateSpline(src, dst)
		if err != nil {
			return nil, err
		}
		return tps, nil
	case FitRigid:
		sim, err := EstimateSimilarity(src, dst)
		if err != nil {
			return nil, err
		}
		return sim, nil
	default:
		return nil, errors.Wrapf(ErrUnderdetermined, "have %d pair(s), need %d", e.store.Len(), MinRigidControls)
	}
}
