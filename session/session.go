// Package session holds the interactive state of one registration session: an
// immutable projected geometry plus an ordered pipeline of transform stages
// reapplied from scratch on every read. Gestures append to or extend the
// pipeline instead of editing point arrays in place, so a long interactive
// session accumulates no floating-point drift and undo is a pop.
package session

import (
	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/viam-labs/mapalign/align"
	"github.com/viam-labs/mapalign/projection"
)

// ZoomStep is the zoom-in factor of one scroll step. Zooming out uses the
// exact reciprocal so opposite steps cancel.
const ZoomStep = 1.1

// A Session owns the live view of one projected reconstruction. It is not
// safe for concurrent use; gesture events are expected to arrive serialized
// from a single event loop.
type Session struct {
	base   projection.ProjectedGeometry
	stages []align.Transform

	deformControls []align.Correspondence

	mode        Mode
	pointerDown bool
	pressPoint  r2.Point
	lastPointer r2.Point

	logger golog.Logger
}

// New starts a session over geo. The geometry is copied; the session never
// consults the 3D source again.
func New(geo *projection.ProjectedGeometry, logger golog.Logger) *Session {
	return &Session{
		base: projection.ProjectedGeometry{
			Trajectory: append([]r2.Point{}, geo.Trajectory...),
			Cloud:      append([]r2.Point{}, geo.Cloud...),
		},
		logger: logger,
	}
}

// Trajectory returns the trajectory with the full pipeline applied. The
// returned slice is fresh on every call.
func (s *Session) Trajectory() []r2.Point {
	return s.applyPipeline(s.base.Trajectory)
}

// Cloud returns the map points with the full pipeline applied.
func (s *Session) Cloud() []r2.Point {
	return s.applyPipeline(s.base.Cloud)
}

func (s *Session) applyPipeline(pts []r2.Point) []r2.Point {
	out := make([]r2.Point, len(pts))
	copy(out, pts)
	for _, stage := range s.stages {
		for i, p := range out {
			out[i] = stage.Apply(p)
		}
	}
	return out
}

// Centroid returns the mean of the current trajectory, the pivot for rotate
// and zoom. A trajectory-less session falls back to the cloud.
func (s *Session) Centroid() r2.Point {
	pts := s.Trajectory()
	if len(pts) == 0 {
		pts = s.Cloud()
	}
	if len(pts) == 0 {
		return r2.Point{}
	}
	var c r2.Point
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.Mul(1 / float64(len(pts)))
}

// appendRigid extends the pipeline with a rigid gesture. A run of consecutive
// rigid gestures folds into one trailing stage via the closed-form
// composition, so the pipeline stays short no matter how much the user pans
// and zooms.
func (s *Session) appendRigid(g *align.Similarity) {
	if n := len(s.stages); n > 0 {
		if last, ok := s.stages[n-1].(*align.Similarity); ok {
			s.stages[n-1] = last.Then(g)
			return
		}
	}
	s.stages = append(s.stages, g)
}

// Pan shifts the geometry by delta.
func (s *Session) Pan(delta r2.Point) {
	s.appendRigid(align.NewTranslation(delta))
}

// Rotate turns the geometry by angle radians about the current trajectory
// centroid. The pivot is recomputed per call, so successive rotations follow
// the geometry rather than a fixed origin.
func (s *Session) Rotate(angle float64) {
	s.appendRigid(align.NewRotationAbout(angle, s.Centroid()))
}

// Zoom scales the geometry by factor about the current trajectory centroid.
// The factor must be positive.
func (s *Session) Zoom(factor float64) error {
	if !(factor > 0) {
		return errors.Errorf("zoom factor must be positive, got %v", factor)
	}
	s.zoomBy(factor)
	return nil
}

func (s *Session) zoomBy(factor float64) {
	s.appendRigid(align.NewScaleAbout(factor, s.Centroid()))
}

// AddDeformControl records a drag pair in view coordinates. Once three or
// more pairs have accumulated, every new pair refits a thin-plate warp over
// the full set and appends it as a stage, so later drags compose with the
// warps already applied. Control pairs persist for the life of the session.
// On a degenerate fit the pair stays recorded, no stage is appended, and the
// geometry is untouched.
func (s *Session) AddDeformControl(src, dst r2.Point) error {
	s.deformControls = append(s.deformControls, align.Correspondence{Source: src, Target: dst})
	n := len(s.deformControls)
	if n < align.MinRigidControls {
		return nil
	}

	sources := make([]r2.Point, n)
	targets := make([]r2.Point, n)
	for i, c := range s.deformControls {
		sources[i] = c.Source
		targets[i] = c.Target
	}
	warp, err := align.EstimateDeformation(sources, targets)
	if err != nil {
		return errors.Wrapf(err, "deform with %d control(s)", n)
	}
	s.stages = append(s.stages, warp)
	s.logger.Debugf("applied deform warp over %d control pair(s)", n)
	return nil
}

// DeformControls returns a copy of the recorded drag pairs in order.
func (s *Session) DeformControls() []align.Correspondence {
	out := make([]align.Correspondence, len(s.deformControls))
	copy(out, s.deformControls)
	return out
}

// Undo removes the most recent pipeline stage: the trailing run of rigid
// gestures, or the latest warp. It reports whether anything was removed.
// Recorded deform controls are kept; only Reset discards them.
func (s *Session) Undo() bool {
	if len(s.stages) == 0 {
		return false
	}
	s.stages = s.stages[:len(s.stages)-1]
	return true
}

// Reset drops every stage and all recorded deform controls, returning the
// view to the freshly projected geometry.
func (s *Session) Reset() {
	s.stages = nil
	s.deformControls = nil
}

// NumStages returns the current pipeline length.
func (s *Session) NumStages() int {
	return len(s.stages)
}
