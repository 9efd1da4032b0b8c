package session

import (
	"math"

	"github.com/golang/geo/r2"
)

// Mode is the active interaction mode. Exactly one is active at a time;
// gesture events inconsistent with it are ignored rather than erroring.
type Mode int

const (
	// ModeNone ignores all pointer and scroll input.
	ModeNone Mode = iota
	// ModePan drags the geometry by the pointer delta.
	ModePan
	// ModeRotate drags the geometry around the trajectory centroid.
	ModeRotate
	// ModeZoom scales the geometry about the trajectory centroid by scroll steps.
	ModeZoom
	// ModeDeform records press/release control pairs for thin-plate warps.
	ModeDeform
)

func (m Mode) String() string {
	switch m {
	case ModePan:
		return "pan"
	case ModeRotate:
		return "rotate"
	case ModeZoom:
		return "zoom"
	case ModeDeform:
		return "deform"
	default:
		return "none"
	}
}

// SetMode switches the interaction mode. Switching cancels any drag in
// flight.
func (s *Session) SetMode(m Mode) {
	if m == s.mode {
		return
	}
	s.mode = m
	s.pointerDown = false
}

// Mode returns the active interaction mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// PointerDown begins a drag for the active mode. Presses are ignored in zoom
// mode (zoom is scroll driven) and with no mode active.
func (s *Session) PointerDown(pt r2.Point) {
	switch s.mode {
	case ModePan, ModeRotate, ModeDeform:
		s.pointerDown = true
		s.pressPoint = pt
		s.lastPointer = pt
	case ModeZoom, ModeNone:
	}
}

// PointerMove continues a drag. Motion without a press, or in a mode that does
// not drag, is a no-op.
func (s *Session) PointerMove(pt r2.Point) {
	if !s.pointerDown {
		return
	}
	switch s.mode {
	case ModePan:
		s.Pan(pt.Sub(s.lastPointer))
		s.lastPointer = pt
	case ModeRotate:
		c := s.Centroid()
		from := s.lastPointer.Sub(c)
		to := pt.Sub(c)
		s.Rotate(math.Atan2(to.Y, to.X) - math.Atan2(from.Y, from.X))
		s.lastPointer = pt
	case ModeDeform:
		// deform uses only the press and release points
		s.lastPointer = pt
	case ModeZoom, ModeNone:
	}
}

// PointerUp ends a drag. In deform mode the press/release pair becomes a
// deform control, which may fail to fit; other modes never error. A release
// without a press is a no-op.
func (s *Session) PointerUp(pt r2.Point) error {
	if !s.pointerDown {
		return nil
	}
	s.pointerDown = false
	if s.mode != ModeDeform {
		return nil
	}
	return s.AddDeformControl(s.pressPoint, pt)
}

// Scroll applies whole zoom steps; positive steps zoom in, negative steps
// zoom out by the reciprocal. Ignored outside zoom mode.
func (s *Session) Scroll(steps int) {
	if s.mode != ModeZoom || steps == 0 {
		return
	}
	s.zoomBy(math.Pow(ZoomStep, float64(steps)))
}
