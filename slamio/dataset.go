package slamio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// A Dataset names one floor's worth of SLAM output and reference material under
// a common data root. The on-disk layout follows the capture tooling:
//
//	<root>/slam_result/<floor>/kf_<floor>.txt     keyframe trajectory (required)
//	<root>/slam_result/<floor>/f_<floor>.txt      all-frames trajectory (optional)
//	<root>/slam_result/<floor>/map_points.txt     sparse map points (optional)
//	<root>/slam_result/<floor>/ref_map_points.txt refined map points (optional)
//	<root>/slam_result/<floor>/correspondences.txt saved alignment picks (optional)
//	<root>/floorplans/<floor>.jpg                 reference floorplan raster
type Dataset struct {
	Root  string
	Floor string
}

func (d Dataset) slamDir() string {
	return filepath.Join(d.Root, "slam_result", d.Floor)
}

// KeyframesPath returns the path of the keyframe trajectory file.
func (d Dataset) KeyframesPath() string {
	return filepath.Join(d.slamDir(), fmt.Sprintf("kf_%s.txt", d.Floor))
}

// FramesPath returns the path of the all-frames trajectory file.
func (d Dataset) FramesPath() string {
	return filepath.Join(d.slamDir(), fmt.Sprintf("f_%s.txt", d.Floor))
}

// MapPointsPath returns the path of the raw map point file. If ref is true, the
// refined variant is returned instead.
func (d Dataset) MapPointsPath(ref bool) string {
	if ref {
		return filepath.Join(d.slamDir(), "ref_map_points.txt")
	}
	return filepath.Join(d.slamDir(), "map_points.txt")
}

// CorrespondencesPath returns the path where alignment correspondences are
// persisted for this floor.
func (d Dataset) CorrespondencesPath() string {
	return filepath.Join(d.slamDir(), "correspondences.txt")
}

// FloorplanPath returns the path of the reference floorplan image.
func (d Dataset) FloorplanPath() string {
	return filepath.Join(d.Root, "floorplans", fmt.Sprintf("%s.jpg", d.Floor))
}

// A Recon is one loaded reconstruction: the keyframe trajectory that anchors
// registration, the denser all-frames trajectory when available, and the sparse
// map points. Frames and MapPoints may be empty; Keyframes never is.
type Recon struct {
	Keyframes []r3.Vector
	Frames    []r3.Vector
	MapPoints []r3.Vector
}

// Load reads the dataset from disk. The keyframe trajectory is required and its
// absence is an error; the all-frames trajectory and map points degrade to empty
// slices when their files are missing. If ref is true the refined map points are
// preferred, falling back to nothing (not the raw file) when absent, matching
// the capture tooling's explicit selection.
func (d Dataset) Load(ref bool, logger golog.Logger) (*Recon, error) {
	kf, err := LoadTrajectory(d.KeyframesPath(), logger)
	if err != nil {
		return nil, errors.Wrapf(err, "reading keyframes for floor %q", d.Floor)
	}

	frames, err := LoadTrajectory(d.FramesPath(), logger)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "reading frames for floor %q", d.Floor)
		}
		logger.Debugf("no all-frames trajectory at %s", d.FramesPath())
	}

	points, err := LoadMapPoints(d.MapPointsPath(ref), logger)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "reading map points for floor %q", d.Floor)
		}
		logger.Debugf("no map points at %s", d.MapPointsPath(ref))
	}

	return &Recon{Keyframes: kf, Frames: frames, MapPoints: points}, nil
}
