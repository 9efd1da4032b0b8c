// Package slamio reads the text artifacts of a visual-SLAM run: keyframe and
// frame trajectories plus sparse map points. Parsing is tolerant in the same way
// the upstream SLAM tooling is; comment lines, headers, and lines that do not
// parse as numbers are skipped so callers only ever see clean coordinate arrays.
package slamio

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/utils"
)

// LoadTrajectory reads an ordered keyframe (or all-frames) trajectory from fn.
// Each line is whitespace separated; field 0 is an identifier or timestamp and is
// ignored, fields 1-3 are the x,y,z position. Empty lines and lines starting with
// '#' are comments. Order of the returned positions follows file order.
func LoadTrajectory(fn string, logger golog.Logger) ([]r3.Vector, error) {
	//nolint:gosec
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(f.Close)

	var traj []r3.Vector
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			logger.Debugf("%s:%d: short trajectory line %q; skipping", fn, lineNum, line)
			continue
		}
		pos, err := parseVector(fields[1], fields[2], fields[3])
		if err != nil {
			logger.Debugf("%s:%d: %s; skipping", fn, lineNum, err)
			continue
		}
		traj = append(traj, pos)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return traj, nil
}

func parseVector(xs, ys, zs string) (r3.Vector, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return r3.Vector{}, err
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return r3.Vector{}, err
	}
	z, err := strconv.ParseFloat(zs, 64)
	if err != nil {
		return r3.Vector{}, err
	}
	return r3.Vector{X: x, Y: y, Z: z}, nil
}
