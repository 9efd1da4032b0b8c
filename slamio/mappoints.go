package slamio

import (
	"bufio"
	"os"
	"strings"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/utils"
)

// LoadMapPoints reads sparse map points from fn, one point per line as
// comma-or-space separated x,y,z. A header line beginning with "pos_x" is
// skipped, as are empty lines and lines that fail to parse. Duplicate points are
// kept; the map is an unordered multiset as far as registration is concerned.
func LoadMapPoints(fn string, logger golog.Logger) ([]r3.Vector, error) {
	//nolint:gosec
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(f.Close)

	var points []r3.Vector
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "pos_x") {
			continue
		}
		fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
		if len(fields) < 3 {
			logger.Debugf("%s:%d: short map point line %q; skipping", fn, lineNum, line)
			continue
		}
		pos, err := parseVector(fields[0], fields[1], fields[2])
		if err != nil {
			logger.Debugf("%s:%d: %s; skipping", fn, lineNum, err)
			continue
		}
		points = append(points, pos)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return points, nil
}
