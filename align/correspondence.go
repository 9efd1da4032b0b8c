package align

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// A Correspondence pairs a point in the projected reconstruction with its
// match in the floorplan frame.
type Correspondence struct {
	Source r2.Point
	Target r2.Point
}

// A Store holds correspondences in pick order. Pairs move in and out together;
// there is never an unpaired source or target. The zero value is an empty
// store ready to use.
type Store struct {
	pairs []Correspondence
}

// Add appends a pair. Duplicates are allowed.
func (s *Store) Add(source, target r2.Point) {
	s.pairs = append(s.pairs, Correspondence{Source: source, Target: target})
}

// RemoveLast pops the most recently added pair. On an empty store it reports
// false and changes nothing.
func (s *Store) RemoveLast() (Correspondence, bool) {
	if len(s.pairs) == 0 {
		return Correspondence{}, false
	}
	last := s.pairs[len(s.pairs)-1]
	s.pairs = s.pairs[:len(s.pairs)-1]
	return last, true
}

// Len returns the number of stored pairs.
func (s *Store) Len() int {
	return len(s.pairs)
}

// At returns the i-th pair in pick order.
func (s *Store) At(i int) Correspondence {
	return s.pairs[i]
}

// Pairs returns a copy of the stored pairs in pick order.
func (s *Store) Pairs() []Correspondence {
	out := make([]Correspondence, len(s.pairs))
	copy(out, s.pairs)
	return out
}

// Sources returns the reconstruction-side points in pick order.
func (s *Store) Sources() []r2.Point {
	out := make([]r2.Point, len(s.pairs))
	for i, c := range s.pairs {
		out[i] = c.Source
	}
	return out
}

// Targets returns the floorplan-side points in pick order.
func (s *Store) Targets() []r2.Point {
	out := make([]r2.Point, len(s.pairs))
	for i, c := range s.pairs {
		out[i] = c.Target
	}
	return out
}

// Write emits one pair per line as four space-separated floats, source x y
// then target x y, in pick order. Floats use the shortest form that parses
// back to the identical value.
func (s *Store) Write(out io.Writer) error {
	w := bufio.NewWriter(out)
	for _, c := range s.pairs {
		fields := []string{
			formatCoord(c.Source.X),
			formatCoord(c.Source.Y),
			formatCoord(c.Target.X),
			formatCoord(c.Target.Y),
		}
		if _, err := w.WriteString(strings.Join(fields, " ") + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Save replaces the contents of fn with the store contents.
func (s *Store) Save(fn string) (err error) {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return s.Write(f)
}

// Load replaces the store contents with the pairs read from fn. A missing
// file loads as zero pairs. Anything else that fails to parse is an error and
// leaves the store untouched; correspondence files are machine written, so
// damage is not skipped over the way hand-edited SLAM dumps are.
func (s *Store) Load(fn string) error {
	f, err := os.Open(fn)
	if err != nil {
		if os.IsNotExist(err) {
			s.pairs = nil
			return nil
		}
		return err
	}
	defer utils.UncheckedErrorFunc(f.Close)

	pairs, err := readPairs(f)
	if err != nil {
		return errors.Wrapf(err, "reading correspondences from %q", fn)
	}
	s.pairs = pairs
	return nil
}

func readPairs(in io.Reader) ([]Correspondence, error) {
	var pairs []Correspondence
	scanner := bufio.NewScanner(in)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, errors.Errorf("line %d: expected 4 fields, got %d", lineNum, len(fields))
		}
		var vals [4]float64
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNum)
			}
			vals[i] = v
		}
		pairs = append(pairs, Correspondence{
			Source: r2.Point{X: vals[0], Y: vals[1]},
			Target: r2.Point{X: vals[2], Y: vals[3]},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pairs, nil
}
