// Package query answers position, tangent and width questions about a cached
// path at arbitrary arc-length distances.
package query

import (
	"fmt"
	"sort"

	"github.com/Faultbox/midgard-path/internal/engine/spline"
	"github.com/Faultbox/midgard-path/pkg/math"
)

// Mode selects how positions between cached samples are reconstructed.
type Mode int

// Interpolation modes. All of them return the cached sample exactly at a
// sample's own distance.
const (
	CatmullRom Mode = iota // Catmull-Rom through the samples around the bracket
	Linear                 // Straight line between the bracketing samples
	Nearest                // Snap to the closer bracketing sample
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case CatmullRom:
		return "catmull-rom"
	case Linear:
		return "linear"
	case Nearest:
		return "nearest"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name as printed by String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "catmull-rom", "catmullrom":
		return CatmullRom, nil
	case "linear":
		return Linear, nil
	case "nearest":
		return Nearest, nil
	}
	return CatmullRom, fmt.Errorf("unknown interpolation mode %q", s)
}

// DefaultHint is the sample index NearestSampleIndex starts from by default.
const DefaultHint = 1

// Normalize maps d onto the cached curve: closed circuits wrap modulo the total
// length, open paths clamp to [0, total].
func Normalize(c *spline.Cache, d float32) float32 {
	total := c.TotalLength
	if total <= 0 || math.IsNaN(d) {
		return 0
	}
	if c.Closed {
		d = math.Mod(d, total)
		if d < 0 {
			d += total
		}
		return d
	}
	return math.Clamp(d, 0, total)
}

// PositionAt returns the centerline point at distance d.
// An empty cache yields the zero vector.
func PositionAt(c *spline.Cache, d float32, mode Mode) math.Vec3 {
	p, _ := Query(c, d, mode)
	return p
}

// TangentAt returns the unit direction of travel at distance d.
func TangentAt(c *spline.Cache, d float32, mode Mode) math.Vec3 {
	_, t := Query(c, d, mode)
	return t
}

// Query returns the point and unit tangent at distance d.
func Query(c *spline.Cache, d float32, mode Mode) (position, tangent math.Vec3) {
	if c.Empty() {
		return math.Vec3{}, math.Vec3{}
	}
	if c.Len() == 1 {
		return c.Samples[0].Point, math.Vec3{}
	}

	i, t := bracket(c, Normalize(c, d))
	a, b := c.Samples[i].Point, c.Samples[i+1].Point
	chord := b.Sub(a).Normalize()

	switch mode {
	case Linear:
		position = interpolateLinear(a, b, t)
		tangent = chord
	case Nearest:
		position = a
		if t >= 0.5 {
			position = b
		}
		tangent = chord
	default:
		p1, p4 := sampleAt(c, i-1), sampleAt(c, i+2)
		position = spline.CatmullRom(p1, a, b, p4, t)
		tangent = spline.CatmullRomDerivative(p1, a, b, p4, t).Normalize()
		if tangent == (math.Vec3{}) {
			tangent = chord
		}
	}
	return position, tangent
}

func interpolateLinear(a, b math.Vec3, t float32) math.Vec3 {
	switch t {
	case 0:
		return a
	case 1:
		return b
	}
	return a.Lerp(b, t)
}

// bracket finds i and t in [0, 1] such that d lies between samples i and i+1.
// d must already be normalized.
func bracket(c *spline.Cache, d float32) (int, float32) {
	s := c.Samples
	n := len(s)
	if d >= s[n-1].Distance {
		return n - 2, 1
	}
	// First sample strictly past d; d is at or after the one before it.
	j := sort.Search(n, func(k int) bool { return s[k].Distance > d })
	i := max(j-1, 0)
	span := s[i+1].Distance - s[i].Distance
	if span <= 0 {
		return i, 0
	}
	return i, math.Clamp((d-s[i].Distance)/span, 0, 1)
}

// sampleAt returns sample k, wrapping around closed circuits (whose last sample
// repeats the first) and clamping open paths.
func sampleAt(c *spline.Cache, k int) math.Vec3 {
	n := len(c.Samples)
	if c.Closed && n > 2 {
		m := n - 1
		return c.Samples[((k%m)+m)%m].Point
	}
	return c.Samples[min(max(k, 0), n-1)].Point
}

// NearestSampleIndex returns the index of the cached sample closest to d, or -1
// for an empty cache. The search starts at hint when the hint lies at or before d.
func NearestSampleIndex(c *spline.Cache, d float32, hint int) int {
	if c.Empty() {
		return -1
	}
	d = Normalize(c, d)
	s := c.Samples
	n := len(s)

	lo := 0
	if hint > 0 && hint < n && s[hint].Distance <= d {
		lo = hint
	}
	idx := lo + sort.Search(n-lo, func(k int) bool { return s[lo+k].Distance >= d })
	if idx >= n {
		return n - 1
	}
	if idx > 0 && d-s[idx-1].Distance <= s[idx].Distance-d {
		return idx - 1
	}
	return idx
}

// Resample returns points every spacing units along the curve plus the end point.
func Resample(c *spline.Cache, spacing float32, mode Mode) []math.Vec3 {
	if c.Empty() || !(spacing > 0) {
		return nil
	}
	total := c.TotalLength
	cutoff := total - spacing*1e-3
	points := make([]math.Vec3, 0, int(total/spacing)+2)
	for k := 0; ; k++ {
		d := float32(k) * spacing
		if k > 0 && d >= cutoff {
			break
		}
		points = append(points, PositionAt(c, d, mode))
	}
	return append(points, c.Last())
}
