// Package spline reconstructs a Catmull-Rom curve through path waypoints and
// caches it as samples spaced evenly by arc length.
package spline

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-path/internal/engine/path"
	"github.com/Faultbox/midgard-path/internal/logger"
	"github.com/Faultbox/midgard-path/pkg/math"
)

// ErrNumericDivergence marks an arc-length inversion that produced NaN and fell
// back to the linear estimate. It is logged and counted, never returned.
var ErrNumericDivergence = errors.New("arc-length inversion diverged")

// MaxSamples bounds the size of one cache.
const MaxSamples = 1 << 20

// endEpsilon is the fraction of the resolution under which a regular sample is
// dropped in favour of the exact end sample.
const endEpsilon = 1e-3

// Sample is a point on the centerline and its arc-length distance from the start.
type Sample struct {
	Point    math.Vec3
	Distance float32
}

// Cache is the distance-parameterized approximation of one path.
// Slices may be backed by an Arena and are only valid until the next Build
// with the same arena.
type Cache struct {
	Samples  []Sample
	Segments []Segment

	// WaypointDistances holds the arc length at every waypoint, including the
	// closing duplicate of a closed circuit.
	WaypointDistances []float32

	Resolution       float32
	Closed           bool
	ClosingDuplicate bool // First waypoint was appended to close the circuit

	TotalLength           float32
	LastPointLength       float32 // Distance at the last user waypoint
	SecondLastPointLength float32 // Closed circuits: distance at the second-to-last user waypoint

	Divergences int // Inversions that fell back to the linear estimate
}

// Empty reports whether the cache holds no curve.
func (c *Cache) Empty() bool {
	return c == nil || len(c.Samples) == 0
}

// Len returns the number of cached samples.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Samples)
}

// First returns the first sample point.
func (c *Cache) First() math.Vec3 {
	return c.Samples[0].Point
}

// Last returns the final sample point.
func (c *Cache) Last() math.Vec3 {
	return c.Samples[len(c.Samples)-1].Point
}

// Points copies the sample points.
func (c *Cache) Points() []math.Vec3 {
	out := make([]math.Vec3, len(c.Samples))
	for i, s := range c.Samples {
		out[i] = s.Point
	}
	return out
}

// Distances copies the sample distances.
func (c *Cache) Distances() []float32 {
	out := make([]float32, len(c.Samples))
	for i, s := range c.Samples {
		out[i] = s.Distance
	}
	return out
}

// Build samples the curve through waypoints every cfg.Resolution units of arc length.
// Fewer than two waypoints, or a zero-length curve, give an empty cache and no error.
// An invalid resolution gives an empty cache and an error wrapping path.ErrInvalidState.
// A non-nil arena supplies the backing storage.
func Build(waypoints []path.Waypoint, cfg path.Config, arena *Arena) (*Cache, error) {
	cache := &Cache{Resolution: cfg.Resolution, Closed: cfg.Closed}
	if arena != nil {
		arena.Clear()
	}

	if !(cfg.Resolution > 0) || math.IsInf(cfg.Resolution) {
		err := fmt.Errorf("%w: resolution must be > 0, got %v", path.ErrInvalidState, cfg.Resolution)
		lg().Warn("cache cleared", zap.Error(err))
		return cache, err
	}
	if len(waypoints) < path.MinWaypoints {
		lg().Debug("cache cleared: not enough waypoints", zap.Int("count", len(waypoints)))
		return cache, nil
	}

	pts := controlPoints(waypoints, cfg.Closed)
	if cfg.Closed && len(pts) < 3 {
		lg().Debug("cache cleared: closed circuit collapses to a point")
		return cache, nil
	}
	cache.ClosingDuplicate = cfg.Closed && len(pts) > len(waypoints)

	segs, wpDist := arena.segments(len(pts)-1), arena.distances(len(pts))
	var total float32
	for i := 0; i < len(pts)-1; i++ {
		wpDist = append(wpDist, total)
		seg := buildSegment(pts, i, cfg.Closed)
		segs = append(segs, seg)
		total += seg.Length
	}
	wpDist = append(wpDist, total)
	cache.Segments = segs
	cache.WaypointDistances = wpDist

	if !(total > 0) || math.IsInf(total) {
		lg().Debug("cache cleared: zero-length curve", zap.Float32("length", total))
		return &Cache{Resolution: cfg.Resolution, Closed: cfg.Closed}, nil
	}
	if total/cfg.Resolution > MaxSamples-2 {
		err := fmt.Errorf("%w: length %v at resolution %v exceeds %d samples",
			path.ErrInvalidState, total, cfg.Resolution, MaxSamples)
		lg().Warn("cache cleared", zap.Error(err))
		return &Cache{Resolution: cfg.Resolution, Closed: cfg.Closed}, err
	}

	cache.Samples = cache.placeSamples(pts, total, arena)
	cache.TotalLength = total
	cache.setEndLengths(len(waypoints))

	if cache.Divergences > 0 {
		lg().Debug("arc-length inversion fell back to linear estimate",
			zap.Int("count", cache.Divergences),
			zap.Error(ErrNumericDivergence),
		)
	}
	lg().Debug("cache rebuilt",
		zap.Int("waypoints", len(waypoints)),
		zap.Int("samples", len(cache.Samples)),
		zap.Float32("length", total),
	)
	return cache, nil
}

// placeSamples puts a sample at every multiple of the resolution and a final
// sample exactly on the last control point.
func (c *Cache) placeSamples(pts []controlPoint, total float32, arena *Arena) []Sample {
	samples := arena.samples(int(total/c.Resolution) + 2)
	cutoff := total - c.Resolution*endEpsilon

	seg := 0
	for k := 0; ; k++ {
		d := float32(k) * c.Resolution
		if k > 0 && d >= cutoff {
			break
		}
		if k == 0 {
			samples = append(samples, Sample{Point: pts[0].pos, Distance: 0})
			continue
		}
		for seg < len(c.Segments)-1 && d > c.WaypointDistances[seg+1] {
			seg++
		}
		s := c.Segments[seg]
		t, diverged := s.ParamAtDistance(d - c.WaypointDistances[seg])
		if diverged {
			c.Divergences++
		}
		samples = append(samples, Sample{Point: s.Point(t), Distance: d})
	}

	return append(samples, Sample{Point: pts[len(pts)-1].pos, Distance: total})
}

func (c *Cache) setEndLengths(userCount int) {
	if !c.Closed {
		c.LastPointLength = c.TotalLength
		return
	}
	c.LastPointLength = c.WaypointDistances[userCount-1]
	if userCount >= 2 {
		c.SecondLastPointLength = c.WaypointDistances[userCount-2]
	}
}

// controlPoint is a waypoint position with its optional fixed tangent.
type controlPoint struct {
	pos     math.Vec3
	tangent math.Vec3
	fixed   bool
}

// controlPoints returns the points the segments run through. A closed circuit
// whose ends differ gets the first point appended.
func controlPoints(waypoints []path.Waypoint, closed bool) []controlPoint {
	pts := make([]controlPoint, 0, len(waypoints)+1)
	for _, wp := range waypoints {
		pts = append(pts, controlPoint{pos: wp.Position, tangent: wp.Tangent, fixed: wp.FixedTangent})
	}
	if closed && pts[0].pos != pts[len(pts)-1].pos {
		pts = append(pts, pts[0])
	}
	return pts
}

// buildSegment creates the segment from pts[i] to pts[i+1]. Open paths clamp the
// virtual neighbours at the ends; closed circuits wrap around the unique points.
// A fixed tangent replaces the Catmull-Rom tangent at its end of the segment.
func buildSegment(pts []controlPoint, i int, closed bool) Segment {
	at := func(j int) controlPoint {
		if closed {
			n := len(pts) - 1 // last point duplicates the first
			return pts[((j%n)+n)%n]
		}
		return pts[min(max(j, 0), len(pts)-1)]
	}
	p1, p2, p3, p4 := at(i-1), at(i), at(i+1), at(i+2)
	if !p2.fixed && !p3.fixed {
		return CatmullRomSegment(p1.pos, p2.pos, p3.pos, p4.pos)
	}
	m2 := p3.pos.Sub(p1.pos).Scale(0.5)
	if p2.fixed {
		m2 = p2.tangent
	}
	m3 := p4.pos.Sub(p2.pos).Scale(0.5)
	if p3.fixed {
		m3 = p3.tangent
	}
	return HermiteSegment(p2.pos, p3.pos, m2, m3)
}

func lg() *zap.Logger {
	return logger.Named("spline")
}
