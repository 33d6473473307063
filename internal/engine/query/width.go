package query

import (
	"sort"

	"github.com/Faultbox/midgard-path/internal/engine/spline"
	"github.com/Faultbox/midgard-path/pkg/math"
)

// WidthAt interpolates per-waypoint widths at distance d. Widths change linearly
// by arc length between waypoints, not between cached samples. At a waypoint's
// own distance the result is that waypoint's width exactly.
func WidthAt(c *spline.Cache, widths []float32, d float32) float32 {
	if c.Empty() {
		return 0
	}
	return Interpolate(c.WaypointDistances, widths, Normalize(c, d))
}

// RollAt interpolates per-waypoint roll angles (degrees) at distance d.
func RollAt(c *spline.Cache, rolls []float32, d float32) float32 {
	if c.Empty() {
		return 0
	}
	return Interpolate(c.WaypointDistances, rolls, Normalize(c, d))
}

// Interpolate evaluates the piecewise-linear function through (stops[i], values[i]).
// A stop past the end of values (the closing duplicate of a circuit) takes
// values[0]. Distances outside the stops take the boundary value, no extrapolation.
func Interpolate(stops, values []float32, d float32) float32 {
	if len(values) == 0 || len(stops) == 0 {
		return 0
	}
	value := func(i int) float32 {
		if i < len(values) {
			return values[i]
		}
		return values[0]
	}

	last := len(stops) - 1
	if d <= stops[0] {
		return value(0)
	}
	if d >= stops[last] {
		return value(last)
	}
	j := sort.Search(len(stops), func(k int) bool { return stops[k] > d }) - 1
	span := stops[j+1] - stops[j]
	if span <= 0 {
		return value(j)
	}
	t := (d - stops[j]) / span
	if t == 0 {
		return value(j)
	}
	return math.Lerp(value(j), value(j+1), t)
}
