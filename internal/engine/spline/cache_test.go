package spline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-path/internal/engine/path"
	"github.com/Faultbox/midgard-path/pkg/math"
)

func assertStrictlyIncreasing(t *testing.T, c *Cache) {
	t.Helper()
	for i := 1; i < len(c.Samples); i++ {
		if c.Samples[i].Distance <= c.Samples[i-1].Distance {
			t.Fatalf("distance[%d]=%v not greater than distance[%d]=%v",
				i, c.Samples[i].Distance, i-1, c.Samples[i-1].Distance)
		}
	}
}

func TestBuild_CollinearSampleCount(t *testing.T) {
	c, err := Build(collinear, config(2, false), nil)
	require.NoError(t, err)

	require.Equal(t, 11, c.Len())
	assert.InDelta(t, 20, c.TotalLength, 1e-3)
	assert.Equal(t, c.TotalLength, c.LastPointLength)
	assert.Zero(t, c.SecondLastPointLength)
	assert.Zero(t, c.Divergences)

	for i, s := range c.Samples[:c.Len()-1] {
		assert.Equal(t, float32(i)*2, s.Distance)
		assert.InDelta(t, float32(i)*2, s.Point.X, 0.01)
		assert.Zero(t, s.Point.Z)
	}
	assert.Equal(t, math.Vec3{X: 20}, c.Last())
	assert.InDelta(t, 20, c.Samples[10].Distance, 1e-3)
	diff(t, []float32{0, 10, 20}, c.WaypointDistances, approx(1e-3))
	assertStrictlyIncreasing(t, c)
}

func TestBuild_OpenPathEndsOnWaypoints(t *testing.T) {
	c, err := Build(bent, config(2, false), nil)
	require.NoError(t, err)

	assert.Equal(t, math.Vec3{}, c.First())
	assert.Equal(t, math.Vec3{X: 20, Z: 5}, c.Last())
	assertStrictlyIncreasing(t, c)

	// Regular spacing except the final, shorter step.
	n := c.Len()
	for i := 1; i < n-1; i++ {
		assert.InDelta(t, 2, c.Samples[i].Distance-c.Samples[i-1].Distance, 1e-4)
	}
	last := c.Samples[n-1].Distance - c.Samples[n-2].Distance
	assert.Greater(t, last, float32(0))
	assert.LessOrEqual(t, last, float32(2))

	// The curve bends off the straight chords, so it is longer than them.
	assert.Greater(t, c.TotalLength, float32(10+11.18))
	assert.InDelta(t, 21.25, c.TotalLength, 0.05)
	require.Len(t, c.WaypointDistances, 3)
	assert.InDelta(t, 10.04, c.WaypointDistances[1], 0.01)
}

func TestBuild_ClosedSquare(t *testing.T) {
	c, err := Build(square, config(5, true), nil)
	require.NoError(t, err)

	assert.True(t, c.ClosingDuplicate)
	assert.Equal(t, c.First(), c.Last())
	// Catmull-Rom bulges past the corners, so the loop is a little longer than 40.
	assert.InDelta(t, 42.04, c.TotalLength, 0.05)
	assert.Equal(t, c.TotalLength, c.Samples[c.Len()-1].Distance)
	assertStrictlyIncreasing(t, c)

	require.Len(t, c.WaypointDistances, 5)
	assert.Equal(t, c.WaypointDistances[3], c.LastPointLength)
	assert.Equal(t, c.WaypointDistances[2], c.SecondLastPointLength)
	assert.Less(t, c.LastPointLength, c.TotalLength)

	// Every side is the same shape, so the waypoints are evenly spaced.
	for i := 1; i < len(c.WaypointDistances); i++ {
		assert.InDelta(t, c.TotalLength/4, c.WaypointDistances[i]-c.WaypointDistances[i-1], 1e-3)
	}
}

func TestBuild_ClosedWithExplicitDuplicate(t *testing.T) {
	loop := append(append([]path.Waypoint{}, square...), path.Waypoint{Position: math.Vec3{}})
	explicit, err := Build(loop, config(5, true), nil)
	require.NoError(t, err)
	implicit, err := Build(square, config(5, true), nil)
	require.NoError(t, err)

	assert.False(t, explicit.ClosingDuplicate)
	assert.Equal(t, implicit.Len(), explicit.Len())
	assert.InDelta(t, implicit.TotalLength, explicit.TotalLength, 1e-4)
	assert.Equal(t, explicit.TotalLength, explicit.LastPointLength)
	diff(t, implicit.WaypointDistances, explicit.WaypointDistances, approx(1e-3))
	diff(t, implicit.Distances(), explicit.Distances(), approx(1e-3))
}

func TestBuild_TooFewWaypoints(t *testing.T) {
	for _, wps := range [][]path.Waypoint{nil, waypoints(math.Vec3{X: 1})} {
		c, err := Build(wps, config(2, false), nil)
		require.NoError(t, err)
		assert.True(t, c.Empty())
		assert.Zero(t, c.TotalLength)
		assert.Zero(t, c.LastPointLength)
		assert.Zero(t, c.SecondLastPointLength)
	}
}

func TestBuild_DegenerateCurves(t *testing.T) {
	same := waypoints(math.Vec3{X: 3}, math.Vec3{X: 3})

	c, err := Build(same, config(2, false), nil)
	require.NoError(t, err)
	assert.True(t, c.Empty())

	c, err = Build(same, config(2, true), nil)
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

func TestBuild_InvalidResolution(t *testing.T) {
	for _, res := range []float32{0, -1} {
		c, err := Build(collinear, config(res, false), nil)
		assert.True(t, errors.Is(err, path.ErrInvalidState), "resolution %v: %v", res, err)
		assert.True(t, c.Empty())
		assert.Zero(t, c.TotalLength)
	}
}

func TestBuild_ShortFinalStep(t *testing.T) {
	// 20 units at resolution 3: samples at 0..18, then the end at 20.
	c, err := Build(collinear, config(3, false), nil)
	require.NoError(t, err)
	require.Equal(t, 8, c.Len())
	assert.Equal(t, float32(18), c.Samples[6].Distance)
	assert.Equal(t, math.Vec3{X: 20}, c.Last())
}

func TestBuild_FixedTangent(t *testing.T) {
	wps := waypoints(math.Vec3{}, math.Vec3{X: 10}, math.Vec3{X: 20})
	wps[1].Tangent = math.Vec3{X: 5, Z: 10}
	wps[1].FixedTangent = true

	c, err := Build(wps, config(1, false), nil)
	require.NoError(t, err)

	assert.Equal(t, math.Vec3{X: 20}, c.Last())
	assert.Greater(t, c.TotalLength, float32(20.5))

	var bulge float32
	for _, s := range c.Samples {
		bulge = max(bulge, math.Abs(s.Point.Z))
	}
	assert.Greater(t, bulge, float32(0.5), "fixed tangent should pull the curve off the line")
}

func TestBuild_ArenaReuse(t *testing.T) {
	arena := NewArena()
	arena.Reserve(64, 8)
	samples, segments := arena.Capacity()
	assert.Equal(t, 64, samples)
	assert.Equal(t, 8, segments)

	fresh, err := Build(bent, config(2, false), nil)
	require.NoError(t, err)
	want := fresh.Points()

	for range 3 {
		c, err := Build(bent, config(2, false), arena)
		require.NoError(t, err)
		assert.Equal(t, want, c.Points())
		assert.Equal(t, fresh.Distances(), c.Distances())
	}

	samples, _ = arena.Capacity()
	assert.Equal(t, 64, samples, "arena should not reallocate when capacity suffices")

	arena.Clear()
	samples, _ = arena.Capacity()
	assert.Equal(t, 64, samples)
}
