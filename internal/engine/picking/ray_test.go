package picking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-path/internal/engine/path"
	"github.com/Faultbox/midgard-path/internal/engine/strip"
	"github.com/Faultbox/midgard-path/pkg/math"
)

// flatStrip builds a 20x4 strip along +X at height y.
func flatStrip(t *testing.T, y float32, doubleSided bool) *strip.Mesh {
	t.Helper()
	var left, right []math.Vec3
	var dist []float32
	for i := range 11 {
		x := float32(i) * 2
		left = append(left, math.Vec3{X: x, Y: y, Z: 2})
		right = append(right, math.Vec3{X: x, Y: y, Z: -2})
		dist = append(dist, x)
	}
	cfg := path.DefaultConfig()
	cfg.DoubleSided = doubleSided
	meshes, err := strip.BuildStrip(left, right, dist, cfg, nil)
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	return meshes[0]
}

func TestIntersectPlaneY(t *testing.T) {
	tests := []struct {
		name  string
		ray   Ray
		x, z  float32
		valid bool
	}{
		{"straight down", Down(3, 4, 10), 3, 4, true},
		{"slanted", NewRay(math.Vec3{Y: 10}, math.Vec3{X: 1, Y: -1}), 10, 0, true},
		{"parallel", NewRay(math.Vec3{Y: 10}, math.Vec3{X: 1}), 0, 0, false},
		{"behind", NewRay(math.Vec3{Y: 10}, math.Vec3{Y: 1}), 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, z, ok := tt.ray.IntersectPlaneY(0)
			require.Equal(t, tt.valid, ok)
			if ok {
				assert.InDelta(t, tt.x, x, 1e-4)
				assert.InDelta(t, tt.z, z, 1e-4)
			}
		})
	}
}

func TestIntersectBounds(t *testing.T) {
	box := strip.Bounds{Min: [3]float32{0, 0, 0}, Max: [3]float32{2, 2, 2}}

	tm, ok := Down(1, 1, 10).IntersectBounds(box)
	require.True(t, ok)
	assert.InDelta(t, 8, tm, 1e-5)

	tm, ok = Down(1, 1, 1).IntersectBounds(box)
	require.True(t, ok, "inside the box")
	assert.InDelta(t, 1, tm, 1e-5)

	_, ok = Down(5, 1, 10).IntersectBounds(box)
	assert.False(t, ok)

	_, ok = NewRay(math.Vec3{X: 1, Y: 5, Z: 1}, math.Vec3{Y: 1}).IntersectBounds(box)
	assert.False(t, ok, "box behind the ray")
}

func TestIntersectTriangle(t *testing.T) {
	a := math.Vec3{}
	b := math.Vec3{X: 1}
	c := math.Vec3{Z: 1}

	tm, ok := Down(0.2, 0.2, 5).IntersectTriangle(a, b, c)
	require.True(t, ok)
	assert.InDelta(t, 5, tm, 1e-5)

	_, ok = Down(0.2, 0.2, 5).IntersectTriangle(a, c, b)
	assert.True(t, ok, "both windings")

	_, ok = Down(0.8, 0.8, 5).IntersectTriangle(a, b, c)
	assert.False(t, ok)

	_, ok = NewRay(math.Vec3{X: 0.2, Y: 1, Z: 0.2}, math.Vec3{X: 1}).IntersectTriangle(a, b, c)
	assert.False(t, ok, "parallel")
}

func TestPick(t *testing.T) {
	low := flatStrip(t, 0, true)
	high := flatStrip(t, 3, false)

	hit, ok := Pick([]*strip.Mesh{low, high}, Down(5.3, 0.7, 10))
	require.True(t, ok)
	assert.Equal(t, 1, hit.Mesh)
	assert.InDelta(t, 7, hit.T, 1e-4)
	assert.InDelta(t, 3, hit.Point.Y, 1e-4)
	assert.Less(t, hit.Triangle, high.SideIndexCount)

	hit, ok = Pick([]*strip.Mesh{low}, Down(5.3, 0.7, 10))
	require.True(t, ok)
	assert.Less(t, hit.Triangle, low.SideIndexCount, "front faces only")

	_, ok = Pick([]*strip.Mesh{low, high}, Down(5.3, 3, 10))
	assert.False(t, ok)

	_, ok = Pick([]*strip.Mesh{nil, {}}, Down(5.3, 0.7, 10))
	assert.False(t, ok)
}

func TestOnStrip(t *testing.T) {
	out := &strip.Output{Surface: []*strip.Mesh{flatStrip(t, 1.5, false)}}

	y, ok := OnStrip(out, 12.5, -1.2)
	require.True(t, ok)
	assert.InDelta(t, 1.5, y, 1e-4)

	_, ok = OnStrip(out, 25, 0)
	assert.False(t, ok)

	_, ok = OnStrip(nil, 0, 0)
	assert.False(t, ok)
	_, ok = OnStrip(&strip.Output{}, 0, 0)
	assert.False(t, ok)
}
