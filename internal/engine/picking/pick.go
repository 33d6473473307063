package picking

import (
	"github.com/Faultbox/midgard-path/internal/engine/strip"
	"github.com/Faultbox/midgard-path/pkg/math"
)

// Hit describes the nearest triangle hit by a ray.
type Hit struct {
	Mesh     int // index into the picked slice
	Triangle int // index of the first vertex index of the triangle
	T        float32
	Point    math.Vec3
}

// Pick returns the nearest front-face hit of r over meshes.
// Meshes whose bounds the ray misses are skipped.
func Pick(meshes []*strip.Mesh, r Ray) (Hit, bool) {
	var best Hit
	found := false

	for mi, m := range meshes {
		if m == nil || len(m.Indices) == 0 {
			continue
		}
		if _, ok := r.IntersectBounds(m.Bounds); !ok {
			continue
		}

		indices := m.Indices
		if m.SideIndexCount > 0 && m.SideIndexCount <= len(indices) {
			indices = indices[:m.SideIndexCount]
		}
		for i := 0; i+2 < len(indices); i += 3 {
			a := position(m, indices[i])
			b := position(m, indices[i+1])
			c := position(m, indices[i+2])
			t, ok := r.IntersectTriangle(a, b, c)
			if !ok || (found && t >= best.T) {
				continue
			}
			best = Hit{Mesh: mi, Triangle: i, T: t}
			found = true
		}
	}

	if found {
		best.Point = r.At(best.T)
	}
	return best, found
}

// OnStrip reports whether the vertical line through (x, z) crosses the
// surface of out, and the height of the highest crossing.
func OnStrip(out *strip.Output, x, z float32) (float32, bool) {
	if out == nil {
		return 0, false
	}
	top := float32(0)
	seen := false
	for _, m := range out.Surface {
		if m != nil && len(m.Vertices) > 0 && (!seen || m.Bounds.Max[1] > top) {
			top = m.Bounds.Max[1]
			seen = true
		}
	}
	if !seen {
		return 0, false
	}

	hit, ok := Pick(out.Surface, Down(x, z, top+1))
	if !ok {
		return 0, false
	}
	return hit.Point.Y, true
}

func position(m *strip.Mesh, i uint32) math.Vec3 {
	p := m.Vertices[i].Position
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}
