// Package picking casts rays against strip meshes.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-path/internal/engine/strip"
	"github.com/Faultbox/midgard-path/pkg/math"
)

const parallelEpsilon = 1e-6

// Ray represents a ray in 3D space.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized
}

// NewRay creates a ray, normalizing the direction.
func NewRay(origin, direction math.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// Down returns a ray pointing straight down from (x, fromY, z).
func Down(x, z, fromY float32) Ray {
	return Ray{Origin: math.Vec3{X: x, Y: fromY, Z: z}, Direction: math.Vec3{Y: -1}}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
// Returns the intersection point (X, Z) and whether the intersection is valid.
func (r Ray) IntersectPlaneY(planeY float32) (x, z float32, ok bool) {
	if math.Abs(r.Direction.Y) < 0.001 {
		return 0, 0, false
	}

	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return 0, 0, false // behind origin
	}
	return r.Origin.X + t*r.Direction.X, r.Origin.Z + t*r.Direction.Z, true
}

// IntersectBounds tests the ray against a mesh bounding box.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectBounds(box strip.Bounds) (t float32, hit bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < box.Min[axis] || origin[axis] > box.Max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[axis] - origin[axis]) / dir[axis]
		t2 := (box.Max[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectTriangle returns the ray distance to triangle (a, b, c).
// Both windings are hit.
func (r Ray) IntersectTriangle(a, b, c math.Vec3) (t float32, hit bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < parallelEpsilon {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t = e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}
