// Package offset derives edge, surround and border curves from a cached centerline.
//
// Every curve comes from one primitive: a sample point moved along the side
// vector normalize(Up x tangent) by a signed half width. Positive offsets land
// on the right of the direction of travel, negative on the left.
package offset

import (
	"github.com/Faultbox/midgard-path/pkg/math"
)

// DefaultSide is used when no side vector can be derived from a tangent,
// e.g. the first sample of a vertical path. It is Up x (+X).
var DefaultSide = math.Vec3{X: 0, Y: 0, Z: -1}

// Side returns the unit side vector for tangent rotated by rollDeg degrees
// about the tangent. ok is false when the tangent is parallel to Up or zero.
func Side(tangent math.Vec3, rollDeg float32) (side math.Vec3, ok bool) {
	side = math.Up.Cross(tangent).Normalize()
	if side.Length() < 0.5 {
		return math.Vec3{}, false
	}
	return roll(side, tangent, rollDeg), true
}

func roll(side, tangent math.Vec3, rollDeg float32) math.Vec3 {
	if rollDeg == 0 {
		return side
	}
	axis := tangent.Normalize()
	if axis == (math.Vec3{}) {
		return side
	}
	return math.QuatFromAxisDegrees(axis, rollDeg).Rotate(side)
}

// Offset moves center sideways by signedHalfWidth.
// A degenerate tangent leaves center unchanged.
func Offset(center, tangent math.Vec3, signedHalfWidth, rollDeg float32) math.Vec3 {
	side, ok := Side(tangent, rollDeg)
	if !ok {
		return center
	}
	return center.Add(side.Scale(signedHalfWidth))
}

// Tangents returns the unit direction of travel at each point: a centered
// difference inside, one-sided at the ends of an open path. A closed circuit
// (last point repeating the first) uses the wrapped neighbours at the seam so
// both ends agree.
func Tangents(points []math.Vec3, closed bool) []math.Vec3 {
	n := len(points)
	out := make([]math.Vec3, n)
	if n < 2 {
		return out
	}
	for i := 1; i < n-1; i++ {
		out[i] = points[i+1].Sub(points[i-1]).Normalize()
	}
	if closed && n > 2 {
		seam := points[1].Sub(points[n-2]).Normalize()
		out[0], out[n-1] = seam, seam
		return out
	}
	out[0] = points[1].Sub(points[0]).Normalize()
	out[n-1] = points[n-1].Sub(points[n-2]).Normalize()
	return out
}

// Sides returns the side vector at every sample with rolls applied.
// Degenerate tangents reuse the previous side vector.
func Sides(tangents []math.Vec3, rolls []float32) []math.Vec3 {
	out := make([]math.Vec3, len(tangents))
	prev := DefaultSide
	for i, t := range tangents {
		var r float32
		if i < len(rolls) {
			r = rolls[i]
		}
		if s, ok := Side(t, 0); ok {
			prev = s
		}
		out[i] = roll(prev, t, r)
	}
	return out
}
