package math

import "github.com/chewxy/math32"

// Quat is a rotation quaternion. W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns the rotation that leaves vectors unchanged.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle rotates by angle radians about a unit axis.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	s, c := math32.Sincos(angle / 2)
	return Quat{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: c}
}

// QuatFromAxisDegrees is QuatFromAxisAngle with the angle in degrees.
// Roll values on waypoints are stored in degrees.
func QuatFromAxisDegrees(axis Vec3, deg float32) Quat {
	return QuatFromAxisAngle(axis, Radians(deg))
}

// Mul returns the rotation q applied after other.
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}
