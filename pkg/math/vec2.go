package math

// Vec2 is a point or extent on the ground plane. Y holds the world Z
// coordinate when the value comes from Vec3.XZ.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return Sqrt(v.X*v.X + v.Y*v.Y)
}

// Min returns the component-wise minimum.
func (v Vec2) Min(other Vec2) Vec2 {
	return Vec2{min(v.X, other.X), min(v.Y, other.Y)}
}

// Max returns the component-wise maximum.
func (v Vec2) Max(other Vec2) Vec2 {
	return Vec2{max(v.X, other.X), max(v.Y, other.Y)}
}

// Lift returns the 3D point (X, y, Y).
func (v Vec2) Lift(y float32) Vec3 {
	return Vec3{X: v.X, Y: y, Z: v.Y}
}
