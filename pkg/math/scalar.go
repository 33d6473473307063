// Package math provides float32 vector types and helpers for path geometry.
package math

import "github.com/chewxy/math32"

// Epsilon is the tolerance used when comparing positions for equality.
const Epsilon float32 = 1e-5

// Sqrt returns the square root of x.
func Sqrt(x float32) float32 {
	return math32.Sqrt(x)
}

// Abs returns the absolute value of x.
func Abs(x float32) float32 {
	return math32.Abs(x)
}

// Ceil returns the least integer value greater than or equal to x.
func Ceil(x float32) float32 {
	return math32.Ceil(x)
}

// Floor returns the greatest integer value less than or equal to x.
func Floor(x float32) float32 {
	return math32.Floor(x)
}

// Mod returns the floating-point remainder of x/y with the sign of x.
func Mod(x, y float32) float32 {
	return math32.Mod(x, y)
}

// IsNaN reports whether x is not a number.
func IsNaN(x float32) bool {
	return math32.IsNaN(x)
}

// IsInf reports whether x is an infinity of either sign.
func IsInf(x float32) bool {
	return math32.IsInf(x, 0)
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Clamp restricts v to the range [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round returns x rounded to the nearest integer, half away from zero.
func Round(x float32) float32 {
	return math32.Round(x)
}
