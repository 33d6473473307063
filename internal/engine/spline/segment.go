package spline

import (
	"github.com/Faultbox/midgard-path/pkg/math"
)

// Arc-length measurement and inversion limits.
const (
	LengthSteps            = 100  // Chords summed by MeasureSegmentLength
	MaxInversionIterations = 1000 // Cap on distance->t correction steps
	InversionTolerance     = 1e-3 // Stop when an iterate moves less than this
)

// Segment is one cubic piece of the curve between two consecutive waypoints,
// stored in power form: P(t) = A + B*t + C*t^2 + D*t^3 for t in [0, 1].
type Segment struct {
	A, B, C, D math.Vec3
	Length     float32 // Chord-sum estimate over [0, 1]
}

// CatmullRomSegment builds the uniform Catmull-Rom segment running from p2 to p3.
func CatmullRomSegment(p1, p2, p3, p4 math.Vec3) Segment {
	return HermiteSegment(p2, p3, p3.Sub(p1).Scale(0.5), p4.Sub(p2).Scale(0.5))
}

// HermiteSegment builds a cubic from end points p2, p3 and their tangents m2, m3.
// With m2 = (p3-p1)/2 and m3 = (p4-p2)/2 this is exactly the Catmull-Rom polynomial
// 0.5 * [2p2 + (-p1+p3)t + (2p1-5p2+4p3-p4)t^2 + (-p1+3p2-3p3+p4)t^3].
func HermiteSegment(p2, p3, m2, m3 math.Vec3) Segment {
	s := Segment{
		A: p2,
		B: m2,
		C: p3.Sub(p2).Scale(3).Sub(m2.Scale(2)).Sub(m3),
		D: p2.Sub(p3).Scale(2).Add(m2).Add(m3),
	}
	s.Length = MeasureSegmentLength(s, 0, 1)
	return s
}

// Point evaluates the segment at t.
func (s Segment) Point(t float32) math.Vec3 {
	return s.A.Add(s.B.Add(s.C.Add(s.D.Scale(t)).Scale(t)).Scale(t))
}

// Derivative evaluates dP/dt at t.
func (s Segment) Derivative(t float32) math.Vec3 {
	return s.B.Add(s.C.Scale(2 * t)).Add(s.D.Scale(3 * t * t))
}

// MeasureSegmentLength estimates the arc length between t0 and t1 by summing
// the chords of LengthSteps uniform sub-intervals.
func MeasureSegmentLength(s Segment, t0, t1 float32) float32 {
	if t1 == t0 {
		return 0
	}
	dt := (t1 - t0) / LengthSteps
	var length float32
	prev := s.Point(t0)
	for i := 1; i <= LengthSteps; i++ {
		p := s.Point(t0 + dt*float32(i))
		length += p.Distance(prev)
		prev = p
	}
	return length
}

// ParamAtDistance inverts arc length: it returns the t at which the curve has
// travelled d from the segment start. The estimate starts from the linear guess
// d/Length and is corrected by t += (d - length(0, t)) / Length until an iterate
// moves less than InversionTolerance or MaxInversionIterations is reached.
// If an iterate becomes NaN the linear guess is returned and diverged is true.
func (s Segment) ParamAtDistance(d float32) (t float32, diverged bool) {
	if s.Length <= 0 {
		return 0, false
	}
	guess := d / s.Length
	t = guess
	for range MaxInversionIterations {
		next := t + (d-MeasureSegmentLength(s, 0, t))/s.Length
		if math.IsNaN(next) || math.IsInf(next) {
			return guess, true
		}
		delta := math.Abs(next - t)
		t = next
		if delta < InversionTolerance {
			break
		}
	}
	return math.Clamp(t, 0, 1), false
}

// CatmullRom evaluates the uniform Catmull-Rom polynomial through p2 (t=0) and p3 (t=1).
func CatmullRom(p1, p2, p3, p4 math.Vec3, t float32) math.Vec3 {
	if t == 0 {
		return p2
	}
	if t == 1 {
		return p3
	}
	t2 := t * t
	t3 := t2 * t
	return p2.Scale(2).
		Add(p3.Sub(p1).Scale(t)).
		Add(p1.Scale(2).Sub(p2.Scale(5)).Add(p3.Scale(4)).Sub(p4).Scale(t2)).
		Add(p1.Neg().Add(p2.Scale(3)).Sub(p3.Scale(3)).Add(p4).Scale(t3)).
		Scale(0.5)
}

// CatmullRomDerivative evaluates dP/dt of the Catmull-Rom polynomial.
func CatmullRomDerivative(p1, p2, p3, p4 math.Vec3, t float32) math.Vec3 {
	t2 := t * t
	return p3.Sub(p1).
		Add(p1.Scale(2).Sub(p2.Scale(5)).Add(p3.Scale(4)).Sub(p4).Scale(2 * t)).
		Add(p1.Neg().Add(p2.Scale(3)).Sub(p3.Scale(3)).Add(p4).Scale(3 * t2)).
		Scale(0.5)
}
