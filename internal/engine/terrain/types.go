// Package terrain adapts external terrain height data for the path engine.
// The engine never reads terrain directly; it asks a Surface for heights only
// when snapping is enabled.
package terrain

import "github.com/Faultbox/midgard-path/pkg/math"

// Sampler returns the normalized terrain height in [0, 1] at a normalized
// position (nx, nz) in [0, 1] x [0, 1].
type Sampler interface {
	Height(nx, nz float32) float32
}

// SamplerFunc adapts a function to the Sampler interface.
type SamplerFunc func(nx, nz float32) float32

// Height calls f(nx, nz).
func (f SamplerFunc) Height(nx, nz float32) float32 {
	return f(nx, nz)
}

// Surface places a Sampler in world space. Origin is the minimum corner of the
// terrain and Size its extent; Size.Y scales normalized heights to world units.
type Surface struct {
	Sampler Sampler
	Origin  math.Vec3
	Size    math.Vec3
}

// NewSurface creates a surface covering [origin, origin+size].
func NewSurface(s Sampler, origin, size math.Vec3) *Surface {
	return &Surface{Sampler: s, Origin: origin, Size: size}
}

// Normalize converts a world XZ position to normalized terrain coordinates.
// Positions outside the terrain are clamped to its edge.
func (s *Surface) Normalize(worldX, worldZ float32) math.Vec2 {
	var n math.Vec2
	if s.Size.X != 0 {
		n.X = math.Clamp((worldX-s.Origin.X)/s.Size.X, 0, 1)
	}
	if s.Size.Z != 0 {
		n.Y = math.Clamp((worldZ-s.Origin.Z)/s.Size.Z, 0, 1)
	}
	return n
}

// HeightAt returns the world-space terrain height under (worldX, worldZ).
func (s *Surface) HeightAt(worldX, worldZ float32) float32 {
	if s == nil || s.Sampler == nil {
		return 0
	}
	n := s.Normalize(worldX, worldZ)
	return s.Origin.Y + s.Sampler.Height(n.X, n.Y)*s.Size.Y
}

// Snap returns p moved onto the terrain, raised by offset.
func (s *Surface) Snap(p math.Vec3, offset float32) math.Vec3 {
	p.Y = s.HeightAt(p.X, p.Z) + offset
	return p
}

// Bounds returns the XZ extent of the terrain.
func (s *Surface) Bounds() (min, max math.Vec2) {
	return s.Origin.XZ(), s.Origin.Add(s.Size).XZ()
}
