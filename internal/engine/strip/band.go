package strip

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-path/internal/engine/path"
	"github.com/Faultbox/midgard-path/internal/logger"
	"github.com/Faultbox/midgard-path/pkg/math"
)

// face is one pair of profile points at a sample; consecutive samples of the
// same face form a quad strip whose front side is forward x (q - p).
type face struct {
	p, q math.Vec3
}

// band is a run of cross-sections with the same number of faces, meshed as
// one or more quad strips.
type band struct {
	sections  [][]face
	distances []float32
	faces     int

	doubleSided bool
	closed      bool
	normals     bool

	uvMode   path.UVMode
	swapUV   bool
	uvScale  float32 // 1 / minimum surface width
	uvBounds path.Bounds
}

func newBand(sections [][]face, distances []float32, width float32, cfg path.Config) *band {
	b := &band{
		sections:  sections,
		distances: distances,
		faces:     len(sections[0]),
		normals:   cfg.NormalMode == path.NormalComputed,
		uvMode:    cfg.UVMode,
		swapUV:    cfg.SwapUV,
		uvScale:   1,
	}
	if width > 0 {
		b.uvScale = 1 / width
	}

	n := len(sections)
	b.closed = cfg.Closed && n > 2 && b.mid(0, 0).ApproxEqual(b.mid(n-1, 0), 1e-4)

	if cfg.UVBounds != nil {
		b.uvBounds = *cfg.UVBounds
	} else {
		b.uvBounds = b.extent()
	}
	return b
}

// extent returns the XZ rectangle enclosing every profile point.
func (b *band) extent() path.Bounds {
	first := b.sections[0][0].p
	r := path.Bounds{MinX: first.X, MinZ: first.Z, MaxX: first.X, MaxZ: first.Z}
	for _, sec := range b.sections {
		for _, f := range sec {
			for _, p := range [2]math.Vec3{f.p, f.q} {
				r.MinX, r.MaxX = min(r.MinX, p.X), max(r.MaxX, p.X)
				r.MinZ, r.MaxZ = min(r.MinZ, p.Z), max(r.MaxZ, p.Z)
			}
		}
	}
	return r
}

func (b *band) mid(i, f int) math.Vec3 {
	fc := b.sections[i][f]
	return fc.p.Add(fc.q).Scale(0.5)
}

// forward is the direction of travel of face f at point i.
func (b *band) forward(i, f int) math.Vec3 {
	n := len(b.sections)
	prev, next := i-1, i+1
	if b.closed {
		// Last point repeats the first.
		if prev < 0 {
			prev = n - 2
		}
		if next >= n {
			next = 1
		}
	}
	prev, next = max(prev, 0), min(next, n-1)
	return b.mid(next, f).Sub(b.mid(prev, f)).Normalize()
}

func (b *band) uv(pos math.Vec3, along, across float32) [2]float32 {
	u, v := along, across
	if b.uvMode == path.UVLandscape {
		u = ratio(pos.X-b.uvBounds.MinX, b.uvBounds.MaxX-b.uvBounds.MinX)
		v = ratio(pos.Z-b.uvBounds.MinZ, b.uvBounds.MaxZ-b.uvBounds.MinZ)
	}
	if b.swapUV {
		u, v = v, u
	}
	return [2]float32{u, v}
}

func ratio(x, span float32) float32 {
	if span <= 0 {
		return 0
	}
	return x / span
}

func (b *band) verticesPerPoint() int {
	return b.faces * 2
}

// meshes splits the band according to the vertex ceiling and policy.
func (b *band) meshes(policy path.VertexLimitPolicy) []*Mesh {
	var out []*Mesh
	for _, r := range chunks(len(b.sections), MaxVertices/b.verticesPerPoint(), policy) {
		out = append(out, b.mesh(r[0], r[1]))
	}
	return out
}

// mesh triangulates points [start, end).
func (b *band) mesh(start, end int) *Mesh {
	count := end - start
	vpp := b.verticesPerPoint()
	m := &Mesh{
		Vertices:   make([]Vertex, 0, count*vpp),
		HasNormals: b.normals,

		VerticesPerPoint: vpp,
		Closed:           b.closed && start == 0 && end == len(b.sections),
	}

	d0 := b.distances[0]
	for i := start; i < end; i++ {
		along := (b.distances[i] - d0) * b.uvScale
		for f, fc := range b.sections[i] {
			fwd := b.forward(i, f)
			var normal [3]float32
			if b.normals {
				n := fwd.Cross(fc.q.Sub(fc.p)).Normalize()
				if n == (math.Vec3{}) {
					n = math.Up
				}
				normal = n.Array()
			}
			for side, pos := range [2]math.Vec3{fc.p, fc.q} {
				m.Vertices = append(m.Vertices, Vertex{
					Position: pos.Array(),
					Normal:   normal,
					Tangent:  [4]float32{fwd.X, fwd.Y, fwd.Z, 1},
					TexCoord: b.uv(pos, along, float32(side)),
					Color:    white,
				})
			}
		}
	}

	m.Bounds = Bounds{Min: m.Vertices[0].Position, Max: m.Vertices[0].Position}
	for _, v := range m.Vertices[1:] {
		updateBounds(&m.Bounds, v.Position)
	}

	quads := (count - 1) * b.faces
	sides := 1
	if b.doubleSided {
		sides = 2
	}
	m.Indices = make([]uint32, 0, quads*6*sides)
	for j := 0; j < count-1; j++ {
		for f := 0; f < b.faces; f++ {
			a := uint32(j*vpp + f*2)
			c := a + uint32(vpp)
			// a = p_j, a+1 = q_j, c = p_j+1, c+1 = q_j+1
			m.Indices = append(m.Indices,
				a, c, a+1,
				a+1, c, c+1,
			)
		}
	}
	m.SideIndexCount = len(m.Indices)
	if b.doubleSided {
		for t := 0; t < m.SideIndexCount; t += 3 {
			m.Indices = append(m.Indices, m.Indices[t], m.Indices[t+2], m.Indices[t+1])
		}
	}
	return m
}

// chunks returns the point ranges of each mesh. Split ranges share their
// boundary point so the parts join without a gap.
func chunks(n, maxPoints int, policy path.VertexLimitPolicy) [][2]int {
	if n <= maxPoints {
		return [][2]int{{0, n}}
	}
	if policy != path.LimitSplit {
		lg().Warn("vertex ceiling reached, truncating mesh",
			zap.Int("points", n),
			zap.Int("kept", maxPoints),
			zap.Int("max_vertices", MaxVertices),
		)
		return [][2]int{{0, maxPoints}}
	}
	var out [][2]int
	for start := 0; ; start = out[len(out)-1][1] - 1 {
		end := min(start+maxPoints, n)
		out = append(out, [2]int{start, end})
		if end == n {
			break
		}
	}
	lg().Debug("vertex ceiling reached, splitting mesh",
		zap.Int("points", n),
		zap.Int("parts", len(out)),
	)
	return out
}

// minWidth returns the smallest distance between paired edge points, or 0.
func minWidth(left, right []math.Vec3) float32 {
	var w float32
	for i := range left {
		d := left[i].Distance(right[i])
		if d > 0 && (w == 0 || d < w) {
			w = d
		}
	}
	return w
}

func lg() *zap.Logger {
	return logger.Named("strip")
}
