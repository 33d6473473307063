package strip

import "github.com/Faultbox/midgard-path/pkg/math"

// RecalculateNormals rebuilds vertex normals from the front faces, weighting
// each triangle by its area. On a closed strip each seam vertex is averaged
// with its partner at the other end of the loop; hard edges between faces of
// a base stay hard.
func (m *Mesh) RecalculateNormals() {
	sum := make([]math.Vec3, len(m.Vertices))
	indices := m.Indices
	if m.SideIndexCount > 0 && m.SideIndexCount <= len(indices) {
		indices = indices[:m.SideIndexCount]
	}
	for t := 0; t+2 < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		p0 := vec(m.Vertices[i0].Position)
		p1 := vec(m.Vertices[i1].Position)
		p2 := vec(m.Vertices[i2].Position)

		// Unnormalized cross product is twice the triangle area.
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		sum[i0] = sum[i0].Add(n)
		sum[i1] = sum[i1].Add(n)
		sum[i2] = sum[i2].Add(n)
	}
	vpp := m.VerticesPerPoint
	if m.Closed && vpp > 0 && len(m.Vertices) >= 2*vpp {
		last := len(m.Vertices) - vpp
		for k := 0; k < vpp; k++ {
			n := sum[k].Add(sum[last+k])
			sum[k], sum[last+k] = n, n
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = sum[i].Normalize().Array()
	}
	m.HasNormals = true
}

// SmoothNormals averages normals of vertices sharing the same position.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	// Group vertices by quantized position for O(n) lookup
	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		key := [3]int32{
			int32(math.Round(vertices[i].Position[0] / epsilon)),
			int32(math.Round(vertices[i].Position[1] / epsilon)),
			int32(math.Round(vertices[i].Position[2] / epsilon)),
		}
		posMap[key] = append(posMap[key], i)
	}

	// Average normals for vertices at same position
	for _, indices := range posMap {
		if len(indices) < 2 {
			continue
		}

		var sum math.Vec3
		for _, idx := range indices {
			sum = sum.Add(vec(vertices[idx].Normal))
		}

		avg := sum.Normalize().Array()
		for _, idx := range indices {
			vertices[idx].Normal = avg
		}
	}
}

func vec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
