// Package strip triangulates offset curves into renderable strip meshes.
package strip

import "errors"

// MaxVertices is the vertex ceiling of a single mesh (16-bit index range).
const MaxVertices = 65536

// ErrGeometryMismatch is returned when edge curves and distances differ in length.
var ErrGeometryMismatch = errors.New("edge curves differ in length")

// Vertex represents a strip mesh vertex with all attributes.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Tangent  [4]float32 // Direction of travel, W is the bitangent sign
	TexCoord [2]float32
	Color    [4]float32
}

// Mesh holds one strip ready for upload or export.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds

	// HasNormals is false when normals were left for RecalculateNormals.
	HasNormals bool

	// SideIndexCount is the number of indices of the front faces. Double-sided
	// meshes append the same triangles reversed after them. The back triangles
	// reuse the front vertices, so they carry the front normals; shade them
	// with a flipped normal or two-sided lighting.
	SideIndexCount int

	// VerticesPerPoint is the size of one cross-section: 2 for a surface
	// strip, 2 per face for a base.
	VerticesPerPoint int

	// Closed marks a strip whose first and last cross-sections coincide.
	Closed bool
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Triangles returns the number of triangles in the mesh.
func (m *Mesh) Triangles() int {
	return len(m.Indices) / 3
}

// Output is the result of a full build: the surface strip and the optional base.
type Output struct {
	Surface []*Mesh
	Base    []*Mesh
}

// Meshes returns surface meshes followed by base meshes.
func (o *Output) Meshes() []*Mesh {
	if o == nil {
		return nil
	}
	out := make([]*Mesh, 0, len(o.Surface)+len(o.Base))
	out = append(out, o.Surface...)
	return append(out, o.Base...)
}

// VertexCount returns the total number of vertices over all meshes.
func (o *Output) VertexCount() int {
	n := 0
	for _, m := range o.Meshes() {
		n += len(m.Vertices)
	}
	return n
}

var white = [4]float32{1, 1, 1, 1}

func updateBounds(b *Bounds, p [3]float32) {
	for i := range 3 {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
