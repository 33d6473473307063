package strip

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-path/internal/engine/offset"
	"github.com/Faultbox/midgard-path/internal/engine/path"
	"github.com/Faultbox/midgard-path/internal/engine/terrain"
	"github.com/Faultbox/midgard-path/pkg/math"
)

// baseTemplate produces the cross-section of a base mesh at one point.
// Faces run around the underside so every face's front looks outward.
type baseTemplate interface {
	faces() int
	section(i int) []face
}

// narrowBase hangs walls and a floor below the inset border curves.
// 3 faces, 6 vertices per point.
type narrowBase struct {
	borderLeft, borderRight []math.Vec3
	depth                   math.Vec3
}

func (t narrowBase) faces() int { return 3 }

func (t narrowBase) section(i int) []face {
	bl, br := t.borderLeft[i], t.borderRight[i]
	return []face{
		{p: br, q: br.Add(t.depth)},              // right wall
		{p: br.Add(t.depth), q: bl.Add(t.depth)}, // floor
		{p: bl.Add(t.depth), q: bl},              // left wall
	}
}

// wideBase adds shoulders from the border curves out to the path edges and
// hangs its walls below the edges. 5 faces, 10 vertices per point.
type wideBase struct {
	left, right             []math.Vec3
	borderLeft, borderRight []math.Vec3
	depth                   math.Vec3
}

func (t wideBase) faces() int { return 5 }

func (t wideBase) section(i int) []face {
	l, r := t.left[i], t.right[i]
	bl, br := t.borderLeft[i], t.borderRight[i]
	return []face{
		{p: br, q: r},                          // right shoulder
		{p: r, q: r.Add(t.depth)},              // right wall
		{p: r.Add(t.depth), q: l.Add(t.depth)}, // floor
		{p: l.Add(t.depth), q: l},              // left wall
		{p: l, q: bl},                          // left shoulder
	}
}

// BuildBase extrudes the base selected by cfg.Base below the trimmed edge set
// by cfg.BaseThickness.
func BuildBase(e *offset.EdgeSet, cfg path.Config, surface *terrain.Surface) ([]*Mesh, error) {
	start, end := e.MeshRange()
	if cfg.Base == path.BaseNone || start == end {
		return nil, nil
	}
	curves := make(map[offset.Kind][]math.Vec3, 4)
	for _, k := range []offset.Kind{offset.Left, offset.Right, offset.BorderLeft, offset.BorderRight} {
		c := e.Trimmed(k)
		if len(c) != end-start {
			err := fmt.Errorf("%w: %s curve has %d points, want %d", ErrGeometryMismatch, k, len(c), end-start)
			lg().Warn("base not built", zap.Error(err))
			return nil, err
		}
		if cfg.SnapEdgesToTerrain && surface != nil {
			c = snap(c, surface, cfg.TerrainOffset)
		}
		curves[k] = c
	}

	depth := math.Up.Scale(-cfg.BaseThickness)
	var tmpl baseTemplate
	switch cfg.Base {
	case path.BaseWide:
		tmpl = wideBase{
			left: curves[offset.Left], right: curves[offset.Right],
			borderLeft: curves[offset.BorderLeft], borderRight: curves[offset.BorderRight],
			depth: depth,
		}
	default:
		tmpl = narrowBase{
			borderLeft: curves[offset.BorderLeft], borderRight: curves[offset.BorderRight],
			depth: depth,
		}
	}

	n := end - start
	sections := make([][]face, n)
	for i := range sections {
		sections[i] = tmpl.section(i)
	}
	b := newBand(sections, e.TrimmedDistances(), minWidth(curves[offset.Left], curves[offset.Right]), cfg)

	meshes := b.meshes(cfg.VertexLimit)
	lg().Debug("base built",
		zap.Stringer("mode", cfg.Base),
		zap.Int("points", n),
		zap.Int("faces", tmpl.faces()),
		zap.Int("meshes", len(meshes)),
	)
	return meshes, nil
}
