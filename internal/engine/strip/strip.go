package strip

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-path/internal/engine/offset"
	"github.com/Faultbox/midgard-path/internal/engine/path"
	"github.com/Faultbox/midgard-path/internal/engine/terrain"
	"github.com/Faultbox/midgard-path/pkg/math"
)

// BuildStrip triangulates the band between two edge curves.
// Each point contributes two vertices (left, then right) and each consecutive
// pair of points a quad of two triangles, counter-clockwise seen from above.
// Curves shorter than two points give no mesh.
func BuildStrip(left, right []math.Vec3, distances []float32, cfg path.Config, surface *terrain.Surface) ([]*Mesh, error) {
	if len(left) != len(right) || len(left) != len(distances) {
		err := fmt.Errorf("%w: left %d, right %d, distances %d",
			ErrGeometryMismatch, len(left), len(right), len(distances))
		lg().Warn("strip not built", zap.Error(err))
		return nil, err
	}
	if len(left) < 2 {
		return nil, nil
	}

	if cfg.SnapEdgesToTerrain && surface != nil {
		left = snap(left, surface, cfg.TerrainOffset)
		right = snap(right, surface, cfg.TerrainOffset)
	}

	sections := make([][]face, len(left))
	for i := range left {
		sections[i] = []face{{p: left[i], q: right[i]}}
	}
	b := newBand(sections, distances, minWidth(left, right), cfg)
	b.doubleSided = cfg.DoubleSided

	meshes := b.meshes(cfg.VertexLimit)
	lg().Debug("strip built",
		zap.Int("points", len(left)),
		zap.Int("meshes", len(meshes)),
		zap.Bool("double_sided", cfg.DoubleSided),
	)
	return meshes, nil
}

// Build meshes the blend-trimmed part of an edge set: the surface strip between
// the left and right edges, plus the base selected by cfg.Base.
func Build(e *offset.EdgeSet, cfg path.Config, surface *terrain.Surface) (*Output, error) {
	out := &Output{}
	if e.Empty() {
		return out, nil
	}

	var err error
	out.Surface, err = BuildStrip(e.Trimmed(offset.Left), e.Trimmed(offset.Right), e.TrimmedDistances(), cfg, surface)
	if err != nil {
		return &Output{}, err
	}
	if cfg.Base != path.BaseNone {
		out.Base, err = BuildBase(e, cfg, surface)
		if err != nil {
			return &Output{}, err
		}
	}
	return out, nil
}

func snap(points []math.Vec3, surface *terrain.Surface, offset float32) []math.Vec3 {
	out := make([]math.Vec3, len(points))
	for i, p := range points {
		out[i] = surface.Snap(p, offset)
	}
	return out
}
