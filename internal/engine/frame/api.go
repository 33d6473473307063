package frame

import (
	"github.com/Faultbox/midgard-path/internal/engine/offset"
	"github.com/Faultbox/midgard-path/internal/engine/path"
	"github.com/Faultbox/midgard-path/internal/engine/query"
	"github.com/Faultbox/midgard-path/internal/engine/strip"
	"github.com/Faultbox/midgard-path/internal/engine/terrain"
	"github.com/Faultbox/midgard-path/pkg/math"
)

// RebuildCache samples waypoints into a new frame. It depends only on its
// inputs. Too few waypoints give an invalid frame and no error.
func RebuildCache(waypoints []path.Waypoint, cfg path.Config) (*Frame, error) {
	f := NewFrame()
	return f, f.rebuildCache(waypoints, cfg)
}

// Query returns the point and tangent at distance d on h.
// An invalid frame yields zero vectors.
func Query(h *Frame, d float32, mode query.Mode) (position, tangent math.Vec3) {
	if !h.Valid() {
		return math.Vec3{}, math.Vec3{}
	}
	return query.Query(h.Cache, d, mode)
}

// BuildEdges derives the edge set of h with widths and rolls from fn.
func BuildEdges(h *Frame, fn offset.WidthFunc, cfg path.Config, surface *terrain.Surface) (*offset.EdgeSet, error) {
	if !h.Valid() {
		return &offset.EdgeSet{}, nil
	}
	return offset.BuildFunc(h.Cache, fn, cfg, surface)
}

// BuildStripMesh triangulates an edge set.
func BuildStripMesh(e *offset.EdgeSet, cfg path.Config, surface *terrain.Surface) (*strip.Output, error) {
	return strip.Build(e, cfg, surface)
}
