// Package frame keeps the cache and every curve derived from it together, and
// rebuilds them as one unit.
package frame

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-path/internal/engine/offset"
	"github.com/Faultbox/midgard-path/internal/engine/path"
	"github.com/Faultbox/midgard-path/internal/engine/spline"
	"github.com/Faultbox/midgard-path/internal/engine/terrain"
	"github.com/Faultbox/midgard-path/internal/logger"
)

// Frame owns the sample cache, the edge set built on it and the arena that
// backs the cache. Slices read from a frame are only valid until its next rebuild.
type Frame struct {
	Cache *spline.Cache
	Edges *offset.EdgeSet

	arena *spline.Arena
	valid bool
}

// NewFrame creates an empty frame with its own arena.
func NewFrame() *Frame {
	return &Frame{arena: spline.NewArena()}
}

// Valid reports whether the last rebuild produced a usable curve.
func (f *Frame) Valid() bool {
	return f != nil && f.valid
}

// HasEdges reports whether the edge set was built with the cache.
func (f *Frame) HasEdges() bool {
	return f.Valid() && !f.Edges.Empty()
}

// Reset empties the frame.
func (f *Frame) Reset() {
	f.Cache = nil
	f.Edges = nil
	f.valid = false
}

// Arena returns the buffer pool backing the cache.
func (f *Frame) Arena() *spline.Arena {
	return f.arena
}

// rebuildCache replaces the frame contents with a new cache. On failure the
// frame is left empty.
func (f *Frame) rebuildCache(waypoints []path.Waypoint, cfg path.Config) error {
	f.Reset()
	if err := cfg.Validate(); err != nil {
		lg().Warn("frame cleared", zap.Error(err))
		return err
	}
	c, err := spline.Build(waypoints, cfg, f.arena)
	if err != nil {
		return err
	}
	f.Cache = c
	f.valid = !c.Empty()
	return nil
}

// rebuild replaces the frame contents with a new cache and edge set.
func (f *Frame) rebuild(waypoints []path.Waypoint, widths, rolls []float32, cfg path.Config, surface *terrain.Surface) error {
	if err := f.rebuildCache(waypoints, cfg); err != nil {
		return err
	}
	if !f.valid {
		return nil
	}
	e, err := offset.Build(f.Cache, widths, rolls, cfg, surface)
	if err != nil {
		f.Reset()
		return err
	}
	f.Edges = e
	return nil
}

func lg() *zap.Logger {
	return logger.Named("frame")
}
