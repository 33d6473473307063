package frame

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-path/internal/engine/path"
	"github.com/Faultbox/midgard-path/internal/engine/query"
	"github.com/Faultbox/midgard-path/internal/engine/strip"
	"github.com/Faultbox/midgard-path/internal/engine/terrain"
	"github.com/Faultbox/midgard-path/pkg/math"
)

// State is the rebuild state of a Builder.
type State int

// Builder states.
const (
	Idle State = iota
	Building
)

func (s State) String() string {
	if s == Building {
		return "building"
	}
	return "idle"
}

// Builder rebuilds a frame from a path model. Calls that arrive while a
// rebuild is running (e.g. from a terrain sampler or the OnRebuilt hook) do
// nothing and return nil.
type Builder struct {
	Model *path.Model

	// OnRebuilt is called after a successful Refresh, before the builder
	// returns to Idle.
	OnRebuilt func(f *Frame)

	config  path.Config
	surface *terrain.Surface
	frame   *Frame
	state   State
}

// NewBuilder creates a builder for model. surface may be nil.
func NewBuilder(model *path.Model, cfg path.Config, surface *terrain.Surface) *Builder {
	return &Builder{
		Model:   model,
		config:  cfg,
		surface: surface,
		frame:   NewFrame(),
	}
}

// Config returns the settings the next rebuild uses.
func (b *Builder) Config() path.Config {
	return b.config
}

// SetConfig replaces the build settings. The model cache becomes stale, so
// queries and mesh builds fail until the next rebuild.
func (b *Builder) SetConfig(cfg path.Config) {
	b.config = cfg
	b.Model.Invalidate()
}

// Surface returns the terrain surface, nil when there is none.
func (b *Builder) Surface() *terrain.Surface {
	return b.surface
}

// SetSurface replaces the terrain surface and marks the cache stale.
func (b *Builder) SetSurface(s *terrain.Surface) {
	b.surface = s
	b.Model.Invalidate()
}

// State returns the current rebuild state.
func (b *Builder) State() State {
	return b.state
}

// Frame returns the current frame.
func (b *Builder) Frame() *Frame {
	return b.frame
}

func (b *Builder) enter(op string) bool {
	if b.state == Building {
		lg().Debug("ignoring re-entrant call", zap.String("op", op))
		return false
	}
	b.state = Building
	return true
}

func (b *Builder) leave() {
	b.state = Idle
}

// RebuildCache resamples the model. Edges are cleared until the next Refresh.
func (b *Builder) RebuildCache() error {
	if !b.enter("rebuild cache") {
		return nil
	}
	defer b.leave()

	if err := b.frame.rebuildCache(b.Model.Waypoints(), b.config); err != nil {
		return err
	}
	b.Model.MarkCacheValid()
	return nil
}

// Refresh resamples the model and rebuilds every derived curve.
func (b *Builder) Refresh() error {
	if !b.enter("refresh") {
		return nil
	}
	defer b.leave()

	m := b.Model
	if err := b.frame.rebuild(m.Waypoints(), m.Widths(), m.Rolls(), b.config, b.surface); err != nil {
		return err
	}
	m.MarkCacheValid()

	if b.frame.Valid() {
		lg().Debug("frame refreshed",
			zap.Int("samples", b.frame.Cache.Len()),
			zap.Float32("length", b.frame.Cache.TotalLength),
		)
	}
	if b.OnRebuilt != nil {
		b.OnRebuilt(b.frame)
	}
	return nil
}

func (b *Builder) checkFresh(op string) error {
	if !b.Model.CacheValid() {
		return fmt.Errorf("%w: %s on a stale cache, rebuild first", path.ErrInvalidState, op)
	}
	if !b.frame.Valid() {
		return fmt.Errorf("%w: %s on an empty frame", path.ErrInvalidState, op)
	}
	return nil
}

// Query returns the centerline point and tangent at distance d.
func (b *Builder) Query(d float32, mode query.Mode) (position, tangent math.Vec3, err error) {
	if err := b.checkFresh("query"); err != nil {
		return math.Vec3{}, math.Vec3{}, err
	}
	position, tangent = query.Query(b.frame.Cache, d, mode)
	return position, tangent, nil
}

// BuildStripMesh triangulates the current frame. Edges are built on demand
// when only the cache was rebuilt.
func (b *Builder) BuildStripMesh() (*strip.Output, error) {
	if err := b.checkFresh("build strip mesh"); err != nil {
		return nil, err
	}
	if !b.frame.HasEdges() {
		if err := b.Refresh(); err != nil {
			return nil, err
		}
		if !b.frame.HasEdges() {
			return nil, fmt.Errorf("%w: no edges to mesh", path.ErrInvalidState)
		}
	}
	return strip.Build(b.frame.Edges, b.config, b.surface)
}
