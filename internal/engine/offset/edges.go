package offset

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-path/internal/engine/path"
	"github.com/Faultbox/midgard-path/internal/engine/query"
	"github.com/Faultbox/midgard-path/internal/engine/spline"
	"github.com/Faultbox/midgard-path/internal/engine/terrain"
	"github.com/Faultbox/midgard-path/internal/logger"
	"github.com/Faultbox/midgard-path/pkg/math"
)

// Kind identifies one of the derived curves.
type Kind int

// Curve kinds.
const (
	Left Kind = iota
	Right
	SurroundLeft
	SurroundRight
	BorderLeft
	BorderRight

	NumKinds
)

var kindNames = [NumKinds]string{
	"left", "right", "surround-left", "surround-right", "border-left", "border-right",
}

func (k Kind) String() string {
	if k < 0 || k >= NumKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Curve is one offset point per cached sample.
type Curve []math.Vec3

// WidthFunc returns the full width and roll (degrees) at distance d.
type WidthFunc func(d float32) (width, rollDeg float32)

// EdgeSet holds every derived curve for one cache, aligned with its samples.
type EdgeSet struct {
	Curves    [NumKinds]Curve
	Center    []math.Vec3
	Tangents  []math.Vec3
	Sides     []math.Vec3
	Widths    []float32
	Distances []float32
	Closed    bool

	// Samples dropped from each end by the blend flags.
	TrimStart int
	TrimEnd   int
}

// Len returns the number of samples per curve.
func (e *EdgeSet) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Center)
}

// Empty reports whether the set holds no curves.
func (e *EdgeSet) Empty() bool {
	return e.Len() == 0
}

// Curve returns the full curve of kind k.
func (e *EdgeSet) Curve(k Kind) Curve {
	if e == nil || k < 0 || k >= NumKinds {
		return nil
	}
	return e.Curves[k]
}

// MeshRange returns the half-open sample range used for meshing after blend
// trimming. It is empty when fewer than two samples remain.
func (e *EdgeSet) MeshRange() (start, end int) {
	start, end = e.TrimStart, e.Len()-e.TrimEnd
	if end-start < 2 {
		return 0, 0
	}
	return start, end
}

// Trimmed returns the meshed part of curve k. The slice shares storage with the set.
func (e *EdgeSet) Trimmed(k Kind) Curve {
	start, end := e.MeshRange()
	if start == end {
		return nil
	}
	return e.Curves[k][start:end]
}

// TrimmedDistances returns the sample distances of the meshed part.
func (e *EdgeSet) TrimmedDistances() []float32 {
	start, end := e.MeshRange()
	if start == end {
		return nil
	}
	return e.Distances[start:end]
}

// Build derives all curves from c using per-waypoint widths and rolls.
// widths must hold one value per user waypoint; rolls may be nil.
// A length mismatch gives an empty set and an error wrapping path.ErrInvalidState.
func Build(c *spline.Cache, widths, rolls []float32, cfg path.Config, surface *terrain.Surface) (*EdgeSet, error) {
	if c.Empty() {
		return &EdgeSet{}, nil
	}
	count := UserWaypoints(c)
	if len(widths) != count {
		err := fmt.Errorf("%w: %d widths for %d waypoints", path.ErrInvalidState, len(widths), count)
		lg().Warn("edges not built", zap.Error(err))
		return &EdgeSet{}, err
	}
	if rolls != nil && len(rolls) != count {
		err := fmt.Errorf("%w: %d rolls for %d waypoints", path.ErrInvalidState, len(rolls), count)
		lg().Warn("edges not built", zap.Error(err))
		return &EdgeSet{}, err
	}

	fn := func(d float32) (float32, float32) {
		var r float32
		if rolls != nil {
			r = query.RollAt(c, rolls, d)
		}
		return query.WidthAt(c, widths, d), r
	}
	return BuildFunc(c, fn, cfg, surface)
}

// BuildFunc derives all curves from c with widths and rolls supplied by fn.
func BuildFunc(c *spline.Cache, fn WidthFunc, cfg path.Config, surface *terrain.Surface) (*EdgeSet, error) {
	if c.Empty() {
		return &EdgeSet{}, nil
	}
	n := c.Len()
	e := &EdgeSet{
		Center:    c.Points(),
		Distances: c.Distances(),
		Widths:    make([]float32, n),
		Closed:    c.Closed,
	}
	rolls := make([]float32, n)
	for i, d := range e.Distances {
		w, r := fn(d)
		if w < 0 || math.IsNaN(w) {
			w = 0
		}
		e.Widths[i], rolls[i] = w, r
	}
	e.Tangents = Tangents(e.Center, c.Closed)
	e.Sides = Sides(e.Tangents, rolls)

	for k := range e.Curves {
		e.Curves[k] = make(Curve, n)
	}
	for i, p := range e.Center {
		side := e.Sides[i]
		half := e.Widths[i] / 2
		at := func(signed float32) math.Vec3 { return p.Add(side.Scale(signed)) }

		e.Curves[Left][i] = at(-half)
		e.Curves[Right][i] = at(half)
		e.Curves[SurroundLeft][i] = at(-(half + cfg.EdgeBlendWidth))
		e.Curves[SurroundRight][i] = at(half + cfg.EdgeBlendWidth)
		e.Curves[BorderLeft][i] = at(-max(half-cfg.BorderLeft, 0))
		e.Curves[BorderRight][i] = at(max(half-cfg.BorderRight, 0))
	}

	if cfg.SnapSurroundToTerrain && surface != nil {
		for _, k := range []Kind{SurroundLeft, SurroundRight} {
			for i, p := range e.Curves[k] {
				e.Curves[k][i] = surface.Snap(p, cfg.TerrainOffset)
			}
		}
	}

	e.applyTrim(cfg)
	return e, nil
}

// applyTrim sets the blend trim counts. Closed circuits have no ends to blend.
func (e *EdgeSet) applyTrim(cfg path.Config) {
	if e.Closed || cfg.Resolution <= 0 {
		return
	}
	trim := int(math.Ceil(cfg.EdgeBlendWidth / cfg.Resolution))
	if cfg.BlendStart {
		e.TrimStart = trim
	}
	if cfg.BlendEnd {
		e.TrimEnd = trim
	}
	if start, end := e.MeshRange(); start == end {
		lg().Warn("blend trim leaves no mesh",
			zap.Int("samples", e.Len()),
			zap.Int("trim_start", e.TrimStart),
			zap.Int("trim_end", e.TrimEnd),
			zap.Error(path.ErrInvalidState),
		)
	}
}

// UserWaypoints returns the number of waypoints the cache was built from,
// not counting the closing duplicate of a circuit.
func UserWaypoints(c *spline.Cache) int {
	n := len(c.WaypointDistances)
	if c.ClosingDuplicate {
		n--
	}
	return n
}

func lg() *zap.Logger {
	return logger.Named("offset")
}
