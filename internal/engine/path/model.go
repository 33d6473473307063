// Package path holds the waypoint model of a terrain path and its build settings.
// It is pure data: curve reconstruction lives in the spline package.
package path

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-path/internal/logger"
	"github.com/Faultbox/midgard-path/pkg/math"
)

// MinWaypoints is the smallest waypoint count that describes a curve.
const MinWaypoints = 2

// Waypoint is a user-placed control point.
type Waypoint struct {
	Position math.Vec3 `yaml:"position"`
	Width    float32   `yaml:"width,omitempty"` // Used when the model is width-enabled
	Roll     float32   `yaml:"roll,omitempty"`  // Degrees around the path tangent

	// Tangent overrides the Catmull-Rom tangent at this point when FixedTangent is set.
	Tangent      math.Vec3 `yaml:"tangent,omitempty"`
	FixedTangent bool      `yaml:"fixed_tangent,omitempty"`
}

// Model owns the ordered waypoint list of one path.
// Every edit clears the cache-valid flag; consumers rebuild explicitly.
type Model struct {
	waypoints    []Waypoint
	widthEnabled bool
	defaultWidth float32
	cacheValid   bool
}

// NewModel creates an empty model. When widthEnabled is false every waypoint
// reports defaultWidth.
func NewModel(widthEnabled bool, defaultWidth float32) *Model {
	return &Model{
		widthEnabled: widthEnabled,
		defaultWidth: defaultWidth,
	}
}

// NewModelFromPositions creates a model with one waypoint per position.
func NewModelFromPositions(positions []math.Vec3, width float32) *Model {
	m := NewModel(false, width)
	for _, p := range positions {
		m.waypoints = append(m.waypoints, Waypoint{Position: p, Width: width})
	}
	return m
}

// Len returns the number of waypoints.
func (m *Model) Len() int {
	return len(m.waypoints)
}

// WidthEnabled reports whether per-waypoint widths are used.
func (m *Model) WidthEnabled() bool {
	return m.widthEnabled
}

// SetWidthEnabled switches between per-waypoint widths and the default width.
func (m *Model) SetWidthEnabled(enabled bool) {
	if m.widthEnabled != enabled {
		m.widthEnabled = enabled
		m.Invalidate()
	}
}

// DefaultWidth returns the width used when the model is not width-enabled.
func (m *Model) DefaultWidth() float32 {
	return m.defaultWidth
}

// CacheValid reports whether derived caches reflect the current waypoints.
func (m *Model) CacheValid() bool {
	return m.cacheValid
}

// MarkCacheValid is called by the cache builder after a successful rebuild.
func (m *Model) MarkCacheValid() {
	m.cacheValid = true
}

// Invalidate clears the cache-valid flag.
func (m *Model) Invalidate() {
	m.cacheValid = false
}

// Waypoint returns the waypoint at index.
func (m *Model) Waypoint(index int) (Waypoint, error) {
	if err := m.checkIndex("get", index); err != nil {
		return Waypoint{}, err
	}
	return m.waypoints[index], nil
}

// Waypoints returns a copy of the waypoint list.
func (m *Model) Waypoints() []Waypoint {
	out := make([]Waypoint, len(m.waypoints))
	copy(out, m.waypoints)
	for i := range out {
		out[i].Width = m.widthOf(i)
	}
	return out
}

// Positions returns the waypoint positions in order.
func (m *Model) Positions() []math.Vec3 {
	out := make([]math.Vec3, len(m.waypoints))
	for i, wp := range m.waypoints {
		out[i] = wp.Position
	}
	return out
}

// Widths returns the effective width of every waypoint.
func (m *Model) Widths() []float32 {
	out := make([]float32, len(m.waypoints))
	for i := range m.waypoints {
		out[i] = m.widthOf(i)
	}
	return out
}

// Rolls returns the roll angle of every waypoint in degrees.
func (m *Model) Rolls() []float32 {
	out := make([]float32, len(m.waypoints))
	for i, wp := range m.waypoints {
		out[i] = wp.Roll
	}
	return out
}

func (m *Model) widthOf(i int) float32 {
	if m.widthEnabled {
		return m.waypoints[i].Width
	}
	return m.defaultWidth
}

// Append adds a waypoint at pos with the default width.
func (m *Model) Append(pos math.Vec3) {
	m.AddWaypoint(Waypoint{Position: pos, Width: m.defaultWidth})
}

// AddWaypoint appends wp to the end of the path.
func (m *Model) AddWaypoint(wp Waypoint) {
	m.waypoints = append(m.waypoints, wp)
	m.Invalidate()
}

// InsertWaypoint inserts wp before index. index == Len() appends.
func (m *Model) InsertWaypoint(index int, wp Waypoint) error {
	if index == len(m.waypoints) {
		m.AddWaypoint(wp)
		return nil
	}
	if err := m.checkIndex("insert", index); err != nil {
		return err
	}
	m.waypoints = append(m.waypoints, Waypoint{})
	copy(m.waypoints[index+1:], m.waypoints[index:])
	m.waypoints[index] = wp
	m.Invalidate()
	return nil
}

// RemoveWaypoint deletes the waypoint at index. A path keeps at least
// MinWaypoints points once it has them.
func (m *Model) RemoveWaypoint(index int) error {
	if err := m.checkIndex("remove", index); err != nil {
		return err
	}
	if len(m.waypoints) <= MinWaypoints {
		err := fmt.Errorf("%w: path needs at least %d waypoints", ErrInvalidState, MinWaypoints)
		logger.Warn("waypoint removal rejected", zap.Int("index", index), zap.Error(err))
		return err
	}
	m.waypoints = append(m.waypoints[:index], m.waypoints[index+1:]...)
	m.Invalidate()
	return nil
}

// MoveWaypoint sets the position of the waypoint at index.
func (m *Model) MoveWaypoint(index int, pos math.Vec3) error {
	if err := m.checkIndex("move", index); err != nil {
		return err
	}
	m.waypoints[index].Position = pos
	m.Invalidate()
	return nil
}

// SetWidth sets the width of the waypoint at index.
func (m *Model) SetWidth(index int, w float32) error {
	if err := m.checkIndex("set width", index); err != nil {
		return err
	}
	if w < 0 || math.IsNaN(w) {
		err := fmt.Errorf("%w: width must be >= 0, got %v", ErrInvalidState, w)
		logger.Warn("width rejected", zap.Int("index", index), zap.Error(err))
		return err
	}
	m.waypoints[index].Width = w
	m.Invalidate()
	return nil
}

// SetRoll sets the roll angle in degrees of the waypoint at index.
func (m *Model) SetRoll(index int, deg float32) error {
	if err := m.checkIndex("set roll", index); err != nil {
		return err
	}
	m.waypoints[index].Roll = deg
	m.Invalidate()
	return nil
}

// SetTangent fixes the curve tangent at index.
func (m *Model) SetTangent(index int, tangent math.Vec3) error {
	if err := m.checkIndex("set tangent", index); err != nil {
		return err
	}
	m.waypoints[index].Tangent = tangent
	m.waypoints[index].FixedTangent = true
	m.Invalidate()
	return nil
}

// ClearTangent restores the Catmull-Rom tangent at index.
func (m *Model) ClearTangent(index int) error {
	if err := m.checkIndex("clear tangent", index); err != nil {
		return err
	}
	m.waypoints[index].Tangent = math.Vec3{}
	m.waypoints[index].FixedTangent = false
	m.Invalidate()
	return nil
}

// Reverse flips the direction of travel. Widths and rolls stay with their
// waypoint; fixed tangents are negated so the curve keeps its shape.
func (m *Model) Reverse() {
	wps := m.waypoints
	for i, j := 0, len(wps)-1; i < j; i, j = i+1, j-1 {
		wps[i], wps[j] = wps[j], wps[i]
	}
	for i := range wps {
		if wps[i].FixedTangent {
			wps[i].Tangent = wps[i].Tangent.Neg()
		}
	}
	m.Invalidate()
}

func (m *Model) checkIndex(op string, index int) error {
	if index >= 0 && index < len(m.waypoints) {
		return nil
	}
	err := fmt.Errorf("%w: %s index %d, count %d", ErrIndexOutOfRange, op, index, len(m.waypoints))
	logger.Warn("waypoint edit rejected",
		zap.String("op", op),
		zap.Int("index", index),
		zap.Int("count", len(m.waypoints)),
	)
	return err
}
