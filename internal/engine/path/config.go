package path

import "fmt"

// UVMode selects how strip mesh texture coordinates are generated.
type UVMode int

// UV mapping modes.
const (
	UVPath      UVMode = iota // Along-path distance against across-path position
	UVLandscape               // World XZ normalized against the enclosing bounds
)

// String returns the mode name used in config files.
func (m UVMode) String() string {
	switch m {
	case UVPath:
		return "path"
	case UVLandscape:
		return "landscape"
	default:
		return fmt.Sprintf("UVMode(%d)", int(m))
	}
}

// ParseUVMode parses a config file UV mode name.
func ParseUVMode(s string) (UVMode, error) {
	switch s {
	case "", "path":
		return UVPath, nil
	case "landscape":
		return UVLandscape, nil
	}
	return UVPath, fmt.Errorf("%w: unknown uv mode %q", ErrInvalidState, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m UVMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *UVMode) UnmarshalText(b []byte) error {
	v, err := ParseUVMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// NormalMode selects whether the strip builder computes normals.
type NormalMode int

// Normal modes.
const (
	NormalComputed    NormalMode = iota // Cross product of forward and across vectors
	NormalRecalculate                   // Leave empty; caller runs Mesh.RecalculateNormals
)

// BaseMode selects the extruded base mesh variant.
type BaseMode int

// Base mesh variants.
const (
	BaseNone   BaseMode = iota
	BaseNarrow          // Base follows the inset border curves
	BaseWide            // Base extends to the outer edges with shoulder faces
)

// String returns the mode name used in config files.
func (m BaseMode) String() string {
	switch m {
	case BaseNone:
		return "none"
	case BaseNarrow:
		return "narrow"
	case BaseWide:
		return "wide"
	default:
		return fmt.Sprintf("BaseMode(%d)", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m BaseMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *BaseMode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "none":
		*m = BaseNone
	case "narrow":
		*m = BaseNarrow
	case "wide":
		*m = BaseWide
	default:
		return fmt.Errorf("%w: unknown base mode %q", ErrInvalidState, b)
	}
	return nil
}

// VertexLimitPolicy selects what happens when a mesh would exceed MaxVertices.
type VertexLimitPolicy int

// Vertex limit policies.
const (
	LimitTruncate VertexLimitPolicy = iota // Drop the points that do not fit (known limitation)
	LimitSplit                             // Continue in additional meshes
)

// Config holds the settings for one cache/edge/mesh build.
// It is treated as immutable while a build runs.
type Config struct {
	Resolution float32 `yaml:"resolution"` // Distance between cached samples
	Closed     bool    `yaml:"closed"`

	BlendStart     bool    `yaml:"blend_start"`
	BlendEnd       bool    `yaml:"blend_end"`
	EdgeBlendWidth float32 `yaml:"edge_blend_width"`
	BorderLeft     float32 `yaml:"border_left"`
	BorderRight    float32 `yaml:"border_right"`
	DefaultWidth   float32 `yaml:"default_width"` // Width used when the path is not width-enabled

	DoubleSided   bool              `yaml:"double_sided"`
	UVMode        UVMode            `yaml:"uv_mode"`
	SwapUV        bool              `yaml:"swap_uv"`
	UVBounds      *Bounds           `yaml:"uv_bounds,omitempty"` // Landscape UV rectangle; mesh bounds when nil
	NormalMode    NormalMode        `yaml:"normal_mode"`
	Base          BaseMode          `yaml:"base"`
	BaseThickness float32           `yaml:"base_thickness"`
	VertexLimit   VertexLimitPolicy `yaml:"vertex_limit"`

	SnapEdgesToTerrain    bool    `yaml:"snap_edges_to_terrain"`
	SnapSurroundToTerrain bool    `yaml:"snap_surround_to_terrain"`
	TerrainOffset         float32 `yaml:"terrain_offset"`
}

// Bounds is an axis-aligned XZ rectangle in world units.
type Bounds struct {
	MinX float32 `yaml:"min_x"`
	MinZ float32 `yaml:"min_z"`
	MaxX float32 `yaml:"max_x"`
	MaxZ float32 `yaml:"max_z"`
}

// DefaultConfig returns the settings used when nothing else is configured.
func DefaultConfig() Config {
	return Config{
		Resolution:     2,
		EdgeBlendWidth: 2,
		DefaultWidth:   4,
		BaseThickness:  0.5,
		UVMode:         UVPath,
	}
}

// Validate checks field ranges. Failures wrap ErrInvalidState.
func (c Config) Validate() error {
	if !(c.Resolution > 0) {
		return fmt.Errorf("%w: resolution must be > 0, got %v", ErrInvalidState, c.Resolution)
	}
	if c.EdgeBlendWidth < 0 {
		return fmt.Errorf("%w: edge blend width must be >= 0, got %v", ErrInvalidState, c.EdgeBlendWidth)
	}
	if c.BorderLeft < 0 || c.BorderRight < 0 {
		return fmt.Errorf("%w: border widths must be >= 0", ErrInvalidState)
	}
	if c.DefaultWidth < 0 {
		return fmt.Errorf("%w: default width must be >= 0, got %v", ErrInvalidState, c.DefaultWidth)
	}
	if c.BaseThickness < 0 {
		return fmt.Errorf("%w: base thickness must be >= 0, got %v", ErrInvalidState, c.BaseThickness)
	}
	if b := c.UVBounds; b != nil && (b.MaxX <= b.MinX || b.MaxZ <= b.MinZ) {
		return fmt.Errorf("%w: uv bounds are empty", ErrInvalidState)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m NormalMode) MarshalText() ([]byte, error) {
	if m == NormalRecalculate {
		return []byte("recalculate"), nil
	}
	return []byte("computed"), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *NormalMode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "computed":
		*m = NormalComputed
	case "recalculate":
		*m = NormalRecalculate
	default:
		return fmt.Errorf("%w: unknown normal mode %q", ErrInvalidState, b)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (p VertexLimitPolicy) MarshalText() ([]byte, error) {
	if p == LimitSplit {
		return []byte("split"), nil
	}
	return []byte("truncate"), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *VertexLimitPolicy) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "truncate":
		*p = LimitTruncate
	case "split":
		*p = LimitSplit
	default:
		return fmt.Errorf("%w: unknown vertex limit policy %q", ErrInvalidState, b)
	}
	return nil
}
