package path

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Faultbox/midgard-path/pkg/math"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func testModel() *Model {
	m := NewModel(true, 4)
	m.AddWaypoint(Waypoint{Position: math.Vec3{X: 0}, Width: 4, Roll: 5})
	m.AddWaypoint(Waypoint{Position: math.Vec3{X: 10}, Width: 6})
	m.AddWaypoint(Waypoint{Position: math.Vec3{X: 20, Z: 5}, Width: 10, Tangent: math.Vec3{X: 1}, FixedTangent: true})
	return m
}

func TestModel_EditsInvalidateCache(t *testing.T) {
	m := testModel()

	edits := []struct {
		name string
		edit func() error
	}{
		{"append", func() error { m.Append(math.Vec3{X: 30}); return nil }},
		{"insert", func() error { return m.InsertWaypoint(1, Waypoint{Position: math.Vec3{X: 5}}) }},
		{"remove", func() error { return m.RemoveWaypoint(1) }},
		{"move", func() error { return m.MoveWaypoint(0, math.Vec3{Y: 1}) }},
		{"set width", func() error { return m.SetWidth(0, 3) }},
		{"set roll", func() error { return m.SetRoll(0, 15) }},
		{"set tangent", func() error { return m.SetTangent(0, math.Vec3{Z: 1}) }},
		{"clear tangent", func() error { return m.ClearTangent(0) }},
		{"reverse", func() error { m.Reverse(); return nil }},
	}

	for _, tt := range edits {
		t.Run(tt.name, func(t *testing.T) {
			m.MarkCacheValid()
			if err := tt.edit(); err != nil {
				t.Fatalf("edit failed: %v", err)
			}
			if m.CacheValid() {
				t.Error("cache still valid after edit")
			}
		})
	}
}

func TestModel_IndexOutOfRange(t *testing.T) {
	m := testModel()
	m.MarkCacheValid()
	before := m.Waypoints()

	for _, index := range []int{-1, 3, 100} {
		if err := m.MoveWaypoint(index, math.Vec3{}); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("MoveWaypoint(%d) error = %v, want ErrIndexOutOfRange", index, err)
		}
		if err := m.SetWidth(index, 1); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("SetWidth(%d) error = %v, want ErrIndexOutOfRange", index, err)
		}
		if err := m.RemoveWaypoint(index); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("RemoveWaypoint(%d) error = %v, want ErrIndexOutOfRange", index, err)
		}
	}

	diff(t, before, m.Waypoints())
	if !m.CacheValid() {
		t.Error("rejected edits must not invalidate the cache")
	}
}

func TestModel_RemoveKeepsTwoWaypoints(t *testing.T) {
	m := testModel()

	if err := m.RemoveWaypoint(1); err != nil {
		t.Fatalf("removing down to 2 waypoints should succeed: %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 waypoints, got %d", m.Len())
	}
	if err := m.RemoveWaypoint(0); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if m.Len() != 2 {
		t.Errorf("rejected removal changed the count to %d", m.Len())
	}
}

func TestModel_ReverseTwiceRestores(t *testing.T) {
	m := testModel()
	before := m.Waypoints()
	widths := m.Widths()

	m.Reverse()
	reversed := m.Waypoints()
	if reversed[0].Position != before[2].Position || reversed[0].Width != 10 {
		t.Errorf("first waypoint after reverse = %+v", reversed[0])
	}
	if reversed[0].Tangent != (math.Vec3{X: -1}) {
		t.Errorf("fixed tangent not negated: %v", reversed[0].Tangent)
	}
	diff(t, []float32{10, 6, 4}, m.Widths())

	m.Reverse()
	diff(t, before, m.Waypoints())
	diff(t, widths, m.Widths())
}

func TestModel_WidthDisabledUsesDefault(t *testing.T) {
	m := testModel()
	m.SetWidthEnabled(false)
	diff(t, []float32{4, 4, 4}, m.Widths())

	m.SetWidthEnabled(true)
	diff(t, []float32{4, 6, 10}, m.Widths())
}

func TestModel_SetWidthRejectsNegative(t *testing.T) {
	m := testModel()
	if err := m.SetWidth(1, -2); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if w := m.Widths()[1]; w != 6 {
		t.Errorf("width changed to %v", w)
	}
}

func TestModel_InsertWaypoint(t *testing.T) {
	m := testModel()
	if err := m.InsertWaypoint(1, Waypoint{Position: math.Vec3{X: 5}, Width: 5}); err != nil {
		t.Fatal(err)
	}
	diff(t, []math.Vec3{{X: 0}, {X: 5}, {X: 10}, {X: 20, Z: 5}}, m.Positions())

	if err := m.InsertWaypoint(m.Len(), Waypoint{Position: math.Vec3{X: 40}}); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 5 {
		t.Errorf("expected 5 waypoints, got %d", m.Len())
	}
	if err := m.InsertWaypoint(9, Waypoint{}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"zero resolution", func(c *Config) { c.Resolution = 0 }, true},
		{"negative resolution", func(c *Config) { c.Resolution = -1 }, true},
		{"negative border", func(c *Config) { c.BorderLeft = -1 }, true},
		{"empty uv bounds", func(c *Config) { c.UVBounds = &Bounds{MinX: 1, MaxX: 1, MaxZ: 1} }, true},
		{"uv bounds", func(c *Config) { c.UVBounds = &Bounds{MaxX: 10, MaxZ: 10} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidState) {
				t.Errorf("expected ErrInvalidState, got %v", err)
			}
		})
	}
}
