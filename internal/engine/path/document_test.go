package path

import (
	"path/filepath"
	"testing"

	"github.com/Faultbox/midgard-path/pkg/math"
)

func TestParseDocument(t *testing.T) {
	data := []byte(`
name: river
width_enabled: true
config:
  resolution: 1.5
  closed: true
  uv_mode: landscape
  base: wide
  vertex_limit: split
waypoints:
  - position: {x: 0, y: 0, z: 0}
    width: 4
  - position: {x: 10, y: 0, z: 0}
    width: 6
    roll: 12
`)

	doc, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	if doc.Name != "river" || !doc.WidthEnabled {
		t.Errorf("unexpected header %+v", doc)
	}
	if doc.Config == nil || doc.Config.Resolution != 1.5 || !doc.Config.Closed {
		t.Fatalf("config not decoded: %+v", doc.Config)
	}
	if doc.Config.UVMode != UVLandscape || doc.Config.Base != BaseWide || doc.Config.VertexLimit != LimitSplit {
		t.Errorf("enum fields not decoded: %+v", doc.Config)
	}

	m := doc.Model()
	diff(t, []float32{4, 6}, m.Widths())
	diff(t, []float32{0, 12}, m.Rolls())
}

func TestParseDocumentInvalidConfig(t *testing.T) {
	_, err := ParseDocument([]byte("config:\n  resolution: 0\nwaypoints: []\n"))
	if err == nil {
		t.Error("expected error for zero resolution")
	}

	_, err = ParseDocument([]byte("config:\n  uv_mode: spherical\n"))
	if err == nil {
		t.Error("expected error for unknown uv mode")
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	m := testModel()
	path := filepath.Join(t.TempDir(), "nested", "road.yaml")

	if err := SaveDocument(path, DocumentFromModel("road", m)); err != nil {
		t.Fatalf("SaveDocument() error = %v", err)
	}
	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument() error = %v", err)
	}

	diff(t, m.Waypoints(), doc.Model().Waypoints())
	if got := doc.Model().Positions()[2]; got != (math.Vec3{X: 20, Z: 5}) {
		t.Errorf("position = %v", got)
	}
}
