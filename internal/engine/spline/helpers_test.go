package spline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Faultbox/midgard-path/internal/engine/path"
	"github.com/Faultbox/midgard-path/pkg/math"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Errorf("unexpected result (-want +got):\n%s", d)
	}
}

// approx compares floats within an absolute margin.
func approx(margin float64) cmp.Option {
	return cmpopts.EquateApprox(0, margin)
}

func waypoints(points ...math.Vec3) []path.Waypoint {
	wps := make([]path.Waypoint, len(points))
	for i, p := range points {
		wps[i] = path.Waypoint{Position: p, Width: 4}
	}
	return wps
}

func config(resolution float32, closed bool) path.Config {
	cfg := path.DefaultConfig()
	cfg.Resolution = resolution
	cfg.Closed = closed
	return cfg
}

var (
	collinear = waypoints(math.Vec3{}, math.Vec3{X: 10}, math.Vec3{X: 20})
	bent      = waypoints(math.Vec3{}, math.Vec3{X: 10}, math.Vec3{X: 20, Z: 5})
	square    = waypoints(math.Vec3{}, math.Vec3{X: 10}, math.Vec3{X: 10, Z: 10}, math.Vec3{Z: 10})
)
