package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-path/internal/engine/path"
	"github.com/Faultbox/midgard-path/internal/engine/query"
	"github.com/Faultbox/midgard-path/internal/engine/terrain"
	"github.com/Faultbox/midgard-path/pkg/math"
)

func testModel() *path.Model {
	return path.NewModelFromPositions([]math.Vec3{{}, {X: 10}, {X: 20}}, 4)
}

func testConfig() path.Config {
	cfg := path.DefaultConfig()
	cfg.Resolution = 2
	return cfg
}

func TestBuilder_RefreshAndQuery(t *testing.T) {
	b := NewBuilder(testModel(), testConfig(), nil)
	assert.Equal(t, Idle, b.State())

	require.NoError(t, b.Refresh())
	f := b.Frame()
	require.True(t, f.Valid())
	assert.True(t, f.HasEdges())
	assert.Equal(t, 11, f.Cache.Len())
	assert.Equal(t, f.Cache.Len(), f.Edges.Len())

	pos, tan, err := b.Query(10, query.CatmullRom)
	require.NoError(t, err)
	assert.True(t, pos.ApproxEqual(math.Vec3{X: 10}, 1e-2), "pos %v", pos)
	assert.True(t, tan.ApproxEqual(math.Vec3{X: 1}, 1e-3), "tangent %v", tan)

	out, err := b.BuildStripMesh()
	require.NoError(t, err)
	require.Len(t, out.Surface, 1)
	assert.Len(t, out.Surface[0].Vertices, 22)
	assert.Len(t, out.Surface[0].Indices, 60)
}

func TestBuilder_StaleCache(t *testing.T) {
	m := testModel()
	b := NewBuilder(m, testConfig(), nil)

	_, _, err := b.Query(0, query.Linear)
	assert.ErrorIs(t, err, path.ErrInvalidState, "never built")

	require.NoError(t, b.RebuildCache())
	_, _, err = b.Query(0, query.Linear)
	require.NoError(t, err)

	require.NoError(t, m.MoveWaypoint(1, math.Vec3{X: 10, Z: 3}))
	_, _, err = b.Query(0, query.Linear)
	assert.ErrorIs(t, err, path.ErrInvalidState)
	_, err = b.BuildStripMesh()
	assert.ErrorIs(t, err, path.ErrInvalidState)

	require.NoError(t, b.RebuildCache())
	_, _, err = b.Query(0, query.Linear)
	assert.NoError(t, err)
}

func TestBuilder_SetConfigMarksCacheStale(t *testing.T) {
	m := path.NewModelFromPositions([]math.Vec3{{}, {X: 10}, {X: 10, Z: 10}}, 4)
	b := NewBuilder(m, testConfig(), nil)
	require.NoError(t, b.Refresh())
	samples := b.Frame().Cache.Len()

	cfg := b.Config()
	cfg.Resolution = 5
	cfg.Closed = true
	b.SetConfig(cfg)
	assert.False(t, m.CacheValid())

	_, _, err := b.Query(0, query.Linear)
	assert.ErrorIs(t, err, path.ErrInvalidState)
	_, err = b.BuildStripMesh()
	assert.ErrorIs(t, err, path.ErrInvalidState)

	require.NoError(t, b.Refresh())
	assert.True(t, b.Frame().Cache.Closed)
	assert.Less(t, b.Frame().Cache.Len(), samples)
	_, _, err = b.Query(0, query.Linear)
	assert.NoError(t, err)

	b.SetSurface(nil)
	_, _, err = b.Query(0, query.Linear)
	assert.ErrorIs(t, err, path.ErrInvalidState)
}

func TestBuilder_MeshBuildsEdgesOnDemand(t *testing.T) {
	b := NewBuilder(testModel(), testConfig(), nil)
	require.NoError(t, b.RebuildCache())
	assert.False(t, b.Frame().HasEdges())

	out, err := b.BuildStripMesh()
	require.NoError(t, err)
	assert.Len(t, out.Surface[0].Vertices, 22)
	assert.True(t, b.Frame().HasEdges())
}

func TestBuilder_FailedRebuildLeavesEmptyFrame(t *testing.T) {
	b := NewBuilder(testModel(), testConfig(), nil)
	require.NoError(t, b.Refresh())
	require.True(t, b.Frame().Valid())

	cfg := b.Config()
	cfg.Resolution = 0
	b.SetConfig(cfg)
	err := b.Refresh()
	assert.ErrorIs(t, err, path.ErrInvalidState)
	assert.False(t, b.Frame().Valid())
	assert.Nil(t, b.Frame().Cache)
	assert.Nil(t, b.Frame().Edges)
	assert.Equal(t, Idle, b.State())
}

func TestBuilder_TooFewWaypoints(t *testing.T) {
	m := path.NewModel(false, 4)
	m.Append(math.Vec3{})
	b := NewBuilder(m, testConfig(), nil)

	require.NoError(t, b.Refresh())
	assert.False(t, b.Frame().Valid())
	_, _, err := b.Query(0, query.CatmullRom)
	assert.ErrorIs(t, err, path.ErrInvalidState)
}

func TestBuilder_ReentrantCallsAreNoOps(t *testing.T) {
	var (
		b      *Builder
		calls  int
		states []State
		errs   []error
	)
	sampler := terrain.SamplerFunc(func(nx, nz float32) float32 {
		calls++
		states = append(states, b.State())
		errs = append(errs, b.Refresh(), b.RebuildCache())
		return 0
	})
	surface := terrain.NewSurface(sampler, math.Vec3{X: -50, Z: -50}, math.Vec3{X: 100, Y: 10, Z: 100})

	cfg := testConfig()
	cfg.SnapSurroundToTerrain = true
	b = NewBuilder(testModel(), cfg, surface)

	rebuilt := 0
	b.OnRebuilt = func(f *Frame) {
		rebuilt++
		assert.True(t, f.Valid())
		assert.NoError(t, b.Refresh())
	}

	require.NoError(t, b.Refresh())
	assert.Equal(t, 1, rebuilt)
	assert.Equal(t, Idle, b.State())

	// Two surround curves of 11 samples each.
	assert.Equal(t, 22, calls)
	for _, s := range states {
		assert.Equal(t, Building, s)
	}
	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.True(t, b.Frame().HasEdges())
}

func TestBuilder_ArenaReusedAcrossRebuilds(t *testing.T) {
	b := NewBuilder(testModel(), testConfig(), nil)
	require.NoError(t, b.RebuildCache())
	samples, _ := b.Frame().Arena().Capacity()
	assert.GreaterOrEqual(t, samples, 11)

	require.NoError(t, b.RebuildCache())
	again, _ := b.Frame().Arena().Capacity()
	assert.Equal(t, samples, again)
}

func TestExternalInterface(t *testing.T) {
	cfg := testConfig()
	wps := testModel().Waypoints()

	h, err := RebuildCache(wps, cfg)
	require.NoError(t, err)
	require.True(t, h.Valid())

	pos, _ := Query(h, 0, query.CatmullRom)
	assert.Equal(t, math.Vec3{}, pos)
	pos, _ = Query(h, h.Cache.TotalLength, query.CatmullRom)
	assert.True(t, pos.ApproxEqual(math.Vec3{X: 20}, 1e-3))

	e, err := BuildEdges(h, func(d float32) (float32, float32) { return 4, 0 }, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 11, e.Len())

	out, err := BuildStripMesh(e, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 22, out.VertexCount())

	// Same inputs, same result.
	h2, err := RebuildCache(wps, cfg)
	require.NoError(t, err)
	assert.Equal(t, h.Cache.Samples, h2.Cache.Samples)
}

func TestExternalInterface_InvalidInput(t *testing.T) {
	h, err := RebuildCache(testModel().Waypoints()[:1], testConfig())
	require.NoError(t, err)
	assert.False(t, h.Valid())

	pos, tan := Query(h, 5, query.Linear)
	assert.Equal(t, math.Vec3{}, pos)
	assert.Equal(t, math.Vec3{}, tan)

	e, err := BuildEdges(h, nil, testConfig(), nil)
	require.NoError(t, err)
	assert.True(t, e.Empty())

	cfg := testConfig()
	cfg.Resolution = -1
	h, err = RebuildCache(testModel().Waypoints(), cfg)
	assert.ErrorIs(t, err, path.ErrInvalidState)
	assert.False(t, h.Valid())
}
