package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/midgard-path/internal/config"
	"github.com/Faultbox/midgard-path/internal/engine/frame"
	"github.com/Faultbox/midgard-path/internal/engine/path"
	"github.com/Faultbox/midgard-path/internal/engine/picking"
	"github.com/Faultbox/midgard-path/internal/engine/query"
	"github.com/Faultbox/midgard-path/internal/engine/strip"
	"github.com/Faultbox/midgard-path/internal/preview"
	"github.com/Faultbox/midgard-path/pkg/math"
)

// run dispatches one subcommand. Output goes to w.
func run(cfg *config.Config, command string, args []string, w io.Writer) error {
	switch command {
	case "init":
		return cmdInit(args, w)
	case "info":
		return cmdInfo(cfg, args, w)
	case "samples", "ls":
		return cmdSamples(cfg, args, w)
	case "mesh", "obj":
		return cmdMesh(cfg, args, w)
	case "preview", "png":
		return cmdPreview(cfg, args, w)
	case "pick":
		return cmdPick(cfg, args, w)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// project is a loaded path document with the settings it is built with.
type project struct {
	name    string
	builder *frame.Builder
}

func open(cfg *config.Config, file string) (*project, error) {
	doc, err := path.LoadDocument(file)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", file, err)
	}

	settings := cfg.Path
	if doc.Config != nil {
		settings = *doc.Config
	}
	if doc.DefaultWidth == 0 {
		doc.DefaultWidth = settings.DefaultWidth
	}

	surface, err := cfg.Terrain.Surface()
	if err != nil {
		return nil, fmt.Errorf("loading terrain: %w", err)
	}

	name := doc.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	b := frame.NewBuilder(doc.Model(), settings, surface)
	if err := b.Refresh(); err != nil {
		return nil, err
	}
	if !b.Frame().Valid() {
		return nil, fmt.Errorf("%s: %w: path needs at least %d distinct waypoints",
			file, path.ErrInvalidState, path.MinWaypoints)
	}
	return &project{name: name, builder: b}, nil
}

func cmdInit(args []string, w io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: pathtool init <path.yaml>")
	}

	m := path.NewModel(true, 4)
	for _, wp := range []path.Waypoint{
		{Position: math.Vec3{X: 0, Z: 0}, Width: 4},
		{Position: math.Vec3{X: 20, Z: 5}, Width: 5},
		{Position: math.Vec3{X: 40, Z: 0}, Width: 6, Roll: 5},
		{Position: math.Vec3{X: 60, Z: 15}, Width: 4},
	} {
		m.AddWaypoint(wp)
	}
	if err := path.SaveDocument(args[0], path.DocumentFromModel("example", m)); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s (%d waypoints)\n", args[0], m.Len())
	return nil
}

func cmdInfo(cfg *config.Config, args []string, w io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: pathtool info <path.yaml>")
	}
	p, err := open(cfg, args[0])
	if err != nil {
		return err
	}

	b := p.builder
	c := b.Frame().Cache
	fmt.Fprintf(w, "Path:       %s\n", p.name)
	fmt.Fprintf(w, "Waypoints:  %d\n", b.Model.Len())
	fmt.Fprintf(w, "Closed:     %v\n", c.Closed)
	fmt.Fprintf(w, "Resolution: %g\n", c.Resolution)
	fmt.Fprintf(w, "Length:     %.3f\n", c.TotalLength)
	fmt.Fprintf(w, "Samples:    %d\n", c.Len())
	if c.Divergences > 0 {
		fmt.Fprintf(w, "Fallbacks:  %d\n", c.Divergences)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Waypoint distances:")
	widths := b.Model.Widths()
	for i, d := range c.WaypointDistances {
		if i >= len(widths) {
			fmt.Fprintf(w, "  %3d  %10.3f  (closing)\n", i, d)
			continue
		}
		fmt.Fprintf(w, "  %3d  %10.3f  width %g\n", i, d, widths[i])
	}
	return nil
}

func cmdSamples(cfg *config.Config, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("samples", flag.ContinueOnError)
	step := fs.Float64("step", 0, "Distance between printed points (0 = cached samples)")
	mode := fs.String("mode", cfg.Output.QueryMode, "Interpolation: catmull-rom, linear or nearest")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: pathtool samples [-step d] [-mode m] <path.yaml>")
	}
	m, err := query.ParseMode(*mode)
	if err != nil {
		return err
	}
	p, err := open(cfg, fs.Arg(0))
	if err != nil {
		return err
	}

	c := p.builder.Frame().Cache
	distances := c.Distances()
	if *step > 0 {
		if distances, err = stepDistances(c.TotalLength, float32(*step)); err != nil {
			return err
		}
	}

	widths := p.builder.Model.Widths()
	fmt.Fprintf(w, "%10s  %10s %10s %10s  %7s %7s %7s  %7s\n", "distance", "x", "y", "z", "tx", "ty", "tz", "width")
	for _, d := range distances {
		pos, tan, err := p.builder.Query(d, m)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%10.3f  %10.3f %10.3f %10.3f  %7.3f %7.3f %7.3f  %7.3f\n",
			d, pos.X, pos.Y, pos.Z, tan.X, tan.Y, tan.Z, query.WidthAt(c, widths, d))
	}
	return nil
}

// maxRows bounds the samples table.
const maxRows = 1 << 20

// stepDistances returns 0, step, 2*step, ... below total, then total.
func stepDistances(total, step float32) ([]float32, error) {
	n := float64(total) / float64(step)
	if n > maxRows {
		return nil, fmt.Errorf("step %g gives more than %d rows over length %g", step, maxRows, total)
	}
	out := make([]float32, 0, int(n)+2)
	for k := 0; ; k++ {
		d := float32(k) * step
		if d >= total {
			break
		}
		out = append(out, d)
	}
	return append(out, total), nil
}

func buildMeshes(p *project) (*strip.Output, error) {
	out, err := p.builder.BuildStripMesh()
	if err != nil {
		return nil, err
	}
	if p.builder.Config().NormalMode == path.NormalRecalculate {
		for _, m := range out.Meshes() {
			m.RecalculateNormals()
		}
	}
	return out, nil
}

func cmdMesh(cfg *config.Config, args []string, w io.Writer) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: pathtool mesh <path.yaml> <out.obj>")
	}
	p, err := open(cfg, args[0])
	if err != nil {
		return err
	}
	out, err := buildMeshes(p)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(args[1]), 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	f, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := strip.WriteOBJ(f, out.Meshes()); err != nil {
		return fmt.Errorf("writing OBJ: %w", err)
	}
	triangles := 0
	for _, m := range out.Meshes() {
		triangles += m.Triangles()
	}
	fmt.Fprintf(w, "Wrote %s: %d meshes, %d vertices, %d triangles\n",
		args[1], len(out.Meshes()), out.VertexCount(), triangles)
	return nil
}

func cmdPreview(cfg *config.Config, args []string, w io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: pathtool preview <path.yaml> [out.png]")
	}
	p, err := open(cfg, args[0])
	if err != nil {
		return err
	}
	out, err := buildMeshes(p)
	if err != nil {
		return err
	}

	opts := preview.DefaultOptions()
	opts.Size = cfg.Output.PreviewSize
	opts.GridSpacing = cfg.Output.GridSpacing
	img := preview.Render(out, opts)

	filename := ""
	if len(args) > 1 {
		filename = args[1]
		err = preview.WritePNG(filename, img)
	} else {
		filename, err = preview.NewCapture(cfg.Output.Dir, p.name).Save(img)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s (%dx%d)\n", filename, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}

func cmdPick(cfg *config.Config, args []string, w io.Writer) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: pathtool pick <path.yaml> <x> <z>")
	}
	x, err := strconv.ParseFloat(args[1], 32)
	if err != nil {
		return fmt.Errorf("invalid x: %w", err)
	}
	z, err := strconv.ParseFloat(args[2], 32)
	if err != nil {
		return fmt.Errorf("invalid z: %w", err)
	}
	p, err := open(cfg, args[0])
	if err != nil {
		return err
	}
	out, err := buildMeshes(p)
	if err != nil {
		return err
	}

	y, ok := picking.OnStrip(out, float32(x), float32(z))
	if !ok {
		fmt.Fprintf(w, "(%g, %g) is off the path\n", x, z)
		return nil
	}
	fmt.Fprintf(w, "(%g, %g) is on the path at height %.3f\n", x, z, y)
	return nil
}
