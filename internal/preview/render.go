// Package preview rasterizes strip meshes into top-down images for quick
// inspection without a GPU.
package preview

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"

	"github.com/Faultbox/midgard-path/internal/engine/strip"
	"github.com/Faultbox/midgard-path/pkg/math"
)

// Options controls a preview render.
type Options struct {
	Size    int // Longest image side in pixels
	Padding int // Border around the meshes in pixels

	Background color.Color
	Surface    color.Color // Fill of the first mesh group
	Base       color.Color // Fill of base meshes
	Outline    color.Color // Mesh bounds; nil disables
	Grid       color.Color // World grid; nil disables

	GridSpacing float32 // World units between grid lines
}

// DefaultOptions returns a 512 px preview on a dark background.
func DefaultOptions() Options {
	return Options{
		Size:        512,
		Padding:     16,
		Background:  color.RGBA{R: 24, G: 24, B: 28, A: 255},
		Surface:     color.RGBA{R: 214, G: 178, B: 112, A: 255},
		Base:        color.RGBA{R: 96, G: 84, B: 72, A: 255},
		Grid:        color.RGBA{R: 48, G: 48, B: 56, A: 255},
		GridSpacing: 10,
	}
}

// projection maps world XZ onto image pixels, Z growing downwards.
type projection struct {
	minX, minZ float32
	scale      float32
	pad        float32
}

func (p projection) point(x, z float32) (float32, float32) {
	return p.pad + (x-p.minX)*p.scale, p.pad + (z-p.minZ)*p.scale
}

// Render draws base meshes under the surface meshes, viewed from +Y.
func Render(out *strip.Output, opts Options) *image.RGBA {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	meshes := out.Meshes()
	lo, hi, ok := extent(meshes)

	inner := max(opts.Size-2*opts.Padding, 1)
	w, h := opts.Size, opts.Size
	proj := projection{pad: float32(opts.Padding), scale: 1}
	if ok {
		span := max(hi.X-lo.X, hi.Y-lo.Y, math.Epsilon)
		proj.minX, proj.minZ = lo.X, lo.Y
		proj.scale = float32(inner) / span
		w = min(int(math.Ceil((hi.X-lo.X)*proj.scale)), inner) + 2*opts.Padding
		h = min(int(math.Ceil((hi.Y-lo.Y)*proj.scale)), inner) + 2*opts.Padding
		w, h = max(w, 1), max(h, 1)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if opts.Background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}
	if !ok {
		return img
	}

	if opts.Grid != nil && opts.GridSpacing > 0 {
		drawGrid(img, proj, lo, hi, opts.GridSpacing, opts.Grid)
	}
	for _, m := range out.Base {
		fill(img, proj, m, pick(opts.Base, opts.Surface))
	}
	for _, m := range out.Surface {
		fill(img, proj, m, opts.Surface)
	}
	if opts.Outline != nil {
		for _, m := range meshes {
			outline(img, proj, m.Bounds, opts.Outline)
		}
	}
	return img
}

func pick(c, fallback color.Color) color.Color {
	if c == nil {
		return fallback
	}
	return c
}

// extent returns the XZ rectangle covering every mesh.
func extent(meshes []*strip.Mesh) (lo, hi math.Vec2, ok bool) {
	for _, m := range meshes {
		if len(m.Vertices) == 0 {
			continue
		}
		mlo := math.Vec2{X: m.Bounds.Min[0], Y: m.Bounds.Min[2]}
		mhi := math.Vec2{X: m.Bounds.Max[0], Y: m.Bounds.Max[2]}
		if !ok {
			lo, hi, ok = mlo, mhi, true
			continue
		}
		lo, hi = lo.Min(mlo), hi.Max(mhi)
	}
	return lo, hi, ok
}

// fill rasterizes the front faces of m. Each triangle is added with the same
// orientation so overlapping faces never cancel.
func fill(img *image.RGBA, proj projection, m *strip.Mesh, c color.Color) {
	if c == nil || len(m.Indices) == 0 {
		return
	}
	indices := m.Indices
	if m.SideIndexCount > 0 {
		indices = indices[:m.SideIndexCount]
	}

	b := img.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	for t := 0; t+2 < len(indices); t += 3 {
		var xs, ys [3]float32
		for k := range 3 {
			p := m.Vertices[indices[t+k]].Position
			xs[k], ys[k] = proj.point(p[0], p[2])
		}
		area := (xs[1]-xs[0])*(ys[2]-ys[0]) - (xs[2]-xs[0])*(ys[1]-ys[0])
		if area == 0 {
			continue
		}
		if area < 0 {
			xs[1], xs[2] = xs[2], xs[1]
			ys[1], ys[2] = ys[2], ys[1]
		}
		r.MoveTo(xs[0], ys[0])
		r.LineTo(xs[1], ys[1])
		r.LineTo(xs[2], ys[2])
		r.ClosePath()
	}
	r.Draw(img, b, image.NewUniform(c), image.Point{})
}

// rect adds an axis-aligned rectangle in pixel space.
func rect(r *vector.Rasterizer, x0, y0, x1, y1 float32) {
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.ClosePath()
}

// drawGrid draws one-pixel lines at every multiple of spacing inside [lo, hi].
// Nothing is drawn when lines would be less than a pixel apart.
func drawGrid(img *image.RGBA, proj projection, lo, hi math.Vec2, spacing float32, c color.Color) {
	if spacing*proj.scale < 1 {
		return
	}
	b := img.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	w, h := float32(b.Dx()), float32(b.Dy())

	for k, last := gridRange(lo.X, hi.X, spacing); k <= last; k++ {
		px, _ := proj.point(float32(k)*spacing, 0)
		px = float32(int(px))
		rect(r, px, 0, px+1, h)
	}
	for k, last := gridRange(lo.Y, hi.Y, spacing); k <= last; k++ {
		_, pz := proj.point(0, float32(k)*spacing)
		pz = float32(int(pz))
		rect(r, 0, pz, w, pz+1)
	}
	r.Draw(img, b, image.NewUniform(c), image.Point{})
}

// gridRange returns the first and last multiple index of spacing in [lo, hi].
func gridRange(lo, hi, spacing float32) (first, last int64) {
	return int64(math.Ceil(lo / spacing)), int64(math.Floor(hi / spacing))
}

// outline draws the XZ rectangle of bounds as a one-pixel frame.
func outline(img *image.RGBA, proj projection, bounds strip.Bounds, c color.Color) {
	b := img.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	x0, y0 := proj.point(bounds.Min[0], bounds.Min[2])
	x1, y1 := proj.point(bounds.Max[0], bounds.Max[2])

	rect(r, x0, y0, x1, y0+1) // top
	rect(r, x0, y1-1, x1, y1) // bottom
	rect(r, x0, y0+1, x0+1, y1-1)
	rect(r, x1-1, y0+1, x1, y1-1)
	r.Draw(img, b, image.NewUniform(c), image.Point{})
}
