package terrain

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register decoders for LoadHeightmap
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/Faultbox/midgard-path/pkg/math"
)

// Heightmap is a regular grid of normalized heights covering [0, 1] x [0, 1].
// Sample (x, z) sits at normalized position (x/(Width-1), z/(Depth-1)).
type Heightmap struct {
	Heights []float32 // Row-major, Width*Depth values in [0, 1]
	Width   int       // Samples along X
	Depth   int       // Samples along Z
}

// NewHeightmap wraps a row-major height grid.
func NewHeightmap(width, depth int, heights []float32) (*Heightmap, error) {
	if width < 1 || depth < 1 {
		return nil, fmt.Errorf("heightmap size %dx%d is empty", width, depth)
	}
	if len(heights) != width*depth {
		return nil, fmt.Errorf("heightmap has %d values, want %d", len(heights), width*depth)
	}
	return &Heightmap{Heights: heights, Width: width, Depth: depth}, nil
}

// FromImage builds a heightmap from the luminance of img (white = 1).
func FromImage(img image.Image) *Heightmap {
	b := img.Bounds()
	w, d := b.Dx(), b.Dy()
	heights := make([]float32, 0, w*d)
	for z := b.Min.Y; z < b.Max.Y; z++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.Gray16Model.Convert(img.At(x, z)).(color.Gray16)
			heights = append(heights, float32(g.Y)/0xffff)
		}
	}
	return &Heightmap{Heights: heights, Width: w, Depth: d}
}

// LoadHeightmap decodes a grayscale PNG, JPEG, BMP or TIFF image.
func LoadHeightmap(path string) (*Heightmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding heightmap %s: %w", path, err)
	}
	return FromImage(img), nil
}

// At returns the raw sample at grid position (x, z), clamped to the grid.
func (h *Heightmap) At(x, z int) float32 {
	x = min(max(x, 0), h.Width-1)
	z = min(max(z, 0), h.Depth-1)
	return h.Heights[z*h.Width+x]
}

// Height returns the bilinearly interpolated height at normalized (nx, nz).
func (h *Heightmap) Height(nx, nz float32) float32 {
	if h == nil || len(h.Heights) == 0 {
		return 0
	}

	// Convert to grid coordinates
	fx := math.Clamp(nx, 0, 1) * float32(h.Width-1)
	fz := math.Clamp(nz, 0, 1) * float32(h.Depth-1)

	cellX := int(fx)
	cellZ := int(fz)
	if cellX >= h.Width-1 {
		cellX = max(h.Width-2, 0)
	}
	if cellZ >= h.Depth-1 {
		cellZ = max(h.Depth-2, 0)
	}

	// Fractional position within cell (0-1)
	fracX := math.Clamp(fx-float32(cellX), 0, 1)
	fracZ := math.Clamp(fz-float32(cellZ), 0, 1)

	// Lerp along X on both rows, then along Z
	south := h.At(cellX, cellZ)*(1-fracX) + h.At(cellX+1, cellZ)*fracX
	north := h.At(cellX, cellZ+1)*(1-fracX) + h.At(cellX+1, cellZ+1)*fracX
	return south*(1-fracZ) + north*fracZ
}
