package preview

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Capture saves previews under generated, timestamped file names.
type Capture struct {
	outputDir string
	prefix    string
}

// NewCapture creates a capture writing <outputDir>/<prefix>_<timestamp>.png.
func NewCapture(outputDir, prefix string) *Capture {
	return &Capture{
		outputDir: outputDir,
		prefix:    prefix,
	}
}

// SetOutputDir sets the output directory for previews.
func (c *Capture) SetOutputDir(dir string) {
	c.outputDir = dir
}

// GenerateFilename returns the file name the next Save would use.
func (c *Capture) GenerateFilename() string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.png", c.prefix, timestamp)
	if c.outputDir != "" {
		filename = filepath.Join(c.outputDir, filename)
	}
	return filename
}

// Save writes img under a generated name and returns it.
func (c *Capture) Save(img image.Image) (string, error) {
	filename := c.GenerateFilename()
	if err := WritePNG(filename, img); err != nil {
		return "", err
	}
	return filename, nil
}

// WritePNG encodes img to path, creating parent directories as needed.
func WritePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}
