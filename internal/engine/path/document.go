package path

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk YAML form of a path.
type Document struct {
	Name         string     `yaml:"name,omitempty"`
	WidthEnabled bool       `yaml:"width_enabled"`
	DefaultWidth float32    `yaml:"default_width,omitempty"`
	Config       *Config    `yaml:"config,omitempty"` // Overrides the application config when present
	Waypoints    []Waypoint `yaml:"waypoints"`
}

// LoadDocument reads a path document from a YAML file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(data)
}

// ParseDocument decodes a path document.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding path document: %w", err)
	}
	if doc.Config != nil {
		if err := doc.Config.Validate(); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}

// SaveDocument writes doc as YAML, creating parent directories as needed.
func SaveDocument(path string, doc *Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Model builds an editable model from the document.
func (d *Document) Model() *Model {
	m := NewModel(d.WidthEnabled, d.DefaultWidth)
	m.waypoints = append(m.waypoints, d.Waypoints...)
	return m
}

// DocumentFromModel captures the model's waypoints in a document.
func DocumentFromModel(name string, m *Model) *Document {
	wps := make([]Waypoint, len(m.waypoints))
	copy(wps, m.waypoints)
	return &Document{
		Name:         name,
		WidthEnabled: m.widthEnabled,
		DefaultWidth: m.defaultWidth,
		Waypoints:    wps,
	}
}
