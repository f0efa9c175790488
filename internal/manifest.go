package internal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TrailingSlash is the site-wide trailing-slash policy applied before route
// matching.
type TrailingSlash string

const (
	TrailingSlashIgnore TrailingSlash = "ignore"
	TrailingSlashAlways TrailingSlash = "always"
	TrailingSlashNever  TrailingSlash = "never"
)

// ComponentMetadata describes the assets a component contributes to a page
// head when it renders.
type ComponentMetadata struct {
	Scripts []string `yaml:"scripts"`
	Styles  []string `yaml:"styles"`
	Links   []string `yaml:"links"`
}

// Manifest holds build-time site configuration shared by all requests. It is
// read-only after construction.
type Manifest struct {
	Site          string                       `yaml:"site"`
	Base          string                       `yaml:"base"`
	TrailingSlash TrailingSlash                `yaml:"trailing_slash"`
	Generator     string                       `yaml:"generator"`
	Components    map[string]ComponentMetadata `yaml:"components"`
	ServerIslands map[string]string            `yaml:"server_islands"`
}

// LoadManifest reads a YAML manifest from disk and applies defaults.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	m.applyDefaults()

	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.Base == "" {
		m.Base = "/"
	}
	if m.TrailingSlash == "" {
		m.TrailingSlash = TrailingSlashIgnore
	}
	if m.Generator == "" {
		m.Generator = "renderkit"
	}
	if m.Components == nil {
		m.Components = make(map[string]ComponentMetadata)
	}
	if m.ServerIslands == nil {
		m.ServerIslands = make(map[string]string)
	}
}

func (m *Manifest) validate() error {
	switch m.TrailingSlash {
	case TrailingSlashIgnore, TrailingSlashAlways, TrailingSlashNever:
		return nil
	default:
		return fmt.Errorf("manifest: unknown trailing_slash policy %q", m.TrailingSlash)
	}
}

// Metadata returns the asset metadata registered for a component, or a zero
// value when the component contributes nothing.
func (m *Manifest) Metadata(component string) ComponentMetadata {
	return m.Components[component]
}
