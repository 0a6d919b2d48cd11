// Package asset resolves device-type keys to reusable visual
// templates. Resolution is load-with-fallback: a key either yields a
// loaded template or a memoized Unavailable outcome that callers treat
// as the signal to build a procedural substitute.
package asset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest maps category/subtype keys to asset file paths.
type Manifest struct {
	Assets map[string]string `yaml:"assets"`
}

// LoadManifest reads a manifest file. A missing or malformed manifest
// is an error for the caller to degrade on; per-key load failures are
// handled later by the resolver.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest parses manifest YAML bytes.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Assets == nil {
		m.Assets = make(map[string]string)
	}
	return m, nil
}

// Path returns the asset path for a key.
func (m Manifest) Path(key string) (string, bool) {
	path, ok := m.Assets[key]
	return path, ok
}
