// Package loader reads topology documents from disk. JSON is the
// native interchange format; YAML is accepted for hand-maintained
// documents. A document that cannot be read or parsed is never fatal:
// callers fall back to the built-in sample so the scene is always
// populated.
package loader

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"topovista/internal/domain"

	"gopkg.in/yaml.v3"
)

// documentJSON accepts the export shape of older tooling, where
// devices may appear under either "models" or "devices".
type documentJSON struct {
	Version     string                    `json:"version"`
	Models      []domain.DeviceDescriptor `json:"models"`
	Devices     []domain.DeviceDescriptor `json:"devices"`
	Connections []connectionJSON          `json:"connections"`
}

type connectionJSON struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Source    string `json:"source"`
	Target    string `json:"target"`
	Bandwidth int    `json:"bandwidth"`
}

// Load reads and parses the document at path, dispatching on the file
// extension (.yaml/.yml vs JSON).
func Load(path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// LoadOrSample loads the document at path, degrading to the built-in
// sample topology on any failure. An empty path selects the sample
// directly.
func LoadOrSample(path string) *domain.Document {
	if path == "" {
		log.Printf("loader: no topology document configured, using sample topology")
		return domain.SampleDocument()
	}
	doc, err := Load(path)
	if err != nil {
		log.Printf("loader: %v, falling back to sample topology", err)
		return domain.SampleDocument()
	}
	return doc
}

// ParseJSON parses a JSON topology document.
func ParseJSON(data []byte) (*domain.Document, error) {
	var raw documentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	doc := &domain.Document{Version: raw.Version}
	doc.Models = append(doc.Models, raw.Models...)
	doc.Models = append(doc.Models, raw.Devices...)
	for _, c := range raw.Connections {
		doc.Connections = append(doc.Connections, normalizeConnection(c))
	}
	return doc, nil
}

// ParseYAML parses a YAML topology document.
func ParseYAML(data []byte) (*domain.Document, error) {
	var doc domain.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &doc, nil
}

// normalizeConnection accepts both from/to and source/target endpoint
// spellings.
func normalizeConnection(c connectionJSON) domain.Connection {
	conn := domain.Connection{From: c.From, To: c.To, Bandwidth: c.Bandwidth}
	if conn.From == "" {
		conn.From = c.Source
	}
	if conn.To == "" {
		conn.To = c.Target
	}
	return conn
}
