// Package config provides configuration management for topovista.
//
// Config file locations (priority order):
//  1. $TOPOVISTA_CONFIG
//  2. ./topovista.yaml
//  3. ~/.config/topovista/config.yaml
//  4. /etc/topovista/config.yaml
//
// Environment variables override file values for the FortiGate
// credentials so secrets can stay out of the file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Addr     string         `yaml:"addr"`
	Topology TopologyConfig `yaml:"topology"`
	Assets   AssetConfig    `yaml:"assets"`
	History  HistoryConfig  `yaml:"history"`

	FortiGate FortiGateConfig `yaml:"fortigate"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Animation AnimationConfig `yaml:"animation"`
}

// TopologyConfig locates the topology document.
type TopologyConfig struct {
	// Path to the JSON or YAML document; empty or unreadable falls
	// back to the built-in sample topology.
	Path string `yaml:"path"`
	// Watch reloads the document when the file changes.
	Watch bool `yaml:"watch"`
}

// AssetConfig locates the asset manifest.
type AssetConfig struct {
	ManifestPath string `yaml:"manifest_path"`
}

// HistoryConfig configures the metrics history store.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// FortiGateConfig configures the live-topology source.
type FortiGateConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Host        string `yaml:"host"`
	Token       string `yaml:"token"`
	Port        int    `yaml:"port"`
	InsecureTLS bool   `yaml:"insecure_tls"`
}

// DiscoveryConfig configures the nmap endpoint discoverer.
type DiscoveryConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Targets   []string `yaml:"targets"`
	PortRange string   `yaml:"port_range"`
}

// AnimationConfig tunes the idle animation.
type AnimationConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load finds and loads the config file, or returns defaults if none
// found.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, path, nil
}

// DefaultConfig returns sensible defaults for a new installation.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Addr:    ":3000",
		History: HistoryConfig{Path: "./topovista-history.db"},
		FortiGate: FortiGateConfig{
			Port: 443,
		},
		Discovery: DiscoveryConfig{
			PortRange: "22,80,443,445,3389,5900,8080",
		},
		Animation: AnimationConfig{Enabled: true},
	}
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.History.Path == "" {
		c.History.Path = "./topovista-history.db"
	}
	if c.FortiGate.Port == 0 {
		c.FortiGate.Port = 443
	}
	if c.Discovery.PortRange == "" {
		c.Discovery.PortRange = "22,80,443,445,3389,5900,8080"
	}
}

// applyEnv overlays environment overrides for appliance credentials.
func (c *Config) applyEnv() {
	if v := os.Getenv("FORTIGATE_HOST"); v != "" {
		c.FortiGate.Host = v
	}
	if v := os.Getenv("FORTIGATE_API_TOKEN"); v != "" {
		c.FortiGate.Token = v
	}
	if v := os.Getenv("FORTIGATE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.FortiGate.Port = port
		}
	}
}
