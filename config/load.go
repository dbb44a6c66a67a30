package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/matrix-pulse/config.yaml
//  2. ~/.config/matrix-pulse/config.yaml
//
// If no file exists, returns DefaultConfig().
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	return DefaultConfig(), nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	defer f.Close()
	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML configuration over the defaults and
// validates the result.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, err
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns the default configuration: a 9-sample window
// polled every 200ms, CPU and battery on the left panel, network, temp
// and disk charts on the right.
func DefaultConfig() *Config {
	return &Config{
		Daemon: DaemonConfig{
			SampleInterval:    Duration{200 * time.Millisecond},
			MaxHistorySamples: 9,
			SocketPath:        "/run/matrix-pulse/display.sock",
			LogLevel:          "info",
		},
		Sources: SourcesConfig{
			Disks:        []Predicate{{StartsWith: "nvme"}},
			Networks:     []Predicate{{StartsWith: "wl"}, {StartsWith: "en"}},
			Temperatures: []Predicate{{Contains: "temp"}},
		},
		Panels: PanelsConfig{
			Brightness: 255,
			Left: []Directive{
				{Kind: "cpu", MidPoint: 10, MaxHeight: 10},
				{Kind: "battery", Y: 21, MaxHeight: 6},
				{Kind: "mem", X: 4, YStart: 33, YEnd: 27},
			},
			Right: []Directive{
				{Kind: "network", MidPoint: 8, MaxHeight: 8},
				{Kind: "temp", Y: 17, XStart: 0, XEnd: 9, Max: 100},
				{Kind: "disk", MidPoint: 26, MaxHeight: 7},
			},
		},
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MATRIX_PULSE_SOCKET"); v != "" {
		cfg.Daemon.SocketPath = v
	}
	if v := os.Getenv("MATRIX_PULSE_LOG_LEVEL"); v != "" {
		cfg.Daemon.LogLevel = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, "matrix-pulse", "config.yaml"))

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, "matrix-pulse", "config.yaml"))
	}

	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}
