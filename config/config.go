// Package config provides configuration parsing for matrix-pulse.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the matrix-pulse daemon configuration.
type Config struct {
	// Daemon holds polling and transport settings.
	Daemon DaemonConfig `yaml:"daemon"`

	// Sources selects which host sensors feed each metric.
	Sources SourcesConfig `yaml:"sources"`

	// Panels holds the declarative render directive lists for the two
	// display panels. The visual layout is entirely data: changing it
	// never requires new code.
	Panels PanelsConfig `yaml:"panels"`
}

// DaemonConfig holds polling and transport settings.
type DaemonConfig struct {
	// SampleInterval is the time between poll-render-transmit cycles.
	SampleInterval Duration `yaml:"sample_interval"`
	// MaxHistorySamples is the history buffer capacity. Must be positive.
	MaxHistorySamples int `yaml:"max_history_samples"`
	// SocketPath is the Unix socket of the display server.
	SocketPath string `yaml:"socket_path"`
	// LogLevel is the slog level: "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`
}

// SourcesConfig selects host sensors by name. A metric whose filter list
// matches nothing is simply absent from that cycle's snapshot.
type SourcesConfig struct {
	// Disks matches disk device names (e.g. "nvme0n1").
	Disks []Predicate `yaml:"disks"`
	// Networks matches interface names (e.g. "wlp1s0").
	Networks []Predicate `yaml:"networks"`
	// Temperatures matches sensor labels (e.g. "k10temp").
	Temperatures []Predicate `yaml:"temperatures"`
}

// PanelsConfig holds the per-panel directive lists.
type PanelsConfig struct {
	// Brightness caps pixel intensity (1-255). Zero means full brightness.
	Brightness int `yaml:"brightness"`
	// Left and Right are the ordered directive lists for the two panels.
	Left  []Directive `yaml:"left"`
	Right []Directive `yaml:"right"`
}

// Directive describes one visual element: a kind tag plus the geometry the
// corresponding drawing primitive needs. Fields unused by a kind are
// ignored. The kind set is closed; unknown kinds fail validation.
type Directive struct {
	// Kind is one of: cpu, average_cpu, network, disk, mem, temp, battery.
	Kind string `yaml:"kind"`
	// X is the anchor column (average_cpu, mem).
	X int `yaml:"x"`
	// Y is the anchor row (temp, battery).
	Y int `yaml:"y"`
	// YStart and YEnd are the vertical bar extent (average_cpu, mem).
	YStart int `yaml:"y_start"`
	YEnd   int `yaml:"y_end"`
	// XStart and XEnd are the horizontal bar extent (temp).
	XStart int `yaml:"x_start"`
	XEnd   int `yaml:"x_end"`
	// MidPoint and MaxHeight are the mirrored-chart anchor and half-height
	// (cpu, network, disk); battery uses MaxHeight as the gauge height.
	MidPoint  int `yaml:"mid_point"`
	MaxHeight int `yaml:"max_height"`
	// Max is the normalization ceiling where one applies (temp).
	Max uint64 `yaml:"max"`
	// K is the sigmoid steepness for the brightness falloff. Zero selects
	// the renderer default.
	K float64 `yaml:"k"`
}

// directiveKinds is the closed set of renderable element kinds.
var directiveKinds = map[string]bool{
	"cpu":         true,
	"average_cpu": true,
	"network":     true,
	"disk":        true,
	"mem":         true,
	"temp":        true,
	"battery":     true,
}

// Validate checks invariants that would otherwise surface as render-time
// failures on every cycle.
func (c *Config) Validate() error {
	if c.Daemon.SampleInterval.Duration <= 0 {
		return fmt.Errorf("config: sample_interval must be positive, got %s", c.Daemon.SampleInterval.Duration)
	}
	if c.Daemon.MaxHistorySamples <= 0 {
		return fmt.Errorf("config: max_history_samples must be positive, got %d", c.Daemon.MaxHistorySamples)
	}
	if c.Daemon.SocketPath == "" {
		return fmt.Errorf("config: socket_path must not be empty")
	}
	if c.Panels.Brightness < 0 || c.Panels.Brightness > 255 {
		return fmt.Errorf("config: brightness must be 0-255, got %d", c.Panels.Brightness)
	}
	for _, preds := range [][]Predicate{c.Sources.Disks, c.Sources.Networks, c.Sources.Temperatures} {
		for _, p := range preds {
			if err := p.validate(); err != nil {
				return err
			}
		}
	}
	for panel, ds := range map[string][]Directive{"left": c.Panels.Left, "right": c.Panels.Right} {
		for i, d := range ds {
			if !directiveKinds[d.Kind] {
				return fmt.Errorf("config: panel %s directive %d: unknown kind %q", panel, i, d.Kind)
			}
		}
	}
	return nil
}

// Duration wraps time.Duration for YAML decoding of strings like "200ms".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}
