package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yml"

// Forward modes.
const (
	ForwardOff     = "off"
	ForwardScans   = "scans"
	ForwardMatches = "matches"
)

// Config is the YAML configuration file.
type Config struct {
	Devices       DeviceConfig  `yaml:"devices"`
	Layout        string        `yaml:"layout"`
	MaxScanLength int           `yaml:"max_scan_length"`
	Output        OutputConfig  `yaml:"output"`
	Forward       ForwardConfig `yaml:"forward"`
	Log           LogConfig     `yaml:"log"`
}

// DeviceConfig selects which input devices are monitored.
type DeviceConfig struct {
	// Include lists device name substrings; empty monitors every keyboard.
	Include []string `yaml:"include"`
	Grab    bool     `yaml:"grab"`
}

// OutputConfig holds the console line templates.
type OutputConfig struct {
	TimeFormat  string `yaml:"time_format"`
	ScanFormat  string `yaml:"scan_format"`
	MatchFormat string `yaml:"match_format"`
}

// ForwardConfig controls retyping scans on a virtual keyboard.
type ForwardConfig struct {
	Mode       string `yaml:"mode"`
	DeviceName string `yaml:"device_name"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Layout: "us",
		Output: OutputConfig{
			TimeFormat:  "%H:%M:%S",
			ScanFormat:  "[{{time}}] {{role}}: {{value}}",
			MatchFormat: "[{{time}}] {{role}}: ✔ match confirmed: {{value}}",
		},
		Forward: ForwardConfig{
			Mode:       ForwardOff,
			DeviceName: "scanpair",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads dir/config.yml over the defaults. A missing file is not
// an error.
func LoadConfig(dir string) (*Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(dir, configFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated fields and bounds.
func (c *Config) Validate() error {
	if _, ok := layouts[c.Layout]; !ok {
		return fmt.Errorf("unknown layout %q (available: %v)", c.Layout, LayoutNames())
	}
	if c.MaxScanLength < 0 {
		return fmt.Errorf("max_scan_length must not be negative, got %d", c.MaxScanLength)
	}
	switch c.Forward.Mode {
	case ForwardOff, ForwardScans, ForwardMatches:
	default:
		return fmt.Errorf("unknown forward mode %q", c.Forward.Mode)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// Warnings reports valid but likely unintended settings.
func (c *Config) Warnings() []string {
	var w []string
	if c.Forward.Mode != ForwardOff && !c.Devices.Grab {
		w = append(w, fmt.Sprintf("forward.mode is %q but devices.grab is false: scanned values will be typed twice", c.Forward.Mode))
	}
	return w
}
