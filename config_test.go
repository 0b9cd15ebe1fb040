package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0644))
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
devices:
  include: ["Symbol Technologies"]
  grab: true
max_scan_length: 128
forward:
  mode: matches
log:
  level: debug
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Symbol Technologies"}, cfg.Devices.Include)
	assert.True(t, cfg.Devices.Grab)
	assert.Equal(t, 128, cfg.MaxScanLength)
	assert.Equal(t, ForwardMatches, cfg.Forward.Mode)
	assert.Equal(t, "scanpair", cfg.Forward.DeviceName)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "us", cfg.Layout)
	assert.Equal(t, DefaultConfig().Output, cfg.Output)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad yaml", "devices: [", "parse"},
		{"unknown layout", "layout: azerty", "unknown layout"},
		{"negative max", "max_scan_length: -1", "must not be negative"},
		{"unknown forward mode", "forward:\n  mode: always", "unknown forward mode"},
		{"unknown log level", "log:\n  level: loud", "unknown log level"},
		{"unknown log format", "log:\n  format: xml", "unknown log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := LoadConfig(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestInitConfig_WritesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scanpair")
	require.NoError(t, initConfig(dir))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Empty(t, cfg.Devices.Include)
	assert.Equal(t, def.Devices.Grab, cfg.Devices.Grab)
	assert.Equal(t, def.Layout, cfg.Layout)
	assert.Equal(t, def.MaxScanLength, cfg.MaxScanLength)
	assert.Equal(t, def.Output, cfg.Output)
	assert.Equal(t, def.Forward, cfg.Forward)
	assert.Equal(t, def.Log, cfg.Log)
}

func TestInitConfig_KeepsExisting(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "layout: us\n")

	require.NoError(t, initConfig(dir))

	data, err := os.ReadFile(filepath.Join(dir, configFileName))
	require.NoError(t, err)
	assert.Equal(t, "layout: us\n", string(data))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown", "device", DeviceHandle(3))
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"component":"scanpair"`)

	_, err = newLogger(LogConfig{Level: "info", Format: "xml"}, &buf)
	assert.Error(t, err)
	_, err = newLogger(LogConfig{Level: "chatty"}, &buf)
	assert.Error(t, err)
}

func TestWatchConfig_Reloads(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "layout: us\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	reloads, err := watchConfig(ctx, dir, log)
	require.NoError(t, err)

	writeConfig(t, dir, "output:\n  scan_format: \"{{value}}\"\n")

	// A write can surface as several events; the file may be seen mid-write.
	timeout := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case cfg := <-reloads:
			done = cfg.Output.ScanFormat == "{{value}}"
		case <-timeout:
			t.Fatal("no reload after config write")
		}
	}

	cancel()
	for range reloads {
	}
}

func TestApplyReload(t *testing.T) {
	var out, logs bytes.Buffer
	console := NewConsoleSink(&out, DefaultConfig().Output)
	console.now = fixedClock
	log := slog.New(slog.NewTextHandler(&logs, nil))

	next := DefaultConfig()
	next.Output.ScanFormat = "{{value}}"
	applyReload(console, DefaultConfig(), next, log)
	console.ScanCompleted(Primary, "A")

	assert.Equal(t, "A\n", out.String())
	assert.NotContains(t, logs.String(), "restart")

	next2 := DefaultConfig()
	next2.MaxScanLength = 10
	applyReload(console, next, next2, log)
	assert.Contains(t, logs.String(), "restart")
}

func TestConfig_Warnings(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.Warnings())

	cfg.Forward.Mode = ForwardScans
	warnings := cfg.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "typed twice")

	cfg.Devices.Grab = true
	assert.Empty(t, cfg.Warnings())
}
