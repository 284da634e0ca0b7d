package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 9000, cfg.UDPPort)
	assert.Equal(t, 9100, cfg.MetricsPort)
	assert.Equal(t, "127.0.0.1", cfg.BindIP)
	assert.Equal(t, "collector.log", cfg.Out)
	assert.Equal(t, 5, cfg.RotateFiles)
}

func TestValidate_RejectsBadFields(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
	}{
		{"bad udp port", func(c *Config) { c.UDPPort = 0 }},
		{"bad metrics port", func(c *Config) { c.MetricsPort = 70000 }},
		{"empty bind ip", func(c *Config) { c.BindIP = "" }},
		{"empty out", func(c *Config) { c.Out = "" }},
		{"zero queue", func(c *Config) { c.Queue = 0 }},
		{"zero batch", func(c *Config) { c.Batch = 0 }},
		{"zero flush", func(c *Config) { c.FlushMS = 0 }},
		{"zero rotate mb", func(c *Config) { c.RotateMB = 0 }},
		{"zero rotate files", func(c *Config) { c.RotateFiles = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadYAML_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "collector.yaml")
	body := "udp_port: 9500\nrotate_files: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, 9500, cfg.UDPPort)
	assert.Equal(t, 2, cfg.RotateFiles)
	// Untouched keys keep their default.
	assert.Equal(t, 9100, cfg.MetricsPort)
}

func TestLoadYAML_MissingFile(t *testing.T) {
	_, err := LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadYAML_InvalidAfterOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "collector.yaml")
	require.NoError(t, os.WriteFile(path, []byte("queue: 0\n"), 0o600))

	_, err := LoadYAML(path)
	assert.Error(t, err)
}
