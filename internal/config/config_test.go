package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, doc map[string]any) string {
	t.Helper()

	data, err := yaml.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "divedump.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "serial", cfg.Link.Transport)
	assert.Equal(t, 9600, cfg.Link.Baud)
	assert.Equal(t, 3*time.Second, cfg.Link.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.Link.DialTimeout)
	assert.Equal(t, uint(1), cfg.Link.LSAP)
	assert.Equal(t, 16<<20, cfg.Download.MaxDumpSize)
	assert.Equal(t, "yaml", cfg.Output.Format)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"log": map[string]any{
			"level": "debug",
			"file":  map[string]any{"path": "/tmp/divedump.log", "max_backups": 7},
		},
		"link": map[string]any{
			"transport":    "tcp",
			"address":      "10.0.0.5:4200",
			"read_timeout": "750ms",
			"device_names": []string{"Aladin", "Galileo"},
		},
		"download": map[string]any{"fingerprint": "0a0b0c0d", "strict_handshake": true},
		"output":   map[string]any{"format": "json"},
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/divedump.log", cfg.Log.File.Path)
	assert.Equal(t, 7, cfg.Log.File.MaxBackups)
	assert.Equal(t, 10, cfg.Log.File.MaxSizeMB)
	assert.Equal(t, "tcp", cfg.Link.Transport)
	assert.Equal(t, "10.0.0.5:4200", cfg.Link.Address)
	assert.Equal(t, 750*time.Millisecond, cfg.Link.ReadTimeout)
	assert.Equal(t, []string{"Aladin", "Galileo"}, cfg.Link.DeviceNames)
	assert.Equal(t, "0a0b0c0d", cfg.Download.Fingerprint)
	assert.True(t, cfg.Download.StrictHandshake)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"link": map[string]any{"port": "/dev/ttyS0"},
	})
	t.Setenv("DIVELOG_LINK_PORT", "/dev/ttyUSB3")
	t.Setenv("DIVELOG_OUTPUT_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB3", cfg.Link.Port)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
		want string
	}{
		{"level", map[string]any{"log": map[string]any{"level": "loud"}}, "unknown level"},
		{"transport", map[string]any{"link": map[string]any{"transport": "usb"}}, "link.transport"},
		{"tcp address", map[string]any{"link": map[string]any{"transport": "tcp", "address": ""}}, "link.address"},
		{"baud", map[string]any{"link": map[string]any{"baud": 0}}, "link.baud"},
		{"dump size", map[string]any{"download": map[string]any{"max_dump_size": -1}}, "download.max_dump_size"},
		{"format", map[string]any{"output": map[string]any{"format": "xml"}}, "output.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
