package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestParseConfigMergesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
[window]
title = "phong"
hidden = true

[render]
clear_color = [0.1, 0.2, 0.3, 1.0]
frame_limit = 30.0

[texture]
decode_workers = 3
`))
	require.NoError(t, err)

	assert.Equal(t, "phong", cfg.Window.Title)
	assert.True(t, cfg.Window.Hidden)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.True(t, cfg.Window.VSync)
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, cfg.Render.ClearColor)
	assert.Equal(t, 30.0, cfg.Render.FrameLimit)
	assert.Equal(t, 60.0, cfg.Render.TickRate)
	assert.Equal(t, 3, cfg.Texture.DecodeWorkers)
	assert.Equal(t, 16, cfg.Texture.QueueSize)
	assert.True(t, cfg.Texture.OriginBottomLeft)
}

func TestParseConfigErrors(t *testing.T) {
	cases := map[string]string{
		"unknown key":      "[window]\ncolour = 1\n",
		"syntax":           "[window\n",
		"negative workers": "[texture]\ndecode_workers = -1\n",
		"bad clear colour": "[render]\nclear_color = [2.0, 0.0, 0.0, 1.0]\n",
		"zero width":       "[window]\nwidth = -5\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(doc))
			assert.Error(t, err)
		})
	}

	_, err := ParseConfig([]byte("[render]\ntick_rate = -1.0\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oxy.toml")
	require.NoError(t, os.WriteFile(path, []byte("[profiling]\nenabled = true\ninterval_ms = 250\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Profiling.Enabled)
	assert.Equal(t, 250, cfg.Profiling.IntervalMS)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
