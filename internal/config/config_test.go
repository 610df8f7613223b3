package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erinpentecost/bcsearch/internal/compress"
	"github.com/erinpentecost/bcsearch/internal/texture"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	opts, err := cfg.Options()
	require.NoError(t, err)
	require.Equal(t, compress.Options{Tries: 1, Modal: compress.ModalAuto}, opts)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
format: dxt5
tries: 8
modal: off
max_threads: 4
seed: 1234
mipmaps: true
power_of_two: 2
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Config{
		Format:     "dxt5",
		Tries:      8,
		Modal:      "off",
		MaxThreads: 4,
		Seed:       1234,
		Mipmaps:    true,
		PowerOfTwo: 2,
	}, cfg)

	f, err := cfg.TextureFormat()
	require.NoError(t, err)
	require.Equal(t, texture.BC3, f)

	opts, err := cfg.Options()
	require.NoError(t, err)
	require.Equal(t, compress.Options{Tries: 8, Modal: compress.ModalOff, MaxThreads: 4, Seed: 1234}, opts)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		doc  string
		want error
	}{
		{"unknown key", "colour: red\n", nil},
		{"bad format", "format: bc7\n", texture.ErrUnknownFormat},
		{"bad tries", "tries: 2000\n", compress.ErrTries},
		{"bad threads", "max_threads: -2\n", compress.ErrThreads},
		{"bad modal", "modal: sometimes\n", nil},
		{"negative power of two", "power_of_two: -1\n", nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			require.Error(t, err)
			if tc.want != nil {
				require.ErrorIs(t, err, tc.want)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseModal(t *testing.T) {
	for in, want := range map[string]compress.Modal{
		"":        compress.ModalAuto,
		"Default": compress.ModalAuto,
		"on":      compress.ModalOn,
		"OFF":     compress.ModalOff,
	} {
		got, err := ParseModal(in)
		require.NoError(t, err)
		require.Equal(t, want, got, in)
	}
}
