// Package config loads compression presets from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/erinpentecost/bcsearch/internal/compress"
	"github.com/erinpentecost/bcsearch/internal/texture"
	"gopkg.in/yaml.v3"
)

// Config is a compression preset. Zero values in a file fall back to
// Default.
type Config struct {
	Format     string `yaml:"format"`
	Tries      int    `yaml:"tries"`
	Modal      string `yaml:"modal"`
	MaxThreads int    `yaml:"max_threads"`
	Seed       uint64 `yaml:"seed"`
	Mipmaps    bool   `yaml:"mipmaps"`
	Align      bool   `yaml:"align"`
	// PowerOfTwo resizes the input to a power of two square first. The
	// value divides the longer side; 0 leaves the size alone.
	PowerOfTwo int    `yaml:"power_of_two"`
	Quiet      bool   `yaml:"quiet"`
}

// Default is one try of BC1 with the format's modal default.
func Default() Config {
	return Config{
		Format: texture.BC1.String(),
		Tries:  1,
		Modal:  "default",
	}
}

// Load reads a preset from path on top of Default. Unknown keys are an
// error.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	return Parse(raw)
}

// Parse is Load for an in-memory document.
func Parse(raw []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseModal maps "default", "on" and "off" to a compress.Modal.
func ParseModal(s string) (compress.Modal, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return compress.ModalAuto, nil
	case "on", "true", "yes":
		return compress.ModalOn, nil
	case "off", "false", "no":
		return compress.ModalOff, nil
	}
	return 0, fmt.Errorf("config: unknown modal setting %q", s)
}

// Validate checks every field.
func (c Config) Validate() error {
	f, err := texture.ParseFormat(c.Format)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !compress.Supported(f) {
		return fmt.Errorf("config: %w: %s", compress.ErrUnsupportedFormat, f)
	}
	if c.PowerOfTwo < 0 {
		return fmt.Errorf("config: power_of_two %d is negative", c.PowerOfTwo)
	}
	_, err = c.Options()
	return err
}

// TextureFormat is the parsed Format field.
func (c Config) TextureFormat() (texture.Format, error) {
	return texture.ParseFormat(c.Format)
}

// Options converts the preset into compressor options.
func (c Config) Options() (compress.Options, error) {
	modal, err := ParseModal(c.Modal)
	if err != nil {
		return compress.Options{}, err
	}
	opts := compress.Options{
		Tries:      c.Tries,
		Modal:      modal,
		MaxThreads: c.MaxThreads,
		Seed:       c.Seed,
	}
	if err := opts.Validate(); err != nil {
		return compress.Options{}, fmt.Errorf("config: %w", err)
	}
	return opts, nil
}
