// Package compress is the entry point for compressing whole textures.
package compress

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/erinpentecost/bcsearch/internal/optimize"
	"github.com/erinpentecost/bcsearch/internal/schedule"
	"github.com/erinpentecost/bcsearch/internal/texture"
)

var (
	ErrUnsupportedFormat = errors.New("compress: unsupported format")
	ErrDimensions        = errors.New("compress: width and height must be positive multiples of 4")
	ErrTries             = errors.New("compress: tries out of range")
	ErrThreads           = errors.New("compress: max threads out of range")
	ErrBufferSize        = errors.New("compress: output buffer size mismatch")
	ErrPixelFormat       = errors.New("compress: pixel format mismatch")
	// ErrVerification means a bitstring the compressor produced could not
	// be decoded. It indicates a bug and should be treated as fatal.
	ErrVerification = errors.New("compress: verification failed")
)

const (
	MinTries   = 1
	MaxTries   = 1023
	MaxThreads = 256
)

// Modal selects whether every mode of a format is searched separately.
type Modal int

const (
	// ModalAuto uses the recommendation of the format.
	ModalAuto Modal = iota
	ModalOn
	ModalOff
)

// Options tune a compression run.
type Options struct {
	// Tries is the number of independent searches per block and mode.
	Tries int
	Modal Modal
	// MaxThreads bounds the number of bands; 0 picks two per CPU.
	MaxThreads int
	// Seed fixes the random streams. Zero draws a fresh seed, so repeated
	// runs may produce different bitstrings of similar quality.
	Seed uint64
}

// DefaultOptions returns one try per block with the format's modal default.
func DefaultOptions() Options {
	return Options{Tries: 1}
}

// Validate checks the ranges of the options.
func (o Options) Validate() error {
	if o.Tries < MinTries || o.Tries > MaxTries {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrTries, o.Tries, MinTries, MaxTries)
	}
	if o.MaxThreads < 0 || o.MaxThreads > MaxThreads {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrThreads, o.MaxThreads, MaxThreads)
	}
	return nil
}

func (o Options) modal(f texture.Format) bool {
	switch o.Modal {
	case ModalOn:
		return true
	case ModalOff:
		return false
	}
	return ModalDefault(f)
}

func planeEngine(f texture.Format) (optimize.Engine, bool) {
	return optimize.For(f.PlaneFormat())
}

// Supported reports whether f can be compressed.
func Supported(f texture.Format) bool {
	_, ok := planeEngine(f)
	return ok
}

// NumberOfModes is the number of modes of f. A composite format has every
// combination of its planes' modes.
func NumberOfModes(f texture.Format) int {
	e, ok := planeEngine(f)
	if !ok {
		return 0
	}
	n := 1
	for range f.Planes() {
		n *= e.Info().Modes
	}
	return n
}

// ModalDefault reports whether f is searched mode by mode unless told
// otherwise.
func ModalDefault(f texture.Format) bool {
	e, ok := planeEngine(f)
	return ok && e.Info().ModalDefault
}

// Size is the number of bytes a width x height texture takes in format f.
func Size(width, height int, f texture.Format) int {
	return (width / 4) * (height / 4) * f.BlockSize()
}

// Compress writes tex compressed as f into out. tex must already be in
// f.PixelFormat() and out must be exactly Size bytes.
func Compress(ctx context.Context, tex *texture.Texture, out []byte, f texture.Format, opts Options) error {
	if !Supported(f) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	if tex.Width <= 0 || tex.Height <= 0 || tex.Width%4 != 0 || tex.Height%4 != 0 {
		return fmt.Errorf("%w: got %dx%d", ErrDimensions, tex.Width, tex.Height)
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	if tex.Format != f.PixelFormat() {
		return fmt.Errorf("%w: %s needs %s, got %s", ErrPixelFormat, f, f.PixelFormat(), tex.Format)
	}
	if want := Size(tex.Width, tex.Height, f); len(out) != want {
		return fmt.Errorf("%w: %d bytes, want %d", ErrBufferSize, len(out), want)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	engine, _ := planeEngine(f)
	job := schedule.Job{
		Engine:     engine,
		Tries:      opts.Tries,
		Modal:      opts.modal(f),
		MaxThreads: opts.MaxThreads,
		Seed:       seed,
	}
	if f.Composite() {
		return compressPlanes(ctx, tex, out, f, job)
	}
	if err := schedule.Run(ctx, tex, out, job); err != nil {
		return fmt.Errorf("compress %s: %w", f, err)
	}
	return nil
}

// CompressTexture converts tex to the layout f needs and compresses it
// into a new buffer.
func CompressTexture(ctx context.Context, tex *texture.Texture, f texture.Format, opts Options) (*texture.Compressed, error) {
	src := texture.Convert(tex, f.PixelFormat())
	c := &texture.Compressed{
		Width:  tex.Width,
		Height: tex.Height,
		Format: f,
		Data:   make([]byte, Size(tex.Width, tex.Height, f)),
	}
	if err := Compress(ctx, src, c.Data, f, opts); err != nil {
		return nil, err
	}
	return c, nil
}
