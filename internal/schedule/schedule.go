// Package schedule spreads the blocks of a texture over workers.
//
// The texture is cut into bands of whole block rows. Every band is one
// task with its own random generator, and tasks write to disjoint parts of
// the output, so nothing is locked.
package schedule

import (
	"context"
	"fmt"
	"runtime"

	"github.com/erinpentecost/bcsearch/internal/codec"
	"github.com/erinpentecost/bcsearch/internal/optimize"
	"github.com/erinpentecost/bcsearch/internal/rng"
	"github.com/erinpentecost/bcsearch/internal/texture"
	"golang.org/x/sync/errgroup"
)

// MinBlocksPerBand keeps small textures from being cut too finely.
const MinBlocksPerBand = 32

// Band is a range of pixel rows [Y0, Y1). Both ends are multiples of 4.
type Band struct {
	Y0, Y1 int
}

// Bands partitions a width x height texture. maxThreads <= 0 means two
// bands per CPU.
func Bands(width, height, maxThreads int) []Band {
	rows := height / 4
	blocks := (width / 4) * rows
	n := maxThreads
	if n <= 0 {
		n = 2 * runtime.NumCPU()
	}
	if blocks/n < MinBlocksPerBand {
		n = blocks / MinBlocksPerBand
	}
	n = max(min(n, rows), 1)

	bands := make([]Band, 0, n)
	for i := range n {
		bands = append(bands, Band{
			Y0: 4 * (i * rows / n),
			Y1: 4 * ((i + 1) * rows / n),
		})
	}
	return bands
}

// Job is one pass over a texture with one engine.
type Job struct {
	Engine     optimize.Engine
	Tries      int
	Modal      bool
	MaxThreads int
	// Seed makes the pass reproducible for a fixed band layout.
	Seed uint64
}

// Run compresses every block of tex into out. out must hold one bitstring
// per block in row-major block order.
func Run(ctx context.Context, tex *texture.Texture, out []byte, job Job) error {
	size := job.Engine.Info().Format.BlockSize()
	perRow := tex.Width / 4
	if want := perRow * (tex.Height / 4) * size; len(out) != want {
		return fmt.Errorf("schedule: output of %d bytes, want %d", len(out), want)
	}

	bands := Bands(tex.Width, tex.Height, job.MaxThreads)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(len(bands))
	for i, band := range bands {
		g.Go(func() error {
			r := rng.New(job.Seed + uint64(i))
			info := codec.NewBlockInfo(tex)
			for y := band.Y0; y < band.Y1; y += 4 {
				for x := 0; x < tex.Width; x += 4 {
					if err := ctx.Err(); err != nil {
						return fmt.Errorf("band %d: %w", i, err)
					}
					info.Load(x, y)
					o := ((y/4)*perRow + x/4) * size
					job.Engine.CompressBlock(info, r, out[o:o+size], job.Tries, job.Modal)
				}
			}
			return nil
		})
	}
	return g.Wait()
}
