package compress

import (
	"context"
	"fmt"

	"github.com/erinpentecost/bcsearch/internal/schedule"
	"github.com/erinpentecost/bcsearch/internal/texture"
)

// compressPlanes handles formats made of independent single-channel
// blocks: each channel is extracted, compressed on its own, and its
// bitstrings are interleaved into out at the channel's slot in every
// block. Planes run one after the other with the same seed.
func compressPlanes(ctx context.Context, tex *texture.Texture, out []byte, f texture.Format, job schedule.Job) error {
	planeSize := f.PlaneFormat().BlockSize()
	planes := f.Planes()
	buf := make([]byte, len(out)/planes)
	for ch := range planes {
		plane, err := texture.Channel(tex, ch)
		if err != nil {
			return fmt.Errorf("compress %s: %w", f, err)
		}
		if err := schedule.Run(ctx, plane, buf, job); err != nil {
			return fmt.Errorf("compress %s channel %d: %w", f, ch, err)
		}
		interleave(out, buf, ch, planes, planeSize)
	}
	return nil
}

// interleave copies every planeSize-byte block of plane into slot ch of
// the corresponding planes*planeSize-byte block of out.
func interleave(out, plane []byte, ch, planes, planeSize int) {
	stride := planes * planeSize
	for i, o := 0, ch*planeSize; i < len(plane); i, o = i+planeSize, o+stride {
		copy(out[o:o+planeSize], plane[i:i+planeSize])
	}
}
