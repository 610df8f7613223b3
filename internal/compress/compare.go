package compress

import (
	"fmt"
	"math"

	"github.com/erinpentecost/bcsearch/internal/decode"
	"github.com/erinpentecost/bcsearch/internal/metric"
	"github.com/erinpentecost/bcsearch/internal/texture"
)

// Stats summarizes how close a compressed texture is to its source.
type Stats struct {
	// RMSE is the root mean square error per pixel over the whole texture.
	RMSE float64
	// BlockAverage and BlockSD describe the distribution of per-block RMSE.
	BlockAverage float64
	BlockSD      float64
	Blocks       int
}

// Compare decodes every block of c and measures it against original, which
// is converted to the layout of c first. A block that fails to decode is
// reported as ErrVerification.
func Compare(original *texture.Texture, c *texture.Compressed) (Stats, error) {
	if c.Width <= 0 || c.Height <= 0 || c.Width%4 != 0 || c.Height%4 != 0 {
		return Stats{}, fmt.Errorf("%w: got %dx%d", ErrDimensions, c.Width, c.Height)
	}
	if original.Width != c.Width || original.Height != c.Height {
		return Stats{}, fmt.Errorf("%w: comparing %dx%d with %dx%d", ErrDimensions,
			original.Width, original.Height, c.Width, c.Height)
	}
	if want := Size(c.Width, c.Height, c.Format); len(c.Data) != want {
		return Stats{}, fmt.Errorf("%w: %d bytes, want %d", ErrBufferSize, len(c.Data), want)
	}
	pf := c.Format.PixelFormat()
	measure := metric.For(pf)
	if measure == nil {
		return Stats{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, c.Format)
	}
	src := texture.Convert(original, pf)

	size := 16 * pf.BytesPerPixel()
	decoded := make([]byte, size)
	block := make([]byte, size)
	bx, by := c.Blocks()
	var total, sum, sumSq float64
	for y := range by {
		for x := range bx {
			if err := decode.Block(c.Format, c.BlockAt(x, y), decoded); err != nil {
				return Stats{}, fmt.Errorf("block (%d,%d): %w: %w", x, y, ErrVerification, err)
			}
			src.Block(4*x, 4*y, block)
			e := measure(decoded, block)
			total += e
			rmse := math.Sqrt(e / 16)
			sum += rmse
			sumSq += rmse * rmse
		}
	}
	n := float64(bx * by)
	s := Stats{
		RMSE:   math.Sqrt(total / float64(c.Width*c.Height)),
		Blocks: bx * by,
	}
	if n > 0 {
		s.BlockAverage = sum / n
		s.BlockSD = math.Sqrt(max(sumSq/n-s.BlockAverage*s.BlockAverage, 0))
	}
	return s, nil
}
