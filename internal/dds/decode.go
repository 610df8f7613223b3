package dds

import (
	"encoding/binary"
	"fmt"
	"image"
	"math/bits"

	"github.com/erinpentecost/bcsearch/internal/decode"
	"github.com/erinpentecost/bcsearch/internal/texture"
	"github.com/mauserzjeh/dxt"
)

var formatsByFourCC = map[string]texture.Format{
	"DXT1": texture.BC1A,
	"DXT3": texture.BC2,
	"DXT5": texture.BC3,
	"ATI1": texture.RGTC1,
	"BC4U": texture.RGTC1,
	"BC4S": texture.SignedRGTC1,
	"ATI2": texture.RGTC2,
	"BC5U": texture.RGTC2,
	"BC5S": texture.SignedRGTC2,
}

// Decode parses a DDS file and returns its top level as an image.
// Supports DXT1, DXT3, DXT5, the RGTC formats and uncompressed 24/32-bit
// surfaces described by channel masks.
func Decode(data []byte) (image.Image, error) {
	h, body, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	width, height := uint(h.width), uint(h.height)

	var pix []byte
	switch h.fourCC {
	case "DXT1":
		pix, err = dxt.DecodeDXT1(body, width, height)
	case "DXT3":
		pix, err = dxt.DecodeDXT3(body, width, height)
	case "DXT5":
		pix, err = dxt.DecodeDXT5(body, width, height)
	case "":
		pix, err = decodeUncompressed(body, h)
	default:
		c, err := ReadCompressed(data)
		if err != nil {
			return nil, err
		}
		t, err := decode.Texture(c)
		if err != nil {
			return nil, fmt.Errorf("dds: %w", err)
		}
		return texture.ToImage(t), nil
	}
	if err != nil {
		return nil, fmt.Errorf("dds: decode error: %w", err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, int(width), int(height)))
	if len(pix) != len(img.Pix) {
		return nil, fmt.Errorf("dds: unexpected decoded byte length %d, want %d", len(pix), len(img.Pix))
	}
	copy(img.Pix, pix)
	return img, nil
}

// ReadCompressed returns the top level of a block-compressed DDS file
// without decoding it. DXT1 surfaces are reported as BC1A since the
// container does not say whether transparency is used.
func ReadCompressed(data []byte) (*texture.Compressed, error) {
	h, body, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	f, ok := formatsByFourCC[h.fourCC]
	if !ok {
		return nil, fmt.Errorf("%w: FourCC %q", ErrUnsupportedFormat, h.fourCC)
	}
	if h.width%4 != 0 || h.height%4 != 0 {
		return nil, fmt.Errorf("%w: %dx%d is not a whole number of blocks", ErrHeader, h.width, h.height)
	}
	c := &texture.Compressed{Width: int(h.width), Height: int(h.height), Format: f}
	size := (c.Width / 4) * (c.Height / 4) * f.BlockSize()
	if len(body) < size {
		return nil, fmt.Errorf("dds: %d bytes of %s data, want %d", len(body), f, size)
	}
	c.Data = body[:size]
	return c, nil
}

// decodeUncompressed converts 24- or 32-bit pixels to RGBA using the
// channel masks from the header. A missing alpha mask means opaque.
func decodeUncompressed(data []byte, h *header) ([]byte, error) {
	if h.bitCount != 24 && h.bitCount != 32 {
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedFormat, h.bitCount)
	}
	bpp := int(h.bitCount / 8)
	width, height := int(h.width), int(h.height)
	pitch := width * bpp
	if h.flags&DDSD_PITCH != 0 && int(h.pitchOrSize) > pitch {
		pitch = int(h.pitchOrSize)
	}
	if len(data) < pitch*(height-1)+width*bpp {
		return nil, fmt.Errorf("dds uncompressed: data too small (%d bytes for %dx%d)", len(data), width, height)
	}
	masks := h.masks
	if masks == [4]uint32{} {
		// assume BGR(A)
		masks = [4]uint32{0x00FF0000, 0x0000FF00, 0x000000FF, 0}
		if bpp == 4 {
			masks[3] = 0xFF000000
		}
	}

	out := make([]byte, width*height*4)
	var px [4]byte
	for y := range height {
		row := data[y*pitch:]
		for x := range width {
			copy(px[:], row[x*bpp:x*bpp+bpp])
			v := binary.LittleEndian.Uint32(px[:])
			o := (y*width + x) * 4
			for ch, m := range masks {
				out[o+ch] = channel(v, m, ch == 3)
			}
		}
	}
	return out, nil
}

func channel(v, mask uint32, alpha bool) byte {
	if mask == 0 {
		if alpha {
			return 255
		}
		return 0
	}
	shift := bits.TrailingZeros32(mask)
	width := bits.OnesCount32(mask)
	c := (v & mask) >> shift
	if width == 8 {
		return byte(c)
	}
	return byte(uint64(c) * 255 / (1<<width - 1))
}
