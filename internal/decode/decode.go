// Package decode turns compressed blocks back into pixels.
//
// Block writes the 16 pixels of one block, tightly packed, in the pixel
// layout of the format (see texture.Format.PixelFormat).
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/erinpentecost/bcsearch/internal/texture"
)

var (
	// ErrInvalidBlock marks a bitstring that no conforming decoder accepts.
	ErrInvalidBlock = errors.New("decode: invalid block")
	ErrFormat       = errors.New("decode: unsupported format")
)

// Block decodes bits into dst. dst must hold 16 pixels of f.PixelFormat().
func Block(f texture.Format, bits []byte, dst []byte) error {
	if len(bits) < f.BlockSize() {
		return fmt.Errorf("decode %s: block of %d bytes: %w", f, len(bits), ErrInvalidBlock)
	}
	switch f {
	case texture.BC1:
		colorBlock(bits, dst, false, false)
	case texture.BC1A:
		colorBlock(bits, dst, false, true)
	case texture.BC2:
		colorBlock(bits[8:], dst, true, false)
		for i := range 16 {
			nibble := bits[i/2] >> (4 * (i & 1)) & 0xF
			dst[4*i+3] = nibble * 17
		}
	case texture.BC3:
		colorBlock(bits[8:], dst, true, false)
		alphaBlock(bits, dst[3:], 4)
	case texture.RGTC1:
		alphaBlock(bits, dst, 1)
	case texture.RGTC2:
		alphaBlock(bits, dst, 2)
		alphaBlock(bits[8:], dst[1:], 2)
	case texture.SignedRGTC1:
		signedBlock(bits, dst, 2)
	case texture.SignedRGTC2:
		signedBlock(bits, dst, 4)
		signedBlock(bits[8:], dst[2:], 4)
	case texture.ETC1:
		return etc1Block(bits, dst)
	default:
		return fmt.Errorf("decode %s: %w", f, ErrFormat)
	}
	return nil
}

// colorBlock decodes a BC1 colour block into RGBA pixels. BC2 and BC3
// colour blocks always use four colours. Without transparency the
// three-colour black entry stays opaque.
func colorBlock(bits, dst []byte, forceFour, transparent bool) {
	c0, c1 := BC1Endpoints(bits)
	pal := BC1Palette(c0, c1, forceFour || c0 > c1)
	if !transparent {
		pal[3][3] = 0xFF
	}
	idx := binary.LittleEndian.Uint32(bits[4:])
	for i := range 16 {
		copy(dst[4*i:4*i+4], pal[idx>>(2*i)&3][:])
	}
}

func alphaBlock(bits, dst []byte, stride int) {
	ramp := AlphaRamp(bits[0], bits[1])
	idx := AlphaIndices(bits)
	for i, s := range idx {
		dst[i*stride] = ramp[s]
	}
}

func signedBlock(bits, dst []byte, stride int) {
	ramp := SignedRamp(int8(bits[0]), int8(bits[1]))
	idx := AlphaIndices(bits)
	for i, s := range idx {
		binary.LittleEndian.PutUint16(dst[i*stride:], uint16(texture.ExpandSigned8(ramp[s])))
	}
}

func etc1Block(bits, dst []byte) error {
	h := ETC1Header(bits)
	b1, b2, ok := ETC1Bases(h)
	if !ok {
		return fmt.Errorf("decode ETC1: differential colour overflow: %w", ErrInvalidBlock)
	}
	cw1, cw2 := ETC1Codewords(h)
	flip := ETC1Flip(h)
	word := binary.BigEndian.Uint32(bits[4:])
	for y := range 4 {
		for x := range 4 {
			base, cw := b1, cw1
			if ETC1SecondSubblock(flip, x, y) {
				base, cw = b2, cw2
			}
			m := ETC1Modifier(cw, ETC1Selector(word, x, y))
			o := 4 * (y*4 + x)
			for ch := range 3 {
				dst[o+ch] = uint8(min(max(int(base[ch])+m, 0), 255))
			}
			dst[o+3] = 0xFF
		}
	}
	return nil
}

// Texture decodes a whole compressed image.
func Texture(c *texture.Compressed) (*texture.Texture, error) {
	out := texture.New(c.Width, c.Height, c.Format.PixelFormat())
	bx, by := c.Blocks()
	if len(c.Data) < bx*by*c.Format.BlockSize() {
		return nil, fmt.Errorf("decode %s: %d bytes for %dx%d: %w", c.Format, len(c.Data), c.Width, c.Height, ErrInvalidBlock)
	}
	bpp := out.Format.BytesPerPixel()
	buf := make([]byte, 16*bpp)
	for y := range by {
		for x := range bx {
			if err := Block(c.Format, c.BlockAt(x, y), buf); err != nil {
				return nil, fmt.Errorf("block (%d,%d): %w", x, y, err)
			}
			for dy := range 4 {
				py := 4*y + dy
				if py >= c.Height {
					break
				}
				for dx := range 4 {
					px := 4*x + dx
					if px >= c.Width {
						break
					}
					o := out.Offset(px, py)
					copy(out.Pix[o:o+bpp], buf[(dy*4+dx)*bpp:])
				}
			}
		}
	}
	return out, nil
}
