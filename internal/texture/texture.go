// Package texture holds uncompressed and block-compressed images.
//
// A Texture is a tightly packed, row-major pixel buffer. All accessors are
// bounds-checked and panic when handed coordinates outside the image or
// when the pixel layout does not match the accessor.
package texture

import (
	"encoding/binary"
	"fmt"
)

// PixelFormat is the memory layout of one uncompressed pixel.
type PixelFormat int

const (
	RGBA8 PixelFormat = iota
	// RGBX8 is RGBA8 where the fourth byte is ignored.
	RGBX8
	RGB8
	R8
	RG8
	SignedR8
	SignedRG8
	// SignedR16 stores one little-endian int16 per pixel.
	SignedR16
	SignedRG16
)

var pixelFormats = [...]struct {
	name     string
	size     int
	channels int
	signed   bool
}{
	RGBA8:      {"RGBA8", 4, 4, false},
	RGBX8:      {"RGBX8", 4, 3, false},
	RGB8:       {"RGB8", 3, 3, false},
	R8:         {"R8", 1, 1, false},
	RG8:        {"RG8", 2, 2, false},
	SignedR8:   {"SignedR8", 1, 1, true},
	SignedRG8:  {"SignedRG8", 2, 2, true},
	SignedR16:  {"SignedR16", 2, 1, true},
	SignedRG16: {"SignedRG16", 4, 2, true},
}

func (p PixelFormat) valid() bool {
	return p >= 0 && int(p) < len(pixelFormats)
}

func (p PixelFormat) String() string {
	if !p.valid() {
		return fmt.Sprintf("PixelFormat(%d)", int(p))
	}
	return pixelFormats[p].name
}

// BytesPerPixel is the size of one pixel in bytes.
func (p PixelFormat) BytesPerPixel() int {
	return pixelFormats[p].size
}

// Channels is the number of meaningful channels.
func (p PixelFormat) Channels() int {
	return pixelFormats[p].channels
}

// Signed reports whether channels hold two's complement values.
func (p PixelFormat) Signed() bool {
	return pixelFormats[p].signed
}

// Texture is an uncompressed image.
type Texture struct {
	Width  int
	Height int
	Format PixelFormat
	Pix    []byte
}

// New allocates a zeroed texture.
func New(width, height int, format PixelFormat) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Format: format,
		Pix:    make([]byte, width*height*format.BytesPerPixel()),
	}
}

// Stride is the distance in bytes between two rows.
func (t *Texture) Stride() int {
	return t.Width * t.Format.BytesPerPixel()
}

// Offset returns the byte offset of pixel (x, y).
func (t *Texture) Offset(x, y int) int {
	if x < 0 || y < 0 || x >= t.Width || y >= t.Height {
		panic(fmt.Sprintf("texture: pixel (%d,%d) outside %dx%d", x, y, t.Width, t.Height))
	}
	return y*t.Stride() + x*t.Format.BytesPerPixel()
}

func (t *Texture) expect(formats ...PixelFormat) {
	for _, f := range formats {
		if t.Format == f {
			return
		}
	}
	panic(fmt.Sprintf("texture: %s accessor used on %s texture", formats[0], t.Format))
}

// RGBA8At returns the pixel at (x, y) of an RGBA8 or RGBX8 texture.
func (t *Texture) RGBA8At(x, y int) (r, g, b, a uint8) {
	t.expect(RGBA8, RGBX8)
	o := t.Offset(x, y)
	p := t.Pix[o : o+4 : o+4]
	return p[0], p[1], p[2], p[3]
}

// SetRGBA8 stores a pixel of an RGBA8 or RGBX8 texture.
func (t *Texture) SetRGBA8(x, y int, r, g, b, a uint8) {
	t.expect(RGBA8, RGBX8)
	o := t.Offset(x, y)
	t.Pix[o], t.Pix[o+1], t.Pix[o+2], t.Pix[o+3] = r, g, b, a
}

func (t *Texture) R8At(x, y int) uint8 {
	t.expect(R8)
	return t.Pix[t.Offset(x, y)]
}

func (t *Texture) SignedR16At(x, y int) int16 {
	t.expect(SignedR16)
	o := t.Offset(x, y)
	return int16(binary.LittleEndian.Uint16(t.Pix[o:]))
}

// Block copies the 4x4 tile whose top-left pixel is (x, y) into dst as 16
// tightly packed pixels in row-major order. dst must hold 16 pixels.
func (t *Texture) Block(x, y int, dst []byte) {
	bpp := t.Format.BytesPerPixel()
	row := 4 * bpp
	if len(dst) < 4*row {
		panic(fmt.Sprintf("texture: block buffer of %d bytes, need %d", len(dst), 4*row))
	}
	for dy := 0; dy < 4; dy++ {
		o := t.Offset(x, y+dy)
		// Offset checks the first pixel; the last one must be inside too.
		t.Offset(x+3, y+dy)
		copy(dst[dy*row:(dy+1)*row], t.Pix[o:o+row])
	}
}

// Opaque reports whether every pixel of the 4x4 tile at (x, y) of an RGBA8
// texture has alpha 255. Other layouts are always opaque.
func (t *Texture) Opaque(x, y int) bool {
	if t.Format != RGBA8 {
		return true
	}
	for dy := 0; dy < 4; dy++ {
		for dx := 0; dx < 4; dx++ {
			if _, _, _, a := t.RGBA8At(x+dx, y+dy); a != 0xFF {
				return false
			}
		}
	}
	return true
}
