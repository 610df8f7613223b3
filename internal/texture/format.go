package texture

import (
	"errors"
	"fmt"
	"strings"
)

// Format is a block-compressed texture format.
type Format int

const (
	Unknown Format = iota
	// BC1 is DXT1 without transparency.
	BC1
	// BC1A is DXT1 with one-bit transparency.
	BC1A
	// BC2 is DXT3.
	BC2
	// BC3 is DXT5.
	BC3
	// RGTC1 is BC4, one unsigned channel.
	RGTC1
	SignedRGTC1
	// RGTC2 is BC5, two RGTC1 channels side by side.
	RGTC2
	SignedRGTC2
	ETC1
)

type formatInfo struct {
	name      string
	aliases   []string
	blockSize int
	pixels    PixelFormat
	planes    int
}

var formats = [...]formatInfo{
	Unknown:     {name: "unknown"},
	BC1:         {"BC1", []string{"DXT1"}, 8, RGBX8, 1},
	BC1A:        {"BC1A", []string{"DXT1A"}, 8, RGBA8, 1},
	BC2:         {"BC2", []string{"DXT3"}, 16, RGBA8, 1},
	BC3:         {"BC3", []string{"DXT5"}, 16, RGBA8, 1},
	RGTC1:       {"RGTC1", []string{"BC4", "BC4_UNORM"}, 8, R8, 1},
	SignedRGTC1: {"SIGNED_RGTC1", []string{"BC4_SIGNED", "BC4_SNORM"}, 8, SignedR16, 1},
	RGTC2:       {"RGTC2", []string{"BC5", "BC5_UNORM"}, 16, RG8, 2},
	SignedRGTC2: {"SIGNED_RGTC2", []string{"BC5_SIGNED", "BC5_SNORM"}, 16, SignedRG16, 2},
	ETC1:        {"ETC1", nil, 8, RGBX8, 1},
}

// Formats lists every known compressed format.
func Formats() []Format {
	out := make([]Format, 0, len(formats)-1)
	for f := BC1; int(f) < len(formats); f++ {
		out = append(out, f)
	}
	return out
}

func (f Format) valid() bool {
	return f > Unknown && int(f) < len(formats)
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formats) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formats[f].name
}

// BlockSize is the number of bytes one 4x4 block occupies.
func (f Format) BlockSize() int {
	if !f.valid() {
		return 0
	}
	return formats[f].blockSize
}

// PixelFormat is the uncompressed layout the format is encoded from and
// decoded to.
func (f Format) PixelFormat() PixelFormat {
	if !f.valid() {
		return RGBA8
	}
	return formats[f].pixels
}

// Planes is the number of independently compressed single-channel planes,
// or 1 for formats that compress all channels together.
func (f Format) Planes() int {
	if !f.valid() {
		return 0
	}
	return formats[f].planes
}

// Composite reports whether the format is built from several
// single-channel sub-blocks.
func (f Format) Composite() bool {
	return f.Planes() > 1
}

// PlaneFormat is the single-channel format each plane of a composite format
// is compressed with.
func (f Format) PlaneFormat() Format {
	switch f {
	case RGTC2:
		return RGTC1
	case SignedRGTC2:
		return SignedRGTC1
	}
	return f
}

// ErrUnknownFormat is returned by ParseFormat for names it does not know.
var ErrUnknownFormat = errors.New("texture: unknown format")

// ParseFormat looks up a format by name or alias, ignoring case.
func ParseFormat(name string) (Format, error) {
	for f := BC1; int(f) < len(formats); f++ {
		if strings.EqualFold(name, formats[f].name) {
			return f, nil
		}
		for _, a := range formats[f].aliases {
			if strings.EqualFold(name, a) {
				return f, nil
			}
		}
	}
	return Unknown, fmt.Errorf("%w %q", ErrUnknownFormat, name)
}

// Compressed is a block-compressed image.
type Compressed struct {
	Width  int
	Height int
	Format Format
	Data   []byte
}

// Blocks returns the number of 4x4 blocks horizontally and vertically.
func (c *Compressed) Blocks() (x, y int) {
	return (c.Width + 3) / 4, (c.Height + 3) / 4
}

// BlockAt returns the bitstring of block (bx, by).
func (c *Compressed) BlockAt(bx, by int) []byte {
	n, _ := c.Blocks()
	size := c.Format.BlockSize()
	o := (by*n + bx) * size
	return c.Data[o : o+size]
}
