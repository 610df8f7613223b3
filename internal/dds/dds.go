// Package dds reads and writes DirectDraw Surface containers.
package dds

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	ddsMagic = "DDS "

	ddsHeaderSize = 124
	ddsPfSize     = 32
	// pixel format offset inside the 124-byte header
	pfOffset = 72

	// DDSD flags
	DDSD_CAPS        = 0x1
	DDSD_HEIGHT      = 0x2
	DDSD_WIDTH       = 0x4
	DDSD_PITCH       = 0x8
	DDSD_PIXELFORMAT = 0x1000
	DDSD_MIPMAPCOUNT = 0x20000
	DDSD_LINEARSIZE  = 0x80000

	// Pixel format flags
	DDPF_ALPHAPIXELS = 0x1
	DDPF_FOURCC      = 0x4
	DDPF_RGB         = 0x40

	// Caps
	DDSCAPS_COMPLEX = 0x8
	DDSCAPS_TEXTURE = 0x1000
	DDSCAPS_MIPMAP  = 0x400000
)

var (
	ErrUnsupportedFormat = errors.New("dds: unsupported format")
	ErrHeader            = errors.New("dds: bad header")
)

// header holds the fields of the DDS header this package uses.
type header struct {
	flags       uint32
	height      uint32
	width       uint32
	pitchOrSize uint32
	mipCount    uint32
	pfFlags     uint32
	fourCC      string
	bitCount    uint32
	masks       [4]uint32
	caps        uint32
}

func (h *header) write(w io.Writer) error {
	var buf [4 + ddsHeaderSize]byte
	copy(buf[:4], ddsMagic)
	b := buf[4:]
	put := func(off int, v uint32) {
		binary.LittleEndian.PutUint32(b[off:], v)
	}

	put(0, ddsHeaderSize)
	put(4, h.flags)
	put(8, h.height)
	put(12, h.width)
	put(16, h.pitchOrSize)
	put(24, h.mipCount)

	put(pfOffset, ddsPfSize)
	put(pfOffset+4, h.pfFlags)
	copy(b[pfOffset+8:pfOffset+12], h.fourCC)
	put(pfOffset+12, h.bitCount)
	for i, m := range h.masks {
		put(pfOffset+16+4*i, m)
	}

	put(104, h.caps)

	_, err := w.Write(buf[:])
	return err
}

// parseHeader reads the magic and header at the start of data and returns
// the header and the remaining bytes.
func parseHeader(data []byte) (*header, []byte, error) {
	const total = 4 + ddsHeaderSize
	if len(data) < total {
		return nil, nil, fmt.Errorf("%w: %d bytes, need %d", ErrHeader, len(data), total)
	}
	if string(data[:4]) != ddsMagic {
		return nil, nil, fmt.Errorf("%w: missing magic %q", ErrHeader, ddsMagic)
	}
	b := data[4:total]
	get := func(off int) uint32 {
		return binary.LittleEndian.Uint32(b[off:])
	}
	if get(0) != ddsHeaderSize {
		return nil, nil, fmt.Errorf("%w: header size %d", ErrHeader, get(0))
	}
	h := &header{
		flags:       get(4),
		height:      get(8),
		width:       get(12),
		pitchOrSize: get(16),
		mipCount:    get(24),
		pfFlags:     get(pfOffset + 4),
		bitCount:    get(pfOffset + 12),
		caps:        get(104),
	}
	if h.pfFlags&DDPF_FOURCC != 0 {
		h.fourCC = string(b[pfOffset+8 : pfOffset+12])
	}
	for i := range h.masks {
		h.masks[i] = get(pfOffset + 16 + 4*i)
	}
	if h.width == 0 || h.height == 0 {
		return nil, nil, fmt.Errorf("%w: empty %dx%d surface", ErrHeader, h.width, h.height)
	}
	return h, data[total:], nil
}
