// Package pkm reads and writes the PKM container for ETC1 textures.
//
// A PKM file is a 16 byte header followed by the blocks in row-major order:
// the magic "PKM ", version "10", a big-endian format code (0 for ETC1 RGB),
// the padded width and height, and the original width and height.
package pkm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/erinpentecost/bcsearch/internal/texture"
)

const (
	HeaderSize = 16

	magic   = "PKM "
	version = "10"
	etc1RGB = 0
)

var (
	ErrUnsupportedFormat = errors.New("pkm: only ETC1 is supported")
	ErrHeader            = errors.New("pkm: bad header")
)

// Header describes the texture stored in a PKM file.
type Header struct {
	// Width and Height are padded to whole blocks.
	Width, Height int
	// OriginalWidth and OriginalHeight are the source image size.
	OriginalWidth, OriginalHeight int
}

// Encode writes an ETC1 texture.
func Encode(w io.Writer, c *texture.Compressed) error {
	if c.Format != texture.ETC1 {
		return fmt.Errorf("%w: got %s", ErrUnsupportedFormat, c.Format)
	}
	var hdr [HeaderSize]byte
	copy(hdr[0:4], magic)
	copy(hdr[4:6], version)
	binary.BigEndian.PutUint16(hdr[6:], etc1RGB)
	binary.BigEndian.PutUint16(hdr[8:], uint16((c.Width+3)&^3))
	binary.BigEndian.PutUint16(hdr[10:], uint16((c.Height+3)&^3))
	binary.BigEndian.PutUint16(hdr[12:], uint16(c.Width))
	binary.BigEndian.PutUint16(hdr[14:], uint16(c.Height))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("write pkm header: %w", err)
	}
	if _, err := w.Write(c.Data); err != nil {
		return fmt.Errorf("write pkm data: %w", err)
	}
	return nil
}

// DecodeHeader parses the header at the start of data.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrHeader, len(data))
	}
	if string(data[0:4]) != magic {
		return Header{}, fmt.Errorf("%w: missing magic %q", ErrHeader, magic)
	}
	if v := string(data[4:6]); v != version {
		return Header{}, fmt.Errorf("%w: version %q", ErrHeader, v)
	}
	if f := binary.BigEndian.Uint16(data[6:]); f != etc1RGB {
		return Header{}, fmt.Errorf("%w: format code %d", ErrUnsupportedFormat, f)
	}
	return Header{
		Width:          int(binary.BigEndian.Uint16(data[8:])),
		Height:         int(binary.BigEndian.Uint16(data[10:])),
		OriginalWidth:  int(binary.BigEndian.Uint16(data[12:])),
		OriginalHeight: int(binary.BigEndian.Uint16(data[14:])),
	}, nil
}

// Decode returns the ETC1 blocks of a PKM file.
func Decode(data []byte) (*texture.Compressed, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	if h.Width%4 != 0 || h.Height%4 != 0 || h.Width == 0 || h.Height == 0 {
		return nil, fmt.Errorf("%w: padded size %dx%d", ErrHeader, h.Width, h.Height)
	}
	size := (h.Width / 4) * (h.Height / 4) * texture.ETC1.BlockSize()
	body := data[HeaderSize:]
	if len(body) < size {
		return nil, fmt.Errorf("pkm: %d bytes of data, want %d", len(body), size)
	}
	return &texture.Compressed{
		Width:  h.Width,
		Height: h.Height,
		Format: texture.ETC1,
		Data:   body[:size],
	}, nil
}
