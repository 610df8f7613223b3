package dds

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/erinpentecost/bcsearch/internal/texture"
)

var fourCCs = map[texture.Format]string{
	texture.BC1:         "DXT1",
	texture.BC1A:        "DXT1",
	texture.BC2:         "DXT3",
	texture.BC3:         "DXT5",
	texture.RGTC1:       "ATI1",
	texture.SignedRGTC1: "BC4S",
	texture.RGTC2:       "ATI2",
	texture.SignedRGTC2: "BC5S",
}

// FourCC returns the pixel format code DDS uses for f.
func FourCC(f texture.Format) (string, error) {
	cc, ok := fourCCs[f]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	return cc, nil
}

// WriteCompressed writes levels as one DDS surface. levels[0] is the full
// size image and every following entry is the next mipmap. All levels must
// share a format.
func WriteCompressed(w io.Writer, levels []*texture.Compressed) error {
	if len(levels) == 0 {
		return fmt.Errorf("dds: no levels to write")
	}
	top := levels[0]
	cc, err := FourCC(top.Format)
	if err != nil {
		return err
	}
	for i, l := range levels[1:] {
		if l.Format != top.Format {
			return fmt.Errorf("dds: level %d is %s, want %s", i+1, l.Format, top.Format)
		}
	}

	h := header{
		flags:       DDSD_CAPS | DDSD_HEIGHT | DDSD_WIDTH | DDSD_PIXELFORMAT | DDSD_LINEARSIZE,
		height:      uint32(top.Height),
		width:       uint32(top.Width),
		pitchOrSize: uint32(len(top.Data)),
		pfFlags:     DDPF_FOURCC,
		fourCC:      cc,
		caps:        DDSCAPS_TEXTURE,
	}
	if len(levels) > 1 {
		h.flags |= DDSD_MIPMAPCOUNT
		h.mipCount = uint32(len(levels))
		h.caps |= DDSCAPS_COMPLEX | DDSCAPS_MIPMAP
	}
	if err := h.write(w); err != nil {
		return fmt.Errorf("write dds header: %w", err)
	}
	for i, l := range levels {
		if _, err := w.Write(l.Data); err != nil {
			return fmt.Errorf("write dds level %d: %w", i, err)
		}
	}
	return nil
}

// Encode writes m as an uncompressed RGBA8 DDS.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Empty() {
		return fmt.Errorf("dds: empty image")
	}
	stride := b.Dx() * 4

	h := header{
		flags:       DDSD_CAPS | DDSD_HEIGHT | DDSD_WIDTH | DDSD_PIXELFORMAT | DDSD_PITCH,
		height:      uint32(b.Dy()),
		width:       uint32(b.Dx()),
		pitchOrSize: uint32(stride),
		pfFlags:     DDPF_RGB | DDPF_ALPHAPIXELS,
		bitCount:    32,
		masks:       [4]uint32{0x000000FF, 0x0000FF00, 0x00FF0000, 0xFF000000},
		caps:        DDSCAPS_TEXTURE,
	}
	if err := h.write(w); err != nil {
		return fmt.Errorf("write dds header: %w", err)
	}

	// If *image.NRGBA, dump directly
	if img, ok := m.(*image.NRGBA); ok && img.Stride == stride {
		_, err := w.Write(img.Pix[img.PixOffset(b.Min.X, b.Min.Y):][:stride*b.Dy()])
		return err
	}

	row := make([]byte, stride)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := 0
		for x := b.Min.X; x < b.Max.X; x++ {
			c := nrgbaAt(m, x, y)
			row[i+0] = c.R
			row[i+1] = c.G
			row[i+2] = c.B
			row[i+3] = c.A
			i += 4
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func nrgbaAt(m image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
}
