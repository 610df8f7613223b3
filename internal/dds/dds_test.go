package dds

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"testing"

	"github.com/erinpentecost/bcsearch/internal/texture"
	"github.com/stretchr/testify/require"
)

// redBC1 is a BC1 block with red as the first endpoint and every index 0.
var redBC1 = []byte{0x00, 0xF8, 0x00, 0x00, 0, 0, 0, 0}

func compressed(w, h int, f texture.Format, block []byte) *texture.Compressed {
	c := &texture.Compressed{Width: w, Height: h, Format: f}
	for range (w / 4) * (h / 4) {
		c.Data = append(c.Data, block...)
	}
	return c
}

func TestWriteCompressedHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCompressed(&buf, []*texture.Compressed{compressed(8, 4, texture.BC1, redBC1)}))
	out := buf.Bytes()
	require.Len(t, out, 128+16)
	require.Equal(t, "DDS ", string(out[:4]))

	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(out[off:]) }
	require.EqualValues(t, 124, u32(4))
	require.EqualValues(t, DDSD_CAPS|DDSD_HEIGHT|DDSD_WIDTH|DDSD_PIXELFORMAT|DDSD_LINEARSIZE, u32(8))
	require.EqualValues(t, 4, u32(12))
	require.EqualValues(t, 8, u32(16))
	require.EqualValues(t, 16, u32(20))
	require.EqualValues(t, 32, u32(76))
	require.EqualValues(t, DDPF_FOURCC, u32(80))
	require.Equal(t, "DXT1", string(out[84:88]))
	require.EqualValues(t, DDSCAPS_TEXTURE, u32(108))
}

func TestWriteCompressedMipmaps(t *testing.T) {
	block := []byte{200, 100, 0, 0, 0, 0, 0, 0}
	levels := []*texture.Compressed{
		compressed(8, 8, texture.RGTC1, block),
		compressed(4, 4, texture.RGTC1, block),
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCompressed(&buf, levels))
	out := buf.Bytes()
	require.Len(t, out, 128+5*8)
	require.Equal(t, "ATI1", string(out[84:88]))
	require.NotZero(t, binary.LittleEndian.Uint32(out[8:])&DDSD_MIPMAPCOUNT)
	require.EqualValues(t, 2, binary.LittleEndian.Uint32(out[28:]))
	require.EqualValues(t, DDSCAPS_TEXTURE|DDSCAPS_COMPLEX|DDSCAPS_MIPMAP, binary.LittleEndian.Uint32(out[108:]))

	c, err := ReadCompressed(out)
	require.NoError(t, err)
	require.Equal(t, texture.RGTC1, c.Format)
	require.Equal(t, levels[0].Data, c.Data)
}

func TestWriteCompressedErrors(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, WriteCompressed(&buf, nil))

	err := WriteCompressed(&buf, []*texture.Compressed{compressed(4, 4, texture.ETC1, redBC1)})
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	err = WriteCompressed(&buf, []*texture.Compressed{
		compressed(8, 8, texture.BC1, redBC1),
		compressed(4, 4, texture.BC2, make([]byte, 16)),
	})
	require.Error(t, err)
}

func TestFourCC(t *testing.T) {
	for _, tc := range []struct {
		f    texture.Format
		want string
	}{
		{texture.BC1, "DXT1"},
		{texture.BC1A, "DXT1"},
		{texture.BC2, "DXT3"},
		{texture.BC3, "DXT5"},
		{texture.RGTC1, "ATI1"},
		{texture.SignedRGTC1, "BC4S"},
		{texture.RGTC2, "ATI2"},
		{texture.SignedRGTC2, "BC5S"},
	} {
		t.Run(tc.f.String(), func(t *testing.T) {
			cc, err := FourCC(tc.f)
			require.NoError(t, err)
			require.Equal(t, tc.want, cc)
		})
	}
}

func TestDecodeDXT1(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCompressed(&buf, []*texture.Compressed{compressed(8, 8, texture.BC1, redBC1)}))
	img, err := Decode(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())
	require.Equal(t, color.NRGBA{255, 0, 0, 255}, color.NRGBAModel.Convert(img.At(5, 6)))
}

func TestDecodeRGTC1(t *testing.T) {
	var buf bytes.Buffer
	block := []byte{200, 100, 0, 0, 0, 0, 0, 0}
	require.NoError(t, WriteCompressed(&buf, []*texture.Compressed{compressed(4, 4, texture.RGTC1, block)}))
	img, err := Decode(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{200, 0, 0, 255}, color.NRGBAModel.Convert(img.At(1, 2)))
}

func TestEncodeRoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{1, 2, 3, 4})
	img.SetNRGBA(1, 0, color.NRGBA{5, 6, 7, 8})
	img.SetNRGBA(0, 1, color.NRGBA{9, 10, 11, 12})
	img.SetNRGBA(1, 1, color.NRGBA{13, 14, 15, 16})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img))
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}, buf.Bytes()[128:])

	got, err := Decode(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, img.Pix, got.(*image.NRGBA).Pix)
}

func TestDecodeBGR24(t *testing.T) {
	h := header{
		flags:    DDSD_CAPS | DDSD_HEIGHT | DDSD_WIDTH | DDSD_PIXELFORMAT,
		width:    2,
		height:   1,
		pfFlags:  DDPF_RGB,
		bitCount: 24,
		masks:    [4]uint32{0xFF0000, 0x00FF00, 0x0000FF, 0},
		caps:     DDSCAPS_TEXTURE,
	}
	var buf bytes.Buffer
	require.NoError(t, h.write(&buf))
	buf.Write([]byte{30, 20, 10, 60, 50, 40})

	img, err := Decode(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, []byte{10, 20, 30, 255, 40, 50, 60, 255}, img.(*image.NRGBA).Pix)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte("DDS "))
	require.ErrorIs(t, err, ErrHeader)

	bad := make([]byte, 128)
	copy(bad, "XXXX")
	_, err = Decode(bad)
	require.ErrorIs(t, err, ErrHeader)

	var buf bytes.Buffer
	h := header{width: 4, height: 4, pfFlags: DDPF_FOURCC, fourCC: "DX10"}
	require.NoError(t, h.write(&buf))
	_, err = Decode(buf.Bytes())
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
