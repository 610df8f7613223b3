package texture

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOffsetStride(t *testing.T) {
	tex := New(8, 4, RG8)
	require.Equal(t, 16, tex.Stride())
	require.Equal(t, 0, tex.Offset(0, 0))
	require.Equal(t, 2*16+3*2, tex.Offset(3, 2))
	require.Panics(t, func() { tex.Offset(8, 0) })
	require.Panics(t, func() { tex.Offset(0, -1) })
}

func TestAccessorFormatMismatch(t *testing.T) {
	tex := New(4, 4, R8)
	require.Panics(t, func() { tex.RGBA8At(0, 0) })
	require.NotPanics(t, func() { tex.R8At(3, 3) })
}

func TestBlock(t *testing.T) {
	tex := New(8, 8, R8)
	for i := range tex.Pix {
		tex.Pix[i] = byte(i)
	}
	dst := make([]byte, 16)
	tex.Block(4, 4, dst)
	require.Equal(t, []byte{
		36, 37, 38, 39,
		44, 45, 46, 47,
		52, 53, 54, 55,
		60, 61, 62, 63,
	}, dst)
	require.Panics(t, func() { tex.Block(6, 0, dst) })
}

func TestOpaque(t *testing.T) {
	tex := New(4, 4, RGBA8)
	for y := range 4 {
		for x := range 4 {
			tex.SetRGBA8(x, y, 1, 2, 3, 255)
		}
	}
	require.True(t, tex.Opaque(0, 0))
	tex.SetRGBA8(2, 3, 1, 2, 3, 254)
	require.False(t, tex.Opaque(0, 0))
}

func TestConvertSignedRoundTrip(t *testing.T) {
	src := New(4, 1, R8)
	copy(src.Pix, []byte{0, 1, 128, 255})
	signed := Convert(src, SignedR16)
	require.Equal(t, int16(-32767), signed.SignedR16At(0, 0))
	require.Equal(t, int16(32767), signed.SignedR16At(3, 0))
	back := Convert(signed, R8)
	require.Equal(t, src.Pix, back.Pix)
}

func TestConvertAddsOpaqueAlpha(t *testing.T) {
	src := New(1, 1, RG8)
	copy(src.Pix, []byte{10, 20})
	dst := Convert(src, RGBA8)
	r, g, b, a := dst.RGBA8At(0, 0)
	require.Equal(t, [4]uint8{10, 20, 0, 255}, [4]uint8{r, g, b, a})
}

func TestExpandSigned8(t *testing.T) {
	require.Equal(t, int16(-32767), ExpandSigned8(-128))
	require.Equal(t, int16(-32767), ExpandSigned8(-127))
	require.Equal(t, int16(0), ExpandSigned8(0))
	require.Equal(t, int16(32767), ExpandSigned8(127))
	for v := -127; v <= 127; v++ {
		require.Equal(t, int8(v), narrowSigned16(int32(ExpandSigned8(int8(v)))))
	}
}

func TestChannel(t *testing.T) {
	src := New(2, 1, RG8)
	copy(src.Pix, []byte{1, 2, 3, 4})
	g, err := Channel(src, 1)
	require.NoError(t, err)
	require.Equal(t, R8, g.Format)
	require.Equal(t, []byte{2, 4}, g.Pix)

	_, err = Channel(src, 2)
	require.Error(t, err)
	_, err = Channel(New(1, 1, R8), 0)
	require.Error(t, err)
}

func TestImageRoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{1, 2, 3, 4})
	img.SetNRGBA(1, 1, color.NRGBA{200, 100, 50, 255})
	tex := FromImage(img)
	require.Equal(t, RGBA8, tex.Format)
	r, g, b, a := tex.RGBA8At(0, 0)
	require.Equal(t, [4]uint8{1, 2, 3, 4}, [4]uint8{r, g, b, a})
	require.Equal(t, img.Pix, ToImage(tex).Pix)
}

func TestFromImageSubImageKeepsTranslucentColour(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for _, a := range []uint8{0, 2, 10} {
		img.SetNRGBA(int(a)%4, 2, color.NRGBA{200, 100, 50, a})
	}
	sub := img.SubImage(image.Rect(0, 2, 4, 3))
	tex := FromImage(sub)
	require.Equal(t, 4, tex.Width)
	require.Equal(t, 1, tex.Height)
	for _, a := range []uint8{0, 2, 10} {
		r, g, b, got := tex.RGBA8At(int(a)%4, 0)
		require.Equal(t, [4]uint8{200, 100, 50, a}, [4]uint8{r, g, b, got})
	}
}

func TestParseFormat(t *testing.T) {
	for _, tc := range []struct {
		name string
		want Format
	}{
		{"bc1", BC1},
		{"DXT5", BC3},
		{"bc4", RGTC1},
		{"signed_rgtc2", SignedRGTC2},
		{"Etc1", ETC1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseFormat(tc.name)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
	_, err := ParseFormat("astc")
	require.Error(t, err)
}

func TestFormatTable(t *testing.T) {
	require.Equal(t, 8, BC1.BlockSize())
	require.Equal(t, 16, BC3.BlockSize())
	require.Equal(t, 16, RGTC2.BlockSize())
	require.True(t, SignedRGTC2.Composite())
	require.Equal(t, SignedRGTC1, SignedRGTC2.PlaneFormat())
	require.Equal(t, SignedR16, SignedRGTC1.PixelFormat())
	require.Len(t, Formats(), 9)
}
