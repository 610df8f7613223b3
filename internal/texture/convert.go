package texture

import (
	"encoding/binary"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// pixel is a layout-independent pixel. Colour channels are 16-bit, either
// unsigned (0..65535) or signed (-32767..32767). Alpha is always unsigned.
type pixel struct {
	c      [3]int32
	a      int32
	signed bool
}

// ExpandSigned8 widens a signed 8-bit value to 16 bits. -128 behaves as -127.
func ExpandSigned8(v int8) int16 {
	if v == -128 {
		v = -127
	}
	return int16(int32(v) * 32767 / 127)
}

func narrowSigned16(v int32) int8 {
	if v <= -32767 {
		return -127
	}
	if v < 0 {
		return int8((v*127 - 16383) / 32767)
	}
	return int8((v*127 + 16383) / 32767)
}

func (t *Texture) load(x, y int) pixel {
	o := t.Offset(x, y)
	p := t.Pix[o:]
	px := pixel{a: 0xFFFF, signed: t.Format.Signed()}
	switch t.Format {
	case RGBA8:
		px.a = int32(p[3]) * 257
		fallthrough
	case RGBX8, RGB8:
		px.c = [3]int32{int32(p[0]) * 257, int32(p[1]) * 257, int32(p[2]) * 257}
	case R8:
		px.c[0] = int32(p[0]) * 257
	case RG8:
		px.c[0], px.c[1] = int32(p[0])*257, int32(p[1])*257
	case SignedR8:
		px.c[0] = int32(ExpandSigned8(int8(p[0])))
	case SignedRG8:
		px.c[0], px.c[1] = int32(ExpandSigned8(int8(p[0]))), int32(ExpandSigned8(int8(p[1])))
	case SignedR16:
		px.c[0] = clampSigned(int32(int16(binary.LittleEndian.Uint16(p))))
	case SignedRG16:
		px.c[0] = clampSigned(int32(int16(binary.LittleEndian.Uint16(p))))
		px.c[1] = clampSigned(int32(int16(binary.LittleEndian.Uint16(p[2:]))))
	}
	return px
}

func clampSigned(v int32) int32 {
	return max(v, -32767)
}

func (px pixel) toSigned() pixel {
	if px.signed {
		return px
	}
	for i, v := range px.c {
		px.c[i] = clampSigned(v - 32768)
	}
	px.signed = true
	return px
}

func (px pixel) toUnsigned() pixel {
	if !px.signed {
		return px
	}
	for i, v := range px.c {
		px.c[i] = int32(int64(v+32767) * 65535 / 65534)
	}
	px.signed = false
	return px
}

func narrow(v int32) byte {
	return byte((v + 128) / 257)
}

func (t *Texture) store(x, y int, px pixel) {
	if t.Format.Signed() {
		px = px.toSigned()
	} else {
		px = px.toUnsigned()
	}
	o := t.Offset(x, y)
	p := t.Pix[o:]
	switch t.Format {
	case RGBA8:
		p[0], p[1], p[2], p[3] = narrow(px.c[0]), narrow(px.c[1]), narrow(px.c[2]), narrow(px.a)
	case RGBX8:
		p[0], p[1], p[2], p[3] = narrow(px.c[0]), narrow(px.c[1]), narrow(px.c[2]), 0xFF
	case RGB8:
		p[0], p[1], p[2] = narrow(px.c[0]), narrow(px.c[1]), narrow(px.c[2])
	case R8:
		p[0] = narrow(px.c[0])
	case RG8:
		p[0], p[1] = narrow(px.c[0]), narrow(px.c[1])
	case SignedR8:
		p[0] = byte(narrowSigned16(px.c[0]))
	case SignedRG8:
		p[0], p[1] = byte(narrowSigned16(px.c[0])), byte(narrowSigned16(px.c[1]))
	case SignedR16:
		binary.LittleEndian.PutUint16(p, uint16(int16(px.c[0])))
	case SignedRG16:
		binary.LittleEndian.PutUint16(p, uint16(int16(px.c[0])))
		binary.LittleEndian.PutUint16(p[2:], uint16(int16(px.c[1])))
	}
}

// Convert returns src in pixel format f. Unsigned channels map onto the
// full signed range and back. Missing colour channels become zero and
// missing alpha becomes opaque. When src already has format f it is
// returned unchanged.
func Convert(src *Texture, f PixelFormat) *Texture {
	if src.Format == f {
		return src
	}
	dst := New(src.Width, src.Height, f)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			dst.store(x, y, src.load(x, y))
		}
	}
	return dst
}

// Channel extracts channel ch of a two or four channel texture into a
// single-channel texture of the same precision and signedness.
func Channel(src *Texture, ch int) (*Texture, error) {
	var f PixelFormat
	switch src.Format {
	case RGBA8, RGBX8, RGB8, RG8:
		f = R8
	case SignedRG8:
		f = SignedR8
	case SignedRG16:
		f = SignedR16
	default:
		return nil, fmt.Errorf("texture: cannot extract channel from %s", src.Format)
	}
	if ch < 0 || ch >= src.Format.Channels() {
		return nil, fmt.Errorf("texture: channel %d out of range for %s", ch, src.Format)
	}
	dst := New(src.Width, src.Height, f)
	size := f.BytesPerPixel()
	sbpp := src.Format.BytesPerPixel()
	for i, j := ch*size, 0; j < len(dst.Pix); i, j = i+sbpp, j+size {
		copy(dst.Pix[j:j+size], src.Pix[i:i+size])
	}
	return dst, nil
}

// FromImage copies img into a new RGBA8 texture with straight alpha. An
// *image.NRGBA is copied as is, so translucent texels keep their colour.
func FromImage(img image.Image) *Texture {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(b)
		draw.Draw(nrgba, b, img, b.Min, draw.Src)
	}
	t := New(b.Dx(), b.Dy(), RGBA8)
	for y := 0; y < t.Height; y++ {
		o := nrgba.PixOffset(b.Min.X, b.Min.Y+y)
		copy(t.Pix[y*t.Stride():(y+1)*t.Stride()], nrgba.Pix[o:])
	}
	return t
}

// ToImage converts t to RGBA8 and wraps it as an image.
func ToImage(t *Texture) *image.NRGBA {
	rgba := Convert(t, RGBA8)
	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	copy(img.Pix, rgba.Pix)
	return img
}
