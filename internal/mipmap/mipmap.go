// Package mipmap prepares source images for block compression.
//
// Images stay in straight alpha throughout, so the colour of translucent
// texels survives resizing.
package mipmap

import (
	"image"
	"math/bits"

	"golang.org/x/image/draw"
)

// Processor transforms an image before it is compressed.
type Processor interface {
	Process(src *image.NRGBA) (*image.NRGBA, error)
}

// ToNRGBA returns img as an *image.NRGBA with its origin at zero.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	n, ok := img.(*image.NRGBA)
	if ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if !ok {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}
	// draw.Draw would go through premultiplied colour.
	for y := range b.Dy() {
		o := n.PixOffset(b.Min.X, b.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], n.Pix[o:o+4*b.Dx()])
	}
	return dst
}

// split copies the colour and the alpha of src into two opaque images.
func split(src *image.NRGBA) (colour, alpha *image.RGBA) {
	b := src.Bounds()
	colour, alpha = image.NewRGBA(b), image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			s, d := src.PixOffset(x, y), colour.PixOffset(x, y)
			p := src.Pix[s : s+4 : s+4]
			copy(colour.Pix[d:d+3], p[:3])
			colour.Pix[d+3] = 0xFF
			alpha.Pix[d], alpha.Pix[d+1], alpha.Pix[d+2], alpha.Pix[d+3] = p[3], p[3], p[3], 0xFF
		}
	}
	return colour, alpha
}

// scale filters colour and alpha separately. The scalers work on
// premultiplied pixels and clamp colour to alpha.
func scale(s draw.Scaler, dst, src *image.NRGBA) {
	colour, alpha := split(src)
	db := dst.Bounds()
	dc, da := image.NewRGBA(db), image.NewRGBA(db)
	s.Scale(dc, db, colour, src.Bounds(), draw.Src, nil)
	s.Scale(da, db, alpha, src.Bounds(), draw.Src, nil)
	for y := db.Min.Y; y < db.Max.Y; y++ {
		for x := db.Min.X; x < db.Max.X; x++ {
			o, c := dst.PixOffset(x, y), dc.PixOffset(x, y)
			copy(dst.Pix[o:o+3], dc.Pix[c:c+3])
			dst.Pix[o+3] = da.Pix[c]
		}
	}
}

// OneBitAlpha reports whether every alpha value of img is 0 or 255.
func OneBitAlpha(img *image.NRGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		o := img.PixOffset(b.Min.X, y)
		for i := o + 3; i < o+4*b.Dx(); i += 4 {
			if a := img.Pix[i]; a != 0 && a != 0xFF {
				return false
			}
		}
	}
	return true
}

func snapAlpha(img *image.NRGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] >= 0x80 {
			img.Pix[i] = 0xFF
		} else {
			img.Pix[i] = 0
		}
	}
}

// Chain returns img followed by successive half-size levels down to 1x1.
// Odd dimensions round down and never drop below 1. When img has one-bit
// alpha every level keeps it.
func Chain(img *image.NRGBA) []*image.NRGBA {
	oneBit := OneBitAlpha(img)
	levels := []*image.NRGBA{img}
	for cur := img; cur.Bounds().Dx() > 1 || cur.Bounds().Dy() > 1; {
		w, h := max(cur.Bounds().Dx()/2, 1), max(cur.Bounds().Dy()/2, 1)
		next := image.NewNRGBA(image.Rect(0, 0, w, h))
		scale(draw.BiLinear, next, cur)
		if oneBit {
			snapAlpha(next)
		}
		levels = append(levels, next)
		cur = next
	}
	return levels
}

// Compressible returns the leading levels whose sides are positive
// multiples of 4.
func Compressible(levels []*image.NRGBA) []*image.NRGBA {
	for i, l := range levels {
		b := l.Bounds()
		if b.Dx() < 4 || b.Dy() < 4 || b.Dx()%4 != 0 || b.Dy()%4 != 0 {
			return levels[:i]
		}
	}
	return levels
}

// BlockAlignProcessor stretches an image so both sides are multiples of 4.
type BlockAlignProcessor struct{}

func (BlockAlignProcessor) Process(src *image.NRGBA) (*image.NRGBA, error) {
	b := src.Bounds()
	w, h := alignUp(b.Dx()), alignUp(b.Dy())
	if w == b.Dx() && h == b.Dy() {
		return src, nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	scale(draw.CatmullRom, dst, src)
	return dst, nil
}

func alignUp(n int) int {
	return max((n+3)&^3, 4)
}

// PowerOfTwoProcessor resizes an image to a square whose side is the next
// power of two of its longer side divided by DownScaleFactor.
type PowerOfTwoProcessor struct {
	DownScaleFactor int
}

func (p *PowerOfTwoProcessor) Process(src *image.NRGBA) (*image.NRGBA, error) {
	bounds := src.Bounds()
	factor := max(p.DownScaleFactor, 1)
	side := int(nextPoT(uint64(max(bounds.Dx(), bounds.Dy()) / factor)))
	if side == bounds.Dx() && side == bounds.Dy() {
		return src, nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, side, side))
	scale(draw.CatmullRom, dst, src)
	return dst, nil
}

func nextPoT(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	if n&(n-1) == 0 {
		return n
	}
	return 1 << bits.Len64(n)
}
