// Package metric measures how far a decoded 4x4 block is from the
// original pixels. Every function takes two tightly packed 16-pixel
// buffers in the same layout and returns the summed squared difference.
package metric

import (
	"encoding/binary"

	"github.com/erinpentecost/bcsearch/internal/texture"
)

func sq(d int32) uint32 {
	return uint32(d * d)
}

// RGBX8 ignores the fourth byte of each pixel.
func RGBX8(decoded, original []byte) uint32 {
	var e uint32
	for i := 0; i < 64; i += 4 {
		e += sq(int32(decoded[i]) - int32(original[i]))
		e += sq(int32(decoded[i+1]) - int32(original[i+1]))
		e += sq(int32(decoded[i+2]) - int32(original[i+2]))
	}
	return e
}

// RGBA8 counts colour only where at least one of the two pixels is visible.
// Pixels that are fully transparent in both buffers contribute nothing.
func RGBA8(decoded, original []byte) uint32 {
	var e uint32
	for i := 0; i < 64; i += 4 {
		if decoded[i+3]|original[i+3] == 0 {
			continue
		}
		e += sq(int32(decoded[i+3]) - int32(original[i+3]))
		e += sq(int32(decoded[i]) - int32(original[i]))
		e += sq(int32(decoded[i+1]) - int32(original[i+1]))
		e += sq(int32(decoded[i+2]) - int32(original[i+2]))
	}
	return e
}

func R8(decoded, original []byte) uint32 {
	var e uint32
	for i := range 16 {
		e += sq(int32(decoded[i]) - int32(original[i]))
	}
	return e
}

func RG8(decoded, original []byte) uint32 {
	var e uint32
	for i := range 32 {
		e += sq(int32(decoded[i]) - int32(original[i]))
	}
	return e
}

func sq64(a, b []byte) uint64 {
	d := int64(int16(binary.LittleEndian.Uint16(a))) - int64(int16(binary.LittleEndian.Uint16(b)))
	return uint64(d * d)
}

// SignedR16 compares little-endian int16 pixels. The sum needs 64 bits.
func SignedR16(decoded, original []byte) uint64 {
	var e uint64
	for i := 0; i < 32; i += 2 {
		e += sq64(decoded[i:], original[i:])
	}
	return e
}

func SignedRG16(decoded, original []byte) uint64 {
	var e uint64
	for i := 0; i < 64; i += 2 {
		e += sq64(decoded[i:], original[i:])
	}
	return e
}

// Func is a block metric widened to float64 for reporting.
type Func func(decoded, original []byte) float64

// For returns the metric matching a pixel layout, or nil when the layout
// has no metric.
func For(f texture.PixelFormat) Func {
	switch f {
	case texture.RGBX8:
		return func(a, b []byte) float64 { return float64(RGBX8(a, b)) }
	case texture.RGBA8:
		return func(a, b []byte) float64 { return float64(RGBA8(a, b)) }
	case texture.R8:
		return func(a, b []byte) float64 { return float64(R8(a, b)) }
	case texture.RG8:
		return func(a, b []byte) float64 { return float64(RG8(a, b)) }
	case texture.SignedR16:
		return func(a, b []byte) float64 { return float64(SignedR16(a, b)) }
	case texture.SignedRG16:
		return func(a, b []byte) float64 { return float64(SignedRG16(a, b)) }
	}
	return nil
}
