package decode

import "encoding/binary"

// Expand565 widens a 5:6:5 colour to 8 bits per channel by bit replication.
func Expand565(c uint16) (r, g, b uint8) {
	b5 := uint8(c & 0x1F)
	g6 := uint8(c>>5) & 0x3F
	r5 := uint8(c>>11) & 0x1F
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// BC1Palette returns the four candidate colours of a BC1 colour block as
// RGBA. In three-colour mode the fourth entry is black with alpha 0.
func BC1Palette(c0, c1 uint16, fourColor bool) [4][4]uint8 {
	var p [4][4]uint8
	r0, g0, b0 := Expand565(c0)
	r1, g1, b1 := Expand565(c1)
	p[0] = [4]uint8{r0, g0, b0, 0xFF}
	p[1] = [4]uint8{r1, g1, b1, 0xFF}
	mix := func(a, b uint8, wa, wb, d int) uint8 {
		return uint8((wa*int(a) + wb*int(b)) / d)
	}
	if fourColor {
		p[2] = [4]uint8{mix(r0, r1, 2, 1, 3), mix(g0, g1, 2, 1, 3), mix(b0, b1, 2, 1, 3), 0xFF}
		p[3] = [4]uint8{mix(r0, r1, 1, 2, 3), mix(g0, g1, 1, 2, 3), mix(b0, b1, 1, 2, 3), 0xFF}
	} else {
		p[2] = [4]uint8{mix(r0, r1, 1, 1, 2), mix(g0, g1, 1, 1, 2), mix(b0, b1, 1, 1, 2), 0xFF}
	}
	return p
}

// BC1Endpoints reads the two little-endian 5:6:5 endpoints of a colour block.
func BC1Endpoints(bits []byte) (c0, c1 uint16) {
	return binary.LittleEndian.Uint16(bits), binary.LittleEndian.Uint16(bits[2:])
}

// AlphaRamp returns the eight values selectable by an unsigned BC3 alpha or
// RGTC1 block. a0 > a1 selects six interpolants, otherwise four plus 0 and 255.
func AlphaRamp(a0, a1 uint8) [8]uint8 {
	var r [8]uint8
	r[0], r[1] = a0, a1
	if a0 > a1 {
		for k := 1; k <= 6; k++ {
			r[1+k] = uint8(((7-k)*int(a0) + k*int(a1)) / 7)
		}
		return r
	}
	for k := 1; k <= 4; k++ {
		r[1+k] = uint8(((5-k)*int(a0) + k*int(a1)) / 5)
	}
	r[6], r[7] = 0, 0xFF
	return r
}

// SignedRamp is AlphaRamp for signed RGTC1. -128 behaves as -127 and the
// fixed extremes are -127 and 127.
func SignedRamp(a0, a1 int8) [8]int8 {
	var r [8]int8
	e0, e1 := max(int(a0), -127), max(int(a1), -127)
	r[0], r[1] = int8(e0), int8(e1)
	if a0 > a1 {
		for k := 1; k <= 6; k++ {
			r[1+k] = int8(((7-k)*e0 + k*e1) / 7)
		}
		return r
	}
	for k := 1; k <= 4; k++ {
		r[1+k] = int8(((5-k)*e0 + k*e1) / 5)
	}
	r[6], r[7] = -127, 127
	return r
}

// AlphaIndices unpacks the sixteen 3-bit selectors stored little-endian in
// bytes 2 to 7 of an alpha block.
func AlphaIndices(bits []byte) [16]uint8 {
	var v uint64
	for i := 7; i >= 2; i-- {
		v = v<<8 | uint64(bits[i])
	}
	var idx [16]uint8
	for i := range idx {
		idx[i] = uint8(v>>(3*i)) & 7
	}
	return idx
}

// PutAlphaIndices is the inverse of AlphaIndices.
func PutAlphaIndices(bits []byte, idx *[16]uint8) {
	var v uint64
	for i, s := range idx {
		v |= uint64(s&7) << (3 * i)
	}
	for i := 2; i < 8; i++ {
		bits[i] = byte(v)
		v >>= 8
	}
}

var etc1Modifiers = [8][4]int{
	{2, 8, -2, -8},
	{5, 17, -5, -17},
	{9, 29, -9, -29},
	{13, 42, -13, -42},
	{18, 60, -18, -60},
	{24, 80, -24, -80},
	{33, 106, -33, -106},
	{47, 183, -47, -183},
}

// ETC1Modifier returns the intensity offset for a codeword and a 2-bit
// selector (msb<<1 | lsb).
func ETC1Modifier(codeword, selector int) int {
	return etc1Modifiers[codeword&7][selector&3]
}

// ETC1Header reads the control word of an ETC1 block.
func ETC1Header(bits []byte) uint32 {
	return binary.LittleEndian.Uint32(bits)
}

// ETC1Differential reports whether the header uses differential colours.
func ETC1Differential(h uint32) bool { return h&(1<<25) != 0 }

// ETC1Flip reports whether the sub-blocks are the top and bottom halves.
func ETC1Flip(h uint32) bool { return h&(1<<24) != 0 }

// ETC1Codewords returns the modifier table indices of both sub-blocks.
func ETC1Codewords(h uint32) (cw1, cw2 int) {
	return int(h>>29) & 7, int(h>>26) & 7
}

func signed3(v uint32) int {
	return int(v&3) - int(v&4)
}

// ETC1Bases returns the 8-bit base colours of both sub-blocks. ok is false
// for a differential header whose second colour leaves the 5-bit range.
func ETC1Bases(h uint32) (b1, b2 [3]uint8, ok bool) {
	if !ETC1Differential(h) {
		for ch := range 3 {
			v := h >> (8 * ch)
			hi, lo := uint8(v>>4)&0xF, uint8(v)&0xF
			b1[ch], b2[ch] = hi<<4|hi, lo<<4|lo
		}
		return b1, b2, true
	}
	for ch := range 3 {
		v := h >> (8 * ch)
		base := int(v>>3) & 0x1F
		second := base + signed3(v)
		if second < 0 || second > 31 {
			return b1, b2, false
		}
		b1[ch] = uint8(base<<3 | base>>2)
		b2[ch] = uint8(second<<3 | second>>2)
	}
	return b1, b2, true
}

// ETC1Selector returns the 2-bit selector of pixel (x, y) from the
// big-endian index word in bytes 4 to 7.
func ETC1Selector(word uint32, x, y int) int {
	i := x*4 + y
	return int(word>>i)&1 | int(word>>(i+16))&1<<1
}

// ETC1SecondSubblock reports whether pixel (x, y) belongs to the second
// sub-block.
func ETC1SecondSubblock(flip bool, x, y int) bool {
	if flip {
		return y >= 2
	}
	return x >= 2
}
