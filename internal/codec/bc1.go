package codec

import (
	"encoding/binary"

	"github.com/erinpentecost/bcsearch/internal/decode"
	"github.com/erinpentecost/bcsearch/internal/rng"
	"github.com/erinpentecost/bcsearch/internal/texture"
)

// BC1 modes. The four-colour mode needs c0 > c1, the three-colour mode
// (with black or transparent as the fourth entry) needs c0 <= c1.
const (
	BC1FourColor  = 0
	BC1ThreeColor = 1
)

var bc1Offsets = [16]int{4, 4, 4, 4, 4, 4, 4, 4, 4, 3, 2, 2, 1, 1, 1, 1}

// Components of the 32-bit colour word: blue, green and red of c0 in the
// low half, the same for c1 in the high half.
const (
	b0 = iota
	g0
	r0
	b1
	g1
	r1
)

var bc1Mutator = &mutator{
	fields: []field{
		b0: {shift: 0, width: 5, offsets: &bc1Offsets},
		g0: {shift: 5, width: 6, offsets: doubled(&bc1Offsets)},
		r0: {shift: 11, width: 5, offsets: &bc1Offsets},
		b1: {shift: 16, width: 5, offsets: &bc1Offsets},
		g1: {shift: 21, width: 6, offsets: doubled(&bc1Offsets)},
		r1: {shift: 27, width: 5, offsets: &bc1Offsets},
	},
	replace: concat(
		repeat(3, b0, b1),
		repeat(3, g0, g1),
		repeat(3, r0, r1),
		repeat(3, b0, g0, r0),
		repeat(3, b1, g1, r1),
		repeat(1, b0, g0, r0, b1, g1, r1),
	),
	offset: concat(
		[][]int{{b0}, {g0}, {r0}, {b1}, {g1}, {r1}},
		repeat(2, b0, b1),
		repeat(2, g0, g1),
		repeat(2, r0, r1),
		repeat(2, b0, g0, r0),
		repeat(2, b1, g1, r1),
	),
}

func bc1WordMode(w uint64) int {
	if uint16(w) <= uint16(w>>16) {
		return BC1ThreeColor
	}
	return BC1FourColor
}

// bc1Colors is the colour half shared by BC1, BC1A, BC2 and BC3.
type bc1Colors struct{}

func (bc1Colors) seed(mode int, r rng.Source, bits []byte) {
	binary.LittleEndian.PutUint32(bits, r.Uint32())
	if mode >= 0 {
		bc1SetMode(bits, mode)
	}
}

func (bc1Colors) mutate(mode int, r rng.Source, generation int, bits []byte) {
	w := uint64(binary.LittleEndian.Uint32(bits))
	var accept func(uint64) bool
	if mode >= 0 {
		accept = func(c uint64) bool { return bc1WordMode(c) == mode }
	}
	w = bc1Mutator.mutate(r, generation, w, accept)
	binary.LittleEndian.PutUint32(bits, uint32(w))
}

func bc1SetMode(bits []byte, mode int) {
	c0, c1 := decode.BC1Endpoints(bits)
	switch mode {
	case BC1FourColor:
		if c0 < c1 {
			c0, c1 = c1, c0
		} else if c0 == c1 {
			if c1 > 0 {
				c1--
			} else {
				c0++
			}
		}
	case BC1ThreeColor:
		if c0 > c1 {
			c0, c1 = c1, c0
		}
	}
	binary.LittleEndian.PutUint16(bits, c0)
	binary.LittleEndian.PutUint16(bits[2:], c1)
}

func rgbDistance(p []byte, c *[4]uint8) uint32 {
	dr := int32(p[0]) - int32(c[0])
	dg := int32(p[1]) - int32(c[1])
	db := int32(p[2]) - int32(c[2])
	return uint32(dr*dr + dg*dg + db*db)
}

func rgbaDistance(p []byte, c *[4]uint8) uint32 {
	if p[3]|c[3] == 0 {
		return 0
	}
	da := int32(p[3]) - int32(c[3])
	return uint32(da*da) + rgbDistance(p, c)
}

// setColorPixels assigns indices for a colour block at bits[0:8] against
// RGBA texels. forceFour selects the four-colour palette regardless of
// endpoint order. withAlpha scores against alpha too, which makes the
// fourth three-colour entry transparent.
func setColorPixels(texels, bits []byte, forceFour, withAlpha bool) uint32 {
	c0, c1 := decode.BC1Endpoints(bits)
	pal := decode.BC1Palette(c0, c1, forceFour || c0 > c1)
	distance := rgbDistance
	if withAlpha {
		distance = rgbaDistance
	}
	var idx, total uint32
	for i := range 16 {
		p := texels[4*i : 4*i+4]
		best, bestErr := 0, distance(p, &pal[0])
		for j := 1; j < 4; j++ {
			if e := distance(p, &pal[j]); e < bestErr {
				best, bestErr = j, e
			}
		}
		idx |= uint32(best) << (2 * i)
		total += bestErr
	}
	binary.LittleEndian.PutUint32(bits[4:], idx)
	return total
}

// BC1 compresses opaque colour blocks.
type BC1 struct {
	bc1Colors
}

func (BC1) Info() Info {
	return Info{Format: texture.BC1, Modes: 2, ModalDefault: true, Unit: Uint32}
}

func (c BC1) Seed(info *BlockInfo, r rng.Source, bits []byte) {
	c.seed(info.Mode, r, bits)
}

func (c BC1) Mutate(info *BlockInfo, r rng.Source, generation int, bits []byte) {
	c.mutate(info.Mode, r, generation, bits)
}

func (BC1) SetPixels(info *BlockInfo, bits []byte) uint32 {
	return setColorPixels(info.Texels, bits, false, false)
}

func (BC1) Mode(bits []byte) int {
	return bc1WordMode(uint64(binary.LittleEndian.Uint32(bits)))
}

func (BC1) SetMode(bits []byte, mode int, _ Flags) {
	bc1SetMode(bits, mode)
}

// BC1A is BC1 with one-bit alpha. Blocks with any non-opaque texel can only
// be represented in the three-colour mode.
type BC1A struct {
	BC1
}

func (BC1A) Info() Info {
	return Info{Format: texture.BC1A, Modes: 2, ModalDefault: true, Unit: Uint32}
}

func (BC1A) SetPixels(info *BlockInfo, bits []byte) uint32 {
	return setColorPixels(info.Texels, bits, false, true)
}

var (
	bc1aTransparentModes = []int{BC1ThreeColor}
	bc1aAllModes         = []int{BC1FourColor, BC1ThreeColor}
)

func (BC1A) Modes(info *BlockInfo) []int {
	if info.Flags&FlagOpaque == 0 {
		return bc1aTransparentModes
	}
	return bc1aAllModes
}
