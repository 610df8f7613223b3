package codec

import (
	"encoding/binary"

	"github.com/erinpentecost/bcsearch/internal/decode"
	"github.com/erinpentecost/bcsearch/internal/metric"
	"github.com/erinpentecost/bcsearch/internal/rng"
	"github.com/erinpentecost/bcsearch/internal/texture"
)

// BC2 stores explicit 4-bit alpha followed by a four-colour BC1 block. The
// alpha half does not depend on the search, so only colour is scored.
type BC2 struct {
	bc1Colors
}

func (BC2) Info() Info {
	return Info{Format: texture.BC2, Modes: 1, ModalDefault: true, Unit: Uint32}
}

func (c BC2) Seed(_ *BlockInfo, r rng.Source, bits []byte) {
	c.seed(BC1FourColor, r, bits[8:])
}

func (c BC2) Mutate(_ *BlockInfo, r rng.Source, generation int, bits []byte) {
	c.mutate(BC1FourColor, r, generation, bits[8:])
}

func (BC2) SetPixels(info *BlockInfo, bits []byte) uint32 {
	var alpha uint64
	for i := range 16 {
		a := uint64(info.Texels[4*i+3])
		alpha |= (a*15 + 127) / 255 << (4 * i)
	}
	binary.LittleEndian.PutUint64(bits, alpha)
	return setColorPixels(info.Texels, bits[8:], true, false)
}

var alphaOffsets = [16]int{6, 6, 6, 6, 6, 6, 6, 6, 6, 5, 4, 3, 2, 2, 1, 1}

// alphaMutator moves the two 8-bit endpoints of a BC3 alpha or RGTC1
// block. The same groups serve both mutation phases.
func alphaMutator(signed bool) *mutator {
	groups := concat(repeat(3, 0), repeat(3, 1), repeat(2, 0, 1))
	return &mutator{
		fields: []field{
			{shift: 0, width: 8, signed: signed, offsets: &alphaOffsets},
			{shift: 8, width: 8, signed: signed, offsets: &alphaOffsets},
		},
		replace: groups,
		offset:  groups,
	}
}

var (
	unsignedAlphaMutator = alphaMutator(false)
	signedAlphaMutator   = alphaMutator(true)
)

// Alpha ramp modes: six interpolants when e0 > e1, four plus the two
// extremes otherwise.
const (
	RampSix  = 0
	RampFour = 1
)

func rampMode(w uint64, signed bool) int {
	e0, e1 := int(w&0xFF), int(w>>8&0xFF)
	if signed {
		e0, e1 = int(int8(e0)), int(int8(e1))
	}
	if e0 <= e1 {
		return RampFour
	}
	return RampSix
}

// seedRamp draws two endpoints in the requested mode. Equal endpoints
// cannot express the six-value ramp, so they are redrawn.
func seedRamp(mode int, signed bool, r rng.Source, bits []byte) {
	for {
		w := uint64(r.Bits(16))
		if mode >= 0 && rampMode(w, signed) != mode {
			w = w>>8 | (w&0xFF)<<8
		}
		if mode >= 0 && rampMode(w, signed) != mode {
			continue
		}
		bits[0], bits[1] = byte(w), byte(w>>8)
		return
	}
}

func mutateRamp(mode int, m *mutator, signed bool, r rng.Source, generation int, bits []byte) {
	w := uint64(bits[0]) | uint64(bits[1])<<8
	var accept func(uint64) bool
	if mode >= 0 {
		accept = func(c uint64) bool { return rampMode(c, signed) == mode }
	}
	w = m.mutate(r, generation, w, accept)
	bits[0], bits[1] = byte(w), byte(w>>8)
}

// setRampPixels assigns 3-bit indices for an unsigned ramp block against
// every stride-th byte of texels.
func setRampPixels(texels []byte, stride int, bits []byte) uint32 {
	ramp := decode.AlphaRamp(bits[0], bits[1])
	var idx [16]uint8
	var total uint32
	for i := range 16 {
		v := int32(texels[i*stride])
		best, bestErr := 0, uint32((v-int32(ramp[0]))*(v-int32(ramp[0])))
		for j := 1; j < 8; j++ {
			d := v - int32(ramp[j])
			if e := uint32(d * d); e < bestErr {
				best, bestErr = j, e
			}
		}
		idx[i] = uint8(best)
		total += bestErr
	}
	decode.PutAlphaIndices(bits, &idx)
	return total
}

// BC3 pairs an interpolated alpha block with a four-colour BC1 block. The
// mode is the mode of the alpha ramp.
type BC3 struct {
	bc1Colors
}

func (BC3) Info() Info {
	return Info{Format: texture.BC3, Modes: 2, ModalDefault: true, Unit: Uint32}
}

func (c BC3) Seed(info *BlockInfo, r rng.Source, bits []byte) {
	c.seed(BC1FourColor, r, bits[8:])
	seedRamp(info.Mode, false, r, bits)
}

func (c BC3) Mutate(info *BlockInfo, r rng.Source, generation int, bits []byte) {
	c.mutate(BC1FourColor, r, generation, bits[8:])
	mutateRamp(info.Mode, unsignedAlphaMutator, false, r, generation, bits)
}

// SetPixels picks colour and alpha indices independently, then scores the
// decoded block. Texels that end up transparent on both sides do not count
// their colour, which the independent passes cannot see.
func (BC3) SetPixels(info *BlockInfo, bits []byte) uint32 {
	setColorPixels(info.Texels, bits[8:], true, false)
	setRampPixels(info.Texels[3:], 4, bits)
	var decoded [64]byte
	if err := decode.Block(texture.BC3, bits, decoded[:]); err != nil {
		panic(err)
	}
	return metric.RGBA8(decoded[:], info.Texels)
}
