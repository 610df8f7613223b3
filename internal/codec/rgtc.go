package codec

import (
	"encoding/binary"

	"github.com/erinpentecost/bcsearch/internal/decode"
	"github.com/erinpentecost/bcsearch/internal/rng"
	"github.com/erinpentecost/bcsearch/internal/texture"
)

// RGTC1 compresses one unsigned 8-bit channel with the BC3 alpha scheme.
type RGTC1 struct{}

func (RGTC1) Info() Info {
	return Info{Format: texture.RGTC1, Modes: 2, ModalDefault: true, Unit: Uint32}
}

func (RGTC1) Seed(info *BlockInfo, r rng.Source, bits []byte) {
	seedRamp(info.Mode, false, r, bits)
}

func (RGTC1) Mutate(info *BlockInfo, r rng.Source, generation int, bits []byte) {
	mutateRamp(info.Mode, unsignedAlphaMutator, false, r, generation, bits)
}

func (RGTC1) SetPixels(info *BlockInfo, bits []byte) uint32 {
	return setRampPixels(info.Texels, 1, bits)
}

// SignedRGTC1 compresses one signed channel. Texels are 16-bit, endpoints
// are 8-bit, so the error is summed in 64 bits.
type SignedRGTC1 struct{}

func (SignedRGTC1) Info() Info {
	return Info{Format: texture.SignedRGTC1, Modes: 2, ModalDefault: true, Unit: Uint64}
}

func (SignedRGTC1) Seed(info *BlockInfo, r rng.Source, bits []byte) {
	seedRamp(info.Mode, true, r, bits)
}

func (SignedRGTC1) Mutate(info *BlockInfo, r rng.Source, generation int, bits []byte) {
	mutateRamp(info.Mode, signedAlphaMutator, true, r, generation, bits)
}

func (SignedRGTC1) SetPixels(info *BlockInfo, bits []byte) uint64 {
	ramp := decode.SignedRamp(int8(bits[0]), int8(bits[1]))
	var wide [8]int64
	for i, v := range ramp {
		wide[i] = int64(texture.ExpandSigned8(v))
	}
	var idx [16]uint8
	var total uint64
	for i := range 16 {
		v := int64(int16(binary.LittleEndian.Uint16(info.Texels[2*i:])))
		best, bestErr := 0, uint64((v-wide[0])*(v-wide[0]))
		for j := 1; j < 8; j++ {
			d := v - wide[j]
			if e := uint64(d * d); e < bestErr {
				best, bestErr = j, e
			}
		}
		idx[i] = uint8(best)
		total += bestErr
	}
	decode.PutAlphaIndices(bits, &idx)
	return total
}
