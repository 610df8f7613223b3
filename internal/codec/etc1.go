package codec

import (
	"encoding/binary"
	"math"

	"github.com/erinpentecost/bcsearch/internal/decode"
	"github.com/erinpentecost/bcsearch/internal/rng"
	"github.com/erinpentecost/bcsearch/internal/texture"
)

// ETC1 modes are the flip bit (1) and the differential bit (2) of the
// header.
const (
	ETC1Flip         = 1
	ETC1Differential = 2

	etc1ModeShift = 24
	etc1ModeMask  = 3 << etc1ModeShift
)

var (
	etc1IndividualOffsets = [16]int{3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 2, 2, 1, 1, 1, 1}
	etc1BaseOffsets       = [16]int{4, 4, 4, 4, 4, 4, 4, 4, 4, 3, 2, 2, 1, 1, 1, 1}
	etc1DeltaOffsets      = [16]int{2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 1, 1, 1, 1}
	etc1CodewordOffsets   = [16]int{2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 1, 1, 1, 1, 1, 1}
)

// Header components: colour 1 red, green, blue, colour 2 red, green, blue,
// then the two codewords.
var (
	etc1Replace = concat(
		repeat(3, 0, 3),
		repeat(3, 1, 4),
		repeat(3, 2, 5),
		repeat(2, 0, 1, 2),
		repeat(2, 3, 4, 5),
		repeat(1, 0, 1, 2, 3, 4, 5),
		repeat(2, 6, 7),
	)
	etc1Offset = concat(
		[][]int{{0}, {1}, {2}, {3}, {4}, {5}, {6}, {7}},
		repeat(2, 0, 3),
		repeat(2, 1, 4),
		repeat(2, 2, 5),
		repeat(1, 0, 1, 2),
		repeat(1, 3, 4, 5),
	)
	etc1Codewords = []field{
		{shift: 29, width: 3, offsets: &etc1CodewordOffsets},
		{shift: 26, width: 3, offsets: &etc1CodewordOffsets},
	}

	etc1IndividualMutator = &mutator{
		fields: append([]field{
			{shift: 4, width: 4, offsets: &etc1IndividualOffsets},
			{shift: 12, width: 4, offsets: &etc1IndividualOffsets},
			{shift: 20, width: 4, offsets: &etc1IndividualOffsets},
			{shift: 0, width: 4, offsets: &etc1IndividualOffsets},
			{shift: 8, width: 4, offsets: &etc1IndividualOffsets},
			{shift: 16, width: 4, offsets: &etc1IndividualOffsets},
		}, etc1Codewords...),
		replace: etc1Replace,
		offset:  etc1Offset,
	}
	etc1DifferentialMutator = &mutator{
		fields: append([]field{
			{shift: 3, width: 5, offsets: &etc1BaseOffsets},
			{shift: 11, width: 5, offsets: &etc1BaseOffsets},
			{shift: 19, width: 5, offsets: &etc1BaseOffsets},
			{shift: 0, width: 3, offsets: &etc1DeltaOffsets},
			{shift: 8, width: 3, offsets: &etc1DeltaOffsets},
			{shift: 16, width: 3, offsets: &etc1DeltaOffsets},
		}, etc1Codewords...),
		replace: etc1Replace,
		offset:  etc1Offset,
	}
)

func etc1Valid(h uint64) bool {
	_, _, ok := decode.ETC1Bases(uint32(h))
	return ok
}

// ETC1 searches base colours and codewords. The mode bits are chosen at
// seed time and never mutated.
type ETC1 struct{}

func (ETC1) Info() Info {
	return Info{Format: texture.ETC1, Modes: 4, ModalDefault: true, Unit: Uint32}
}

func (ETC1) Seed(info *BlockInfo, r rng.Source, bits []byte) {
	mode := info.Mode
	if mode < 0 {
		mode = int(r.Bits(2))
	}
	for {
		h := r.Uint32()&^etc1ModeMask | uint32(mode)<<etc1ModeShift
		if mode&ETC1Differential != 0 && !etc1Valid(uint64(h)) {
			continue
		}
		binary.LittleEndian.PutUint32(bits, h)
		return
	}
}

func (ETC1) Mutate(_ *BlockInfo, r rng.Source, generation int, bits []byte) {
	h := uint64(decode.ETC1Header(bits))
	if decode.ETC1Differential(uint32(h)) {
		h = etc1DifferentialMutator.mutate(r, generation, h, etc1Valid)
	} else {
		h = etc1IndividualMutator.mutate(r, generation, h, nil)
	}
	binary.LittleEndian.PutUint32(bits, uint32(h))
}

func (ETC1) SetPixels(info *BlockInfo, bits []byte) uint32 {
	h := decode.ETC1Header(bits)
	b1, b2, ok := decode.ETC1Bases(h)
	if !ok {
		return math.MaxUint32
	}
	cw1, cw2 := decode.ETC1Codewords(h)
	flip := decode.ETC1Flip(h)

	var pal [2][4][4]uint8
	for s, sub := range [2]struct {
		base [3]uint8
		cw   int
	}{{b1, cw1}, {b2, cw2}} {
		for sel := range 4 {
			m := decode.ETC1Modifier(sub.cw, sel)
			for ch := range 3 {
				pal[s][sel][ch] = uint8(min(max(int(sub.base[ch])+m, 0), 255))
			}
		}
	}

	var word, total uint32
	for y := range 4 {
		for x := range 4 {
			p := info.Texels[4*(y*4+x):]
			sub := &pal[0]
			if decode.ETC1SecondSubblock(flip, x, y) {
				sub = &pal[1]
			}
			best, bestErr := 0, rgbDistance(p, &sub[0])
			for sel := 1; sel < 4; sel++ {
				if e := rgbDistance(p, &sub[sel]); e < bestErr {
					best, bestErr = sel, e
				}
			}
			i := x*4 + y
			word |= uint32(best&1)<<i | uint32(best>>1)<<(i+16)
			total += bestErr
		}
	}
	binary.BigEndian.PutUint32(bits[4:], word)
	return total
}

func (ETC1) Mode(bits []byte) int {
	return int(decode.ETC1Header(bits)>>etc1ModeShift) & 3
}

// SetMode rewrites the mode bits. A differential header that would
// overflow has its deltas cleared.
func (ETC1) SetMode(bits []byte, mode int, _ Flags) {
	h := decode.ETC1Header(bits)&^etc1ModeMask | uint32(mode&3)<<etc1ModeShift
	if mode&ETC1Differential != 0 && !etc1Valid(uint64(h)) {
		h &^= 0x070707
	}
	binary.LittleEndian.PutUint32(bits, h)
}
