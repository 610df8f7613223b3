// Package codec implements the per-format halves of the block search: seeding
// random endpoints, mutating them, and assigning every texel its nearest
// candidate.
//
// Codecs only touch endpoint fields in Seed and Mutate. SetPixels fills in
// the remaining index bits, so a bitstring is fully defined after every
// SetPixels call.
package codec

import (
	"github.com/erinpentecost/bcsearch/internal/rng"
	"github.com/erinpentecost/bcsearch/internal/texture"
)

// Score is the type a codec accumulates squared error in.
type Score interface {
	~uint32 | ~uint64 | ~float64
}

// Unit names the Score type of a codec.
type Unit int

const (
	Uint32 Unit = iota
	Uint64
	Float64
)

// Info describes what a codec supports. It never changes.
type Info struct {
	Format texture.Format
	// Modes is the number of discrete bit layouts within the format.
	Modes int
	// ModalDefault is true when searching each mode separately is the
	// recommended strategy.
	ModalDefault bool
	Unit         Unit
}

type Flags uint8

const (
	// FlagOpaque is set when every texel of the block has alpha 255.
	FlagOpaque Flags = 1 << iota
)

// ModeAny lets a codec pick any mode.
const ModeAny = -1

// BlockInfo is the context of one block being compressed.
type BlockInfo struct {
	Texture *texture.Texture
	X, Y    int
	Mode    int
	Flags   Flags
	// Texels is a tightly packed copy of the 16 source pixels.
	Texels []byte
}

// NewBlockInfo returns a BlockInfo for t. Call Load before using it.
func NewBlockInfo(t *texture.Texture) *BlockInfo {
	return &BlockInfo{
		Texture: t,
		Mode:    ModeAny,
		Texels:  make([]byte, 16*t.Format.BytesPerPixel()),
	}
}

// Load points the BlockInfo at the block whose top-left pixel is (x, y).
func (b *BlockInfo) Load(x, y int) {
	b.X, b.Y = x, y
	b.Mode = ModeAny
	b.Texture.Block(x, y, b.Texels)
	b.Flags = 0
	if b.Texture.Opaque(x, y) {
		b.Flags |= FlagOpaque
	}
}

// Codec is one block format.
type Codec[E Score] interface {
	Info() Info
	// Seed writes random endpoints into bits, honouring info.Mode.
	Seed(info *BlockInfo, r rng.Source, bits []byte)
	// Mutate perturbs the endpoints in bits. Large jumps early on,
	// shrinking offsets as generation grows.
	Mutate(info *BlockInfo, r rng.Source, generation int, bits []byte)
	// SetPixels writes the best index for every texel and returns the
	// resulting squared error.
	SetPixels(info *BlockInfo, bits []byte) E
}

// ModeSetter is implemented by codecs whose mode can be read from and
// forced into a bitstring.
type ModeSetter interface {
	Mode(bits []byte) int
	SetMode(bits []byte, mode int, flags Flags)
}

// ModeLister is implemented by codecs whose legal modes depend on the block.
type ModeLister interface {
	Modes(info *BlockInfo) []int
}
