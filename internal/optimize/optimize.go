// Package optimize runs the randomized hill climb that turns a codec into a
// block compressor.
package optimize

import (
	"math"

	"github.com/erinpentecost/bcsearch/internal/codec"
	"github.com/erinpentecost/bcsearch/internal/rng"
	"github.com/erinpentecost/bcsearch/internal/texture"
)

const (
	// SeedGenerations are spent on fresh random endpoints before
	// mutation starts.
	SeedGenerations = 256
	// Generations is the length of a search that does not reach zero
	// error. Past it the search goes on only while it keeps improving.
	Generations = 2048
	// Patience is how many generations past the last improvement a
	// search may run once Generations is reached.
	Patience = 384

	maxBlockSize = 16
)

// Result is the outcome of one search.
type Result[E codec.Score] struct {
	Score           E
	Generations     int
	LastImprovement int
}

// Block searches for the bitstring of one block and leaves the best one
// in best. info.Mode is fixed for the whole search.
func Block[E codec.Score](c codec.Codec[E], info *codec.BlockInfo, r rng.Source, best []byte) Result[E] {
	var scratch [maxBlockSize]byte
	bits := scratch[:len(best)]
	res := Result[E]{LastImprovement: -1}
	for gen := 0; gen < Generations || gen < res.LastImprovement+Patience; gen++ {
		if gen < SeedGenerations {
			c.Seed(info, r, bits)
		} else {
			copy(bits, best)
			c.Mutate(info, r, gen, bits)
		}
		score := c.SetPixels(info, bits)
		res.Generations = gen + 1
		// The first candidate always wins, as if the best score started
		// at the maximum of E.
		if res.LastImprovement < 0 || score < res.Score {
			res.Score = score
			res.LastImprovement = gen
			copy(best, bits)
		}
		if res.Score == 0 {
			break
		}
	}
	return res
}

// RMSE converts a block score to the root mean square error per texel.
func RMSE[E codec.Score](score E) float64 {
	return math.Sqrt(float64(score) / 16)
}

// Engine compresses blocks of one format. It hides the score type of the
// codec behind it.
type Engine interface {
	Info() codec.Info
	// CompressBlock runs tries searches per mode (all legal modes when
	// modal, otherwise one unconstrained search) and writes the best
	// bitstring to out. It returns the block RMSE.
	CompressBlock(info *codec.BlockInfo, r rng.Source, out []byte, tries int, modal bool) float64
}

type engine[E codec.Score] struct {
	codec codec.Codec[E]
	modes []int
}

// New wraps a codec into an Engine.
func New[E codec.Score](c codec.Codec[E]) Engine {
	e := &engine[E]{codec: c}
	for m := range c.Info().Modes {
		e.modes = append(e.modes, m)
	}
	return e
}

func (e *engine[E]) Info() codec.Info {
	return e.codec.Info()
}

func (e *engine[E]) modesFor(info *codec.BlockInfo) []int {
	if l, ok := e.codec.(codec.ModeLister); ok {
		return l.Modes(info)
	}
	return e.modes
}

func (e *engine[E]) CompressBlock(info *codec.BlockInfo, r rng.Source, out []byte, tries int, modal bool) float64 {
	var scratch [maxBlockSize]byte
	bits := scratch[:len(out)]
	modes := []int{codec.ModeAny}
	if modal {
		modes = e.modesFor(info)
	}
	bestRMSE := math.MaxFloat64
	for range tries {
		for _, mode := range modes {
			info.Mode = mode
			rmse := RMSE(Block(e.codec, info, r, bits).Score)
			if rmse < bestRMSE {
				bestRMSE = rmse
				copy(out, bits)
				if rmse == 0 {
					return 0
				}
			}
		}
	}
	return bestRMSE
}

// For returns the engine of a single-plane format. Composite formats have
// no engine of their own.
func For(f texture.Format) (Engine, bool) {
	switch f {
	case texture.BC1:
		return New[uint32](codec.BC1{}), true
	case texture.BC1A:
		return New[uint32](codec.BC1A{}), true
	case texture.BC2:
		return New[uint32](codec.BC2{}), true
	case texture.BC3:
		return New[uint32](codec.BC3{}), true
	case texture.RGTC1:
		return New[uint32](codec.RGTC1{}), true
	case texture.SignedRGTC1:
		return New[uint64](codec.SignedRGTC1{}), true
	case texture.ETC1:
		return New[uint32](codec.ETC1{}), true
	}
	return nil, false
}
