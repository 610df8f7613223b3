package codec

import (
	"math/bits"

	"github.com/erinpentecost/bcsearch/internal/rng"
)

// Below this generation a mutation replaces whole endpoint components with
// random values. From it on, components move by a random offset whose range
// shrinks every 128 generations.
const replaceUntil = 1024

// offsetTableIndex maps a generation to an index into a 16-entry table of
// offset widths.
func offsetTableIndex(generation int) int {
	return min(generation/128, 15)
}

// field is one endpoint component packed into an integer word.
type field struct {
	shift uint
	width uint
	// signed fields hold an 8-bit two's complement value limited to
	// [-127, 127] by offset mutation.
	signed bool
	// offsets is the offset width in bits, by offset table index.
	offsets *[16]int
}

func (f field) mask() uint64 {
	return 1<<f.width - 1
}

func (f field) get(v uint64) int {
	raw := (v >> f.shift) & f.mask()
	if f.signed {
		return int(int8(raw))
	}
	return int(raw)
}

func (f field) put(v uint64, x int) uint64 {
	return v&^(f.mask()<<f.shift) | (uint64(x)&f.mask())<<f.shift
}

func (f field) limits() (lo, hi int) {
	if f.signed {
		return -127, 127
	}
	return 0, int(f.mask())
}

// mutator perturbs the fields of an endpoint word. Each mutation picks one
// group of fields uniformly; duplicated groups are picked more often.
type mutator struct {
	fields  []field
	replace [][]int
	offset  [][]int
}

func groupBits(groups [][]int) int {
	return bits.Len(uint(len(groups) - 1))
}

// mutate returns a mutated copy of v. When accept is not nil, candidates are
// drawn until accept returns true.
func (m *mutator) mutate(r rng.Source, generation int, v uint64, accept func(uint64) bool) uint64 {
	for {
		c := v
		if generation < replaceUntil {
			for _, i := range m.replace[r.Bits(groupBits(m.replace))] {
				f := m.fields[i]
				c = f.put(c, int(r.Bits(int(f.width))))
			}
		} else {
			idx := offsetTableIndex(generation)
			for _, i := range m.offset[r.Bits(groupBits(m.offset))] {
				f := m.fields[i]
				rnd := int(r.Bits(f.offsets[idx] + 1))
				delta := rnd>>1 + 1
				lo, hi := f.limits()
				val := f.get(c)
				if rnd&1 == 0 {
					val = min(val+delta, hi)
				} else {
					val = max(val-delta, lo)
				}
				c = f.put(c, val)
			}
		}
		if accept == nil || accept(c) {
			return c
		}
	}
}

func doubled(t *[16]int) *[16]int {
	var d [16]int
	for i, v := range t {
		d[i] = v << 1
	}
	return &d
}

func repeat(n int, group ...int) [][]int {
	out := make([][]int, n)
	for i := range out {
		out[i] = group
	}
	return out
}

func concat(parts ...[][]int) [][]int {
	var out [][]int
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
