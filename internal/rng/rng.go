// Package rng is the random generator used by the block search.
//
// CMWC is George Marsaglia's lag-4096 complementary multiply-with-carry
// generator. It is fast, has a huge period, and is not safe for concurrent
// use: give each worker its own instance.
package rng

const (
	lag      = 4096
	multiply = 18782
	initC    = 362436
)

// Source is what the codecs draw from.
type Source interface {
	Uint32() uint32
	// Bits returns a value in [0, 2^n) for 0 <= n <= 32.
	Bits(n int) uint32
}

type CMWC struct {
	q [lag]uint32
	c uint32
	i int

	reservoir uint64
	avail     int
}

// New returns a generator seeded from seed.
func New(seed uint64) *CMWC {
	r := &CMWC{}
	r.Seed(seed)
	return r
}

// splitmix64 expands a single seed into the lag table.
func splitmix64(x *uint64) uint64 {
	*x += 0x9e3779b97f4a7c15
	z := *x
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func (r *CMWC) Seed(seed uint64) {
	s := seed
	for i := range r.q {
		r.q[i] = uint32(splitmix64(&s))
	}
	r.c = initC
	r.i = lag - 1
	r.reservoir = 0
	r.avail = 0
}

func (r *CMWC) Uint32() uint32 {
	r.i = (r.i + 1) & (lag - 1)
	t := uint64(multiply)*uint64(r.q[r.i]) + uint64(r.c)
	r.c = uint32(t >> 32)
	x := uint32(t) + r.c
	if x < r.c {
		x++
		r.c++
	}
	r.q[r.i] = 0xfffffffe - x
	return r.q[r.i]
}

// Uint64 makes CMWC a math/rand/v2 Source.
func (r *CMWC) Uint64() uint64 {
	return uint64(r.Uint32())<<32 | uint64(r.Uint32())
}

func (r *CMWC) Bits(n int) uint32 {
	if n <= 0 {
		return 0
	}
	if n >= 32 {
		return r.Uint32()
	}
	if r.avail < n {
		r.reservoir |= uint64(r.Uint32()) << r.avail
		r.avail += 32
	}
	v := uint32(r.reservoir & (1<<n - 1))
	r.reservoir >>= n
	r.avail -= n
	return v
}
