package metric

import (
	"encoding/binary"
	"testing"

	"github.com/erinpentecost/bcsearch/internal/texture"
	"github.com/stretchr/testify/require"
)

func fill(n int, v ...byte) []byte {
	out := make([]byte, 0, n*len(v))
	for range n {
		out = append(out, v...)
	}
	return out
}

func TestRGBX8IgnoresAlpha(t *testing.T) {
	a := fill(16, 10, 20, 30, 0)
	b := fill(16, 12, 20, 27, 255)
	require.Equal(t, uint32(16*(4+9)), RGBX8(a, b))
}

func TestRGBA8Masking(t *testing.T) {
	a := fill(16, 100, 100, 100, 0)
	b := fill(16, 0, 0, 0, 0)
	require.Zero(t, RGBA8(a, b), "fully transparent pairs do not count")

	b[3] = 1
	require.Equal(t, uint32(1+3*100*100), RGBA8(a, b))
}

func TestSingleChannel(t *testing.T) {
	a := fill(16, 5)
	b := fill(16, 9)
	require.Equal(t, uint32(16*16), R8(a, b))
	require.Equal(t, uint32(32*16), RG8(fill(16, 5, 5), fill(16, 9, 9)))
}

func signed16(v ...int16) []byte {
	out := make([]byte, 0, 64)
	for range 16 {
		for _, x := range v {
			out = binary.LittleEndian.AppendUint16(out, uint16(x))
		}
	}
	return out
}

func TestSigned16NeedsWideSum(t *testing.T) {
	a := signed16(-32767)
	b := signed16(32767)
	want := uint64(16) * 65534 * 65534
	require.Equal(t, want, SignedR16(a, b))
}

func TestSignedRG16UsesBothChannels(t *testing.T) {
	a := signed16(0, 10)
	b := signed16(0, 0)
	require.Equal(t, uint64(16*100), SignedRG16(a, b))
	b = signed16(0, 10)
	require.Zero(t, SignedRG16(a, b))
}

func TestFor(t *testing.T) {
	m := For(texture.R8)
	require.NotNil(t, m)
	require.Equal(t, float64(16), m(fill(16, 1), fill(16, 0)))
	require.Nil(t, For(texture.RGB8))
}
