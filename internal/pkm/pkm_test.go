package pkm

import (
	"bytes"
	"testing"

	"github.com/erinpentecost/bcsearch/internal/texture"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	c := &texture.Compressed{Width: 8, Height: 4, Format: texture.ETC1, Data: []byte{
		1, 2, 3, 4, 5, 6, 7, 8,
		9, 10, 11, 12, 13, 14, 15, 16,
	}}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, c))
	out := buf.Bytes()
	require.Equal(t, []byte{'P', 'K', 'M', ' ', '1', '0', 0, 0, 0, 8, 0, 4, 0, 8, 0, 4}, out[:HeaderSize])

	h, err := DecodeHeader(out)
	require.NoError(t, err)
	require.Equal(t, Header{Width: 8, Height: 4, OriginalWidth: 8, OriginalHeight: 4}, h)

	got, err := Decode(out)
	require.NoError(t, err)
	require.Equal(t, c, got)
}

func TestEncodeRejectsOtherFormats(t *testing.T) {
	err := Encode(&bytes.Buffer{}, &texture.Compressed{Width: 4, Height: 4, Format: texture.BC1, Data: make([]byte, 8)})
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		data []byte
		want error
	}{
		{"short", []byte("PKM 10"), ErrHeader},
		{"magic", []byte("PKX 10\x00\x00\x00\x04\x00\x04\x00\x04\x00\x04"), ErrHeader},
		{"version", []byte("PKM 20\x00\x00\x00\x04\x00\x04\x00\x04\x00\x04"), ErrHeader},
		{"format", []byte("PKM 10\x00\x01\x00\x04\x00\x04\x00\x04\x00\x04"), ErrUnsupportedFormat},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.data)
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, err := Decode([]byte("PKM 10\x00\x00\x00\x04\x00\x04\x00\x04\x00\x04\x01\x02"))
	require.Error(t, err)
}
