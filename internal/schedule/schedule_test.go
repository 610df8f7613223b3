package schedule

import (
	"context"
	"testing"

	"github.com/erinpentecost/bcsearch/internal/optimize"
	"github.com/erinpentecost/bcsearch/internal/texture"
	"github.com/stretchr/testify/require"
)

func TestBands(t *testing.T) {
	for _, tc := range []struct {
		name          string
		width, height int
		threads       int
		want          []Band
	}{
		{"tiny texture gets one band", 8, 8, 16, []Band{{0, 8}}},
		{"limited by blocks per band", 32, 32, 16, []Band{{0, 16}, {16, 32}}},
		{"explicit threads", 256, 256, 4, []Band{{0, 64}, {64, 128}, {128, 192}, {192, 256}}},
		{"uneven rows", 1024, 12, 8, []Band{{0, 4}, {4, 8}, {8, 12}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Bands(tc.width, tc.height, tc.threads))
		})
	}
}

func TestBandsCoverAllRows(t *testing.T) {
	for _, threads := range []int{0, 1, 3, 7, 256} {
		bands := Bands(512, 200, threads)
		require.NotEmpty(t, bands)
		y := 0
		for _, b := range bands {
			require.Equal(t, y, b.Y0)
			require.Zero(t, b.Y1%4)
			require.Greater(t, b.Y1, b.Y0)
			y = b.Y1
		}
		require.Equal(t, 200, y)
	}
}

func gradient(w, h int) *texture.Texture {
	tex := texture.New(w, h, texture.R8)
	for y := range h {
		for x := range w {
			tex.Pix[y*w+x] = byte(x*7 + y*3)
		}
	}
	return tex
}

func TestRunDeterministic(t *testing.T) {
	tex := gradient(64, 32)
	e, ok := optimize.For(texture.RGTC1)
	require.True(t, ok)
	job := Job{Engine: e, Tries: 1, Modal: true, MaxThreads: 2, Seed: 99}

	a := make([]byte, 16*8*8)
	b := make([]byte, len(a))
	require.NoError(t, Run(context.Background(), tex, a, job))
	require.NoError(t, Run(context.Background(), tex, b, job))
	require.Equal(t, a, b)

	for i := 0; i < len(a); i += 8 {
		require.False(t, a[i] == 0 && a[i+1] == 0 && a[i+2] == 0, "block %d left empty", i/8)
	}
}

func TestRunOutputSize(t *testing.T) {
	e, _ := optimize.For(texture.RGTC1)
	err := Run(context.Background(), gradient(8, 8), make([]byte, 8), Job{Engine: e, Tries: 1})
	require.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e, _ := optimize.For(texture.RGTC1)
	err := Run(ctx, gradient(8, 8), make([]byte, 32), Job{Engine: e, Tries: 1})
	require.ErrorIs(t, err, context.Canceled)
}

func BenchmarkRun(b *testing.B) {
	tex := gradient(64, 64)
	e, _ := optimize.For(texture.RGTC1)
	out := make([]byte, 16*16*8)
	for b.Loop() {
		Run(b.Context(), tex, out, Job{Engine: e, Tries: 1, Modal: true})
	}
}
