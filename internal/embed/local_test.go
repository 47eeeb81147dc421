package embed

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalEmbedderDeterministic(t *testing.T) {
	e := NewLocalEmbedder(64)

	a, err := e.EmbedQuery(context.Background(), "laporan praktikum jaringan komputer")
	require.NoError(t, err)
	b, err := e.EmbedQuery(context.Background(), "laporan praktikum jaringan komputer")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestLocalEmbedderDimension(t *testing.T) {
	tests := []struct {
		name string
		dim  int
		want int
	}{
		{"explicit dimension", 128, 128},
		{"zero falls back to default", 0, 384},
		{"negative falls back to default", -5, 384},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewLocalEmbedder(tt.dim)
			assert.Equal(t, tt.want, e.Dimension())

			v, err := e.EmbedQuery(context.Background(), "text")
			require.NoError(t, err)
			assert.Len(t, v, tt.want)
		})
	}
}

func TestLocalEmbedderNormalized(t *testing.T) {
	e := NewLocalEmbedder(64)

	v, err := e.EmbedQuery(context.Background(), "satu dua tiga empat lima")
	require.NoError(t, err)

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestLocalEmbedderEmptyText(t *testing.T) {
	e := NewLocalEmbedder(16)

	v, err := e.EmbedQuery(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, v, 16)
	for _, x := range v {
		assert.Zero(t, x)
	}
}

func TestLocalEmbedderCaseInsensitive(t *testing.T) {
	e := NewLocalEmbedder(64)

	a, err := e.EmbedQuery(context.Background(), "Pendahuluan Laporan")
	require.NoError(t, err)
	b, err := e.EmbedQuery(context.Background(), "pendahuluan laporan")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
