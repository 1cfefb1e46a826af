package knowledge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedding maps keyword presence onto fixed dimensions so similarity
// ranking is deterministic without a real embedding backend.
func stubEmbedding(_ context.Context, text string) ([]float32, error) {
	v := []float32{0.01, 0.01, 0.01}
	t := strings.ToLower(text)
	if strings.Contains(t, "panel") {
		v[0] = 1
	}
	if strings.Contains(t, "precio") {
		v[1] = 1
	}
	if strings.Contains(t, "garant") {
		v[2] = 1
	}
	return v, nil
}

func testPassages() []PassageSource {
	return []PassageSource{
		{DocID: "conocimiento.pdf", Source: "conocimiento.pdf", Page: 1, Chunk: 0, Text: "El panel solar X500 produce 500W en condiciones ideales."},
		{DocID: "conocimiento.pdf", Source: "conocimiento.pdf", Page: 2, Chunk: 0, Text: "El precio de instalacion residencial parte de 3000 USD."},
		{DocID: "conocimiento.pdf", Source: "conocimiento.pdf", Page: 3, Chunk: 0, Text: "La garantia de fabrica cubre 25 anos de rendimiento."},
	}
}

func TestIngestAndSearch(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore("", stubEmbedding)
	require.NoError(t, err)

	n, err := s.Ingest(ctx, testPassages())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, s.Len())

	hits, err := s.Search(ctx, "cuanto cuesta, que precio tiene", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Contains(t, hits[0].Text, "precio")
	assert.Equal(t, "conocimiento.pdf", hits[0].Source)
	assert.Equal(t, 2, hits[0].Page)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestSearchClampsTopK(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore("", stubEmbedding)
	require.NoError(t, err)

	_, err = s.Ingest(ctx, testPassages()[:1])
	require.NoError(t, err)

	hits, err := s.Search(ctx, "panel", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSearchEmptyIndex(t *testing.T) {
	s, err := NewStore("", stubEmbedding)
	require.NoError(t, err)

	hits, err := s.Search(context.Background(), "panel", 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIngestIsIdempotentPerPassage(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore("", stubEmbedding)
	require.NoError(t, err)

	_, err = s.Ingest(ctx, testPassages())
	require.NoError(t, err)
	_, err = s.Ingest(ctx, testPassages())
	require.NoError(t, err)

	assert.Equal(t, 3, s.Len(), "re-ingesting the same corpus must not duplicate entries")
}

func TestSearchPropagatesEmbeddingError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("embedding backend down")
	calls := 0
	embed := func(c context.Context, text string) ([]float32, error) {
		calls++
		if calls > 1 {
			return nil, boom
		}
		return stubEmbedding(c, text)
	}

	s, err := NewStore("", embed)
	require.NoError(t, err)
	_, err = s.Ingest(ctx, testPassages()[:1])
	require.NoError(t, err)

	_, err = s.Search(ctx, "panel", 1)
	assert.ErrorIs(t, err, boom)
}
