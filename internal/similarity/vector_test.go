package similarity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustIdf(t *testing.T, vocabulary []string, weights []float64) *Idf {
	t.Helper()
	idf, err := NewIdf(vocabulary, weights)
	require.NoError(t, err)
	return idf
}

func requireVector(t *testing.T, want, got []float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.InDelta(t, want[i], got[i], epsilon, "position %d", i)
	}
}

func TestCalculateTfIdfVectors(t *testing.T) {
	idf := mustIdf(t, []string{"a", "b", "c"}, []float64{1.2, 0.8, 1.5})
	vectors := CalculateTfIdfVectors(map[string][]string{
		"doc1": {"a", "a", "b"},
		"doc2": {"b", "c"},
	}, idf)

	requireVector(t, []float64{2.0 / 3 * 1.2, 1.0 / 3 * 0.8, 0}, vectors["doc1"])
	requireVector(t, []float64{0, 0.5 * 0.8, 0.5 * 1.5}, vectors["doc2"])
}

func TestVectorize_OutOfVocabulary(t *testing.T) {
	idf := mustIdf(t, []string{"select", "from", "where"}, []float64{1.2, 0.8, 1.5})

	requireVector(t, []float64{0.6, 0, 0.75}, Vectorize([]string{"select", "where"}, idf))
	// unknown n-grams still count towards the total
	requireVector(t, []float64{0.4, 0, 0}, Vectorize([]string{"select", "into", "dual"}, idf))
	requireVector(t, []float64{0, 0, 0}, Vectorize([]string{"into"}, idf))
	requireVector(t, []float64{0, 0, 0}, Vectorize(nil, idf))
}
