package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/spigell/fitscore/internal/extract"
)

const trigramWeight = 0.5

// Local is an offline embedder based on feature hashing of word unigrams and
// character trigrams. Vectors are L2-normalized; blank text maps to the zero vector.
type Local struct{}

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = hashVector(text)
	}
	return out, nil
}

func hashVector(text string) []float32 {
	v := make([]float64, Dimension)
	for _, word := range strings.Fields(extract.Normalize(text)) {
		addFeature(v, "w:"+word, 1)

		padded := []rune(" " + word + " ")
		for i := 0; i+3 <= len(padded); i++ {
			addFeature(v, "t:"+string(padded[i:i+3]), trigramWeight)
		}
	}

	var norm float64
	for _, x := range v {
		norm += x * x
	}
	out := make([]float32, Dimension)
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i, x := range v {
		out[i] = float32(x / norm)
	}
	return out
}

// addFeature hashes feature into a bucket; a second hash bit picks the sign to reduce collision bias.
func addFeature(v []float64, feature string, weight float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()

	idx := sum % uint64(len(v))
	if (sum>>63)&1 == 1 {
		weight = -weight
	}
	v[idx] += weight
}
