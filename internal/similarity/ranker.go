package similarity

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/xxxsen/codegen/internal/model"
)

const (
	DefaultTopK      = 3
	DefaultThreshold = 0.5
)

type Option func(*Ranker)

// WithTopK sets how many top ranked candidates are always kept.
func WithTopK(k int) Option {
	return func(r *Ranker) {
		if k >= 0 {
			r.topK = k
		}
	}
}

// WithThreshold sets the similarity at or above which candidates ranked
// beyond the top k are still kept.
func WithThreshold(threshold float64) Option {
	return func(r *Ranker) {
		r.threshold = threshold
	}
}

type Ranker struct {
	corpus    *Corpus
	topK      int
	threshold float64
}

func NewRanker(corpus *Corpus, opts ...Option) *Ranker {
	r := &Ranker{
		corpus:    corpus,
		topK:      DefaultTopK,
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type ScoredPair struct {
	Pair       model.CodePair `json:"pair"`
	Similarity float64        `json:"similarity"`
}

// RankExamples scores every candidate against query, sorts them by
// descending similarity (ties keep input order) and applies the selection
// policy: a candidate is kept when its rank is below the top k or its
// similarity reaches the threshold. A candidate without a precomputed
// vector fails the whole call.
func (r *Ranker) RankExamples(query string, candidates []model.CodePair) ([]ScoredPair, error) {
	queryVec := r.corpus.Vectorize(query)
	scored := make([]ScoredPair, 0, len(candidates))
	for _, candidate := range candidates {
		vec, ok := r.corpus.DocumentVector(candidate.Source)
		if !ok {
			return nil, &MissingDocumentVectorError{Document: truncate(candidate.Source)}
		}
		scored = append(scored, ScoredPair{
			Pair:       candidate,
			Similarity: CosineSimilarity(queryVec, vec),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	selected := scored[:0]
	for i, item := range scored {
		if i < r.topK || item.Similarity >= r.threshold {
			selected = append(selected, item)
		}
	}
	return selected, nil
}

// FindSimilarExamples returns the selected candidates in ranked order.
func (r *Ranker) FindSimilarExamples(query string, candidates []model.CodePair) ([]model.CodePair, error) {
	scored, err := r.RankExamples(query, candidates)
	if err != nil {
		return nil, err
	}
	out := make([]model.CodePair, 0, len(scored))
	for _, item := range scored {
		out = append(out, item.Pair)
	}
	return out, nil
}

// CosineSimilarity returns dot(a,b)/(|a||b|). Vectors of different length
// or with zero norm score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := floats.Dot(a, b) / (normA * normB)
	return math.Max(-1, math.Min(1, sim))
}
