package similarity

import (
	"fmt"
	"math"
)

// Idf holds one inverse document frequency weight per vocabulary n-gram.
// The vocabulary order is fixed at construction and is the dimension order
// of every vector built against it.
type Idf struct {
	vocabulary []string
	index      map[string]int
	weights    []float64
}

// CalculateIdf computes smoothed IDF weights, ln((D+1)/(df+1)) + 1, where df
// counts documents rather than occurrences. Vocabulary order follows first
// occurrence when scanning documents in input order.
func CalculateIdf(documents [][]string) *Idf {
	idf := &Idf{index: make(map[string]int)}
	var df []int
	for _, ngrams := range documents {
		seen := make(map[string]struct{}, len(ngrams))
		for _, g := range ngrams {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			pos, ok := idf.index[g]
			if !ok {
				pos = len(idf.vocabulary)
				idf.index[g] = pos
				idf.vocabulary = append(idf.vocabulary, g)
				df = append(df, 0)
			}
			df[pos]++
		}
	}
	total := float64(len(documents))
	idf.weights = make([]float64, len(df))
	for i, count := range df {
		idf.weights[i] = math.Log((total+1)/(float64(count)+1)) + 1
	}
	return idf
}

// NewIdf builds an Idf from an explicit vocabulary and matching weights.
func NewIdf(vocabulary []string, weights []float64) (*Idf, error) {
	if len(vocabulary) != len(weights) {
		return nil, fmt.Errorf("vocabulary has %d entries but %d weights given", len(vocabulary), len(weights))
	}
	idf := &Idf{
		vocabulary: make([]string, len(vocabulary)),
		index:      make(map[string]int, len(vocabulary)),
		weights:    make([]float64, len(weights)),
	}
	copy(idf.vocabulary, vocabulary)
	copy(idf.weights, weights)
	for i, g := range vocabulary {
		if _, ok := idf.index[g]; ok {
			return nil, fmt.Errorf("duplicate vocabulary entry %q", g)
		}
		if weights[i] <= 0 {
			return nil, fmt.Errorf("idf weight for %q must be positive", g)
		}
		idf.index[g] = i
	}
	return idf, nil
}

// Len returns the vocabulary size.
func (i *Idf) Len() int {
	return len(i.vocabulary)
}

// Weight returns the IDF of ngram and whether it is in the vocabulary.
func (i *Idf) Weight(ngram string) (float64, bool) {
	pos, ok := i.index[ngram]
	if !ok {
		return 0, false
	}
	return i.weights[pos], true
}

// Vocabulary returns a copy of the n-grams in dimension order.
func (i *Idf) Vocabulary() []string {
	out := make([]string, len(i.vocabulary))
	copy(out, i.vocabulary)
	return out
}

// Weights returns the IDF map keyed by n-gram.
func (i *Idf) Weights() map[string]float64 {
	out := make(map[string]float64, len(i.vocabulary))
	for pos, g := range i.vocabulary {
		out[g] = i.weights[pos]
	}
	return out
}
