package similarity

import "fmt"

// Corpus is the immutable pairing of an IDF map and the precomputed vector of
// every corpus document, keyed by the document text. It is safe for
// concurrent use; nothing mutates it after construction.
type Corpus struct {
	idf       *Idf
	vectors   map[string][]float64
	ngramSize int
}

// BuildCorpus extracts n-grams from every document, computes the IDF map once
// over all of them and vectorizes each document against it. Documents are
// identified by their text, so duplicates collapse into one entry.
func BuildCorpus(documents []string, n int) *Corpus {
	docNGrams := make(map[string][]string, len(documents))
	all := make([][]string, 0, len(documents))
	for _, doc := range documents {
		if _, ok := docNGrams[doc]; ok {
			continue
		}
		ngrams := ExtractNGrams(doc, n)
		docNGrams[doc] = ngrams
		all = append(all, ngrams)
	}
	idf := CalculateIdf(all)
	return &Corpus{
		idf:       idf,
		vectors:   CalculateTfIdfVectors(docNGrams, idf),
		ngramSize: n,
	}
}

// NewCorpus assembles a corpus from precomputed parts. Every vector must
// have exactly idf.Len() dimensions.
func NewCorpus(idf *Idf, vectors map[string][]float64, n int) (*Corpus, error) {
	if idf == nil {
		return nil, fmt.Errorf("idf is required")
	}
	if n < 1 {
		return nil, fmt.Errorf("ngram size must be positive, got %d", n)
	}
	owned := make(map[string][]float64, len(vectors))
	for doc, vec := range vectors {
		if len(vec) != idf.Len() {
			return nil, fmt.Errorf("vector for %q has %d dimensions, vocabulary has %d", truncate(doc), len(vec), idf.Len())
		}
		cp := make([]float64, len(vec))
		copy(cp, vec)
		owned[doc] = cp
	}
	return &Corpus{idf: idf, vectors: owned, ngramSize: n}, nil
}

// Idf returns the corpus IDF table.
func (c *Corpus) Idf() *Idf {
	return c.idf
}

// NGramSize returns the n used for every document and query.
func (c *Corpus) NGramSize() int {
	return c.ngramSize
}

// Documents returns the number of distinct documents.
func (c *Corpus) Documents() int {
	return len(c.vectors)
}

// VocabularySize returns the vector dimension.
func (c *Corpus) VocabularySize() int {
	return c.idf.Len()
}

// DocumentVector returns the precomputed vector for doc. Callers must treat
// the returned slice as read-only.
func (c *Corpus) DocumentVector(doc string) ([]float64, bool) {
	vec, ok := c.vectors[doc]
	return vec, ok
}

// Vectorize builds a query vector for text against the corpus vocabulary
// using the corpus n-gram size.
func (c *Corpus) Vectorize(text string) []float64 {
	return Vectorize(ExtractNGrams(text, c.ngramSize), c.idf)
}
