package similarity

// Vectorize turns one document's n-grams into a TF-IDF vector of length
// idf.Len(). Term frequency is the occurrence count divided by the total
// number of n-grams; n-grams outside the vocabulary contribute nothing.
func Vectorize(ngrams []string, idf *Idf) []float64 {
	vec := make([]float64, idf.Len())
	if len(ngrams) == 0 {
		return vec
	}
	counts := make(map[string]int, len(ngrams))
	for _, g := range ngrams {
		counts[g]++
	}
	total := float64(len(ngrams))
	for g, count := range counts {
		pos, ok := idf.index[g]
		if !ok {
			continue
		}
		vec[pos] = float64(count) / total * idf.weights[pos]
	}
	return vec
}

// CalculateTfIdfVectors vectorizes every document against the shared idf.
func CalculateTfIdfVectors(docNGrams map[string][]string, idf *Idf) map[string][]float64 {
	vectors := make(map[string][]float64, len(docNGrams))
	for doc, ngrams := range docNGrams {
		vectors[doc] = Vectorize(ngrams, idf)
	}
	return vectors
}
