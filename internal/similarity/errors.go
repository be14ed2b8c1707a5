package similarity

import (
	appErr "github.com/xxxsen/codegen/internal/pkg/errors"
)

const truncateRunes = 30

// MissingDocumentVectorError reports a candidate whose text has no vector in
// the corpus. It means the candidate set and the corpus disagree.
type MissingDocumentVectorError struct {
	Document string
}

func (e *MissingDocumentVectorError) Error() string {
	return "missing document vector for " + e.Document
}

func (e *MissingDocumentVectorError) Unwrap() error {
	return appErr.ErrMissingDocumentVector
}

func truncate(doc string) string {
	runes := []rune(doc)
	if len(runes) > truncateRunes {
		runes = runes[:truncateRunes]
	}
	return string(runes) + "..."
}
