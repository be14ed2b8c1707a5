package model

// CodePair is one example of a correct translation. Source is the document
// used for similarity; Target is the expected translation.
type CodePair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}
