package errors

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalid               = errors.New("invalid")
	ErrTooMany               = errors.New("too many requests")
	ErrInternal              = errors.New("internal")
	ErrInvalidInputNumber    = errors.New("invalid input number")
	ErrMissingDocumentVector = errors.New("missing document vector")
	ErrSampleNotFound        = errors.New("sample not found")
	ErrAPI                   = errors.New("error interacting with the llm api")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid) || errors.Is(err, ErrInvalidInputNumber)
}
