package listutil

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	appErr "github.com/xxxsen/codegen/internal/pkg/errors"
)

// ExtractAt splits items into every element except the one at index, in
// their original order, and the element at index. items is not modified.
func ExtractAt[T any](items []T, index int) ([]T, T, error) {
	var zero T
	if index < 0 || index >= len(items) {
		return nil, zero, fmt.Errorf("index %d out of range [0,%d): %w", index, len(items), appErr.ErrInvalid)
	}
	rest := make([]T, 0, len(items)-1)
	rest = append(rest, items[:index]...)
	rest = append(rest, items[index+1:]...)
	return rest, items[index], nil
}

// Result is the outcome of one fallible step.
type Result[T any] struct {
	Value T
	Err   error
}

func Ok[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// Collect returns all values when no step failed. Otherwise it returns a
// single error combining every failure in input order; multierr.Errors
// recovers the individual errors.
func Collect[T any](results []Result[T]) ([]T, error) {
	var errs error
	values := make([]T, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			errs = multierr.Append(errs, r.Err)
			continue
		}
		values = append(values, r.Value)
	}
	if errs != nil {
		return nil, errs
	}
	return values, nil
}

// JoinMessages flattens a possibly combined error into its messages.
func JoinMessages(err error, sep string) string {
	errs := multierr.Errors(err)
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, sep)
}
