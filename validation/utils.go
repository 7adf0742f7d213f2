package validation

import (
	"cmp"
	"errors"
	"slices"
)

// SortValidationErrors orders validation errors by document, line, column and message.
// Errors that are not validation errors keep their relative order and move to the end.
func SortValidationErrors(allErrors []error) {
	located := make([]*Error, 0, len(allErrors))
	var rest []error
	for _, err := range allErrors {
		var vErr *Error
		if errors.As(err, &vErr) {
			located = append(located, vErr)
			continue
		}
		rest = append(rest, err)
	}

	slices.SortStableFunc(located, func(a, b *Error) int {
		return cmp.Or(
			cmp.Compare(a.DocumentLocation, b.DocumentLocation),
			cmp.Compare(a.GetLineNumber(), b.GetLineNumber()),
			cmp.Compare(a.GetColumnNumber(), b.GetColumnNumber()),
			cmp.Compare(a.UnderlyingError.Error(), b.UnderlyingError.Error()),
		)
	})

	n := 0
	for _, vErr := range located {
		allErrors[n] = vErr
		n++
	}
	copy(allErrors[n:], rest)
}
