// Package validation checks listing, review and signup payloads before they
// reach the services.
package validation

// Result is the outcome of validating a payload. Value is only meaningful
// when Valid is true; Message is only set when it is false.
type Result[T any] struct {
	Valid   bool
	Message string
	Value   T
}

func valid[T any](v T) Result[T] {
	return Result[T]{Valid: true, Value: v}
}

func invalid[T any](message string) Result[T] {
	return Result[T]{Message: message}
}
