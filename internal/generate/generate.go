// Package generate adapts the external text-generation service: prompt
// in, report text out. The analysis core only sees the Generator
// interface; the concrete Gemini client lives here so tests can inject
// fakes.
package generate

import (
	"context"
	"errors"
	"fmt"
)

// Generator produces text from a prompt. Implementations must respect
// ctx — generation is the dominant latency source and callers bound it
// with a deadline.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrNoContent is returned when the service answered successfully but
// produced no usable text.
var ErrNoContent = errors.New("generate: response contained no content")

// StatusError reports a non-2xx response from the generation API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("generate: API returned status %d: %s", e.Code, e.Body)
}
