package summarize

import (
	"context"
	"errors"
	"strings"
)

// ErrUnusableResult marks a call that returned without error but with no text.
var ErrUnusableResult = errors.New("summarizer returned no text")

// Request is one call into the summarization capability.
type Request struct {
	Text      string
	MaxLength int
	MinLength int

	// Deterministic asks for greedy decoding with no sampling.
	Deterministic bool
	// TruncateInput lets the capability cut over-length input instead of failing.
	TruncateInput bool
}

// Result is the outcome of one capability call: either produced text or a
// failure.
type Result struct {
	Text string
	Err  error
}

// Succeeded wraps produced text.
func Succeeded(text string) Result {
	return Result{Text: text}
}

// Failed wraps a capability failure. A nil error is recorded as
// ErrUnusableResult.
func Failed(err error) Result {
	if err == nil {
		err = ErrUnusableResult
	}
	return Result{Err: err}
}

// OK reports whether the result carries usable text.
func (r Result) OK() bool {
	return r.Err == nil && strings.TrimSpace(r.Text) != ""
}

// Failure returns why the result is unusable, or nil when it is OK.
func (r Result) Failure() error {
	if r.Err != nil {
		return r.Err
	}
	if strings.TrimSpace(r.Text) == "" {
		return ErrUnusableResult
	}
	return nil
}

// Summarizer is the external text-to-text summarization capability.
type Summarizer interface {
	Summarize(ctx context.Context, req Request) Result
}

// SummarizerFunc adapts a function to Summarizer.
type SummarizerFunc func(ctx context.Context, req Request) Result

func (f SummarizerFunc) Summarize(ctx context.Context, req Request) Result {
	return f(ctx, req)
}
