package summarize

import (
	"context"
	"strings"
	"sync"
)

// recorder is a Summarizer that records requests and answers with respond.
type recorder struct {
	mu       sync.Mutex
	requests []Request
	respond  func(req Request) Result
}

func (r *recorder) Summarize(ctx context.Context, req Request) Result {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()
	return r.respond(req)
}

func (r *recorder) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func succeedWith(text string) *recorder {
	return &recorder{respond: func(Request) Result { return Succeeded(text) }}
}

func failAlways(err error) *recorder {
	return &recorder{respond: func(Request) Result { return Failed(err) }}
}

// longParagraph builds a paragraph of at least n characters from lowercase
// sentences mentioning tag.
func longParagraph(n int, tag string) string {
	sentence := "the " + tag + " report covers another quiet week."
	var parts []string
	total := 0
	for total < n {
		parts = append(parts, sentence)
		total += len(sentence) + 1
	}
	return strings.Join(parts, " ")
}
