package backend

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrEmptyResponse is returned when a provider answers without any text.
	ErrEmptyResponse = errors.New("empty response from summarizer")
	// ErrUnknownProvider is returned by New for an unrecognised provider name.
	ErrUnknownProvider = errors.New("unknown summarizer provider")
)

// StatusError is a non-200 answer from a provider's HTTP API.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s api status %d: %s", e.Provider, e.StatusCode, truncate(e.Body, 200))
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

var errNoEncoder = errors.New("no token encoder")
