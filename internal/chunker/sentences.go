package chunker

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// SplitFunc breaks a block of text into ordered, trimmed, non-empty sentences.
type SplitFunc func(text string) []string

// SplitSentences cuts text after every '.', '!' or '?' that is followed by
// whitespace. It is a punctuation heuristic: abbreviations over-split and
// missing terminal punctuation under-splits.
func SplitSentences(text string) []string {
	runes := []rune(strings.TrimSpace(text))

	var out []string
	var current strings.Builder
	for i, r := range runes {
		current.WriteRune(r)
		if isTerminal(r) && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			if s := strings.TrimSpace(current.String()); s != "" {
				out = append(out, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		out = append(out, s)
	}
	return out
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

var (
	punktOnce sync.Once
	punktTok  *sentences.DefaultSentenceTokenizer
	punktErr  error
)

// PunktSplitter returns a SplitFunc backed by the punkt English model. It
// handles abbreviations the punctuation heuristic gets wrong, which moves
// chunk boundaries, so it is only used when explicitly configured.
func PunktSplitter() (SplitFunc, error) {
	punktOnce.Do(func() {
		punktTok, punktErr = english.NewSentenceTokenizer(nil)
	})
	if punktErr != nil {
		return nil, fmt.Errorf("load punkt tokenizer: %w", punktErr)
	}

	tok := punktTok
	return func(text string) []string {
		var out []string
		for _, s := range tok.Tokenize(text) {
			if t := strings.TrimSpace(s.Text); t != "" {
				out = append(out, t)
			}
		}
		return out
	}, nil
}

// SplitterByName resolves a configured splitter name. The empty string and
// "punctuation" select SplitSentences.
func SplitterByName(name string) (SplitFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "punctuation":
		return SplitSentences, nil
	case "punkt":
		return PunktSplitter()
	default:
		return nil, fmt.Errorf("unknown sentence splitter: %q", name)
	}
}
