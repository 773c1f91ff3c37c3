package summarize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/docsum/internal/chunker"
)

// FormatSentences returns at most n sentences of summary, each trimmed and
// starting with an uppercase character. It never pads to reach n.
func FormatSentences(summary string, n int) []string {
	return FormatWith(summary, n, chunker.SplitSentences)
}

// FormatWith is FormatSentences with a caller-supplied sentence splitter.
func FormatWith(summary string, n int, split chunker.SplitFunc) []string {
	if n < 0 {
		n = 0
	}
	if split == nil {
		split = chunker.SplitSentences
	}

	sentences := split(summary)
	if len(sentences) > n {
		sentences = sentences[:n]
	}

	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, upperFirst(s))
	}
	return out
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
