package summarize

import (
	"fmt"
	"strings"
	"time"

	"github.com/dgallion1/docsum/internal/chunker"
)

// Path names the strategy a run took.
type Path string

const (
	PathEmpty        Path = "empty"
	PathSingle       Path = "single"
	PathHierarchical Path = "hierarchical"
)

// Report describes one pipeline run alongside its final sentences.
type Report struct {
	Sentences []string `json:"sentences"`
	Path      Path     `json:"path"`
	Chunks    int      `json:"chunks"`
	Calls     int      `json:"calls"`
	Fallbacks int      `json:"fallbacks"`

	OriginalWords    int     `json:"original_words"`
	SummaryWords     int     `json:"summary_words"`
	CompressionRatio float64 `json:"compression_ratio"` // Summary words as a percentage of input words.

	Duration   time.Duration `json:"-"`
	DurationMs int64         `json:"duration_ms"`
}

func (r *Report) finish(elapsed time.Duration) {
	if r.Sentences == nil {
		r.Sentences = []string{}
	}
	r.SummaryWords = chunker.CountWords(strings.Join(r.Sentences, " "))
	if r.OriginalWords > 0 {
		r.CompressionRatio = float64(r.SummaryWords) / float64(r.OriginalWords) * 100
	}
	r.Duration = elapsed
	r.DurationMs = elapsed.Milliseconds()
}

// ShortInputWarning returns a user-facing note when the input has fewer than
// minWords words, or "" otherwise.
func ShortInputWarning(originalWords, minWords int) string {
	if originalWords == 0 || originalWords >= minWords {
		return ""
	}
	return fmt.Sprintf("input is short (%d words); summaries work best on at least %d words", originalWords, minWords)
}
