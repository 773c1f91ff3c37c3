package backend

import (
	"context"
	"strings"

	"github.com/dgallion1/docsum/internal/chunker"
	"github.com/dgallion1/docsum/internal/summarize"
)

// LeadSummarizer is an offline extractive backend. It keeps the leading
// sentences of the input while they fit within MaxLength words, and cuts the
// first sentence at MaxLength words when even that does not fit.
type LeadSummarizer struct {
	split chunker.SplitFunc
}

func NewLeadSummarizer(split chunker.SplitFunc) *LeadSummarizer {
	if split == nil {
		split = chunker.SplitSentences
	}
	return &LeadSummarizer{split: split}
}

// Model names the backend in stats output.
func (l *LeadSummarizer) Model() string {
	return "lead-sentences"
}

func (l *LeadSummarizer) Summarize(ctx context.Context, req summarize.Request) summarize.Result {
	if err := ctx.Err(); err != nil {
		return summarize.Failed(err)
	}

	budget := req.MaxLength
	if budget <= 0 {
		budget = summarize.MaxLengthCeiling
	}

	var kept []string
	used := 0
	for _, s := range l.split(req.Text) {
		words := chunker.CountWords(s)
		if used+words > budget {
			if len(kept) == 0 {
				kept = append(kept, strings.Join(strings.Fields(s)[:budget], " "))
			}
			break
		}
		kept = append(kept, s)
		used += words
	}

	if len(kept) == 0 {
		return summarize.Failed(ErrEmptyResponse)
	}
	return summarize.Succeeded(strings.Join(kept, " "))
}
