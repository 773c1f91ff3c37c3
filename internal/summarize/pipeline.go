package summarize

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/docsum/internal/chunker"
)

const (
	// DefaultSentenceCount is the summary size when the caller does not ask for one.
	DefaultSentenceCount = 3

	// ChunkBudget is the per-chunk character budget used by the pipeline. It is
	// smaller than chunker.DefaultMaxChars on purpose.
	ChunkBudget = 1000

	singleTargetWords   = 80
	chunkTargetWords    = 60
	combinedTargetWords = 70

	chunkFallbackSentences = 2
)

// Pipeline turns arbitrary text into a fixed number of summary sentences,
// summarizing once for short input and twice (per chunk, then combined) for
// long input.
type Pipeline struct {
	summarizer Summarizer
	log        *slog.Logger
	split      chunker.SplitFunc
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// WithSplitter replaces the sentence splitter used for chunking, fallbacks
// and formatting.
func WithSplitter(split chunker.SplitFunc) Option {
	return func(p *Pipeline) {
		if split != nil {
			p.split = split
		}
	}
}

// New creates a Pipeline around the given capability.
func New(s Summarizer, opts ...Option) *Pipeline {
	p := &Pipeline{
		summarizer: s,
		log:        slog.New(slog.DiscardHandler),
		split:      chunker.SplitSentences,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Summarize runs a default pipeline over text and returns at most n sentences.
func Summarize(ctx context.Context, text string, n int, s Summarizer) []string {
	return New(s).Summarize(ctx, text, n)
}

// Summarize returns at most n formatted summary sentences for text.
func (p *Pipeline) Summarize(ctx context.Context, text string, n int) []string {
	return p.Run(ctx, text, n).Sentences
}

// Run summarizes text and reports how it got there. Capability failures are
// replaced by a fallback at each call site and never returned.
func (p *Pipeline) Run(ctx context.Context, text string, n int) Report {
	start := time.Now()
	rep := Report{
		Path:          PathEmpty,
		OriginalWords: chunker.CountWords(text),
	}

	if strings.TrimSpace(text) == "" {
		rep.finish(time.Since(start))
		return rep
	}

	chunks := chunker.SplitWith(text, ChunkBudget, p.split)
	rep.Chunks = len(chunks)

	var summary string
	switch len(chunks) {
	case 0:
		rep.finish(time.Since(start))
		return rep
	case 1:
		rep.Path = PathSingle
		summary = p.summarizeSingle(ctx, chunks[0], &rep)
	default:
		rep.Path = PathHierarchical
		summary = p.summarizeHierarchical(ctx, chunks, &rep)
	}

	rep.Sentences = FormatWith(summary, n, p.split)
	rep.finish(time.Since(start))

	p.log.Debug("summary complete",
		"path", rep.Path,
		"chunks", rep.Chunks,
		"calls", rep.Calls,
		"fallbacks", rep.Fallbacks,
		"sentences", len(rep.Sentences),
	)
	return rep
}

// summarizeSingle summarizes a lone chunk, falling back to its own text.
func (p *Pipeline) summarizeSingle(ctx context.Context, chunk chunker.Chunk, rep *Report) string {
	if out, ok := p.call(ctx, chunk.Text, singleTargetWords, rep, "single", chunk.Index); ok {
		return out
	}
	return chunk.Text
}

// summarizeHierarchical summarizes each chunk in order, then summarizes the
// space-joined chunk summaries.
func (p *Pipeline) summarizeHierarchical(ctx context.Context, chunks []chunker.Chunk, rep *Report) string {
	partials := make([]string, 0, len(chunks))
	for _, c := range chunks {
		out, ok := p.call(ctx, c.Text, chunkTargetWords, rep, "chunk", c.Index)
		if !ok {
			out = p.leadSentences(c.Text, chunkFallbackSentences)
		}
		partials = append(partials, out)
	}

	combined := strings.Join(partials, " ")
	if out, ok := p.call(ctx, combined, combinedTargetWords, rep, "combine", -1); ok {
		return out
	}
	return combined
}

// call makes one capability call. The bool is false when the result is
// unusable and the caller must substitute its fallback.
func (p *Pipeline) call(ctx context.Context, text string, targetWords int, rep *Report, stage string, index int) (string, bool) {
	bounds := EstimateLength(text, targetWords)
	res := p.summarizer.Summarize(ctx, Request{
		Text:          text,
		MaxLength:     bounds.MaxLength,
		MinLength:     bounds.MinLength,
		Deterministic: true,
		TruncateInput: true,
	})
	rep.Calls++

	if !res.OK() {
		rep.Fallbacks++
		p.log.Warn("summarizer failed, using fallback",
			"stage", stage,
			"chunk", index,
			"error", res.Failure(),
		)
		return "", false
	}

	p.log.Debug("summarizer call",
		"stage", stage,
		"chunk", index,
		"max_length", bounds.MaxLength,
		"min_length", bounds.MinLength,
	)
	return strings.TrimSpace(res.Text), true
}

func (p *Pipeline) leadSentences(text string, n int) string {
	sentences := p.split(text)
	if len(sentences) > n {
		sentences = sentences[:n]
	}
	return strings.Join(sentences, " ")
}
