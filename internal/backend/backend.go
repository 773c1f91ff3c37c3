// Package backend provides the summarization capabilities the pipeline calls:
// hosted chat models, an offline extractive fallback, and the input
// truncation and latency tracking wrapped around them.
package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docsum/internal/chunker"
	"github.com/dgallion1/docsum/internal/config"
	"github.com/dgallion1/docsum/internal/summarize"
)

const statsWindow = time.Hour

// Provider is a summarizer with a model name for reporting.
type Provider interface {
	summarize.Summarizer
	Model() string
}

// Backend is the process-wide capability: one provider behind truncation and
// latency tracking. It is safe for concurrent use.
type Backend struct {
	name     string
	provider Provider
	chain    summarize.Summarizer
	stats    *LatencyStats
	closer   func()
}

// New builds the provider named by cfg.Provider.
func New(cfg config.Config, log *slog.Logger) (*Backend, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	var (
		p      Provider
		closer = func() {}
	)
	switch cfg.Provider {
	case config.ProviderAnthropic:
		c := NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicBaseURL, cfg.SummarizerTimeout)
		p, closer = c, c.Close
	case config.ProviderOpenAI:
		p = NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.SummarizerTimeout)
	case config.ProviderLead:
		split, err := chunker.SplitterByName(cfg.SentenceSplitter)
		if err != nil {
			return nil, err
		}
		p = NewLeadSummarizer(split)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}

	return Wrap(cfg.Provider, p, cfg.MaxInputTokens, log).withCloser(closer), nil
}

// Wrap puts truncation and latency tracking around an existing provider.
func Wrap(name string, p Provider, maxInputTokens int, log *slog.Logger) *Backend {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With("provider", name, "model", p.Model())

	stats := NewLatencyStats(statsWindow)
	return &Backend{
		name:     name,
		provider: p,
		chain:    NewTruncator(&instrumented{next: p, stats: stats, log: log}, maxInputTokens, log),
		stats:    stats,
		closer:   func() {},
	}
}

func (b *Backend) withCloser(fn func()) *Backend {
	b.closer = fn
	return b
}

// WithEncoder swaps the truncation encoder, mainly for tests.
func (b *Backend) WithEncoder(enc Encoder) *Backend {
	if t, ok := b.chain.(*Truncator); ok {
		t.WithEncoder(enc)
	}
	return b
}

func (b *Backend) Summarize(ctx context.Context, req summarize.Request) summarize.Result {
	return b.chain.Summarize(ctx, req)
}

// Provider returns the configured provider name.
func (b *Backend) Provider() string {
	return b.name
}

// Model returns the provider's model name.
func (b *Backend) Model() string {
	return b.provider.Model()
}

// Stats returns the rolling latency tracker.
func (b *Backend) Stats() *LatencyStats {
	return b.stats
}

// Close releases provider resources.
func (b *Backend) Close() {
	b.closer()
}

// instrumented times each call and records its outcome.
type instrumented struct {
	next  summarize.Summarizer
	stats *LatencyStats
	log   *slog.Logger
}

func (i *instrumented) Summarize(ctx context.Context, req summarize.Request) summarize.Result {
	start := time.Now()
	res := i.next.Summarize(ctx, req)
	elapsed := time.Since(start)

	i.stats.Record(elapsed.Milliseconds(), !res.OK())
	if !res.OK() {
		i.log.Warn("summarizer call failed", "duration_ms", elapsed.Milliseconds(), "error", res.Failure())
	} else {
		i.log.Debug("summarizer call", "duration_ms", elapsed.Milliseconds(), "max_length", req.MaxLength)
	}
	return res
}
