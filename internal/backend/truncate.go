package backend

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/dgallion1/docsum/internal/summarize"
)

const encodingName = "cl100k_base"

// Encoder converts text to token IDs and back.
type Encoder interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

type tiktokenEncoder struct {
	enc *tiktoken.Tiktoken
}

func (t tiktokenEncoder) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

func (t tiktokenEncoder) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

var (
	defaultEncoder     Encoder
	defaultEncoderOnce sync.Once
	defaultEncoderErr  error
)

// DefaultEncoder returns the shared cl100k_base encoder, loading it on first use.
func DefaultEncoder() (Encoder, error) {
	defaultEncoderOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(encodingName)
		if err != nil {
			defaultEncoderErr = err
			return
		}
		defaultEncoder = tiktokenEncoder{enc: enc}
	})
	return defaultEncoder, defaultEncoderErr
}

// Truncator cuts over-long input before it reaches the wrapped summarizer when
// a request sets TruncateInput.
type Truncator struct {
	next      summarize.Summarizer
	maxTokens int
	log       *slog.Logger
	encoder   func() (Encoder, error)
}

func NewTruncator(next summarize.Summarizer, maxTokens int, log *slog.Logger) *Truncator {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Truncator{
		next:      next,
		maxTokens: maxTokens,
		log:       log,
		encoder:   DefaultEncoder,
	}
}

// WithEncoder replaces the token encoder. A nil encoder forces word counting.
func (t *Truncator) WithEncoder(enc Encoder) *Truncator {
	t.encoder = func() (Encoder, error) {
		if enc == nil {
			return nil, errNoEncoder
		}
		return enc, nil
	}
	return t
}

func (t *Truncator) Summarize(ctx context.Context, req summarize.Request) summarize.Result {
	if req.TruncateInput && t.maxTokens > 0 {
		req.Text = t.Truncate(req.Text)
	}
	return t.next.Summarize(ctx, req)
}

// Truncate returns text cut to at most maxTokens tokens. Without an encoder it
// counts whitespace-separated words instead.
func (t *Truncator) Truncate(text string) string {
	// Every token covers at least one byte.
	if len(text) <= t.maxTokens {
		return text
	}
	enc, err := t.encoder()
	if err != nil {
		words := strings.Fields(text)
		if len(words) <= t.maxTokens {
			return text
		}
		t.log.Debug("truncating input by words", "words", len(words), "max", t.maxTokens, "reason", err)
		return strings.Join(words[:t.maxTokens], " ")
	}

	tokens := enc.Encode(text)
	if len(tokens) <= t.maxTokens {
		return text
	}
	t.log.Debug("truncating input", "tokens", len(tokens), "max", t.maxTokens)
	return enc.Decode(tokens[:t.maxTokens])
}
