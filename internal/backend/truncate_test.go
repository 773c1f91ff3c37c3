package backend

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dgallion1/docsum/internal/summarize"
)

// runeEncoder treats every rune as one token.
type runeEncoder struct{}

func (runeEncoder) Encode(text string) []int {
	out := make([]int, 0, len(text))
	for _, r := range text {
		out = append(out, int(r))
	}
	return out
}

func (runeEncoder) Decode(tokens []int) string {
	rs := make([]rune, len(tokens))
	for i, t := range tokens {
		rs[i] = rune(t)
	}
	return string(rs)
}

// echo returns its input so tests can see what reached the provider.
var echo = summarize.SummarizerFunc(func(_ context.Context, req summarize.Request) summarize.Result {
	return summarize.Succeeded(req.Text)
})

func TestTruncator_CutsByTokens(t *testing.T) {
	tr := NewTruncator(echo, 5, nil).WithEncoder(runeEncoder{})

	res := tr.Summarize(context.Background(), summarize.Request{Text: "abcdefghij", TruncateInput: true})
	assert.Equal(t, "abcde", res.Text)
}

func TestTruncator_LeavesShortInput(t *testing.T) {
	tr := NewTruncator(echo, 50, nil).WithEncoder(runeEncoder{})

	res := tr.Summarize(context.Background(), summarize.Request{Text: "short", TruncateInput: true})
	assert.Equal(t, "short", res.Text)
}

func TestTruncator_RespectsFlag(t *testing.T) {
	tr := NewTruncator(echo, 3, nil).WithEncoder(runeEncoder{})

	res := tr.Summarize(context.Background(), summarize.Request{Text: "abcdefghij"})
	assert.Equal(t, "abcdefghij", res.Text)
}

func TestTruncator_FallsBackToWords(t *testing.T) {
	tr := NewTruncator(echo, 3, nil).WithEncoder(nil)

	assert.Equal(t, "one two three", tr.Truncate("one two three four five"))
	assert.Equal(t, "one  two", tr.Truncate("one  two"))
}

func TestTruncator_NonPositiveLimitDisables(t *testing.T) {
	tr := NewTruncator(echo, 0, nil).WithEncoder(runeEncoder{})

	res := tr.Summarize(context.Background(), summarize.Request{Text: strings.Repeat("x", 100), TruncateInput: true})
	assert.Len(t, res.Text, 100)
}
