package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxChars is the budget used when a caller passes a non-positive one.
const DefaultMaxChars = 1200

const (
	paragraphSep = "\n\n"
	sentenceSep  = " "
)

// Chunk is a size-bounded, order-preserving slice of the input text.
type Chunk struct {
	Text          string `json:"text"`           // Paragraphs joined by a blank line, or sentences joined by a space.
	Index         int    `json:"index"`          // Position in the chunk sequence.
	SentenceSplit bool   `json:"sentence_split"` // Built from an oversize paragraph's sentences.
}

// Split partitions text into chunks of at most maxChars characters using
// SplitSentences for oversize paragraphs.
func Split(text string, maxChars int) []Chunk {
	return SplitWith(text, maxChars, SplitSentences)
}

// SplitWith is Split with a caller-supplied sentence splitter.
//
// Paragraphs are packed greedily. A paragraph longer than maxChars is packed by
// sentence instead, and a sentence longer than maxChars stands alone verbatim.
func SplitWith(text string, maxChars int, split SplitFunc) []Chunk {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if split == nil {
		split = SplitSentences
	}

	var chunks []Chunk
	emit := func(parts []string, sep string, sentenceSplit bool) {
		chunks = append(chunks, Chunk{
			Text:          strings.Join(parts, sep),
			Index:         len(chunks),
			SentenceSplit: sentenceSplit,
		})
	}

	var current []string
	currentLen := 0

	for _, para := range splitByParagraphs(text) {
		paraLen := charLen(para)

		// Oversize paragraph: flush, then pack its sentences.
		if paraLen > maxChars {
			if len(current) > 0 {
				emit(current, paragraphSep, false)
				current = nil
				currentLen = 0
			}
			for _, group := range packSentences(split(para), maxChars) {
				emit(group, sentenceSep, true)
			}
			continue
		}

		if currentLen+paraLen+len(paragraphSep) > maxChars && len(current) > 0 {
			emit(current, paragraphSep, false)
			current = []string{para}
			currentLen = paraLen
			continue
		}

		current = append(current, para)
		currentLen += paraLen + len(paragraphSep)
	}

	if len(current) > 0 {
		emit(current, paragraphSep, false)
	}

	return chunks
}

// Texts returns the chunk texts in order.
func Texts(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}

// packSentences groups sentences so each group joined by a space fits maxChars.
func packSentences(sentences []string, maxChars int) [][]string {
	var groups [][]string
	var group []string
	groupLen := 0

	for _, sent := range sentences {
		sentLen := charLen(sent)
		if groupLen+sentLen+len(sentenceSep) > maxChars && len(group) > 0 {
			groups = append(groups, group)
			group = []string{sent}
			groupLen = sentLen
			continue
		}
		group = append(group, sent)
		groupLen += sentLen + len(sentenceSep)
	}

	if len(group) > 0 {
		groups = append(groups, group)
	}
	return groups
}

// splitByParagraphs splits on blank lines and drops empty paragraphs. CRLF and
// CR line endings count as line breaks.
func splitByParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var result []string
	for _, p := range strings.Split(text, paragraphSep) {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func charLen(s string) int {
	return utf8.RuneCountInString(s)
}
