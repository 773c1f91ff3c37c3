package summarize

import (
	"math"

	"github.com/dgallion1/docsum/internal/chunker"
)

const (
	// MaxLengthCeiling is the practical output ceiling of the capability.
	MaxLengthCeiling = 256
	// MinLengthFloor is the smallest min_length ever requested.
	MinLengthFloor = 10
)

// LengthBounds constrains the output size of one capability call.
type LengthBounds struct {
	MaxLength int `json:"max_length"`
	MinLength int `json:"min_length"`
}

// EstimateLength scales the requested output length with both the caller's
// target and the input's word count, capped at MaxLengthCeiling.
func EstimateLength(text string, targetWords int) LengthBounds {
	words := chunker.CountWords(text)

	maxLen := max(roundInt(float64(targetWords)*1.3), roundInt(float64(words)*0.4))
	maxLen = min(MaxLengthCeiling, maxLen)
	minLen := max(MinLengthFloor, roundInt(float64(maxLen)*0.2))

	// Only reachable with a tiny target and a tiny input.
	if maxLen < minLen {
		maxLen = minLen
	}

	return LengthBounds{MaxLength: maxLen, MinLength: minLen}
}

func roundInt(f float64) int {
	return int(math.Round(f))
}
