package backend

import (
	"fmt"
	"strings"

	"github.com/dgallion1/docsum/internal/summarize"
)

const systemPrompt = `You condense documents into short abstractive summaries.
Write plain prose sentences that end with a period, question mark or exclamation mark.
Do not add headings, lists, quotes or commentary. Respond with ONLY the summary.`

// buildPrompt frames one request for a chat model. Lengths are expressed in
// tokens, matching the bounds the pipeline computes.
func buildPrompt(req summarize.Request) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Summarize the following text in at least %d and at most %d tokens.\n", req.MinLength, req.MaxLength))
	sb.WriteString("---\n")
	sb.WriteString(req.Text)
	return sb.String()
}
