package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docsum/internal/backend"
	"github.com/dgallion1/docsum/internal/chunker"
	"github.com/dgallion1/docsum/internal/document"
	"github.com/dgallion1/docsum/internal/logging"
	"github.com/dgallion1/docsum/internal/summarize"
)

func newSummarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize [file]",
		Short: "Summarize a file or stdin",
		Long: `Summarize a document into a few sentences.

Reads stdin when no file is given. .txt, .md, .html, .pdf and .docx files
are parsed; other files are read as plain text.

Examples:
  docsum summarize report.pdf --sentences 5
  cat notes.txt | docsum summarize --provider lead --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sentences, _ := cmd.Flags().GetInt("sentences")
			provider, _ := cmd.Flags().GetString("provider")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if provider != "" {
				cfg.Provider = provider
			}
			if sentences < 0 {
				return errors.New("--sentences must be positive")
			}
			if sentences == 0 {
				sentences = cfg.SentenceCount
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			log := logging.NewLogger(cfg.LogLevel, "text", cmd.ErrOrStderr())

			text, err := readInput(cmd, args, document.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext})
			if err != nil {
				return err
			}

			llm, err := backend.New(cfg, log)
			if err != nil {
				return fmt.Errorf("failed to create summarizer: %w", err)
			}
			defer llm.Close()

			split, err := chunker.SplitterByName(cfg.SentenceSplitter)
			if err != nil {
				return err
			}
			p := summarize.New(llm, summarize.WithLogger(log), summarize.WithSplitter(split))

			rep := p.Run(cmd.Context(), text, sentences)
			warning := summarize.ShortInputWarning(rep.OriginalWords, cfg.MinInputWords)

			out := cmd.OutOrStdout()
			if jsonOut {
				return json.NewEncoder(out).Encode(map[string]interface{}{
					"sentences": rep.Sentences,
					"report":    rep,
					"warning":   warning,
				})
			}

			if warning != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
			}
			if len(rep.Sentences) == 0 {
				fmt.Fprintln(out, "No text to summarize.")
				return nil
			}
			for _, s := range rep.Sentences {
				fmt.Fprintf(out, "- %s\n", s)
			}
			fmt.Fprintf(out, "\n%s\n", describeReport(rep))
			return nil
		},
	}

	cmd.Flags().Int("sentences", 0, "Number of summary sentences (default from config)")
	cmd.Flags().String("provider", "", "Summarizer provider: anthropic, openai or lead")

	return cmd
}

// describeReport renders the one-line analysis shown under a summary.
func describeReport(rep summarize.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d words -> %d words (%.1f%%)", rep.OriginalWords, rep.SummaryWords, rep.CompressionRatio)
	fmt.Fprintf(&b, ", %d chunk(s), %s path, %d call(s)", rep.Chunks, rep.Path, rep.Calls)
	if rep.Fallbacks > 0 {
		fmt.Fprintf(&b, ", %d fallback(s)", rep.Fallbacks)
	}
	return b.String()
}
