package main

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docsum/internal/chunker"
	"github.com/dgallion1/docsum/internal/document"
)

func newChunksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chunks [file]",
		Short: "Show how input would be split into chunks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			maxChars, _ := cmd.Flags().GetInt("max-chars")
			if maxChars <= 0 {
				maxChars = chunker.DefaultMaxChars
			}
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			split, err := chunker.SplitterByName(cfg.SentenceSplitter)
			if err != nil {
				return err
			}

			text, err := readInput(cmd, args, document.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext})
			if err != nil {
				return err
			}
			chunks := chunker.SplitWith(text, maxChars, split)

			out := cmd.OutOrStdout()
			if jsonOut {
				return json.NewEncoder(out).Encode(map[string]interface{}{
					"max_chars": maxChars,
					"count":     len(chunks),
					"chunks":    chunks,
				})
			}

			fmt.Fprintf(out, "%d chunk(s), max %d chars\n", len(chunks), maxChars)
			for i, c := range chunks {
				fmt.Fprintf(out, "\n[%d] %d chars, %d words\n%s\n", i+1, utf8.RuneCountInString(c.Text), chunker.CountWords(c.Text), c.Text)
			}
			return nil
		},
	}

	cmd.Flags().Int("max-chars", chunker.DefaultMaxChars, "Maximum characters per chunk")

	return cmd
}
