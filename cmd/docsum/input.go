package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docsum/internal/config"
	"github.com/dgallion1/docsum/internal/document"
)

// readInput returns the text of the file named in args, or stdin when args is
// empty. Supported document formats are parsed; anything else is read as
// plain text.
func readInput(cmd *cobra.Command, args []string, opts document.Options) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	name := filepath.Base(path)
	if !document.IsSupported(name) {
		data, err := io.ReadAll(f)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", name, err)
		}
		return string(data), nil
	}

	p, err := document.ForFile(name, opts)
	if err != nil {
		return "", err
	}
	doc, err := p.Parse(f, name)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return doc.Text(), nil
}

// loadConfig loads settings from --config, falling back to $DOCSUM_CONFIG.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv(config.FileEnv)
	}
	return config.LoadFrom(path)
}
