// Package document turns uploaded files into plain prose for summarization.
package document

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Document is a parsed file: an optional title and its sections in reading order.
type Document struct {
	Title    string
	Sections []Section
}

// Section is the text under one heading, or one page for paginated formats.
type Section struct {
	Heading string
	Body    string // Paragraphs separated by a blank line.
	Page    int    // Source page, 0 if N/A.
}

// Text joins the section bodies with blank lines so paragraph boundaries
// survive into chunking. Headings are left out.
func (d *Document) Text() string {
	var parts []string
	for _, s := range d.Sections {
		if b := strings.TrimSpace(s.Body); b != "" {
			parts = append(parts, b)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Parser converts raw document bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*Document, error)
}

// Options tunes parsers that shell out or have alternate strategies.
type Options struct {
	PDFFallbackPdftotext bool
}

// DefaultOptions enables every fallback.
func DefaultOptions() Options {
	return Options{PDFFallbackPdftotext: true}
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// Parse picks a parser by extension and runs it with DefaultOptions.
func Parse(r io.Reader, filename string) (*Document, error) {
	p, err := ForFile(filename, DefaultOptions())
	if err != nil {
		return nil, err
	}
	return p.Parse(r, filename)
}

// IsSupported checks if a file extension is supported.
func IsSupported(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// baseTitle is the filename without directory or extension.
func baseTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// builder collects headings and paragraphs into flat sections.
type builder struct {
	doc     Document
	heading string
	page    int
	paras   []string
}

func newBuilder(title string) *builder {
	return &builder{doc: Document{Title: title}}
}

// startSection closes the current section and opens one under heading.
func (b *builder) startSection(heading string, page int) {
	b.flush()
	b.heading = heading
	b.page = page
}

func (b *builder) paragraph(text string) {
	if t := strings.TrimSpace(text); t != "" {
		b.paras = append(b.paras, t)
	}
}

func (b *builder) flush() {
	if len(b.paras) > 0 {
		b.doc.Sections = append(b.doc.Sections, Section{
			Heading: b.heading,
			Body:    strings.Join(b.paras, "\n\n"),
			Page:    b.page,
		})
	}
	b.paras = nil
}

func (b *builder) finish() *Document {
	b.flush()
	return &b.doc
}
