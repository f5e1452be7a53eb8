package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/brunobiangulo/slidegen/deck"
)

type PDFParser struct{}

func (p *PDFParser) SupportedFormats() []string { return []string{"pdf"} }

// Parse maps one PDF page to one slide. Page text is split into blocks
// at blank lines; runs of consecutive non-blank lines stay together so
// a bulleted list extracted from the page survives as a single block.
func (p *PDFParser) Parse(ctx context.Context, path string) (*deck.Deck, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	d := &deck.Deck{Title: strings.TrimSuffix(filepath.Base(path), ".pdf")}

	totalPages := reader.NumPage()
	for i := 1; i <= totalPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}

		blocks := splitPageBlocks(text)
		if len(blocks) == 0 {
			continue
		}
		d.Slides = append(d.Slides, deck.Slide{Blocks: blocks})
	}

	if len(d.Slides) == 0 {
		return nil, fmt.Errorf("no text content found in PDF")
	}
	return d, nil
}

// splitPageBlocks breaks page text into content blocks at blank lines.
func splitPageBlocks(text string) []string {
	var blocks []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		current = append(current, trimmed)
	}
	flush()
	return blocks
}
