package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brunobiangulo/slidegen/deck"
)

// TextParser handles plain text (.txt) outlines. Slides are separated
// by a line containing only "---"; blocks within a slide are separated
// by blank lines.
type TextParser struct{}

func (p *TextParser) SupportedFormats() []string { return []string{"txt"} }

func (p *TextParser) Parse(ctx context.Context, path string) (*deck.Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading text file: %w", err)
	}

	d := &deck.Deck{Title: strings.TrimSuffix(filepath.Base(path), ".txt")}
	for _, chunk := range splitSlides(string(data)) {
		blocks := splitPageBlocks(chunk)
		if len(blocks) == 0 {
			continue
		}
		d.Slides = append(d.Slides, deck.Slide{Blocks: blocks})
	}

	if len(d.Slides) == 0 {
		return nil, fmt.Errorf("no content found in text file")
	}
	return d, nil
}

func splitSlides(content string) []string {
	var slides []string
	var current []string
	flush := func() {
		chunk := strings.TrimSpace(strings.Join(current, "\n"))
		if chunk != "" {
			slides = append(slides, chunk)
		}
		current = nil
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "---" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return slides
}
