// Package parser holds the slide-data producers: adapters that turn
// source files (pptx, pdf, xlsx, plain text) into the pre-layout deck
// model. Producers only extract and shape content; classification and
// layout happen downstream.
package parser

import (
	"context"

	"github.com/brunobiangulo/slidegen/deck"
)

// Parser produces a deck from a specific source format.
type Parser interface {
	Parse(ctx context.Context, path string) (*deck.Deck, error)
	SupportedFormats() []string
}
