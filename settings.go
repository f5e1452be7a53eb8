package slidegen

import "github.com/brunobiangulo/slidegen/deck"

// Settings and its enums live in the deck package (they are part of
// the shape exchanged with slide-data producers); aliased here so
// callers of the facade don't need a second import.
type (
	Settings        = deck.Settings
	Orientation     = deck.Orientation
	TextPosition    = deck.TextPosition
	VerticalAlign   = deck.VerticalAlign
	HorizontalAlign = deck.HorizontalAlign
)

const (
	Landscape = deck.Landscape
	Portrait  = deck.Portrait
)

// DefaultSettings returns a fully populated Settings value.
func DefaultSettings() Settings { return deck.DefaultSettings() }

// MergeSettings overlays a partial Settings value onto the defaults,
// field by field. See deck.MergeSettings.
func MergeSettings(partial Settings) Settings { return deck.MergeSettings(partial) }
