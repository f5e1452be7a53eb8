// Package deck defines the pre-layout slide-data model exchanged with
// slide-data producers (file parsers, the web editor). It carries raw
// content blocks plus free-form elements; classification and layout
// happen downstream.
package deck

import (
	"fmt"
	"strings"
)

// Point is a position in points.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in points.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Deck is one presentation's worth of pre-layout content.
type Deck struct {
	Title  string  `json:"title"`
	Slides []Slide `json:"slides"`
}

// Slide holds one slide's raw content blocks and free-form elements.
type Slide struct {
	// Blocks are logical units of slide text, in reading order. They
	// may contain inline markup; the analyzer strips it before
	// classification.
	Blocks []string `json:"blocks"`

	Images      []Image     `json:"images,omitempty"`
	Tables      []Table     `json:"tables,omitempty"`
	Connectors  []Connector `json:"connectors,omitempty"`
	AccentBoxes []AccentBox `json:"accent_boxes,omitempty"`

	// BackgroundColor is an optional page background hex color.
	BackgroundColor string `json:"background_color,omitempty"`
}

// Image is a free-form image element. Exactly one of URL or Data is
// set: URL references an externally hosted image, Data is an embedded
// payload that may need detouring through the asset store.
type Image struct {
	URL        string `json:"url,omitempty"`
	Data       []byte `json:"data,omitempty"`
	MIMEType   string `json:"mime_type,omitempty"`
	Name       string `json:"name,omitempty"`
	Position   Point  `json:"position"`
	Size       Size   `json:"size"`
	Background bool   `json:"background,omitempty"` // render behind text
}

// Table is a free-form table element with row-major cell text.
type Table struct {
	Rows     [][]string `json:"rows"`
	Position Point      `json:"position"`
	Size     Size       `json:"size"`
}

// Connector is a straight line/arrow between two points.
type Connector struct {
	Start  Point   `json:"start"`
	End    Point   `json:"end"`
	Weight float64 `json:"weight,omitempty"` // line weight in points
	Arrow  bool    `json:"arrow,omitempty"`
}

// AccentBox is a filled rectangle used as a visual accent.
type AccentBox struct {
	Position Point  `json:"position"`
	Size     Size   `json:"size"`
	Color    string `json:"color,omitempty"` // hex, template accent when empty
}

// Validate performs structural fail-fast checks on the deck. It does
// not second-guess the producer's content, only its shape.
func (d *Deck) Validate() error {
	if len(d.Slides) == 0 {
		return fmt.Errorf("deck has no slides")
	}
	for i, s := range d.Slides {
		if err := s.validate(); err != nil {
			return fmt.Errorf("slide %d: %w", i, err)
		}
	}
	return nil
}

func (s *Slide) validate() error {
	for j, img := range s.Images {
		hasURL := img.URL != ""
		hasData := len(img.Data) > 0
		if hasURL == hasData {
			return fmt.Errorf("image %d: exactly one of url or data must be set", j)
		}
		if hasData && img.MIMEType == "" {
			return fmt.Errorf("image %d: embedded image missing mime type", j)
		}
		if img.Size.W <= 0 || img.Size.H <= 0 {
			return fmt.Errorf("image %d: non-positive size %gx%g", j, img.Size.W, img.Size.H)
		}
	}
	for j, tbl := range s.Tables {
		if len(tbl.Rows) == 0 || len(tbl.Rows[0]) == 0 {
			return fmt.Errorf("table %d: empty", j)
		}
		cols := len(tbl.Rows[0])
		for r, row := range tbl.Rows {
			if len(row) != cols {
				return fmt.Errorf("table %d: row %d has %d cells, want %d", j, r, len(row), cols)
			}
		}
		if tbl.Size.W <= 0 || tbl.Size.H <= 0 {
			return fmt.Errorf("table %d: non-positive size", j)
		}
	}
	for j, c := range s.Connectors {
		if c.Start == c.End {
			return fmt.Errorf("connector %d: zero length", j)
		}
	}
	for j, b := range s.AccentBoxes {
		if b.Size.W <= 0 || b.Size.H <= 0 {
			return fmt.Errorf("accent box %d: non-positive size", j)
		}
	}
	return nil
}

// ContentSummary returns a short human-readable summary of the deck,
// used in logs and the run ledger.
func (d *Deck) ContentSummary() string {
	blocks := 0
	for _, s := range d.Slides {
		blocks += len(s.Blocks)
	}
	title := d.Title
	if title == "" {
		title = "(untitled)"
	}
	return fmt.Sprintf("%s: %d slides, %d blocks", strings.TrimSpace(title), len(d.Slides), blocks)
}
