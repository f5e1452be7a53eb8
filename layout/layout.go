// Package layout is the design applicator: it maps classified content
// blocks onto a template's layout slots and merges in free-form
// elements, producing one positioned, styled SlideDocument per slide.
// Like the analyzer it is a pure transform; all coordinates stay in
// points until the builder converts them for the sink.
package layout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/brunobiangulo/slidegen/analyzer"
	"github.com/brunobiangulo/slidegen/deck"
	"github.com/brunobiangulo/slidegen/template"
)

// Kind discriminates the element variants of a SlideDocument.
type Kind string

const (
	KindText      Kind = "TEXT"
	KindList      Kind = "LIST"
	KindImage     Kind = "IMAGE"
	KindTable     Kind = "TABLE"
	KindConnector Kind = "CONNECTOR"
	KindAccentBox Kind = "ACCENT_BOX"
)

// Style carries the resolved visual attributes of a text element.
type Style struct {
	FontFamily string
	FontSize   float64 // points
	Color      string  // hex
	Bold       bool
	HAlign     deck.HorizontalAlign
	VAlign     deck.VerticalAlign
}

// Element is one visual item on a slide. Position and Size are in
// points. Exactly one payload field matching Kind is set for free-form
// kinds; text kinds use Text/Items.
type Element struct {
	Kind     Kind
	Role     analyzer.Role // zero for free-form elements
	Text     string
	Items    []string
	ListKind analyzer.ListKind
	Position deck.Point
	Size     deck.Size
	Style    Style
	ZOrder   int

	Image     *deck.Image
	Table     *deck.Table
	Connector *deck.Connector
	Accent    *deck.AccentBox
}

// SlideDocument is the applicator's output for one slide: elements in
// z-order plus page-level background. Owned exclusively by its slide;
// never shared.
type SlideDocument struct {
	Elements   []Element
	Background string // hex page background, template background if empty
}

const (
	// lineSpacing is the vertical advance multiplier for body text.
	lineSpacing = 1.4

	// listItemSpacing is the fixed per-item vertical advance multiplier.
	listItemSpacing = 1.5

	// listIndent is the fixed left indent applied to list blocks, in
	// points.
	listIndent = 20.0

	// stackGap separates consecutive blocks sharing a slot, in points.
	stackGap = 8.0

	// z-order bands: background images render first, text next,
	// free-form foreground elements last.
	zBackground = -10
	zForeground = 100
)

// roleBaseSize returns the base font size for a role before clamping
// to the slot's range. BODY and LIST track the presentation default.
func roleBaseSize(role analyzer.Role, settings deck.Settings) float64 {
	switch role {
	case analyzer.Title:
		return 36
	case analyzer.Subtitle:
		return 20
	case analyzer.Heading:
		return 26
	case analyzer.Footer:
		return 10
	default:
		return settings.DefaultFontSize
	}
}

// Apply lays out one slide: classified blocks resolve to template
// slots in order, free-form elements pass through with z-ordering.
// A template loaded through template.Load always resolves every role;
// the error path exists for hand-built templates.
func Apply(blocks []analyzer.Block, tmpl *template.Template, slide deck.Slide, settings deck.Settings) (*SlideDocument, error) {
	doc := &SlideDocument{Background: slide.BackgroundColor}

	// Vertical space already consumed per slot, keyed by slot origin
	// so multiple blocks resolving to the same slot stack instead of
	// overlapping.
	type slotKey struct{ x, y float64 }
	consumed := make(map[slotKey]float64)

	z := 0
	for _, img := range slide.Images {
		if img.Background {
			doc.Elements = append(doc.Elements, Element{
				Kind:     KindImage,
				Position: img.Position,
				Size:     img.Size,
				ZOrder:   zBackground,
				Image:    cloneImage(img),
			})
		}
	}

	for _, b := range blocks {
		slot, ok := tmpl.SlotFor(b.Role)
		if !ok {
			return nil, fmt.Errorf("role %s resolves to no slot in template %q", b.Role, tmpl.Name)
		}

		size := clamp(roleBaseSize(b.Role, settings), slot.MinFontSize, slot.MaxFontSize)
		key := slotKey{slot.X, slot.Y}
		offset := consumed[key]

		el := Element{
			Kind:     KindText,
			Role:     b.Role,
			Text:     b.Text,
			Position: deck.Point{X: slot.X, Y: slot.Y + offset},
			Size:     deck.Size{W: slot.W},
			Style: Style{
				FontFamily: fontFor(b.Role, tmpl),
				FontSize:   size,
				Color:      colorFor(b.Role, tmpl),
				Bold:       b.Role == analyzer.Title || b.Role == analyzer.Heading,
				HAlign:     settings.DefaultTextPos.Horizontal,
				VAlign:     settings.DefaultTextPos.Vertical,
			},
			ZOrder: z,
		}

		if b.Role == analyzer.List {
			el.Kind = KindList
			el.ListKind = b.ListKind
			el.Items = b.Items
			el.Position.X += listIndent
			el.Size.W = slot.W - listIndent
			el.Size.H = float64(len(b.Items)) * size * listItemSpacing
		} else {
			lines := strings.Count(b.Text, "\n") + 1
			el.Size.H = float64(lines) * size * lineSpacing
		}

		// Titles and subtitles center horizontally regardless of the
		// presentation default.
		if b.Role == analyzer.Title || b.Role == analyzer.Subtitle {
			el.Style.HAlign = deck.AlignCenter
		}

		consumed[key] = offset + el.Size.H + stackGap
		doc.Elements = append(doc.Elements, el)
		z++
	}

	// Free-form elements, in z-order after text. Positions and sizes
	// pass through unchanged; the builder does unit conversion.
	fz := zForeground
	for _, tbl := range slide.Tables {
		doc.Elements = append(doc.Elements, Element{
			Kind:     KindTable,
			Position: tbl.Position,
			Size:     tbl.Size,
			ZOrder:   fz,
			Table:    cloneTable(tbl),
		})
		fz++
	}
	for _, c := range slide.Connectors {
		cc := c
		doc.Elements = append(doc.Elements, Element{
			Kind:      KindConnector,
			Position:  c.Start,
			Size:      deck.Size{W: c.End.X - c.Start.X, H: c.End.Y - c.Start.Y},
			ZOrder:    fz,
			Connector: &cc,
		})
		fz++
	}
	for _, box := range slide.AccentBoxes {
		bb := box
		if bb.Color == "" {
			bb.Color = tmpl.Colors.Accent
		}
		doc.Elements = append(doc.Elements, Element{
			Kind:     KindAccentBox,
			Position: box.Position,
			Size:     box.Size,
			ZOrder:   fz,
			Accent:   &bb,
		})
		fz++
	}
	for _, img := range slide.Images {
		if img.Background {
			continue
		}
		doc.Elements = append(doc.Elements, Element{
			Kind:     KindImage,
			Position: img.Position,
			Size:     img.Size,
			ZOrder:   fz,
			Image:    cloneImage(img),
		})
		fz++
	}

	sort.SliceStable(doc.Elements, func(i, j int) bool {
		return doc.Elements[i].ZOrder < doc.Elements[j].ZOrder
	})
	return doc, nil
}

// fontFor picks the template font family for a role.
func fontFor(role analyzer.Role, tmpl *template.Template) string {
	switch role {
	case analyzer.Title, analyzer.Subtitle, analyzer.Heading:
		return tmpl.Fonts.Heading
	default:
		return tmpl.Fonts.Body
	}
}

// colorFor picks the template color for a role.
func colorFor(role analyzer.Role, tmpl *template.Template) string {
	switch role {
	case analyzer.Title, analyzer.Heading:
		return tmpl.Colors.Primary
	case analyzer.Footer:
		return tmpl.Colors.Accent
	default:
		return tmpl.Colors.Text
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func cloneImage(img deck.Image) *deck.Image {
	c := img
	if len(img.Data) > 0 {
		c.Data = append([]byte(nil), img.Data...)
	}
	return &c
}

func cloneTable(tbl deck.Table) *deck.Table {
	c := tbl
	c.Rows = make([][]string, len(tbl.Rows))
	for i, row := range tbl.Rows {
		c.Rows[i] = append([]string(nil), row...)
	}
	return &c
}
