package layout

import (
	"testing"

	"github.com/brunobiangulo/slidegen/analyzer"
	"github.com/brunobiangulo/slidegen/deck"
	"github.com/brunobiangulo/slidegen/template"
)

func mustTemplate(t *testing.T, name string) *template.Template {
	t.Helper()
	tmpl, err := template.Load(name)
	if err != nil {
		t.Fatalf("loading template %q: %v", name, err)
	}
	return tmpl
}

func TestApplyAssignsSlots(t *testing.T) {
	tmpl := mustTemplate(t, "default")
	blocks := analyzer.Classify([]string{"QUARTERLY REVIEW", "Q3 results"}, 0)

	doc, err := Apply(blocks, tmpl, deck.Slide{}, deck.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Elements) != 2 {
		t.Fatalf("elements = %d, want 2", len(doc.Elements))
	}

	title := doc.Elements[0]
	titleSlot, _ := tmpl.SlotFor(analyzer.Title)
	if title.Position.X != titleSlot.X || title.Position.Y != titleSlot.Y {
		t.Errorf("title at (%g,%g), want slot origin (%g,%g)",
			title.Position.X, title.Position.Y, titleSlot.X, titleSlot.Y)
	}
	if title.Size.W != titleSlot.W {
		t.Errorf("title width = %g, want %g", title.Size.W, titleSlot.W)
	}
	if !title.Style.Bold {
		t.Error("title not bold")
	}
	if title.Style.HAlign != deck.AlignCenter {
		t.Errorf("title halign = %q, want center", title.Style.HAlign)
	}
}

func TestApplyFontSizeClampedToSlot(t *testing.T) {
	tmpl := mustTemplate(t, "default")
	blocks := analyzer.Classify([]string{"LONG HEADING TEXT"}, 2)

	doc, err := Apply(blocks, tmpl, deck.Slide{}, deck.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	slot, _ := tmpl.SlotFor(analyzer.Heading)
	size := doc.Elements[0].Style.FontSize
	if size < slot.MinFontSize || size > slot.MaxFontSize {
		t.Errorf("font size %g outside slot range [%g, %g]", size, slot.MinFontSize, slot.MaxFontSize)
	}
}

func TestApplySharedSlotStacksWithoutOverlap(t *testing.T) {
	tmpl := mustTemplate(t, "default")
	// Two BODY blocks resolve to the same slot and must stack.
	blocks := analyzer.Classify([]string{
		"First paragraph of body copy that is clearly longer than a footer would ever be",
		"Second paragraph of body copy that is also long enough to stay a body block here",
	}, 3)

	doc, err := Apply(blocks, tmpl, deck.Slide{}, deck.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Elements) != 2 {
		t.Fatalf("elements = %d, want 2", len(doc.Elements))
	}

	a, b := doc.Elements[0], doc.Elements[1]
	if b.Position.Y < a.Position.Y+a.Size.H {
		t.Errorf("second block at y=%g overlaps first (y=%g h=%g)",
			b.Position.Y, a.Position.Y, a.Size.H)
	}
}

func TestApplyListIndentAndHeight(t *testing.T) {
	tmpl := mustTemplate(t, "default")
	blocks := analyzer.Classify([]string{"- one\n- two\n- three"}, 1)

	doc, err := Apply(blocks, tmpl, deck.Slide{}, deck.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	el := doc.Elements[0]
	if el.Kind != KindList {
		t.Fatalf("kind = %s, want %s", el.Kind, KindList)
	}

	slot, _ := tmpl.SlotFor(analyzer.List)
	if el.Position.X != slot.X+listIndent {
		t.Errorf("list x = %g, want %g", el.Position.X, slot.X+listIndent)
	}
	if el.Size.W != slot.W-listIndent {
		t.Errorf("list w = %g, want %g", el.Size.W, slot.W-listIndent)
	}
	wantH := 3 * el.Style.FontSize * listItemSpacing
	if el.Size.H != wantH {
		t.Errorf("list h = %g, want %g", el.Size.H, wantH)
	}
}

func TestApplyZOrder(t *testing.T) {
	tmpl := mustTemplate(t, "default")
	slide := deck.Slide{
		Images: []deck.Image{
			{URL: "https://example.com/bg.png", Size: deck.Size{W: 720, H: 405}, Background: true},
			{URL: "https://example.com/fg.png", Size: deck.Size{W: 100, H: 100}},
		},
		AccentBoxes: []deck.AccentBox{{Size: deck.Size{W: 10, H: 10}}},
	}
	blocks := analyzer.Classify([]string{"HEADING"}, 1)

	doc, err := Apply(blocks, tmpl, slide, deck.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Elements) != 4 {
		t.Fatalf("elements = %d, want 4", len(doc.Elements))
	}

	// Background image first, text next, free-form elements last.
	if doc.Elements[0].Kind != KindImage || doc.Elements[0].Image.URL != "https://example.com/bg.png" {
		t.Errorf("first element is not the background image: %+v", doc.Elements[0].Kind)
	}
	if doc.Elements[1].Kind != KindText {
		t.Errorf("second element kind = %s, want text", doc.Elements[1].Kind)
	}
	for _, el := range doc.Elements[2:] {
		if el.ZOrder < zForeground {
			t.Errorf("free-form element z = %d, want >= %d", el.ZOrder, zForeground)
		}
	}
}

func TestApplyAccentBoxDefaultsToTemplateAccent(t *testing.T) {
	tmpl := mustTemplate(t, "default")
	slide := deck.Slide{AccentBoxes: []deck.AccentBox{{Size: deck.Size{W: 10, H: 10}}}}

	doc, err := Apply(nil, tmpl, slide, deck.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	if doc.Elements[0].Accent.Color != tmpl.Colors.Accent {
		t.Errorf("accent color = %q, want template accent %q",
			doc.Elements[0].Accent.Color, tmpl.Colors.Accent)
	}
}

func TestApplyDoesNotAliasSlideData(t *testing.T) {
	tmpl := mustTemplate(t, "default")
	slide := deck.Slide{
		Tables: []deck.Table{{Rows: [][]string{{"a"}}, Size: deck.Size{W: 10, H: 10}}},
		Images: []deck.Image{{Data: []byte{1, 2, 3}, MIMEType: "image/png", Size: deck.Size{W: 10, H: 10}}},
	}

	doc, err := Apply(nil, tmpl, slide, deck.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}

	slide.Tables[0].Rows[0][0] = "mutated"
	slide.Images[0].Data[0] = 99

	for _, el := range doc.Elements {
		switch el.Kind {
		case KindTable:
			if el.Table.Rows[0][0] != "a" {
				t.Error("table cells alias the input slide")
			}
		case KindImage:
			if el.Image.Data[0] != 1 {
				t.Error("image data aliases the input slide")
			}
		}
	}
}

func TestApplyMissingSlotFails(t *testing.T) {
	tmpl := &template.Template{Name: "broken"}
	blocks := analyzer.Classify([]string{"TEXT"}, 1)
	if _, err := Apply(blocks, tmpl, deck.Slide{}, deck.DefaultSettings()); err == nil {
		t.Error("expected error for template with no slots")
	}
}
