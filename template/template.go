// Package template holds the declarative design templates: named sets
// of colors, fonts and per-role layout slots. Templates are validated
// once at load time and immutable afterwards; a template that cannot
// place every role the analyzer can produce is rejected before any
// slide is laid out.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/brunobiangulo/slidegen/analyzer"
)

// ErrNotFound is returned by Load for an unknown template name.
var ErrNotFound = errors.New("template: not found")

// ValidationError reports every problem found in a template definition.
type ValidationError struct {
	Template string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("template %q: %s", e.Template, strings.Join(e.Problems, "; "))
}

// Colors is the template palette. All four entries are required.
type Colors struct {
	Primary    string `json:"primary"`
	Background string `json:"background"`
	Text       string `json:"text"`
	Accent     string `json:"accent"`
}

// Fonts names the font families. Both entries are required.
type Fonts struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Slot reserves a position, size and font-size range for a role.
// All values are in points on the landscape canvas.
type Slot struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	W           float64 `json:"w"`
	H           float64 `json:"h"`
	MinFontSize float64 `json:"min_font_size"`
	MaxFontSize float64 `json:"max_font_size"`
}

// Template is one validated design definition. Treat as read-only;
// the registry hands out shared pointers.
type Template struct {
	Name   string                 `json:"name"`
	Colors Colors                 `json:"colors"`
	Fonts  Fonts                  `json:"fonts"`
	Slots  map[analyzer.Role]Slot `json:"slots"`
}

// slotFallbacks documents how roles without a dedicated slot resolve.
// Resolution follows the chain until a declared slot is found.
var slotFallbacks = map[analyzer.Role]analyzer.Role{
	analyzer.Subtitle: analyzer.Heading,
	analyzer.Heading:  analyzer.Body,
	analyzer.List:     analyzer.Body,
	analyzer.Footer:   analyzer.Body,
}

// allRoles is every role the analyzer can produce.
var allRoles = []analyzer.Role{
	analyzer.Title, analyzer.Subtitle, analyzer.Heading,
	analyzer.Body, analyzer.List, analyzer.Footer,
}

// SlotFor resolves a role to its layout slot, following the documented
// fallback chain. Load guarantees resolution succeeds for every role,
// so the boolean is false only for templates built outside Load.
func (t *Template) SlotFor(role analyzer.Role) (Slot, bool) {
	for {
		if s, ok := t.Slots[role]; ok {
			return s, true
		}
		next, ok := slotFallbacks[role]
		if !ok {
			return Slot{}, false
		}
		role = next
	}
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// parse decodes a template definition and validates it. Unknown JSON
// fields are ignored for forward compatibility.
func parse(data []byte) (*Template, error) {
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decoding template: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// validate checks the invariants Load promises: complete palette and
// fonts, valid hex colors, sane slots, and slot resolution for every
// analyzer role.
func (t *Template) validate() error {
	var problems []string

	if t.Name == "" {
		problems = append(problems, "missing name")
	}
	for field, v := range map[string]string{
		"colors.primary":    t.Colors.Primary,
		"colors.background": t.Colors.Background,
		"colors.text":       t.Colors.Text,
		"colors.accent":     t.Colors.Accent,
	} {
		switch {
		case v == "":
			problems = append(problems, "missing "+field)
		case !hexColor.MatchString(v):
			problems = append(problems, fmt.Sprintf("%s: %q is not a hex color", field, v))
		}
	}
	if t.Fonts.Heading == "" {
		problems = append(problems, "missing fonts.heading")
	}
	if t.Fonts.Body == "" {
		problems = append(problems, "missing fonts.body")
	}

	for role, s := range t.Slots {
		if s.W <= 0 || s.H <= 0 {
			problems = append(problems, fmt.Sprintf("slot %s: non-positive size %gx%g", role, s.W, s.H))
		}
		if s.MinFontSize <= 0 || s.MaxFontSize < s.MinFontSize {
			problems = append(problems, fmt.Sprintf("slot %s: invalid font range [%g, %g]", role, s.MinFontSize, s.MaxFontSize))
		}
	}

	for _, role := range allRoles {
		if _, ok := t.SlotFor(role); !ok {
			problems = append(problems, fmt.Sprintf("role %s resolves to no slot", role))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Template: t.Name, Problems: problems}
	}
	return nil
}
