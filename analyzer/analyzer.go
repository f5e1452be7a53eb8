// Package analyzer classifies raw slide content blocks into semantic
// roles. Classification is a pure function: it never fails, never
// mutates its input, and an unclassifiable block always falls through
// to BODY. Layout decisions belong to the layout package; this package
// only tags.
package analyzer

import (
	"regexp"
	"strings"
	"unicode"
)

// Role is the semantic classification of a content block.
type Role string

const (
	Title    Role = "TITLE"
	Subtitle Role = "SUBTITLE"
	Heading  Role = "HEADING"
	Body     Role = "BODY"
	List     Role = "LIST"
	Footer   Role = "FOOTER"
)

// ListKind distinguishes numbered from bulleted lists.
type ListKind string

const (
	ListNone     ListKind = "NONE"
	ListNumbered ListKind = "NUMBERED"
	ListBulleted ListKind = "BULLETED"
)

// Block is one classified content block. Immutable once returned.
type Block struct {
	// Text is the plain text of the block with markup stripped. For
	// LIST blocks it is the newline-joined item text without markers.
	Text string

	// Order is the block's position within the slide.
	Order int

	Role     Role
	ListKind ListKind

	// Items holds one entry per list line, marker stripped. Empty
	// unless Role is List.
	Items []string
}

const (
	// maxHeadingLen caps the length of an all-caps block still treated
	// as a heading.
	maxHeadingLen = 100

	// maxSubtitleLen caps the length of the second block on the first
	// slide still treated as a subtitle.
	maxSubtitleLen = 150

	// maxFooterLen caps the length of a trailing block still treated
	// as a footer.
	maxFooterLen = 50
)

var (
	numberedMarker = regexp.MustCompile(`^\d+[.):]\s+`)
	bulletMarker   = regexp.MustCompile(`^[•\-*\x{2013}\x{2014}]\s+`)
)

// Classify classifies each block of one slide, in order. Blocks that
// are empty after markup stripping are dropped; remaining blocks keep
// consecutive Order values. slideIndex is the zero-based slide position
// within the deck (the TITLE and SUBTITLE rules only apply on slide 0).
func Classify(blocks []string, slideIndex int) []Block {
	cleaned := make([]string, 0, len(blocks))
	for _, raw := range blocks {
		text := strings.TrimSpace(StripMarkup(raw))
		if text == "" {
			continue
		}
		cleaned = append(cleaned, text)
	}

	out := make([]Block, 0, len(cleaned))
	for i, text := range cleaned {
		b := Block{Text: text, Order: i, ListKind: ListNone}

		switch {
		case isAllCapsHeading(text):
			if slideIndex == 0 && i == 0 {
				b.Role = Title
			} else {
				b.Role = Heading
			}
		case slideIndex == 0 && i == 1 && len(text) < maxSubtitleLen:
			b.Role = Subtitle
		case everyLineMatches(text, numberedMarker):
			b.Role = List
			b.ListKind = ListNumbered
			b.Items = stripMarkers(text, numberedMarker)
			b.Text = strings.Join(b.Items, "\n")
		case everyLineMatches(text, bulletMarker):
			b.Role = List
			b.ListKind = ListBulleted
			b.Items = stripMarkers(text, bulletMarker)
			b.Text = strings.Join(b.Items, "\n")
		case i == len(cleaned)-1 && len(text) < maxFooterLen:
			b.Role = Footer
		default:
			b.Role = Body
		}

		out = append(out, b)
	}
	return out
}

// isAllCapsHeading reports whether the block consists entirely of
// upper-case letters, digits, punctuation and spaces, is short enough
// for a heading, and is not list-shaped. At least one letter is
// required so "2024" alone does not become a heading.
func isAllCapsHeading(text string) bool {
	if len(text) >= maxHeadingLen || strings.Contains(text, "\n") {
		return false
	}
	if everyLineMatches(text, numberedMarker) || everyLineMatches(text, bulletMarker) {
		return false
	}
	hasLetter := false
	for _, r := range text {
		switch {
		case unicode.IsLower(r):
			return false
		case unicode.IsUpper(r):
			hasLetter = true
		case unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r):
			// allowed
		default:
			return false
		}
	}
	return hasLetter
}

// everyLineMatches reports whether every non-blank line of text starts
// with the given marker pattern. A block mixing marked and unmarked
// lines is not a list.
func everyLineMatches(text string, marker *regexp.Regexp) bool {
	matched := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !marker.MatchString(line) {
			return false
		}
		matched++
	}
	return matched > 0
}

// stripMarkers returns one entry per non-blank line with the leading
// marker removed.
func stripMarkers(text string, marker *regexp.Regexp) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, strings.TrimSpace(marker.ReplaceAllString(line, "")))
	}
	return items
}
