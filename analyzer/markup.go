package analyzer

import (
	"html"
	"strconv"
	"strings"
)

// StripMarkup converts HTML-ish inline markup into plain text plus
// list markers. Editor-produced blocks can arrive with contenteditable
// leftovers (<b>, <div>, <br>, <ul>/<ol> lists); classification must
// never see a raw tag. List items are rewritten with the textual
// markers the classifier recognizes, so list semantics survive the
// strip: <ul><li>a</li> becomes "- a", <ol><li>a</li> becomes "1. a".
func StripMarkup(s string) string {
	if !strings.ContainsRune(s, '<') {
		return html.UnescapeString(s)
	}

	var b strings.Builder
	b.Grow(len(s))

	// Stack of open list contexts: 'u' for <ul>, 'o' for <ol>.
	var lists []byte
	// Per-depth counters for ordered lists.
	var counters []int

	i := 0
	for i < len(s) {
		c := s[i]
		if c != '<' {
			b.WriteByte(c)
			i++
			continue
		}

		end := strings.IndexByte(s[i:], '>')
		if end < 0 {
			// Unterminated tag: keep the remainder as text.
			b.WriteString(s[i:])
			break
		}
		tag := s[i+1 : i+end]
		i += end + 1

		name, closing := tagName(tag)
		switch name {
		case "br":
			b.WriteByte('\n')
		case "p", "div":
			if closing {
				b.WriteByte('\n')
			}
		case "ul":
			if closing {
				popList(&lists, &counters)
			} else {
				lists = append(lists, 'u')
				counters = append(counters, 0)
			}
		case "ol":
			if closing {
				popList(&lists, &counters)
			} else {
				lists = append(lists, 'o')
				counters = append(counters, 0)
			}
		case "li":
			if closing {
				b.WriteByte('\n')
				break
			}
			if n := len(lists); n > 0 {
				if lists[n-1] == 'o' {
					counters[n-1]++
					b.WriteString(strconv.Itoa(counters[n-1]))
					b.WriteString(". ")
				} else {
					b.WriteString("- ")
				}
			} else {
				b.WriteString("- ")
			}
		default:
			// Inline formatting tags (b, i, em, strong, span, a, ...)
			// contribute nothing to the plain text.
		}
	}

	out := html.UnescapeString(b.String())

	// Collapse runs of blank lines introduced by nested block tags.
	lines := strings.Split(out, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		kept = append(kept, strings.TrimSpace(l))
	}
	return strings.Join(kept, "\n")
}

// tagName extracts the lower-cased element name from raw tag content
// and whether it is a closing tag. Attributes are ignored.
func tagName(tag string) (name string, closing bool) {
	tag = strings.TrimSpace(tag)
	if strings.HasPrefix(tag, "/") {
		closing = true
		tag = strings.TrimSpace(tag[1:])
	}
	tag = strings.TrimSuffix(tag, "/")
	if idx := strings.IndexAny(tag, " \t\n"); idx >= 0 {
		tag = tag[:idx]
	}
	return strings.ToLower(tag), closing
}

func popList(lists *[]byte, counters *[]int) {
	if n := len(*lists); n > 0 {
		*lists = (*lists)[:n-1]
		*counters = (*counters)[:n-1]
	}
}
