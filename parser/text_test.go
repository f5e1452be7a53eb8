package parser

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTextParserSlidesAndBlocks(t *testing.T) {
	path := writeTemp(t, "deck.txt", `QUARTERLY REVIEW

Results for Q3
---
KEY METRICS

- revenue up
- churn down
---
`)

	p := &TextParser{}
	d, err := p.Parse(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Slides) != 2 {
		t.Fatalf("slides = %d, want 2", len(d.Slides))
	}
	if !reflect.DeepEqual(d.Slides[0].Blocks, []string{"QUARTERLY REVIEW", "Results for Q3"}) {
		t.Errorf("slide 0 blocks = %v", d.Slides[0].Blocks)
	}
	if !reflect.DeepEqual(d.Slides[1].Blocks, []string{"KEY METRICS", "- revenue up\n- churn down"}) {
		t.Errorf("slide 1 blocks = %v", d.Slides[1].Blocks)
	}
	if d.Title != "deck" {
		t.Errorf("title = %q, want deck", d.Title)
	}
}

func TestTextParserNoSeparator(t *testing.T) {
	path := writeTemp(t, "one.txt", "just one slide\n\nwith two blocks\n")

	p := &TextParser{}
	d, err := p.Parse(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Slides) != 1 {
		t.Fatalf("slides = %d, want 1", len(d.Slides))
	}
	if len(d.Slides[0].Blocks) != 2 {
		t.Errorf("blocks = %d, want 2", len(d.Slides[0].Blocks))
	}
}

func TestTextParserEmptyFile(t *testing.T) {
	path := writeTemp(t, "empty.txt", "\n\n---\n\n")
	p := &TextParser{}
	if _, err := p.Parse(context.Background(), path); err == nil {
		t.Error("expected error for file with no content")
	}
}

func TestSplitPageBlocks(t *testing.T) {
	got := splitPageBlocks("line one\nline two\n\nsecond block\n\n\nthird")
	want := []string{"line one\nline two", "second block", "third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRegistryFormats(t *testing.T) {
	r := NewRegistry()
	for _, format := range []string{"pptx", "pdf", "xlsx", "xls", "txt"} {
		if _, err := r.Get(format); err != nil {
			t.Errorf("Get(%q): %v", format, err)
		}
	}
	if _, err := r.Get("docx"); err == nil {
		t.Error("expected error for unregistered format")
	}
}
