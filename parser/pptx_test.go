package parser

import (
	"reflect"
	"testing"
)

const sampleSlideXML = `<?xml version="1.0"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
       xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld>
    <p:spTree>
      <p:sp>
        <p:txBody>
          <a:p><a:r><a:t>QUARTERLY </a:t></a:r><a:r><a:t>REVIEW</a:t></a:r></a:p>
        </p:txBody>
      </p:sp>
      <p:sp>
        <p:txBody>
          <a:p><a:r><a:t>First point</a:t></a:r></a:p>
          <a:p><a:r><a:t>Second point</a:t></a:r></a:p>
        </p:txBody>
      </p:sp>
      <p:sp></p:sp>
    </p:spTree>
  </p:cSld>
</p:sld>`

func TestExtractSlideBlocks(t *testing.T) {
	got := extractSlideBlocks([]byte(sampleSlideXML))
	want := []string{"QUARTERLY REVIEW", "First point\nSecond point"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExtractSlideBlocksInvalidXML(t *testing.T) {
	if got := extractSlideBlocks([]byte("not xml")); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestExtractSlideNumber(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"ppt/slides/slide1.xml", 1},
		{"ppt/slides/slide12.xml", 12},
		{"ppt/slides/slideN.xml", 0},
	}
	for _, tt := range tests {
		if got := extractSlideNumber(tt.name); got != tt.want {
			t.Errorf("extractSlideNumber(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestMimeFromExt(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".png", "image/png"},
		{".JPG", "image/jpeg"},
		{".jpeg", "image/jpeg"},
		{".gif", "image/gif"},
		{".emf", ""},
	}
	for _, tt := range tests {
		if got := mimeFromExt(tt.ext); got != tt.want {
			t.Errorf("mimeFromExt(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}
