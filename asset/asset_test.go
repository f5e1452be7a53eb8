package asset

import (
	"errors"
	"testing"
)

func TestUploadErrorMessage(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := &UploadError{Name: "slide-3-image.png", Err: cause}

	want := "asset: uploading slide-3-image.png: quota exceeded"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable via errors.Is")
	}
}
