package sink

import (
	"errors"
	"strings"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestWrapAPIError(t *testing.T) {
	gerr := &googleapi.Error{Code: 429, Message: "Rate limit exceeded"}
	serr := wrapAPIError("batch update", gerr)

	if serr.FailedOperationIndex != -1 {
		t.Errorf("index = %d, want -1", serr.FailedOperationIndex)
	}
	if !strings.Contains(serr.Reason, "HTTP 429") {
		t.Errorf("reason = %q, want HTTP code", serr.Reason)
	}
	if !errors.Is(serr, gerr) {
		t.Error("wrapped error not reachable via errors.Is")
	}
}

func TestWrapAPIErrorPlain(t *testing.T) {
	plain := errors.New("connection reset")
	serr := wrapAPIError("creating presentation", plain)
	if !strings.Contains(serr.Error(), "connection reset") {
		t.Errorf("error = %q", serr.Error())
	}
	if !strings.HasPrefix(serr.Error(), "sink: ") {
		t.Errorf("error = %q, want sink prefix", serr.Error())
	}
}
