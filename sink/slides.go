package sink

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/slides/v1"
)

// SlidesClient is the Google Slides implementation of Client.
type SlidesClient struct {
	srv *slides.Service
}

// NewSlidesClient builds a client over an already-credentialed HTTP
// client. Token acquisition and refresh are the caller's concern.
func NewSlidesClient(ctx context.Context, httpClient *http.Client) (*SlidesClient, error) {
	srv, err := slides.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("creating slides service: %w", err)
	}
	return &SlidesClient{srv: srv}, nil
}

func (c *SlidesClient) CreatePresentation(ctx context.Context, title string) (string, error) {
	p, err := c.srv.Presentations.Create(&slides.Presentation{Title: title}).Context(ctx).Do()
	if err != nil {
		return "", wrapAPIError("creating presentation", err)
	}
	return p.PresentationId, nil
}

func (c *SlidesClient) SubmitBatch(ctx context.Context, presentationID string, reqs []*slides.Request) error {
	slog.Info("submitting batch", "presentation_id", presentationID, "requests", len(reqs))
	_, err := c.srv.Presentations.BatchUpdate(presentationID, &slides.BatchUpdatePresentationRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	if err != nil {
		return wrapAPIError("batch update", err)
	}
	return nil
}

// wrapAPIError converts a googleapi error into a SinkError, keeping
// the service's message as the reason.
func wrapAPIError(op string, err error) *SinkError {
	reason := fmt.Sprintf("%s: %v", op, err)
	if gerr, ok := err.(*googleapi.Error); ok {
		reason = fmt.Sprintf("%s: %s (HTTP %d)", op, gerr.Message, gerr.Code)
	}
	return &SinkError{Reason: reason, FailedOperationIndex: -1, Err: err}
}
