// Package sink defines the write-side collaborator: a client that
// accepts ordered batches of Slides API requests. The builder depends
// only on the Client interface; the Google implementation lives in
// slides.go and tests substitute fakes.
package sink

import (
	"context"

	"google.golang.org/api/slides/v1"
)

// Client submits batches of write operations to a presentation
// document. Batches must be submitted in the order the builder
// produced them; the sink may reject a batch atomically but never
// applies it partially out of order.
type Client interface {
	// CreatePresentation creates an empty presentation and returns its ID.
	CreatePresentation(ctx context.Context, title string) (string, error)

	// SubmitBatch applies one ordered batch of requests.
	SubmitBatch(ctx context.Context, presentationID string, reqs []*slides.Request) error
}

// SinkError reports a failed batch submission.
type SinkError struct {
	Reason string

	// FailedOperationIndex is the index of the failing operation
	// within the batch when the sink reports one, otherwise -1.
	FailedOperationIndex int

	Err error
}

func (e *SinkError) Error() string {
	return "sink: " + e.Reason
}

func (e *SinkError) Unwrap() error { return e.Err }
