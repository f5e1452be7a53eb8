// Package asset defines the asset-store collaborator used to detour
// inline image payloads that exceed the sink's per-request size
// ceiling: upload the decoded binary, get back a short stable URL.
package asset

import "context"

// Store uploads binary assets and returns a short reference URL the
// sink can fetch. Implementations must return URLs that stay valid for
// the lifetime of the generated presentation.
type Store interface {
	Upload(ctx context.Context, data []byte, mimeType, name string) (string, error)
}

// UploadError reports a failed asset upload.
type UploadError struct {
	Name string
	Err  error
}

func (e *UploadError) Error() string {
	return "asset: uploading " + e.Name + ": " + e.Err.Error()
}

func (e *UploadError) Unwrap() error { return e.Err }
