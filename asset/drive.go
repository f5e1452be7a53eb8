package asset

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DriveStore uploads assets to Google Drive and returns a direct
// content URL. Uploaded files get an anyone-with-link reader
// permission so the Slides service can fetch them.
type DriveStore struct {
	srv      *drive.Service
	folderID string // optional parent folder
}

// NewDriveStore builds a store over an already-credentialed HTTP
// client. folderID may be empty to upload into the Drive root.
func NewDriveStore(ctx context.Context, httpClient *http.Client, folderID string) (*DriveStore, error) {
	srv, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}
	return &DriveStore{srv: srv, folderID: folderID}, nil
}

func (s *DriveStore) Upload(ctx context.Context, data []byte, mimeType, name string) (string, error) {
	meta := &drive.File{Name: name}
	if s.folderID != "" {
		meta.Parents = []string{s.folderID}
	}

	f, err := s.srv.Files.Create(meta).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", &UploadError{Name: name, Err: err}
	}

	// The Slides service fetches the image anonymously, so the file
	// needs a link-scoped reader permission before it is referenced.
	_, err = s.srv.Permissions.Create(f.Id, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	if err != nil {
		return "", &UploadError{Name: name, Err: fmt.Errorf("sharing uploaded file: %w", err)}
	}

	url := fmt.Sprintf("https://drive.google.com/uc?id=%s", f.Id)
	slog.Debug("asset uploaded", "name", name, "bytes", len(data), "url", url)
	return url, nil
}
