// Package builder compiles positioned slide documents into ordered
// Slides API write operations, detours oversized inline images through
// the asset store, partitions the operation sequence into bounded
// batches, and submits them in order with abort-on-first-failure.
package builder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/slides/v1"

	"github.com/brunobiangulo/slidegen/asset"
	"github.com/brunobiangulo/slidegen/deck"
	"github.com/brunobiangulo/slidegen/layout"
	"github.com/brunobiangulo/slidegen/sink"
)

// Status is the state of one generation run. Completed and Failed are
// terminal; there is no automatic retry.
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusBuilding        Status = "BUILDING"
	StatusUploadingAssets Status = "UPLOADING_ASSETS"
	StatusSubmitting      Status = "SUBMITTING"
	StatusCompleted       Status = "COMPLETED"
	StatusFailed          Status = "FAILED"
)

// Config bounds what the sink accepts per request.
type Config struct {
	// MaxBatchOperations is the per-request operation ceiling.
	MaxBatchOperations int

	// MaxImagePayloadBytes caps the encoded size of an inline image
	// payload. Larger payloads go through the asset store.
	MaxImagePayloadBytes int
}

// Builder turns slide documents into submitted presentations.
type Builder struct {
	cfg    Config
	sink   sink.Client
	assets asset.Store
}

// New returns a Builder. Zero-value config fields get defaults of 500
// operations per batch and a 2000-byte image payload ceiling, the
// documented image URL limit. assets may be nil when no deck carries
// oversized embedded images.
func New(cfg Config, sinkClient sink.Client, assets asset.Store) *Builder {
	if cfg.MaxBatchOperations <= 0 {
		cfg.MaxBatchOperations = 500
	}
	if cfg.MaxImagePayloadBytes <= 0 {
		cfg.MaxImagePayloadBytes = 2000
	}
	return &Builder{cfg: cfg, sink: sinkClient, assets: assets}
}

// BuildError reports a failure scoped to one slide (and image, for
// upload failures).
type BuildError struct {
	Slide int    // zero-based slide index
	Image string // asset name when the failure is an upload
	Stage Status
	Err   error
}

func (e *BuildError) Error() string {
	if e.Image != "" {
		return fmt.Sprintf("builder: slide %d image %q: %v", e.Slide+1, e.Image, e.Err)
	}
	return fmt.Sprintf("builder: slide %d: %v", e.Slide+1, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// pendingUpload is an oversized embedded image whose CreateImage
// request still needs a URL from the asset store.
type pendingUpload struct {
	req      *slides.CreateImageRequest
	data     []byte
	mimeType string
	name     string
	slide    int
}

// Plan is the compiled, ordered operation sequence for one run.
// Requests for one slide are contiguous and creation precedes
// dependent styling throughout.
type Plan struct {
	Requests []*slides.Request
	SlideIDs []string

	pendingUploads []pendingUpload
}

// PendingUploads reports how many images still need asset-store
// resolution before the plan can be submitted.
func (p *Plan) PendingUploads() int { return len(p.pendingUploads) }

// Batches partitions the request sequence into consecutive chunks of
// at most limit operations. Concatenating the chunks reproduces the
// sequence exactly; chunks submitted in order preserve the
// creation-before-styling dependency even when a boundary falls inside
// an element's request group.
func (p *Plan) Batches(limit int) [][]*slides.Request {
	if limit <= 0 || len(p.Requests) == 0 {
		if len(p.Requests) == 0 {
			return nil
		}
		return [][]*slides.Request{p.Requests}
	}
	var batches [][]*slides.Request
	for i := 0; i < len(p.Requests); i += limit {
		end := min(i+limit, len(p.Requests))
		batches = append(batches, p.Requests[i:end])
	}
	return batches
}

// Build compiles the documents into a Plan. No write operation is
// emitted to the sink; validation or compilation failure here leaves
// the target document untouched.
func (b *Builder) Build(ctx context.Context, docs []*layout.SlideDocument, settings deck.Settings) (*Plan, error) {
	settings = deck.MergeSettings(settings)
	plan := &Plan{}
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := b.compileSlide(plan, i, doc, settings); err != nil {
			return nil, &BuildError{Slide: i, Stage: StatusBuilding, Err: err}
		}
	}
	return plan, nil
}

// resolveAssets uploads every pending oversized image and substitutes
// the returned short URLs into their CreateImage requests. The first
// failure aborts the run; an oversized image is never silently
// dropped.
func (b *Builder) resolveAssets(ctx context.Context, plan *Plan) error {
	for i := range plan.pendingUploads {
		up := &plan.pendingUploads[i]
		if b.assets == nil {
			return &BuildError{
				Slide: up.slide, Image: up.name, Stage: StatusUploadingAssets,
				Err: fmt.Errorf("image exceeds %d-byte inline ceiling and no asset store is configured", b.cfg.MaxImagePayloadBytes),
			}
		}
		url, err := b.assets.Upload(ctx, up.data, up.mimeType, up.name)
		if err != nil {
			return &BuildError{Slide: up.slide, Image: up.name, Stage: StatusUploadingAssets, Err: err}
		}
		up.req.Url = url
		slog.Info("oversized image detoured through asset store",
			"slide", up.slide+1, "name", up.name, "bytes", len(up.data))
	}
	return nil
}

// Result is the terminal outcome of one generation run.
type Result struct {
	PresentationID   string
	Status           Status
	SlideCount       int
	OperationCount   int
	BatchCount       int
	BatchesSubmitted int

	// FailedBatchIndex is the zero-based index of the batch whose
	// submission failed, or -1 when the run completed.
	FailedBatchIndex int

	UploadedAssets int
	Elapsed        time.Duration
	Cause          error
}

// Run executes the full state machine for one presentation:
// BUILDING → UPLOADING_ASSETS → SUBMITTING → COMPLETED | FAILED.
// On failure the returned Result carries the terminal status and
// cause alongside the error. Already-submitted batches are not undone,
// so a FAILED run leaves the sink document partially built; the run is
// still reported as failed overall.
func (b *Builder) Run(ctx context.Context, presentationID string, docs []*layout.SlideDocument, settings deck.Settings) (*Result, error) {
	start := time.Now()
	res := &Result{
		PresentationID:   presentationID,
		Status:           StatusPending,
		SlideCount:       len(docs),
		FailedBatchIndex: -1,
	}
	fail := func(err error) (*Result, error) {
		res.Status = StatusFailed
		res.Cause = err
		res.Elapsed = time.Since(start)
		return res, err
	}

	if b.sink == nil {
		return fail(fmt.Errorf("builder: no sink client configured"))
	}

	res.Status = StatusBuilding
	plan, err := b.Build(ctx, docs, settings)
	if err != nil {
		return fail(err)
	}
	res.OperationCount = len(plan.Requests)

	res.Status = StatusUploadingAssets
	res.UploadedAssets = plan.PendingUploads()
	if err := b.resolveAssets(ctx, plan); err != nil {
		return fail(err)
	}

	batches := plan.Batches(b.cfg.MaxBatchOperations)
	res.BatchCount = len(batches)
	res.Status = StatusSubmitting
	slog.Info("submitting presentation",
		"presentation_id", presentationID,
		"slides", res.SlideCount, "operations", res.OperationCount, "batches", res.BatchCount)

	for i, batch := range batches {
		if err := b.sink.SubmitBatch(ctx, presentationID, batch); err != nil {
			res.FailedBatchIndex = i
			slog.Error("batch submission failed, aborting remaining batches",
				"batch", i, "submitted", res.BatchesSubmitted, "error", err)
			return fail(fmt.Errorf("batch %d of %d: %w", i+1, len(batches), err))
		}
		res.BatchesSubmitted++
	}

	res.Status = StatusCompleted
	res.Elapsed = time.Since(start)
	slog.Info("presentation completed",
		"presentation_id", presentationID,
		"batches", res.BatchesSubmitted, "elapsed", res.Elapsed.Round(time.Millisecond))
	return res, nil
}
