// Package slidegen turns raw deck data into Google Slides
// presentations: block classification, template-driven layout, and
// batched submission of the resulting write operations.
package slidegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/brunobiangulo/slidegen/analyzer"
	"github.com/brunobiangulo/slidegen/asset"
	"github.com/brunobiangulo/slidegen/builder"
	"github.com/brunobiangulo/slidegen/deck"
	"github.com/brunobiangulo/slidegen/layout"
	"github.com/brunobiangulo/slidegen/parser"
	"github.com/brunobiangulo/slidegen/sink"
	"github.com/brunobiangulo/slidegen/store"
	"github.com/brunobiangulo/slidegen/template"
)

// Generator is the main entry point for presentation generation.
type Generator interface {
	// Generate runs a deck through the full pipeline: classification,
	// layout, compilation, and batched submission to the sink.
	Generate(ctx context.Context, d *deck.Deck, opts ...GenerateOption) (*Result, error)

	// GenerateFile parses a source file (pptx, pdf, xlsx, txt) into a
	// deck and generates a presentation from it.
	GenerateFile(ctx context.Context, path string, opts ...GenerateOption) (*Result, error)

	// Runs returns the most recent generation runs, newest first.
	Runs(ctx context.Context, limit int) ([]store.Run, error)

	// Run returns a single run by ID.
	Run(ctx context.Context, id string) (*store.Run, error)

	// Store returns the underlying run ledger for diagnostic access.
	// Nil when persistence is disabled.
	Store() *store.Store

	// Close cleanly shuts down the generator.
	Close() error
}

// Result is the outcome of one generation run.
type Result struct {
	RunID            string `json:"run_id"`
	PresentationID   string `json:"presentation_id"`
	Status           string `json:"status"`
	SlideCount       int    `json:"slide_count"`
	OperationCount   int    `json:"operation_count"`
	BatchCount       int    `json:"batch_count"`
	BatchesSubmitted int    `json:"batches_submitted"`
	FailedBatchIndex int    `json:"failed_batch_index"`
	UploadedAssets   int    `json:"uploaded_assets"`
	ElapsedMs        int64  `json:"elapsed_ms"`
}

// GenerateOption configures a single generation run.
type GenerateOption func(*generateOptions)

type generateOptions struct {
	template       string
	settings       *deck.Settings
	presentationID string
	skipPersist    bool
	sourcePath     string
	sourceFormat   string
}

// WithTemplate selects the design template for this run.
func WithTemplate(name string) GenerateOption {
	return func(o *generateOptions) { o.template = name }
}

// WithSettings overrides presentation-level settings for this run.
// Partial settings merge against the defaults field by field.
func WithSettings(s deck.Settings) GenerateOption {
	return func(o *generateOptions) { o.settings = &s }
}

// WithPresentationID targets an existing presentation instead of
// creating a new one.
func WithPresentationID(id string) GenerateOption {
	return func(o *generateOptions) { o.presentationID = id }
}

// WithoutPersistence skips the run ledger for this run.
func WithoutPersistence() GenerateOption {
	return func(o *generateOptions) { o.skipPersist = true }
}

// generator is the concrete implementation of Generator.
type generator struct {
	cfg     Config
	store   *store.Store
	sink    sink.Client
	assets  asset.Store
	parsers *parser.Registry
	build   *builder.Builder
}

// New creates a Generator. The sink client is required; the asset
// store may be nil when no deck carries oversized embedded images.
func New(cfg Config, sinkClient sink.Client, assets asset.Store) (Generator, error) {
	if sinkClient == nil {
		return nil, ErrSinkRequired
	}

	if cfg.Template == "" {
		cfg.Template = "default"
	}
	if cfg.MaxBatchOperations <= 0 {
		cfg.MaxBatchOperations = 500
	}
	if cfg.MaxImagePayloadBytes <= 0 {
		cfg.MaxImagePayloadBytes = 2000
	}

	var s *store.Store
	if !cfg.SkipPersistence {
		var err error
		s, err = store.New(cfg.resolveDBPath())
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
	}

	b := builder.New(builder.Config{
		MaxBatchOperations:   cfg.MaxBatchOperations,
		MaxImagePayloadBytes: cfg.MaxImagePayloadBytes,
	}, sinkClient, assets)

	return &generator{
		cfg:     cfg,
		store:   s,
		sink:    sinkClient,
		assets:  assets,
		parsers: parser.NewRegistry(),
		build:   b,
	}, nil
}

// Generate runs the full pipeline for one deck.
func (g *generator) Generate(ctx context.Context, d *deck.Deck, opts ...GenerateOption) (*Result, error) {
	options := &generateOptions{template: g.cfg.Template}
	for _, o := range opts {
		o(options)
	}

	if d == nil || len(d.Slides) == 0 {
		return nil, ErrNoSlides
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDeck, err)
	}

	tmpl, err := template.Load(options.template)
	if err != nil {
		var vErr *template.ValidationError
		if errors.As(err, &vErr) {
			return nil, fmt.Errorf("%w: %v", ErrTemplateInvalid, vErr)
		}
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, options.template)
	}

	settings := g.cfg.Settings
	if options.settings != nil {
		settings = *options.settings
	}
	settings = deck.MergeSettings(settings)

	// Classify and lay out every slide before touching the sink, so a
	// layout failure leaves the target document untouched.
	docs := make([]*layout.SlideDocument, 0, len(d.Slides))
	for i, slide := range d.Slides {
		blocks := make([]string, len(slide.Blocks))
		for j, b := range slide.Blocks {
			blocks[j] = analyzer.StripMarkup(b)
		}
		classified := analyzer.Classify(blocks, i)

		doc, err := layout.Apply(classified, tmpl, slide, settings)
		if err != nil {
			return nil, fmt.Errorf("laying out slide %d: %w", i+1, err)
		}
		docs = append(docs, doc)
	}

	runID := uuid.NewString()
	persist := g.store != nil && !options.skipPersist
	if persist {
		if err := g.store.CreateRun(ctx, store.Run{
			ID:             runID,
			PresentationID: options.presentationID,
			DeckTitle:      d.Title,
			Template:       options.template,
		}); err != nil {
			return nil, fmt.Errorf("recording run: %w", err)
		}
		if _, err := g.store.SaveDeck(ctx, runID, store.DeckRecord{
			Title:      d.Title,
			SourcePath: options.sourcePath,
			Format:     options.sourceFormat,
			SlideCount: len(d.Slides),
		}, d); err != nil {
			slog.Warn("deck snapshot not saved", "run_id", runID, "error", err)
		}
	}

	presentationID := options.presentationID
	if presentationID == "" {
		title := d.Title
		if title == "" {
			title = "Untitled presentation"
		}
		presentationID, err = g.sink.CreatePresentation(ctx, title)
		if err != nil {
			if persist {
				g.finishRun(ctx, runID, &builder.Result{
					Status: builder.StatusFailed, FailedBatchIndex: -1, Cause: err,
				}, "")
			}
			return nil, fmt.Errorf("creating presentation: %w", err)
		}
	}

	slog.Info("generation started",
		"run_id", runID, "presentation_id", presentationID,
		"slides", len(docs), "template", options.template)

	res, runErr := g.build.Run(ctx, presentationID, docs, settings)
	if persist {
		g.finishRun(ctx, runID, res, presentationID)
	}
	if runErr != nil {
		return resultFrom(runID, res), g.mapRunError(runErr)
	}

	return resultFrom(runID, res), nil
}

// GenerateFile parses a source file into a deck and generates from it.
func (g *generator) GenerateFile(ctx context.Context, path string, opts ...GenerateOption) (*Result, error) {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	p, err := g.parsers.Get(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	slog.Info("parsing source file", "path", path, "format", format)
	d, err := p.Parse(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	opts = append(opts, func(o *generateOptions) {
		o.sourcePath = path
		o.sourceFormat = format
	})
	return g.Generate(ctx, d, opts...)
}

// Runs returns the most recent generation runs.
func (g *generator) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	if g.store == nil {
		return nil, ErrStoreClosed
	}
	return g.store.ListRuns(ctx, limit)
}

// Run returns a single run by ID.
func (g *generator) Run(ctx context.Context, id string) (*store.Run, error) {
	if g.store == nil {
		return nil, ErrStoreClosed
	}
	return g.store.GetRun(ctx, id)
}

// Store returns the underlying run ledger.
func (g *generator) Store() *store.Store {
	return g.store
}

// Close shuts down the generator.
func (g *generator) Close() error {
	if g.store == nil {
		return nil
	}
	return g.store.Close()
}

// finishRun records a terminal run outcome; ledger failures are logged
// rather than surfaced, the generation outcome takes precedence.
func (g *generator) finishRun(ctx context.Context, runID string, res *builder.Result, presentationID string) {
	rec := store.Run{
		ID:               runID,
		PresentationID:   presentationID,
		Status:           string(builder.StatusFailed),
		FailedBatchIndex: -1,
	}
	if res != nil {
		rec.Status = string(res.Status)
		rec.SlideCount = res.SlideCount
		rec.OperationCount = res.OperationCount
		rec.BatchCount = res.BatchCount
		rec.BatchesSubmitted = res.BatchesSubmitted
		rec.FailedBatchIndex = res.FailedBatchIndex
		rec.UploadedAssets = res.UploadedAssets
		rec.ElapsedMS = res.Elapsed.Milliseconds()
		if res.Cause != nil {
			rec.Cause = res.Cause.Error()
		}
	}
	if err := g.store.FinishRun(ctx, rec); err != nil {
		slog.Warn("run outcome not recorded", "run_id", runID, "error", err)
	}
}

// mapRunError translates builder failures to the package sentinels so
// callers can branch with errors.Is.
func (g *generator) mapRunError(err error) error {
	var bErr *builder.BuildError
	if errors.As(err, &bErr) && bErr.Stage == builder.StatusUploadingAssets {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	var sErr *sink.SinkError
	if errors.As(err, &sErr) {
		return fmt.Errorf("%w: %v", ErrBatchFailed, err)
	}
	return err
}

func resultFrom(runID string, res *builder.Result) *Result {
	if res == nil {
		return &Result{RunID: runID, Status: string(builder.StatusFailed), FailedBatchIndex: -1}
	}
	return &Result{
		RunID:            runID,
		PresentationID:   res.PresentationID,
		Status:           string(res.Status),
		SlideCount:       res.SlideCount,
		OperationCount:   res.OperationCount,
		BatchCount:       res.BatchCount,
		BatchesSubmitted: res.BatchesSubmitted,
		FailedBatchIndex: res.FailedBatchIndex,
		UploadedAssets:   res.UploadedAssets,
		ElapsedMs:        res.Elapsed.Milliseconds(),
	}
}
