package builder

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"

	"google.golang.org/api/slides/v1"

	"github.com/brunobiangulo/slidegen/analyzer"
	"github.com/brunobiangulo/slidegen/deck"
	"github.com/brunobiangulo/slidegen/layout"
	"github.com/brunobiangulo/slidegen/template"
)

// fakeSink records submitted batches and can fail a specific batch.
type fakeSink struct {
	batches   [][]*slides.Request
	failBatch int // zero-based batch index to fail, -1 for never
}

func newFakeSink() *fakeSink { return &fakeSink{failBatch: -1} }

func (f *fakeSink) CreatePresentation(ctx context.Context, title string) (string, error) {
	return "pres-1", nil
}

func (f *fakeSink) SubmitBatch(ctx context.Context, presentationID string, reqs []*slides.Request) error {
	if len(f.batches) == f.failBatch {
		return errors.New("submission rejected")
	}
	f.batches = append(f.batches, reqs)
	return nil
}

// fakeAssets counts uploads and hands out short URLs.
type fakeAssets struct {
	uploads int
	fail    bool
}

func (f *fakeAssets) Upload(ctx context.Context, data []byte, mimeType, name string) (string, error) {
	if f.fail {
		return "", errors.New("quota exceeded")
	}
	f.uploads++
	return fmt.Sprintf("https://assets.example.com/%d", f.uploads), nil
}

func testDocs(t *testing.T, slideBlocks [][]string) []*layout.SlideDocument {
	t.Helper()
	tmpl, err := template.Load("default")
	if err != nil {
		t.Fatal(err)
	}
	settings := deck.DefaultSettings()

	docs := make([]*layout.SlideDocument, len(slideBlocks))
	for i, blocks := range slideBlocks {
		doc, err := layout.Apply(analyzer.Classify(blocks, i), tmpl, deck.Slide{}, settings)
		if err != nil {
			t.Fatal(err)
		}
		docs[i] = doc
	}
	return docs
}

func imageDoc(t *testing.T, img deck.Image) []*layout.SlideDocument {
	t.Helper()
	tmpl, err := template.Load("default")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := layout.Apply(nil, tmpl, deck.Slide{Images: []deck.Image{img}}, deck.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	return []*layout.SlideDocument{doc}
}

func TestBuildOrdering(t *testing.T) {
	b := New(Config{}, newFakeSink(), nil)
	docs := testDocs(t, [][]string{{"TITLE SLIDE", "Subtitle text"}})

	plan, err := b.Build(context.Background(), docs, deck.Settings{})
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Requests) == 0 {
		t.Fatal("no requests compiled")
	}
	if plan.Requests[0].CreateSlide == nil {
		t.Error("first request is not CreateSlide")
	}
	if len(plan.SlideIDs) != 1 {
		t.Errorf("slide IDs = %d, want 1", len(plan.SlideIDs))
	}

	// Creation precedes styling: every UpdateTextStyle must target a
	// shape already created earlier in the sequence.
	created := make(map[string]bool)
	for i, req := range plan.Requests {
		if req.CreateShape != nil {
			created[req.CreateShape.ObjectId] = true
		}
		if req.UpdateTextStyle != nil && !created[req.UpdateTextStyle.ObjectId] {
			t.Errorf("request %d styles shape %q before creation", i, req.UpdateTextStyle.ObjectId)
		}
		if req.InsertText != nil && req.InsertText.CellLocation == nil && !created[req.InsertText.ObjectId] {
			t.Errorf("request %d inserts text before creation", i)
		}
	}
}

func TestBatchesPartitioning(t *testing.T) {
	plan := &Plan{}
	for i := 0; i < 23; i++ {
		plan.Requests = append(plan.Requests, &slides.Request{})
	}

	batches := plan.Batches(10)
	if len(batches) != 3 {
		t.Fatalf("batches = %d, want ceil(23/10) = 3", len(batches))
	}
	if len(batches[0]) != 10 || len(batches[1]) != 10 || len(batches[2]) != 3 {
		t.Errorf("batch sizes = %d,%d,%d", len(batches[0]), len(batches[1]), len(batches[2]))
	}

	// Concatenating the batches reproduces the original sequence.
	var flat []*slides.Request
	for _, b := range batches {
		flat = append(flat, b...)
	}
	if len(flat) != len(plan.Requests) {
		t.Fatalf("concatenation length = %d, want %d", len(flat), len(plan.Requests))
	}
	for i := range flat {
		if flat[i] != plan.Requests[i] {
			t.Errorf("request %d reordered by batching", i)
		}
	}
}

func TestBatchesExactMultiple(t *testing.T) {
	plan := &Plan{}
	for i := 0; i < 20; i++ {
		plan.Requests = append(plan.Requests, &slides.Request{})
	}
	if got := len(plan.Batches(10)); got != 2 {
		t.Errorf("batches = %d, want 2", got)
	}
}

func TestBatchesEmptyPlan(t *testing.T) {
	plan := &Plan{}
	if got := plan.Batches(10); got != nil {
		t.Errorf("batches = %v, want nil", got)
	}
}

func TestRunSubmitsAllBatches(t *testing.T) {
	sink := newFakeSink()
	b := New(Config{MaxBatchOperations: 5}, sink, nil)
	docs := testDocs(t, [][]string{
		{"FIRST SLIDE", "Intro"},
		{"SECOND", "More body content for the middle slide of the test deck"},
	})

	res, err := b.Run(context.Background(), "pres-1", docs, deck.Settings{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusCompleted {
		t.Errorf("status = %s, want %s", res.Status, StatusCompleted)
	}
	if res.FailedBatchIndex != -1 {
		t.Errorf("failed batch index = %d, want -1", res.FailedBatchIndex)
	}
	if res.BatchesSubmitted != res.BatchCount {
		t.Errorf("submitted %d of %d batches", res.BatchesSubmitted, res.BatchCount)
	}
	if len(sink.batches) != res.BatchCount {
		t.Errorf("sink saw %d batches, result says %d", len(sink.batches), res.BatchCount)
	}
	for i, batch := range sink.batches {
		if len(batch) > 5 {
			t.Errorf("batch %d has %d operations, ceiling is 5", i, len(batch))
		}
	}
}

func TestRunAbortsOnBatchFailure(t *testing.T) {
	sink := newFakeSink()
	sink.failBatch = 1 // fail the second batch
	b := New(Config{MaxBatchOperations: 5}, sink, nil)
	docs := testDocs(t, [][]string{
		{"FIRST SLIDE", "Intro"},
		{"SECOND", "More body content for the middle slide of the test deck"},
	})

	res, err := b.Run(context.Background(), "pres-1", docs, deck.Settings{})
	if err == nil {
		t.Fatal("expected error")
	}
	if res.Status != StatusFailed {
		t.Errorf("status = %s, want %s", res.Status, StatusFailed)
	}
	if res.FailedBatchIndex != 1 {
		t.Errorf("failed batch index = %d, want 1", res.FailedBatchIndex)
	}
	if res.BatchesSubmitted != 1 {
		t.Errorf("submitted = %d, want 1", res.BatchesSubmitted)
	}
	// Nothing after the failing batch reached the sink.
	if len(sink.batches) != 1 {
		t.Errorf("sink saw %d batches, want 1", len(sink.batches))
	}
}

func TestSmallImageTravelsInline(t *testing.T) {
	b := New(Config{MaxImagePayloadBytes: 2000}, newFakeSink(), nil)
	docs := imageDoc(t, deck.Image{
		Data: []byte("tiny"), MIMEType: "image/png",
		Size: deck.Size{W: 100, H: 100},
	})

	plan, err := b.Build(context.Background(), docs, deck.Settings{})
	if err != nil {
		t.Fatal(err)
	}
	if plan.PendingUploads() != 0 {
		t.Errorf("pending uploads = %d, want 0", plan.PendingUploads())
	}

	var img *slides.CreateImageRequest
	for _, req := range plan.Requests {
		if req.CreateImage != nil {
			img = req.CreateImage
		}
	}
	if img == nil {
		t.Fatal("no CreateImage request")
	}
	want := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("tiny"))
	if img.Url != want {
		t.Errorf("url = %q, want data URL", img.Url)
	}
}

func TestOversizedImageDetoursThroughAssets(t *testing.T) {
	assets := &fakeAssets{}
	sink := newFakeSink()
	b := New(Config{MaxImagePayloadBytes: 100}, sink, assets)
	docs := imageDoc(t, deck.Image{
		Data: make([]byte, 500), MIMEType: "image/png", Name: "chart.png",
		Size: deck.Size{W: 100, H: 100},
	})

	res, err := b.Run(context.Background(), "pres-1", docs, deck.Settings{})
	if err != nil {
		t.Fatal(err)
	}
	if assets.uploads != 1 {
		t.Errorf("uploads = %d, want exactly 1", assets.uploads)
	}
	if res.UploadedAssets != 1 {
		t.Errorf("result uploads = %d, want 1", res.UploadedAssets)
	}

	// The submitted CreateImage carries the short URL, not the payload.
	found := false
	for _, batch := range sink.batches {
		for _, req := range batch {
			if req.CreateImage != nil {
				found = true
				if !strings.HasPrefix(req.CreateImage.Url, "https://assets.example.com/") {
					t.Errorf("url = %q, want asset store URL", req.CreateImage.Url)
				}
			}
		}
	}
	if !found {
		t.Error("no CreateImage request submitted")
	}
}

func TestOversizedImageUploadFailureAborts(t *testing.T) {
	assets := &fakeAssets{fail: true}
	sink := newFakeSink()
	b := New(Config{MaxImagePayloadBytes: 100}, sink, assets)
	docs := imageDoc(t, deck.Image{
		Data: make([]byte, 500), MIMEType: "image/png", Name: "chart.png",
		Size: deck.Size{W: 100, H: 100},
	})

	res, err := b.Run(context.Background(), "pres-1", docs, deck.Settings{})
	if err == nil {
		t.Fatal("expected error")
	}
	var bErr *BuildError
	if !errors.As(err, &bErr) {
		t.Fatalf("err = %T, want *BuildError", err)
	}
	if bErr.Stage != StatusUploadingAssets {
		t.Errorf("stage = %s, want %s", bErr.Stage, StatusUploadingAssets)
	}
	if bErr.Image != "chart.png" {
		t.Errorf("image = %q, want chart.png", bErr.Image)
	}
	if res.Status != StatusFailed {
		t.Errorf("status = %s, want %s", res.Status, StatusFailed)
	}
	// Nothing was submitted.
	if len(sink.batches) != 0 {
		t.Errorf("sink saw %d batches, want 0", len(sink.batches))
	}
}

func TestOversizedImageWithoutAssetStoreFails(t *testing.T) {
	b := New(Config{MaxImagePayloadBytes: 100}, newFakeSink(), nil)
	docs := imageDoc(t, deck.Image{
		Data: make([]byte, 500), MIMEType: "image/png",
		Size: deck.Size{W: 100, H: 100},
	})

	_, err := b.Run(context.Background(), "pres-1", docs, deck.Settings{})
	if err == nil {
		t.Fatal("expected error without an asset store")
	}
}

func TestListCompilesBulletPreset(t *testing.T) {
	b := New(Config{}, newFakeSink(), nil)
	docs := testDocs(t, [][]string{{"1. first\n2. second"}})

	plan, err := b.Build(context.Background(), docs, deck.Settings{})
	if err != nil {
		t.Fatal(err)
	}

	var bullets *slides.CreateParagraphBulletsRequest
	var inserted string
	for _, req := range plan.Requests {
		if req.CreateParagraphBullets != nil {
			bullets = req.CreateParagraphBullets
		}
		if req.InsertText != nil {
			inserted = req.InsertText.Text
		}
	}
	if bullets == nil {
		t.Fatal("no CreateParagraphBullets request")
	}
	if bullets.BulletPreset != "NUMBERED_DIGIT_ALPHA_ROMAN" {
		t.Errorf("preset = %q", bullets.BulletPreset)
	}
	// Markers are style, not characters.
	if strings.Contains(inserted, "1.") {
		t.Errorf("inserted text %q still contains markers", inserted)
	}
}

func TestParseHexColor(t *testing.T) {
	rgb, err := parseHexColor("#FF8000")
	if err != nil {
		t.Fatal(err)
	}
	if rgb.Red != 1 || rgb.Blue != 0 {
		t.Errorf("rgb = %+v", rgb)
	}
	if rgb.Green < 0.5 || rgb.Green > 0.51 {
		t.Errorf("green = %g", rgb.Green)
	}

	short, err := parseHexColor("#fff")
	if err != nil {
		t.Fatal(err)
	}
	if short.Red != 1 || short.Green != 1 || short.Blue != 1 {
		t.Errorf("short form rgb = %+v", short)
	}

	if _, err := parseHexColor("red"); err == nil {
		t.Error("expected error for non-hex input")
	}
}
