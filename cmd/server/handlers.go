package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/brunobiangulo/slidegen"
	"github.com/brunobiangulo/slidegen/deck"
	"github.com/brunobiangulo/slidegen/template"
)

type handler struct {
	gen slidegen.Generator
}

func newHandler(g slidegen.Generator) *handler {
	return &handler{gen: g}
}

// POST /generate
// Accepts a multipart source-file upload or a JSON body with inline
// deck data.
func (h *handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
	defer cancel()

	// Try multipart upload first
	if err := r.ParseMultipartForm(100 << 20); err == nil { // 100MB max
		file, header, err := r.FormFile("file")
		if err == nil {
			defer file.Close()

			// Sanitise filename to prevent path traversal.
			safeName := filepath.Base(header.Filename)

			tmpPath := filepath.Join(os.TempDir(), safeName)
			dst, err := os.Create(tmpPath)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to process file")
				slog.Error("creating temp file", "error", err)
				return
			}
			if _, err := io.Copy(dst, file); err != nil {
				dst.Close()
				writeError(w, http.StatusInternalServerError, "failed to save file")
				slog.Error("saving uploaded file", "error", err)
				return
			}
			dst.Close()
			defer os.Remove(tmpPath)

			opts := optionsFromForm(r)
			res, err := h.gen.GenerateFile(ctx, tmpPath, opts...)
			if err != nil {
				writeGenerateError(w, res, err)
				return
			}
			writeJSON(w, http.StatusOK, res)
			return
		}
	}

	// JSON body with inline deck data
	var req struct {
		Deck           *deck.Deck     `json:"deck"`
		Template       string         `json:"template,omitempty"`
		PresentationID string         `json:"presentation_id,omitempty"`
		Settings       *deck.Settings `json:"settings,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: expected multipart file or JSON with 'deck'")
		return
	}
	if req.Deck == nil {
		writeError(w, http.StatusBadRequest, "deck is required")
		return
	}

	var opts []slidegen.GenerateOption
	if req.Template != "" {
		opts = append(opts, slidegen.WithTemplate(req.Template))
	}
	if req.PresentationID != "" {
		opts = append(opts, slidegen.WithPresentationID(req.PresentationID))
	}
	if req.Settings != nil {
		opts = append(opts, slidegen.WithSettings(*req.Settings))
	}

	res, err := h.gen.Generate(ctx, req.Deck, opts...)
	if err != nil {
		writeGenerateError(w, res, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// optionsFromForm reads generation options from multipart form fields.
func optionsFromForm(r *http.Request) []slidegen.GenerateOption {
	var opts []slidegen.GenerateOption
	if v := r.FormValue("template"); v != "" {
		opts = append(opts, slidegen.WithTemplate(v))
	}
	if v := r.FormValue("presentation_id"); v != "" {
		opts = append(opts, slidegen.WithPresentationID(v))
	}
	return opts
}

// writeGenerateError maps pipeline failures to HTTP statuses. Partial
// submissions still return the run result so the caller can see how
// far the run got.
func writeGenerateError(w http.ResponseWriter, res *slidegen.Result, err error) {
	slog.Error("generation failed", "error", err)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, slidegen.ErrTemplateNotFound),
		errors.Is(err, slidegen.ErrUnsupportedFormat),
		errors.Is(err, slidegen.ErrInvalidDeck),
		errors.Is(err, slidegen.ErrNoSlides):
		status = http.StatusBadRequest
	case errors.Is(err, slidegen.ErrBatchFailed),
		errors.Is(err, slidegen.ErrUploadFailed):
		status = http.StatusBadGateway
	}

	body := map[string]interface{}{"error": err.Error()}
	if res != nil {
		body["result"] = res
	}
	writeJSON(w, status, body)
}

// GET /runs
func (h *handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	runs, err := h.gen.Runs(r.Context(), limit)
	if err != nil {
		if errors.Is(err, slidegen.ErrStoreClosed) {
			writeError(w, http.StatusConflict, "run ledger is disabled")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		slog.Error("list runs error", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs": runs,
	})
}

// GET /runs/{id}
func (h *handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	run, err := h.gen.Run(r.Context(), id)
	if err != nil {
		if errors.Is(err, slidegen.ErrStoreClosed) {
			writeError(w, http.StatusConflict, "run ledger is disabled")
			return
		}
		writeError(w, http.StatusNotFound, "run not found")
		return
	}

	writeJSON(w, http.StatusOK, run)
}

// GET /templates
func (h *handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"templates": template.Names(),
	})
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{"status": "ok"}
	if s := h.gen.Store(); s != nil {
		if stats, err := s.Stats(r.Context()); err == nil {
			resp["ledger"] = stats
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
