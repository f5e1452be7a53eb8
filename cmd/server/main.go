package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/slides/v1"

	"github.com/brunobiangulo/slidegen"
	"github.com/brunobiangulo/slidegen/asset"
	"github.com/brunobiangulo/slidegen/sink"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON)")
	addr := flag.String("addr", ":8080", "Listen address")
	flag.Parse()

	// Structured JSON logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := slidegen.DefaultConfig()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			slog.Error("opening config", "error", err)
			os.Exit(1)
		}
		if err := json.NewDecoder(f).Decode(&cfg); err != nil {
			f.Close()
			slog.Error("parsing config", "error", err)
			os.Exit(1)
		}
		f.Close()
	}

	// Override from environment variables.
	if v := os.Getenv("SLIDEGEN_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("SLIDEGEN_TEMPLATE"); v != "" {
		cfg.Template = v
	}
	if v := os.Getenv("SLIDEGEN_MAX_BATCH_OPERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxBatchOperations = n
		}
	}
	if v := os.Getenv("SLIDEGEN_MAX_IMAGE_PAYLOAD_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxImagePayloadBytes = n
		}
	}

	apiKey := os.Getenv("SLIDEGEN_API_KEY")
	corsOrigins := os.Getenv("SLIDEGEN_CORS_ORIGINS")
	driveFolder := os.Getenv("SLIDEGEN_DRIVE_FOLDER")

	ctx := context.Background()

	// Application Default Credentials: GOOGLE_APPLICATION_CREDENTIALS
	// or the ambient service account.
	httpClient, err := google.DefaultClient(ctx,
		slides.PresentationsScope, drive.DriveFileScope)
	if err != nil {
		slog.Error("resolving Google credentials", "error", err)
		os.Exit(1)
	}

	sinkClient, err := sink.NewSlidesClient(ctx, httpClient)
	if err != nil {
		slog.Error("creating Slides client", "error", err)
		os.Exit(1)
	}
	assets, err := asset.NewDriveStore(ctx, httpClient, driveFolder)
	if err != nil {
		slog.Error("creating Drive asset store", "error", err)
		os.Exit(1)
	}

	gen, err := slidegen.New(cfg, sinkClient, assets)
	if err != nil {
		slog.Error("creating generator", "error", err)
		os.Exit(1)
	}
	defer gen.Close()

	h := newHandler(gen)
	mux := http.NewServeMux()

	mux.HandleFunc("POST /generate", h.handleGenerate)
	mux.HandleFunc("GET /runs", h.handleListRuns)
	mux.HandleFunc("GET /runs/{id}", h.handleGetRun)
	mux.HandleFunc("GET /templates", h.handleListTemplates)
	mux.HandleFunc("GET /health", h.handleHealth)

	// Middleware chain: recovery -> cors -> auth -> logging -> mux
	var handler http.Handler = mux
	handler = logMiddleware(handler)
	handler = authMiddleware(apiKey, handler)
	handler = corsMiddleware(corsOrigins, handler)
	handler = recoveryMiddleware(handler)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // generation against the Slides API can be long
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}
