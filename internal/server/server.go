// Package server implements the page service HTTP API: processing trigger,
// document conversion, and blank-page extraction.
package server

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"time"

	"pagectl/internal/config"
	"pagectl/internal/convert"
	"pagectl/internal/pagescan"
	"pagectl/pkg/logging"
)

// DocumentConverter is the slice of the conversion toolchain the handlers
// need. Its main implementation is *convert.Converter.
type DocumentConverter interface {
	Convert(ctx context.Context, inputPath, outDir, targetFormat string) (string, error)
	ProbeTools() error
}

// Server serves the page service API.
type Server struct {
	cfg       config.PagectlConfig
	converter DocumentConverter

	// Page pipeline, swappable in tests.
	renderPages     func(ctx context.Context, pdfPath, workDir string, dpi int) ([]image.Image, error)
	extractPage     func(inPath string, pageIndex int, destPath string) error
	createBlankLike func(inPath, destPath string, pageIndex int) error

	httpServer *http.Server
}

// New creates a Server from the given configuration.
func New(cfg config.PagectlConfig) *Server {
	return &Server{
		cfg:             cfg,
		converter:       convert.NewConverter(cfg.Convert.SofficeBinary),
		renderPages:     pagescan.RenderPages,
		extractPage:     pagescan.ExtractPage,
		createBlankLike: pagescan.CreateBlankLike,
	}
}

// Handler returns the service's HTTP handler, for embedding and tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/process", s.handleProcess)
	mux.HandleFunc("/api/convert", s.handleConvert)
	mux.HandleFunc("/api/extract-blank", s.handleExtractBlank)
	return mux
}

// Start runs the HTTP listener until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Serve.Host, s.cfg.Serve.Port)
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server", "page service listening on %s", addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}
