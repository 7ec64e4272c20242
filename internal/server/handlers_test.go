package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"pagectl/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConverter stands in for the LibreOffice toolchain.
type fakeConverter struct {
	probeErr   error
	convertErr error
	// output written by Convert; defaults to "%PDF-1.4 converted"
	output string
}

func (f *fakeConverter) Convert(ctx context.Context, inputPath, outDir, targetFormat string) (string, error) {
	if f.convertErr != nil {
		return "", f.convertErr
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}
	base := filepath.Base(inputPath)
	base = base[:len(base)-len(filepath.Ext(base))]
	outPath := filepath.Join(outDir, base+"."+targetFormat)
	output := f.output
	if output == "" {
		output = "%PDF-1.4 converted"
	}
	return outPath, os.WriteFile(outPath, []byte(output), 0644)
}

func (f *fakeConverter) ProbeTools() error { return f.probeErr }

func uniformPage(c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

var (
	whitePage = uniformPage(color.RGBA{255, 255, 255, 255})
	inkedPage = uniformPage(color.RGBA{0, 0, 0, 255})
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := New(config.GetDefaultConfig())
	s.converter = &fakeConverter{}
	s.renderPages = func(ctx context.Context, pdfPath, workDir string, dpi int) ([]image.Image, error) {
		return []image.Image{inkedPage}, nil
	}
	s.extractPage = func(inPath string, pageIndex int, destPath string) error {
		return os.WriteFile(destPath, []byte(fmt.Sprintf("%%PDF-1.4 page %d", pageIndex+1)), 0644)
	}
	s.createBlankLike = func(inPath, destPath string, pageIndex int) error {
		return os.WriteFile(destPath, []byte("%PDF-1.4 generated blank"), 0644)
	}
	return s
}

func multipartBody(t *testing.T, filename string, fileContent []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(fileContent)
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func decodeError(t *testing.T, body io.Reader) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestHandleProcess_Ready(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/process", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp processResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Ready", resp.Message)
}

func TestHandleProcess_ToolchainMissing(t *testing.T) {
	s := newTestServer(t)
	s.converter = &fakeConverter{probeErr: errors.New("soffice not found")}

	req := httptest.NewRequest(http.MethodPost, "/api/process", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec.Body)
	assert.Equal(t, "Processing unavailable", resp.Error)
	assert.Contains(t, resp.Details, "soffice")
}

func TestHandleProcess_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/process", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestHandleConvert_Success(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartBody(t, "slides.pptx", []byte("fake pptx"), map[string]string{
		"targetFormat": "pdf",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/convert", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="slides.pdf"`)
	assert.Equal(t, "%PDF-1.4 converted", rec.Body.String())
}

func TestHandleConvert_NoFile(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartBody(t, "", nil, map[string]string{"targetFormat": "pdf"})
	req := httptest.NewRequest(http.MethodPost, "/api/convert", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file uploaded", decodeError(t, rec.Body).Error)
}

func TestHandleConvert_BadTargetFormat(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartBody(t, "doc.pdf", []byte("%PDF-1.4"), map[string]string{
		"targetFormat": "docx",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/convert", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "targetFormat must be pdf or pptx", decodeError(t, rec.Body).Error)
}

func TestHandleConvert_UnsupportedExtension(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartBody(t, "notes.txt", []byte("text"), map[string]string{
		"targetFormat": "pdf",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/convert", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Unsupported file type", decodeError(t, rec.Body).Error)
}

func TestHandleConvert_ConversionFailure(t *testing.T) {
	s := newTestServer(t)
	s.converter = &fakeConverter{convertErr: errors.New("soffice exited 1")}

	body, contentType := multipartBody(t, "slides.pptx", []byte("fake pptx"), map[string]string{
		"targetFormat": "pdf",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/convert", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec.Body)
	assert.Equal(t, "Conversion failed", resp.Error)
	assert.Contains(t, resp.Details, "soffice exited 1")
}

func TestHandleExtractBlank_FoundPageAsPDF(t *testing.T) {
	s := newTestServer(t)
	// Page 1 has ink, page 2 is blank
	s.renderPages = func(ctx context.Context, pdfPath, workDir string, dpi int) ([]image.Image, error) {
		return []image.Image{inkedPage, whitePage}, nil
	}

	body, contentType := multipartBody(t, "report.pdf", []byte("%PDF-1.4"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/extract-blank", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="blank-page-2.pdf"`)
	assert.Equal(t, "%PDF-1.4 page 2", rec.Body.String())
}

func TestHandleExtractBlank_NoBlankGeneratesOne(t *testing.T) {
	s := newTestServer(t)
	s.renderPages = func(ctx context.Context, pdfPath, workDir string, dpi int) ([]image.Image, error) {
		return []image.Image{inkedPage, inkedPage}, nil
	}

	body, contentType := multipartBody(t, "report.pdf", []byte("%PDF-1.4"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/extract-blank", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="blank-generated.pdf"`)
	assert.Equal(t, "%PDF-1.4 generated blank", rec.Body.String())
}

func TestHandleExtractBlank_ImageOutput(t *testing.T) {
	s := newTestServer(t)
	calls := 0
	s.renderPages = func(ctx context.Context, pdfPath, workDir string, dpi int) ([]image.Image, error) {
		calls++
		if calls == 1 {
			// Detection pass: one blank page
			return []image.Image{whitePage}, nil
		}
		// Rasterization of the extracted page
		return []image.Image{whitePage}, nil
	}

	body, contentType := multipartBody(t, "report.pdf", []byte("%PDF-1.4"), map[string]string{
		"outputType": "image",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/extract-blank", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="blank-page-1.png"`)
	// PNG signature
	assert.Equal(t, "\x89PNG", rec.Body.String()[:4])
}

func TestHandleExtractBlank_BadOutputType(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartBody(t, "report.pdf", []byte("%PDF-1.4"), map[string]string{
		"outputType": "tiff",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/extract-blank", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "outputType must be pdf or image", decodeError(t, rec.Body).Error)
}

func TestHandleExtractBlank_NonNumericDPIFallsBack(t *testing.T) {
	s := newTestServer(t)
	var usedDPI int
	s.renderPages = func(ctx context.Context, pdfPath, workDir string, dpi int) ([]image.Image, error) {
		usedDPI = dpi
		return []image.Image{whitePage}, nil
	}

	body, contentType := multipartBody(t, "report.pdf", []byte("%PDF-1.4"), map[string]string{
		"dpi": "very-high",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/extract-blank", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, config.DefaultDPI, usedDPI)
}

func TestHandleExtractBlank_PresentationConvertedFirst(t *testing.T) {
	s := newTestServer(t)
	s.renderPages = func(ctx context.Context, pdfPath, workDir string, dpi int) ([]image.Image, error) {
		// The detection pass must see the converted PDF, not the upload
		assert.Equal(t, ".pdf", filepath.Ext(pdfPath))
		return []image.Image{whitePage}, nil
	}

	body, contentType := multipartBody(t, "deck.pptx", []byte("fake pptx"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/extract-blank", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleExtractBlank_PresentationConversionFailure(t *testing.T) {
	s := newTestServer(t)
	s.converter = &fakeConverter{convertErr: errors.New("no display")}

	body, contentType := multipartBody(t, "deck.pptx", []byte("fake pptx"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/extract-blank", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "PPTX->PDF conversion failed", decodeError(t, rec.Body).Error)
}

func TestHandleExtractBlank_RenderFailure(t *testing.T) {
	s := newTestServer(t)
	s.renderPages = func(ctx context.Context, pdfPath, workDir string, dpi int) ([]image.Image, error) {
		return nil, errors.New("pdftoppm crashed")
	}

	body, contentType := multipartBody(t, "report.pdf", []byte("%PDF-1.4"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/extract-blank", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec.Body)
	assert.Equal(t, "Rendering PDF failed", resp.Error)
	assert.Contains(t, resp.Details, "pdftoppm crashed")
}

func TestSecureFilename(t *testing.T) {
	assert.Equal(t, "doc.pdf", secureFilename("doc.pdf"))
	assert.Equal(t, "doc.pdf", secureFilename("../../etc/doc.pdf"))
	assert.Equal(t, "doc.pdf", secureFilename(`C:\Users\me\doc.pdf`))
}

func TestDownloadName(t *testing.T) {
	assert.Equal(t, "blank-generated.pdf", downloadName(-1, "pdf"))
	assert.Equal(t, "blank-page-3.png", downloadName(2, "png"))
}
