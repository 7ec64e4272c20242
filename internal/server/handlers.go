package server

import (
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"pagectl/internal/convert"
	"pagectl/internal/pagescan"
	"pagectl/pkg/logging"
)

// maxUploadBytes caps in-memory multipart parsing; larger parts spill to disk.
const maxUploadBytes = 64 << 20

var allowedExt = map[string]bool{
	".pdf":  true,
	".ppt":  true,
	".pptx": true,
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type processResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{Error: message, Details: details})
}

// handleProcess answers the processing trigger. It probes the conversion
// toolchain and reports readiness as the message the caller displays.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	if err := s.converter.ProbeTools(); err != nil {
		logging.Error("Server", err, "processing toolchain unavailable")
		writeError(w, http.StatusInternalServerError, "Processing unavailable", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, processResponse{Message: "Ready"})
}

// handleConvert converts an uploaded document between pdf and pptx.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	_ = r.ParseMultipartForm(maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded", "")
		return
	}
	defer file.Close()

	target := strings.ToLower(r.FormValue("targetFormat"))
	if target != convert.FormatPDF && target != convert.FormatPPTX {
		writeError(w, http.StatusBadRequest, "targetFormat must be pdf or pptx", "")
		return
	}

	filename := secureFilename(header.Filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		writeError(w, http.StatusBadRequest, "Unsupported file type", "")
		return
	}

	workDir, err := os.MkdirTemp("", "pagectl-convert-")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to prepare workspace", err.Error())
		return
	}
	defer os.RemoveAll(workDir)

	inPath := filepath.Join(workDir, filename)
	if err := saveUpload(file, inPath); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store upload", err.Error())
		return
	}

	outPath, err := s.converter.Convert(r.Context(), inPath, workDir, target)
	if err != nil {
		logging.Error("Server", err, "conversion of %s failed", filename)
		writeError(w, http.StatusInternalServerError, "Conversion failed", err.Error())
		return
	}

	sendFile(w, outPath, filepath.Base(outPath))
}

// handleExtractBlank finds the first blank page of an uploaded document and
// returns it as a PDF or PNG; when none exists, a blank page matching the
// source page size is generated instead.
func (s *Server) handleExtractBlank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	_ = r.ParseMultipartForm(maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded", "")
		return
	}
	defer file.Close()

	outputType := strings.ToLower(r.FormValue("outputType"))
	if outputType == "" {
		outputType = "pdf"
	}
	if outputType != "pdf" && outputType != "image" {
		writeError(w, http.StatusBadRequest, "outputType must be pdf or image", "")
		return
	}

	dpi := s.cfg.Convert.DPI
	if rawDPI := r.FormValue("dpi"); rawDPI != "" {
		if parsed, err := strconv.Atoi(rawDPI); err == nil {
			dpi = parsed
		}
		// Non-numeric dpi silently falls back to the default.
	}

	filename := secureFilename(header.Filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		writeError(w, http.StatusBadRequest, "Unsupported file type", "")
		return
	}

	workDir, err := os.MkdirTemp("", "pagectl-extract-")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to prepare workspace", err.Error())
		return
	}
	defer os.RemoveAll(workDir)

	inPath := filepath.Join(workDir, filename)
	if err := saveUpload(file, inPath); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store upload", err.Error())
		return
	}

	// Presentations are converted to PDF first so detection sees real pages.
	pdfPath := inPath
	if ext == ".ppt" || ext == ".pptx" {
		pdfPath, err = s.converter.Convert(r.Context(), inPath, workDir, convert.FormatPDF)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "PPTX->PDF conversion failed", err.Error())
			return
		}
	}

	pages, err := s.renderPages(r.Context(), pdfPath, workDir, dpi)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Rendering PDF failed", err.Error())
		return
	}

	foundIndex := -1
	for i, page := range pages {
		if frac := pagescan.FractionNonWhite(page); frac < s.cfg.Convert.BlankThreshold {
			foundIndex = i
			break
		}
	}

	extractedPDF := filepath.Join(workDir, "extracted.pdf")
	if foundIndex == -1 {
		if err := s.createBlankLike(pdfPath, extractedPDF, 0); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to create blank page", err.Error())
			return
		}
	} else {
		if err := s.extractPage(pdfPath, foundIndex, extractedPDF); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to extract page", err.Error())
			return
		}
	}

	if outputType == "pdf" {
		sendFile(w, extractedPDF, downloadName(foundIndex, "pdf"))
		return
	}

	// Rasterize the single extracted page for image output.
	imageDir := filepath.Join(workDir, "image")
	if err := os.MkdirAll(imageDir, 0755); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to prepare workspace", err.Error())
		return
	}
	imgs, err := s.renderPages(r.Context(), extractedPDF, imageDir, dpi)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render extracted page to image", err.Error())
		return
	}
	if len(imgs) == 0 {
		writeError(w, http.StatusInternalServerError, "No image produced", "")
		return
	}

	imgPath := filepath.Join(workDir, "out.png")
	out, err := os.Create(imgPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to write image", err.Error())
		return
	}
	if err := png.Encode(out, imgs[0]); err != nil {
		out.Close()
		writeError(w, http.StatusInternalServerError, "Failed to write image", err.Error())
		return
	}
	out.Close()

	sendFile(w, imgPath, downloadName(foundIndex, "png"))
}

// downloadName mirrors the service's historical attachment naming: found
// pages carry their 1-based page number, generated ones say so.
func downloadName(foundIndex int, ext string) string {
	if foundIndex == -1 {
		return "blank-generated." + ext
	}
	return fmt.Sprintf("blank-page-%d.%s", foundIndex+1, ext)
}

// secureFilename strips any path components from an uploaded filename.
func secureFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == string(filepath.Separator) {
		return "upload"
	}
	return name
}

func saveUpload(file multipart.File, destPath string) error {
	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, file)
	return err
}

func sendFile(w http.ResponseWriter, path, downloadAs string) {
	f, err := os.Open(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read result", err.Error())
		return
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(downloadAs)) {
	case ".pdf":
		w.Header().Set("Content-Type", "application/pdf")
	case ".png":
		w.Header().Set("Content-Type", "image/png")
	default:
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadAs))
	_, _ = io.Copy(w, f)
}
