// Package pagescan rasterizes PDF pages, detects blank ones, and extracts or
// synthesizes single-page documents.
package pagescan

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"pagectl/pkg/logging"
)

var pageNumberRe = regexp.MustCompile(`-(\d+)\.png$`)

// RenderPages rasterizes every page of pdfPath to PNG at the given DPI using
// pdftoppm, writing intermediate files into workDir, and returns the decoded
// images in page order.
func RenderPages(ctx context.Context, pdfPath, workDir string, dpi int) ([]image.Image, error) {
	prefix := filepath.Join(workDir, "page")

	cmd := exec.CommandContext(ctx, "pdftoppm", "-png", "-r", strconv.Itoa(dpi), pdfPath, prefix)
	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	logging.Debug("Pagescan", "rasterizing %s at %d dpi", pdfPath, dpi)
	if runErr := cmd.Run(); runErr != nil {
		return nil, fmt.Errorf("failed to execute pdftoppm on %s: %w. Stderr: %s",
			pdfPath, runErr, stderrBuf.String())
	}

	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to list rendered pages: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no pages for %s", pdfPath)
	}

	// pdftoppm zero-pads page numbers depending on page count; sort by the
	// numeric suffix rather than lexically.
	sort.Slice(matches, func(i, j int) bool {
		return pageNumber(matches[i]) < pageNumber(matches[j])
	})

	pages := make([]image.Image, 0, len(matches))
	for _, match := range matches {
		img, err := decodePNG(match)
		if err != nil {
			return nil, err
		}
		pages = append(pages, img)
	}
	return pages, nil
}

func pageNumber(path string) int {
	m := pageNumberRe.FindStringSubmatch(path)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rendered page %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode rendered page %s: %w", path, err)
	}
	return img, nil
}
