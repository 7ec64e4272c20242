package pagescan

import (
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// A4 page size in points, used when a source document has no pages to copy
// dimensions from.
const (
	a4WidthPt  = 595.276
	a4HeightPt = 841.89
)

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	count, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages of %s: %w", path, err)
	}
	return count, nil
}

// ExtractPage writes the single page at pageIndex (0-based) of inPath to
// destPath as a one-page PDF.
func ExtractPage(inPath string, pageIndex int, destPath string) error {
	count, err := PageCount(inPath)
	if err != nil {
		return err
	}
	if pageIndex < 0 || pageIndex >= count {
		return fmt.Errorf("page index %d out of range for %d-page document", pageIndex, count)
	}

	// pdfcpu page selections are 1-based.
	selection := []string{strconv.Itoa(pageIndex + 1)}
	if err := api.TrimFile(inPath, destPath, selection, nil); err != nil {
		return fmt.Errorf("failed to extract page %d from %s: %w", pageIndex+1, inPath, err)
	}
	return nil
}

// CreateBlankLike writes a one-page blank PDF to destPath whose page size
// matches the page at pageIndex of inPath. Falls back to A4 when the source
// has no readable pages.
func CreateBlankLike(inPath, destPath string, pageIndex int) error {
	width, height := a4WidthPt, a4HeightPt

	dims, err := api.PageDimsFile(inPath)
	if err == nil && len(dims) > 0 {
		idx := pageIndex
		if idx < 0 {
			idx = 0
		}
		if idx > len(dims)-1 {
			idx = len(dims) - 1
		}
		width = dims[idx].Width
		height = dims[idx].Height
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.AddPage()
	if err := pdf.OutputFileAndClose(destPath); err != nil {
		return fmt.Errorf("failed to write blank page to %s: %w", destPath, err)
	}
	return nil
}
