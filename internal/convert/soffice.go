// Package convert drives LibreOffice for document format conversion.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"pagectl/pkg/logging"
)

// Formats LibreOffice is asked to produce.
const (
	FormatPDF  = "pdf"
	FormatPPTX = "pptx"
)

// ErrUnsupportedFormat is returned for any target format other than pdf or pptx.
var ErrUnsupportedFormat = errors.New("target format must be pdf or pptx")

// For mocking in tests
var execLookPath = exec.LookPath

// Converter runs LibreOffice headless conversions.
type Converter struct {
	// Binary is the LibreOffice executable, normally "soffice".
	Binary string
}

// NewConverter returns a Converter using the given LibreOffice binary, or
// "soffice" when empty.
func NewConverter(binary string) *Converter {
	if binary == "" {
		binary = "soffice"
	}
	return &Converter{Binary: binary}
}

// Convert converts the input file to targetFormat ("pdf" or "pptx") into
// outDir and returns the path of the produced file. It captures LibreOffice's
// stdout and stderr and includes stderr in the error for diagnostics.
func (c *Converter) Convert(ctx context.Context, inputPath, outDir, targetFormat string) (string, error) {
	if targetFormat != FormatPDF && targetFormat != FormatPPTX {
		return "", ErrUnsupportedFormat
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir %s: %w", outDir, err)
	}

	cmd := exec.CommandContext(ctx, c.Binary,
		"--headless", "--invisible",
		"--convert-to", targetFormat,
		inputPath,
		"--outdir", outDir,
	)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	logging.Debug("Convert", "running %s --convert-to %s %s", c.Binary, targetFormat, inputPath)
	if runErr := cmd.Run(); runErr != nil {
		return "", fmt.Errorf("failed to execute '%s --convert-to %s': %w. Stderr: %s",
			c.Binary, targetFormat, runErr, stderrBuf.String())
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outPath := filepath.Join(outDir, base+"."+targetFormat)
	if _, err := os.Stat(outPath); err == nil {
		return outPath, nil
	}

	// LibreOffice sometimes mangles the output name; scan for anything it
	// produced with the expected base prefix.
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return "", fmt.Errorf("failed to read output dir %s: %w", outDir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, base+".") && strings.HasSuffix(strings.ToLower(name), "."+targetFormat) {
			return filepath.Join(outDir, name), nil
		}
	}
	return "", fmt.Errorf("conversion produced no output for %s (stdout: %s)", inputPath, strings.TrimSpace(stdoutBuf.String()))
}

// ProbeTools verifies the external toolchain the page service depends on:
// LibreOffice for conversions and pdftoppm (poppler) for rasterization.
func (c *Converter) ProbeTools() error {
	for _, tool := range []string{c.Binary, "pdftoppm"} {
		if _, err := execLookPath(tool); err != nil {
			return fmt.Errorf("required tool %s not found: %w", tool, err)
		}
	}
	return nil
}
