package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConvertCmd(t *testing.T) {
	convertCmd := newConvertCmd()

	if convertCmd.Use != "convert <file>" {
		t.Errorf("Expected Use to be 'convert <file>', got %s", convertCmd.Use)
	}

	for _, flag := range []string{"to", "out", "url", "copy-path"} {
		if convertCmd.Flags().Lookup(flag) == nil {
			t.Errorf("Expected --%s flag to be defined", flag)
		}
	}
}

func TestConvertCmd_WritesOutput(t *testing.T) {
	tempDir := t.TempDir()
	inPath := filepath.Join(tempDir, "deck.pptx")
	if err := os.WriteFile(inPath, []byte("fake pptx"), 0644); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/convert" {
			t.Errorf("Expected request to /api/convert, got %s", r.URL.Path)
		}
		_, _ = w.Write([]byte("%PDF-1.4 converted"))
	}))
	defer srv.Close()

	outPath := filepath.Join(tempDir, "deck.pdf")
	convertCmd := newConvertCmd()
	var buf bytes.Buffer
	convertCmd.SetOut(&buf)
	convertCmd.SetArgs([]string{inPath, "--to", "pdf", "-o", outPath, "--url", srv.URL})

	if err := convertCmd.Execute(); err != nil {
		t.Fatalf("Error executing convert command: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Expected converted file to exist: %v", err)
	}
	if string(data) != "%PDF-1.4 converted" {
		t.Errorf("Unexpected converted content: %q", string(data))
	}
	if !strings.Contains(buf.String(), "Converted") {
		t.Errorf("Expected confirmation output, got %q", buf.String())
	}
}

func TestConvertCmd_RequiresTargetFormat(t *testing.T) {
	convertCmd := newConvertCmd()
	convertCmd.SetOut(new(bytes.Buffer))
	convertCmd.SetErr(new(bytes.Buffer))
	convertCmd.SetArgs([]string{"file.pdf"})

	if err := convertCmd.Execute(); err == nil {
		t.Error("Expected error when --to is missing")
	}
}
