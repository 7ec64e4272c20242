// Package mcpserver exposes the page service operations as MCP tools so AI
// assistants can drive document conversion and blank-page extraction.
package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pagectl/internal/config"
	"pagectl/internal/convert"
	"pagectl/internal/pagescan"
	"pagectl/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps an MCP tool server over the local conversion toolchain.
type MCPServer struct {
	cfg       config.PagectlConfig
	converter *convert.Converter
	server    *server.MCPServer
}

// New creates the MCP server and registers the page tools.
func New(cfg config.PagectlConfig, version string) *MCPServer {
	s := &MCPServer{
		cfg:       cfg,
		converter: convert.NewConverter(cfg.Convert.SofficeBinary),
	}

	mcpServer := server.NewMCPServer(
		"pagectl",
		version,
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(mcp.NewTool("check_toolchain",
		mcp.WithDescription("Check whether the document conversion toolchain (LibreOffice, poppler) is available."),
	), s.handleCheckToolchain)

	mcpServer.AddTool(mcp.NewTool("convert_document",
		mcp.WithDescription("Convert a document between PDF and PPTX using LibreOffice. Returns the path of the converted file."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute path of the document to convert (.pdf, .ppt or .pptx)"),
		),
		mcp.WithString("target_format",
			mcp.Required(),
			mcp.Description("Format to convert to: pdf or pptx"),
		),
	), s.handleConvertDocument)

	mcpServer.AddTool(mcp.NewTool("extract_blank_page",
		mcp.WithDescription("Find the first blank page of a PDF or presentation and write it out as a one-page PDF. Generates a size-matched blank page when none exists."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute path of the source document"),
		),
		mcp.WithNumber("dpi",
			mcp.Description("Rasterization DPI for blank detection (default 300)"),
		),
	), s.handleExtractBlankPage)

	s.server = mcpServer
	return s
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects.
func (s *MCPServer) ServeStdio() error {
	logging.Info("MCPServer", "serving page tools over stdio")
	return server.ServeStdio(s.server)
}

// ServeSSE serves MCP over SSE on the given host and port.
func (s *MCPServer) ServeSSE(host string, port int) error {
	baseURL := fmt.Sprintf("http://%s:%d", host, port)
	sseServer := server.NewSSEServer(
		s.server,
		server.WithBaseURL(baseURL),
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/message"),
	)
	logging.Info("MCPServer", "serving page tools on %s/sse", baseURL)
	return sseServer.Start(fmt.Sprintf("%s:%d", host, port))
}

func (s *MCPServer) handleCheckToolchain(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.converter.ProbeTools(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Toolchain unavailable: %v", err)), nil
	}
	return mcp.NewToolResultText("Ready"), nil
}

func (s *MCPServer) handleConvertDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	targetFormat, err := request.RequireString("target_format")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	targetFormat = strings.ToLower(targetFormat)

	outPath, err := s.converter.Convert(ctx, path, filepath.Dir(path), targetFormat)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Conversion failed: %v", err)), nil
	}
	return mcp.NewToolResultText(outPath), nil
}

func (s *MCPServer) handleExtractBlankPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dpi := request.GetInt("dpi", s.cfg.Convert.DPI)

	workDir, err := os.MkdirTemp("", "pagectl-mcp-")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to prepare workspace: %v", err)), nil
	}
	defer os.RemoveAll(workDir)

	// Presentations are rasterized via an intermediate PDF.
	pdfPath := path
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".ppt" || ext == ".pptx" {
		pdfPath, err = s.converter.Convert(ctx, path, workDir, convert.FormatPDF)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Conversion failed: %v", err)), nil
		}
	}

	pages, err := pagescan.RenderPages(ctx, pdfPath, workDir, dpi)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Rendering failed: %v", err)), nil
	}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	foundIndex := pagescan.FindFirstBlank(pages, s.cfg.Convert.BlankThreshold)
	if foundIndex == -1 {
		outPath := base + ".blank-generated.pdf"
		if err := pagescan.CreateBlankLike(pdfPath, outPath, 0); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create blank page: %v", err)), nil
		}
		return mcp.NewToolResultText(outPath), nil
	}

	outPath := fmt.Sprintf("%s.blank-page-%d.pdf", base, foundIndex+1)
	if err := pagescan.ExtractPage(pdfPath, foundIndex, outPath); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to extract page: %v", err)), nil
	}
	return mcp.NewToolResultText(outPath), nil
}
