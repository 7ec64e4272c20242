package cmd

import (
	"os"

	"pagectl/internal/config"
	"pagectl/internal/mcpserver"
	"pagectl/pkg/logging"

	"github.com/spf13/cobra"
)

var mcpUseSSE bool
var mcpHost string
var mcpPort int

// mcpServerCmd exposes the page operations as MCP tools so AI assistants can
// convert documents and extract blank pages.
var mcpServerCmd = &cobra.Command{
	Use:   "mcp-server",
	Short: "Serve the page operations as MCP tools",
	Long: `Starts an MCP server exposing check_toolchain, convert_document and
extract_blank_page as tools. By default the server speaks over stdio, which
is what most MCP clients expect; --sse serves over HTTP instead.`,
	Args: cobra.NoArgs,
	RunE: runMCPServer,
}

func runMCPServer(cmd *cobra.Command, args []string) error {
	// Tool output must stay clean on stdio; logs go to stderr.
	logging.InitForCLI(logging.LevelWarn, os.Stderr)

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	s := mcpserver.New(cfg, rootCmd.Version)
	if mcpUseSSE {
		return s.ServeSSE(mcpHost, mcpPort)
	}
	return s.ServeStdio()
}

func init() {
	rootCmd.AddCommand(mcpServerCmd)

	mcpServerCmd.Flags().BoolVar(&mcpUseSSE, "sse", false, "Serve over SSE instead of stdio")
	mcpServerCmd.Flags().StringVar(&mcpHost, "host", "localhost", "Host to bind the SSE endpoint to")
	mcpServerCmd.Flags().IntVar(&mcpPort, "port", 8080, "Port for the SSE endpoint")
}
