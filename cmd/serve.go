package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"pagectl/internal/config"
	"pagectl/internal/server"
	"pagectl/pkg/logging"

	"github.com/spf13/cobra"
)

// serveHost and servePort override the configured listen address.
var serveHost string
var servePort int

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveCmd runs the page service itself: the processing trigger endpoint,
// document conversion, and blank-page extraction.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the page service",
	Long: `Starts the page service HTTP API:

  POST /api/process        processing trigger; answers {"message": ...}
  POST /api/convert        convert an uploaded document between pdf and pptx
  POST /api/extract-blank  extract (or generate) the first blank page

Conversion requires LibreOffice (soffice) and poppler (pdftoppm) on PATH.
The listen address comes from .pagectl/config.yaml or the user config
directory and can be overridden with --host/--port.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	level := logging.LevelInfo
	if serveDebug {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, os.Stderr)

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if serveHost != "" {
		cfg.Serve.Host = serveHost
	}
	if servePort != 0 {
		cfg.Serve.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg).Start(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable general debug logging")
}
