package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pagectl/internal/client"
	"pagectl/internal/config"
	"pagectl/pkg/logging"

	"github.com/spf13/cobra"
)

func newExtractBlankCmd() *cobra.Command {
	var outputType string
	var dpi int
	var outPath string
	var serviceURL string

	cmd := &cobra.Command{
		Use:   "extract-blank <file>",
		Short: "Extract the first blank page of a document",
		Long: `Uploads a document to the page service and downloads its first blank page
as a one-page PDF or a PNG. When the document has no blank page, the service
generates one matching the source page size.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.InitForCLI(logging.LevelWarn, os.Stderr)

			if outputType != "pdf" && outputType != "image" {
				return fmt.Errorf("--output must be pdf or image, got %q", outputType)
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if serviceURL == "" {
				serviceURL = cfg.Service.URL
			}

			c, err := client.New(serviceURL)
			if err != nil {
				return err
			}

			inPath := args[0]
			if outPath == "" {
				base := strings.TrimSuffix(inPath, filepath.Ext(inPath))
				if outputType == "image" {
					outPath = base + ".blank.png"
				} else {
					outPath = base + ".blank.pdf"
				}
			}

			name, err := c.ExtractBlank(cmd.Context(), inPath, client.ExtractOptions{
				OutputType: outputType,
				DPI:        dpi,
			}, outPath)
			if err != nil {
				return err
			}

			if name != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s as %s\n", name, outPath)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved blank page as %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputType, "output", "pdf", "Result type: pdf or image")
	cmd.Flags().IntVar(&dpi, "dpi", 0, "Rasterization DPI (0 uses the service default)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Path for the extracted page")
	cmd.Flags().StringVar(&serviceURL, "url", "", "Page service base URL (overrides config)")
	return cmd
}
