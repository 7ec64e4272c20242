package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pagectl/internal/client"
	"pagectl/internal/config"
	"pagectl/pkg/logging"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	var targetFormat string
	var outPath string
	var serviceURL string
	var copyPath bool

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a document between PDF and PPTX",
		Long: `Uploads a document to the page service and converts it to the requested
format. The converted file is written next to the input unless -o is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.InitForCLI(logging.LevelWarn, os.Stderr)

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
				outPath = base + "." + strings.ToLower(targetFormat)
			}

			if err := c.Convert(cmd.Context(), inPath, strings.ToLower(targetFormat), outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Converted %s -> %s\n", inPath, outPath)

			if copyPath {
				if err := clipboard.WriteAll(outPath); err != nil {
					logging.Warn("Convert", "failed to copy output path to clipboard: %v", err)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Output path copied to clipboard")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&targetFormat, "to", "", "Target format: pdf or pptx (required)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Path for the converted file")
	cmd.Flags().StringVar(&serviceURL, "url", "", "Page service base URL (overrides config)")
	cmd.Flags().BoolVar(&copyPath, "copy-path", false, "Copy the output path to the clipboard")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
