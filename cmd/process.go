package cmd

import (
	"fmt"
	"io"
	"os"

	"pagectl/internal/client"
	"pagectl/internal/config"
	"pagectl/internal/trigger"
	"pagectl/internal/tui"
	"pagectl/pkg/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// printLabel is the CLI-mode status label: every text the trigger sets is
// printed on its own line, so the output ends with the final label state.
type printLabel struct {
	out io.Writer
}

func (l *printLabel) SetText(text string) {
	fmt.Fprintln(l.out, text)
}

func newProcessCmd() *cobra.Command {
	var noTUI bool
	var serviceURL string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Trigger a processing run on the page service",
		Long: `Triggers one processing run: the status label reads "Connecting..." while
the request is in flight and ends at the service's message, or at "Error"
when anything goes wrong.

By default an interactive view shows the label live and lets you trigger
again. With --no-tui the label transitions are printed to stdout instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			if noTUI {
				logging.InitForCLI(logging.LevelWarn, os.Stderr)
				trigger.Run(cmd.Context(), c, &printLabel{out: cmd.OutOrStdout()})
				return nil
			}

			logCh := logging.InitForTUI(logging.LevelDebug)
			defer logging.CloseTUIChannel()
			go func() {
				// The trigger view has no log pane; keep the channel drained.
				for range logCh {
				}
			}()

			p := tea.NewProgram(tui.NewModel(c))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "Print label transitions instead of showing the interactive view")
	cmd.Flags().StringVar(&serviceURL, "url", "", "Page service base URL (overrides config)")
	return cmd
}
