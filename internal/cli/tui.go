package cli

import (
	"fmt"
	"os"

	"github.com/Dicklesworthstone/dcg/internal/tui"
	"github.com/spf13/cobra"
)

var (
	flagTuiNoMouse        bool
	flagTuiRefreshSeconds int
	flagTuiTheme          string
	flagTuiSessionID      string
	flagTuiSessionKey     string
)

func init() {
	tuiCmd.Flags().BoolVar(&flagTuiNoMouse, "no-mouse", false, "disable mouse support")
	tuiCmd.Flags().IntVar(&flagTuiRefreshSeconds, "refresh-interval", 5, "refresh interval in seconds (stored in the TUI options; no view polls)")
	tuiCmd.Flags().StringVar(&flagTuiTheme, "theme", "", "override theme (mocha, macchiato, frappe, latte)")
	tuiCmd.Flags().StringVar(&flagTuiSessionID, "session-id", "", "session ID (accepted and ignored)")
	tuiCmd.Flags().StringVar(&flagTuiSessionKey, "session-key", "", "session key (accepted and ignored)")

	rootCmd.AddCommand(tuiCmd)
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive TUI dashboard",
	Long: `Launch the dcg Bubble Tea dashboard.

The dashboard loads recent verdicts and active pending exceptions when it
starts; it does not stream or poll for updates. Approving a pending exception
from its detail view (key a) needs no session flags.

Key bindings:
  up/down (j/k)  Navigate within panels
  enter          View selected request details
  m              Pattern browser
  H              History browser
  q              Quit

Theme options: mocha (default), macchiato, frappe, latte`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Determine project path
		projectPath, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}

		opts := tui.Options{
			ProjectPath:     projectPath,
			Theme:           flagTuiTheme,
			DisableMouse:    flagTuiNoMouse,
			RefreshInterval: flagTuiRefreshSeconds,
			SessionID:       flagTuiSessionID,
			SessionKey:      flagTuiSessionKey,
		}

		if err := tui.RunWithOptions(opts); err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		return nil
	},
}
