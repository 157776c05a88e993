// Package cli implements the pending command: browsing and one-shot
// approval of pending exceptions recorded for denied commands.
package cli

import (
	"fmt"
	"time"

	"github.com/Dicklesworthstone/dcg/internal/output"
	"github.com/spf13/cobra"
)

func init() {
	pendingCmd.AddCommand(pendingListCmd)
	pendingCmd.AddCommand(pendingApproveCmd)
	rootCmd.AddCommand(pendingCmd)
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Manage pending exceptions recorded for denied commands",
	Long: `Every Deny verdict, when pending exceptions are enabled, is recorded as a
short-lived pending exception identified by a 4-hex short code. A human can
list them and approve one by its code, which marks it consumed. The
evaluator does not read this store, so approving a code does not change the
verdict of a later run of the same command.`,
}

var pendingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active pending exceptions",
	RunE: func(cmd *cobra.Command, args []string) error {
		lc, err := loadPipeline()
		if err != nil {
			return err
		}
		if lc.EvalCfg.Pending.Store == nil {
			return fmt.Errorf("pending exceptions are disabled (pending_exceptions.enabled = false)")
		}

		now := time.Now().UTC()
		records, _, err := lc.EvalCfg.Pending.Store.LoadActive(now)
		if err != nil {
			return fmt.Errorf("loading pending exceptions: %w", err)
		}

		type pendingView struct {
			ShortCode string `json:"short_code"`
			Command   string `json:"command_redacted"`
			CWD       string `json:"cwd"`
			Reason    string `json:"reason,omitempty"`
			SingleUse bool   `json:"single_use"`
			CreatedAt string `json:"created_at"`
			ExpiresAt string `json:"expires_at"`
		}
		resp := make([]pendingView, 0, len(records))
		for _, r := range records {
			resp = append(resp, pendingView{
				ShortCode: r.ShortCode,
				Command:   r.CommandRedacted,
				CWD:       r.CWD,
				Reason:    r.Reason,
				SingleUse: r.SingleUse,
				CreatedAt: r.CreatedAt,
				ExpiresAt: r.ExpiresAt,
			})
		}

		if GetOutput() == "text" {
			if len(resp) == 0 {
				fmt.Println("no pending exceptions")
				return nil
			}
			for _, r := range resp {
				fmt.Printf("%s  %s  %s\n", r.ShortCode, r.ExpiresAt, r.Command)
				if r.Reason != "" {
					fmt.Printf("       %s\n", r.Reason)
				}
			}
			return nil
		}

		out := output.New(output.Format(GetOutput()))
		return out.Write(resp)
	},
}

var pendingApproveCmd = &cobra.Command{
	Use:   "approve <short-code>",
	Short: "Approve a pending exception by its short code",
	Long: `approve marks a pending exception consumed, which removes it from the
active list on the store's next load. The evaluator does not consult the
store, so the command it was recorded for is still denied if run through
dcg again. Approval itself never executes anything — dcg does not run
commands.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code := args[0]
		lc, err := loadPipeline()
		if err != nil {
			return err
		}
		if lc.EvalCfg.Pending.Store == nil {
			return fmt.Errorf("pending exceptions are disabled (pending_exceptions.enabled = false)")
		}

		now := time.Now().UTC()
		matches, _, err := lc.EvalCfg.Pending.Store.LookupByCode(code, now)
		if err != nil {
			return fmt.Errorf("looking up short code: %w", err)
		}
		if len(matches) == 0 {
			return fmt.Errorf("no active pending exception with code %q", code)
		}
		if len(matches) > 1 {
			return fmt.Errorf("short code %q matches %d pending exceptions; disambiguate by cwd/command and approve manually", code, len(matches))
		}

		rec := matches[0]
		if err := lc.EvalCfg.Pending.Store.MarkConsumed(rec.FullHash, now); err != nil {
			return fmt.Errorf("marking exception consumed: %w", err)
		}

		out := output.New(output.Format(GetOutput()))
		return out.Write(map[string]any{
			"status":     "approved",
			"short_code": rec.ShortCode,
			"command":    rec.CommandRedacted,
			"cwd":        rec.CWD,
		})
	},
}
