// Package cli implements the scan command: a thin, non-mutating wrapper
// that runs one command through the evaluation pipeline and prints its
// verdict, without the stdin/JSON envelope the hook integration point uses.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Dicklesworthstone/dcg/internal/evaluator"
	"github.com/Dicklesworthstone/dcg/internal/hookio"
	"github.com/Dicklesworthstone/dcg/internal/output"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan <command>",
	Short: "Evaluate a command and print its verdict",
	Long: `scan runs a single command through the same normalize, classify,
sanitize, pack-match, allowlist, and sub-evaluate pipeline the hook
integration point uses, then prints the verdict. It never executes the
command.

Exit codes match hook: 0 allow, 1 denied, 2 warn (when the
general.fail_on_warn config key is true; there is no --fail-on flag).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		os.Exit(runScan(strings.Join(args, " "), os.Stdout, os.Stderr))
		return nil
	},
}

// scanResult is scan's JSON/text rendering of one Decision.
type scanResult struct {
	Command   string `json:"command"`
	Verdict   string `json:"verdict"`
	PackID    string `json:"pack_id,omitempty"`
	Pattern   string `json:"pattern_name,omitempty"`
	Reason    string `json:"reason,omitempty"`
	ShortCode string `json:"short_code,omitempty"`
}

// runScan evaluates command and writes its verdict to stdout, returning the
// process exit code. It takes explicit I/O so it can be exercised without
// capturing real stdout/stderr.
func runScan(command string, stdout, stderr io.Writer) int {
	lc, err := loadPipeline()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return hookio.ExitConfigError
	}

	now := time.Now().UTC()
	decision := evaluator.Evaluate(command, lc.EvalCfg, lc.Registry, lc.Overrides, lc.Allow, now)
	recordHistory(lc, command, decision, now)

	r := scanResult{Command: command, Verdict: decision.Verdict.String(), Reason: reasonFor(decision), ShortCode: decision.PendingShortCode}
	if decision.Match != nil {
		r.PackID = decision.Match.PackID
		r.Pattern = decision.Match.PatternName
	}

	if GetOutput() == "text" {
		fmt.Fprintf(stdout, "%s: %s\n", r.Verdict, command)
		if r.PackID != "" {
			fmt.Fprintf(stdout, "  pack=%s pattern=%s\n", r.PackID, r.Pattern)
		}
		if r.Reason != "" {
			fmt.Fprintf(stdout, "  reason: %s\n", r.Reason)
		}
		if r.ShortCode != "" {
			fmt.Fprintf(stdout, "  short_code: %s\n", r.ShortCode)
		}
	} else {
		out := output.New(output.Format(GetOutput()), output.WithOutput(stdout))
		if err := out.Write(r); err != nil {
			fmt.Fprintln(stderr, err)
			return hookio.ExitIOError
		}
	}

	return exitCodeForVerdict(decision, lc.Config.General.FailOnWarn)
}
