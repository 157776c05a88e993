// Package cli implements the hook command: the PreToolUse integration point
// that reads one tool-call payload from stdin, evaluates its command, and
// writes a verdict to stdout with a stable exit code.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Dicklesworthstone/dcg/internal/evaluator"
	"github.com/Dicklesworthstone/dcg/internal/history"
	"github.com/Dicklesworthstone/dcg/internal/hookio"
	"github.com/spf13/cobra"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Evaluate a tool-call payload read from stdin",
	Long: `hook reads one JSON object from stdin:

  { "tool_name": "Bash", "tool_input": { "command": "<string>" } }

and evaluates its command through the full pipeline. On allow it writes
nothing and exits 0. On deny or warn it writes a verdict object to stdout:

  { "permissionDecision": "deny", "reason": "...", "pack_id": "...",
    "pattern_name": "...", "short_code": "<4hex>"? }

Exit codes: 0 allow, 1 denied, 2 warn (when the general.fail_on_warn config
key is true; there is no --fail-on flag), 3 config error, 4 parse error,
5 I/O error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		os.Exit(runHook(os.Stdin, os.Stdout, os.Stderr))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hookCmd)
}

// runHook performs one hook evaluation and returns the process exit code.
// It takes explicit I/O so it can be exercised without a real stdin/stdout.
func runHook(stdin io.Reader, stdout, stderr io.Writer) int {
	in, err := hookio.ReadInput(stdin)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return hookio.ExitParseError
	}

	if in.ToolInput.Command == "" {
		return hookio.ExitAllow
	}

	lc, err := loadPipeline()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return hookio.ExitConfigError
	}

	now := time.Now().UTC()
	decision := evaluator.Evaluate(in.ToolInput.Command, lc.EvalCfg, lc.Registry, lc.Overrides, lc.Allow, now)

	recordHistory(lc, in.ToolInput.Command, decision, now)

	if decision.Verdict == evaluator.Allow {
		return hookio.ExitAllow
	}

	out := hookio.Output{
		PermissionDecision: decision.Verdict.String(),
		Reason:             reasonFor(decision),
		ShortCode:          decision.PendingShortCode,
	}
	if decision.Match != nil {
		out.PackID = decision.Match.PackID
		out.PatternName = decision.Match.PatternName
	}

	if err := hookio.WriteOutput(stdout, out); err != nil {
		fmt.Fprintln(stderr, err)
		return hookio.ExitIOError
	}

	return exitCodeForVerdict(decision, lc.Config.General.FailOnWarn)
}

func recordHistory(lc *loadedConfig, command string, d evaluator.Decision, now time.Time) {
	if !lc.Config.History.Enabled {
		return
	}
	path := lc.Config.History.DatabasePath
	if path == "" {
		path = GetHistoryPath()
	}
	db, err := history.Open(path)
	if err != nil {
		lc.Logger.Warn("opening history database", "error", err)
		return
	}
	defer db.Close()

	project, _ := projectPath()
	e := &history.Entry{
		Command:     command,
		Verdict:     d.Verdict.String(),
		Actor:       GetActor(),
		ProjectPath: project,
		Timeout:     d.Timeout,
		CreatedAt:   now,
	}
	if d.Match != nil {
		e.PackID = d.Match.PackID
		e.PatternName = d.Match.PatternName
		e.Reason = d.Match.Reason
	}
	if err := db.Record(e); err != nil {
		lc.Logger.Warn("recording history entry", "error", err)
	}
}
