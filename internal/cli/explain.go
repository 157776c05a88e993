// Package cli implements the explain command: a diagnostic view of one
// evaluation's full pipeline trace, in the stable explain JSON schema.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/Dicklesworthstone/dcg/internal/evaluator"
	"github.com/Dicklesworthstone/dcg/internal/output"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(explainCmd)
}

// explainSchemaVersion is bumped only on a breaking change to explainResult's
// shape; external tooling may depend on it.
const explainSchemaVersion = 1

// explainResult is the stable, schema_version=1 explain payload: every field
// after schema_version mirrors one evaluation's Decision.
type explainResult struct {
	SchemaVersion   int      `json:"schema_version"`
	Command         string   `json:"command"`
	Decision        string   `json:"decision"`
	TotalDurationUS int64    `json:"total_duration_us"`
	Steps           []step   `json:"steps"`
	Suggestions     []string `json:"suggestions,omitempty"`
}

type step struct {
	Name    string         `json:"name"`
	Outcome string         `json:"outcome"`
	Details map[string]any `json:"details,omitempty"`
}

var explainCmd = &cobra.Command{
	Use:   "explain <command>",
	Short: "Show the full pipeline trace for one command",
	Long: `explain runs a single command through the evaluation pipeline like scan
does, but prints every pipeline stage (normalize, classify, keyword
prefilter, pack check, allowlist, sub-evaluate) instead of just the final
verdict, in a stable JSON schema (schema_version=1).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		command := strings.Join(args, " ")

		lc, err := loadPipeline()
		if err != nil {
			return err
		}

		start := time.Now()
		now := start.UTC()
		decision := evaluator.Evaluate(command, lc.EvalCfg, lc.Registry, lc.Overrides, lc.Allow, now)
		elapsed := time.Since(start)
		recordHistory(lc, command, decision, now)

		r := explainResult{
			SchemaVersion:   explainSchemaVersion,
			Command:         command,
			Decision:        decision.Verdict.String(),
			TotalDurationUS: elapsed.Microseconds(),
			Suggestions:     suggestionsFor(decision),
		}
		for _, s := range decision.Trace {
			r.Steps = append(r.Steps, step{Name: s.Name, Outcome: s.Outcome, Details: s.Details})
		}

		if GetOutput() == "text" {
			fmt.Printf("%s: %s\n", r.Decision, r.Command)
			fmt.Printf("  duration: %dus\n", r.TotalDurationUS)
			for _, s := range r.Steps {
				fmt.Printf("  [%s] %s %v\n", s.Name, s.Outcome, s.Details)
			}
			for _, sg := range r.Suggestions {
				fmt.Printf("  suggestion: %s\n", sg)
			}
			return nil
		}

		out := output.New(output.Format(GetOutput()))
		return out.Write(r)
	},
}

// suggestionsFor offers one actionable remediation per denial reason. It
// never blocks or mutates anything; a human decides whether to act on it.
func suggestionsFor(d evaluator.Decision) []string {
	if d.Verdict != evaluator.Deny || d.Match == nil {
		return nil
	}
	var out []string
	if d.PendingShortCode != "" {
		out = append(out, fmt.Sprintf("run `dcg pending approve %s` to mark this pending exception approved (consumed)", d.PendingShortCode))
	}
	out = append(out, fmt.Sprintf("add an allowlist entry for pack %s pattern %s if this is expected in your workflow", d.Match.PackID, d.Match.PatternName))
	return out
}
