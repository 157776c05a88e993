// Package cli implements the history command.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/Dicklesworthstone/dcg/internal/history"
	"github.com/Dicklesworthstone/dcg/internal/output"
	"github.com/spf13/cobra"
)

var (
	flagHistoryQuery   string
	flagHistoryVerdict string
	flagHistoryActor   string
	flagHistoryPack    string
	flagHistorySince   string
	flagHistoryLimit   int
	flagHistoryAll     bool
)

func init() {
	historyCmd.Flags().StringVarP(&flagHistoryQuery, "query", "q", "", "only show commands containing this substring")
	historyCmd.Flags().StringVar(&flagHistoryVerdict, "verdict", "", "filter by verdict (allow, warn, deny)")
	historyCmd.Flags().StringVar(&flagHistoryActor, "actor", "", "filter by actor")
	historyCmd.Flags().StringVar(&flagHistoryPack, "pack", "", "filter by pack id")
	historyCmd.Flags().StringVar(&flagHistorySince, "since", "", "only show entries after this date (RFC3339 or YYYY-MM-DD)")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 50, "max results to return")
	historyCmd.Flags().BoolVar(&flagHistoryAll, "all-projects", false, "include entries from every project, not just the current one")

	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded evaluation history",
	Long: `Browse the local log of commands dcg has evaluated.

Examples:
  dcg history                       # Show recent evaluations for this project
  dcg history -q "rm -rf"           # Search for commands containing "rm -rf"
  dcg history --verdict deny        # Show only denied commands
  dcg history --pack core.git       # Show only matches from the core.git pack
  dcg history --since 2026-07-01    # Show entries since date`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := history.Open(GetHistoryPath())
		if err != nil {
			return fmt.Errorf("opening history database: %w", err)
		}
		defer db.Close()

		project := ""
		if !flagHistoryAll {
			project, err = projectPath()
			if err != nil {
				return fmt.Errorf("resolving project path: %w", err)
			}
		}

		entries, err := db.ListRecent(project, flagHistoryLimit*4)
		if err != nil {
			return fmt.Errorf("listing history: %w", err)
		}

		entries = applyHistoryFilters(entries)
		if len(entries) > flagHistoryLimit {
			entries = entries[:flagHistoryLimit]
		}

		type historyView struct {
			ID          string `json:"id"`
			Command     string `json:"command"`
			Verdict     string `json:"verdict"`
			PackID      string `json:"pack_id,omitempty"`
			PatternName string `json:"pattern_name,omitempty"`
			Actor       string `json:"actor,omitempty"`
			ProjectPath string `json:"project_path,omitempty"`
			CreatedAt   string `json:"created_at"`
		}

		resp := make([]historyView, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, historyView{
				ID:          e.ID,
				Command:     e.Command,
				Verdict:     e.Verdict,
				PackID:      e.PackID,
				PatternName: e.PatternName,
				Actor:       e.Actor,
				ProjectPath: e.ProjectPath,
				CreatedAt:   e.CreatedAt.Format(time.RFC3339),
			})
		}

		out := output.New(output.Format(GetOutput()))
		return out.Write(resp)
	},
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func applyHistoryFilters(entries []*history.Entry) []*history.Entry {
	var sinceTime time.Time
	if flagHistorySince != "" {
		var err error
		sinceTime, err = time.Parse(time.RFC3339, flagHistorySince)
		if err != nil {
			sinceTime, err = time.Parse("2006-01-02", flagHistorySince)
			if err != nil {
				sinceTime = time.Time{}
			}
		}
	}

	result := make([]*history.Entry, 0, len(entries))
	for _, e := range entries {
		if flagHistoryQuery != "" && !containsFold(e.Command, flagHistoryQuery) {
			continue
		}
		if flagHistoryVerdict != "" && e.Verdict != flagHistoryVerdict {
			continue
		}
		if flagHistoryActor != "" && e.Actor != flagHistoryActor {
			continue
		}
		if flagHistoryPack != "" && e.PackID != flagHistoryPack {
			continue
		}
		if !sinceTime.IsZero() && e.CreatedAt.Before(sinceTime) {
			continue
		}
		result = append(result, e)
	}
	return result
}
