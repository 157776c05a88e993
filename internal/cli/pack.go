package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/Dicklesworthstone/dcg/internal/output"
	"github.com/Dicklesworthstone/dcg/internal/packs"
	"github.com/spf13/cobra"
)

var flagPackOutputFile string

func init() {
	packExportCmd.Flags().StringVarP(&flagPackOutputFile, "output", "o", "", "write to file instead of stdout")

	packCmd.AddCommand(packShowCmd)
	packCmd.AddCommand(packExportCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(packsCmd)
}

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Inspect and export the pack registry",
	Long: `pack manages the catalog of packs: named collections of keywords, safe
patterns, and destructive patterns targeting one tool family (git, disk,
kubectl, terraform, ...).`,
}

// packsCmd lists every pack id with its pattern counts; a quick-reference
// companion to the more detailed "pack show".
var packsCmd = &cobra.Command{
	Use:   "packs",
	Short: "List all packs in the registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		lc, err := loadPipeline()
		if err != nil {
			return err
		}
		enabled := lc.EvalCfg.EnabledPacks
		out := output.New(output.Format(GetOutput()))

		type row struct {
			ID        string `json:"id"`
			Enabled   bool   `json:"enabled"`
			Keywords  int    `json:"keywords"`
			SafeCount int    `json:"safe_patterns"`
			DestCount int    `json:"destructive_patterns"`
		}
		rows := make([]row, 0, len(lc.Registry.IDs()))
		for _, id := range lc.Registry.IDs() {
			p := lc.Registry.Get(id)
			rows = append(rows, row{
				ID:        id,
				Enabled:   len(enabled) == 0 || enabled[id],
				Keywords:  len(p.Keywords),
				SafeCount: len(p.SafePatterns),
				DestCount: len(p.DestructivePatterns),
			})
		}

		if GetOutput() == "text" {
			for _, r := range rows {
				state := "enabled"
				if !r.Enabled {
					state = "disabled"
				}
				fmt.Printf("%-24s %-8s keywords=%-3d safe=%-3d destructive=%d\n",
					r.ID, state, r.Keywords, r.SafeCount, r.DestCount)
			}
			return nil
		}
		return out.Write(rows)
	},
}

var packShowCmd = &cobra.Command{
	Use:   "show <pack-id>",
	Short: "Show one pack's keywords and patterns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lc, err := loadPipeline()
		if err != nil {
			return err
		}
		p := lc.Registry.Get(args[0])
		if p == nil {
			return fmt.Errorf("unknown pack: %s", args[0])
		}

		out := output.New(output.Format(GetOutput()))
		if GetOutput() == "text" {
			fmt.Printf("%s\n", p.ID)
			fmt.Printf("  keywords: %s\n", strings.Join(p.Keywords, ", "))
			fmt.Printf("  safe patterns (%d):\n", len(p.SafePatterns))
			for _, pat := range p.SafePatterns {
				fmt.Printf("    %-24s %s\n", pat.Name, pat.Regex)
			}
			fmt.Printf("  destructive patterns (%d):\n", len(p.DestructivePatterns))
			for _, pat := range p.DestructivePatterns {
				fmt.Printf("    %-24s [%s] %s — %s\n", pat.Name, pat.Severity, pat.Regex, pat.Reason)
			}
			return nil
		}
		return out.Write(packs.Export(packs.Build([]*packs.Pack{p})).Packs[p.ID])
	},
}

var packExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the compiled pack set as JSON with a content hash",
	Long: `export renders every registered pack's keywords and patterns as JSON,
alongside a SHA-256 hash of the pattern set for change detection between
dcg versions. External tooling can embed the export without re-running dcg.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lc, err := loadPipeline()
		if err != nil {
			return err
		}
		content, err := packs.ExportJSON(lc.Registry)
		if err != nil {
			return fmt.Errorf("exporting pack registry: %w", err)
		}

		if flagPackOutputFile == "" {
			fmt.Println(content)
			return nil
		}
		if err := os.WriteFile(flagPackOutputFile, []byte(content+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing export file: %w", err)
		}
		out := output.New(output.Format(GetOutput()))
		return out.Write(map[string]any{
			"status": "exported",
			"file":   flagPackOutputFile,
			"hash":   packs.ComputeHash(lc.Registry),
			"count":  len(lc.Registry.IDs()),
		})
	},
}
