package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Dicklesworthstone/dcg/internal/integrations"
	"github.com/spf13/cobra"
)

var integrationsCmd = &cobra.Command{
	Use:   "integrations",
	Short: "Integration helpers for agent tools",
}

var cursorRulesCmd = &cobra.Command{
	Use:   "cursor-rules",
	Short: "Generate Cursor .cursorrules content for the dcg safety policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		install, _ := cmd.Flags().GetBool("install")
		preview, _ := cmd.Flags().GetBool("preview")
		appendMode, _ := cmd.Flags().GetBool("append")
		replaceMode, _ := cmd.Flags().GetBool("replace")

		// Default behavior: preview if neither explicitly chosen.
		if !install && !preview {
			preview = true
		}

		mode := integrations.CursorRulesAppend
		if replaceMode {
			mode = integrations.CursorRulesReplace
		} else if !appendMode {
			// If explicitly disabled, default to replace-like behavior (upsert).
			mode = integrations.CursorRulesReplace
		}

		projectDir, err := projectPath()
		if err != nil {
			return err
		}

		path := filepath.Join(projectDir, ".cursorrules")

		var existing string
		if b, err := os.ReadFile(path); err == nil {
			existing = string(b)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		next, _ := integrations.ApplyCursorRules(existing, mode)

		if preview {
			fmt.Print(next)
			return nil
		}

		if !install {
			return nil
		}

		if err := os.WriteFile(path, []byte(next), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}

		fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
		return nil
	},
}

var claudeHooksCmd = &cobra.Command{
	Use:   "claude-hooks",
	Short: "Install a Claude Code pre_bash hook that routes commands through dcg",
	Long: `claude-hooks writes .claude/hooks.json with a pre_bash entry that runs
"dcg hook", so every Bash tool call Claude Code attempts is evaluated before
it executes. With --merge (the default) an existing hooks.json keeps its
other top-level keys and hook entries; only pre_bash is added or replaced.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		install, _ := cmd.Flags().GetBool("install")
		preview, _ := cmd.Flags().GetBool("preview")
		merge, _ := cmd.Flags().GetBool("merge")

		if !install && !preview {
			preview = true
		}

		if preview {
			data, err := integrations.MarshalClaudeHooks(integrations.DefaultClaudeHooks())
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		if !install {
			return nil
		}

		projectDir, err := projectPath()
		if err != nil {
			return err
		}

		path, merged, err := integrations.InstallClaudeHooks(projectDir, merge)
		if err != nil {
			return err
		}

		if merged {
			fmt.Fprintf(os.Stderr, "Merged pre_bash hook into %s\n", path)
		} else {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(integrationsCmd)

	integrationsCmd.AddCommand(cursorRulesCmd)
	cursorRulesCmd.Flags().Bool("install", false, "Write to .cursorrules in the project directory")
	cursorRulesCmd.Flags().Bool("preview", false, "Print what would be written")
	cursorRulesCmd.Flags().Bool("append", true, "Append section if missing (default)")
	cursorRulesCmd.Flags().Bool("replace", false, "Replace existing dcg section")

	integrationsCmd.AddCommand(claudeHooksCmd)
	claudeHooksCmd.Flags().Bool("install", false, "Write .claude/hooks.json in the project directory")
	claudeHooksCmd.Flags().Bool("preview", false, "Print what would be written")
	claudeHooksCmd.Flags().Bool("merge", true, "Preserve existing hooks.json content (default)")
}
