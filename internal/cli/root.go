// Package cli implements the Cobra command-line interface for dcg.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Dicklesworthstone/dcg/internal/output"
	"github.com/spf13/cobra"
)

// Version information set by goreleaser
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flag values
var (
	flagConfig  string
	flagOutput  string
	flagJSON    bool
	flagStats   bool
	flagVerbose bool
	flagHistory string
	flagActor   string
	flagProject string
)

var rootCmd = &cobra.Command{
	Use:   "dcg",
	Short: "Destructive-command guard for agent and CLI shells",
	Long: `dcg intercepts shell commands before they run and blocks the ones that
would destroy data or infrastructure irreversibly — "rm -rf", "git push
--force", "kubectl delete namespace", "terraform destroy" and the like —
while letting everything else through untouched.

Commands are evaluated against a registry of packs (git, filesystem, disk,
permissions, containers, kubernetes, infrastructure-as-code, message
brokers, secrets managers). Each pack carries safe patterns that allow a
command outright and destructive patterns that deny it; an allowlist layer
(project > user > global) can carve out narrow, auditable exceptions.

dcg never executes the commands it evaluates.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagProject == "" {
			return nil
		}
		if err := os.Chdir(flagProject); err != nil {
			return fmt.Errorf("changing directory to %s: %w", flagProject, err)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		showQuickReference()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		goVersion := runtime.Version()
		configPath := flagConfig
		if configPath == "" {
			home, _ := os.UserHomeDir()
			configPath = filepath.Join(home, ".dcg", "config.toml")
		}
		historyPath := GetHistoryPath()
		projectPath, _ := os.Getwd()

		payload := map[string]any{
			"version":      version,
			"commit":       commit,
			"build_date":   date,
			"go_version":   goVersion,
			"config_path":  configPath,
			"history_path": historyPath,
			"project_path": projectPath,
		}

		switch GetOutput() {
		case "json", "yaml":
			out := output.New(output.Format(GetOutput()), output.WithStats(GetStats()))
			return out.Write(payload)
		case "text":
			fmt.Printf("dcg %s\n", version)
			fmt.Printf("  commit:  %s\n", commit)
			fmt.Printf("  built:   %s\n", date)
			fmt.Printf("  go:      %s\n", goVersion)
			fmt.Printf("  config:  %s\n", configPath)
			fmt.Printf("  history: %s\n", historyPath)
			fmt.Printf("  project: %s\n", projectPath)
			return nil
		default:
			return fmt.Errorf("unsupported format: %s", GetOutput())
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetOutput returns the configured output format.
// Precedence: CLI flags > DCG_OUTPUT_FORMAT env > default.
func GetOutput() string {
	if flagJSON {
		return "json"
	}
	if flagOutput != "text" {
		return flagOutput
	}

	if envFormat := os.Getenv("DCG_OUTPUT_FORMAT"); envFormat != "" {
		switch envFormat {
		case "json", "yaml", "text":
			return envFormat
		}
	}

	return flagOutput
}

// GetStats returns whether to show evaluator pipeline timing statistics.
func GetStats() bool {
	return flagStats
}

// GetHistoryPath returns the path to the command-history database.
func GetHistoryPath() string {
	if flagHistory != "" {
		return flagHistory
	}
	if project, err := projectPath(); err == nil && project != "" {
		return filepath.Join(project, ".dcg", "history.db")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".dcg", "history.db")
}

// GetActor returns the actor identifier attached to recorded decisions.
func GetActor() string {
	if flagActor != "" {
		return flagActor
	}
	if actor := os.Getenv("DCG_ACTOR"); actor != "" {
		return actor
	}
	if actor := os.Getenv("AGENT_NAME"); actor != "" {
		return actor
	}
	user := os.Getenv("USER")
	if user == "" {
		user = "unknown"
	}
	host, _ := os.Hostname()
	if host == "" {
		host = "localhost"
	}
	return user + "@" + host
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "text", "output format: text, json, yaml (env: DCG_OUTPUT_FORMAT)")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "shorthand for --output=json")
	rootCmd.PersistentFlags().BoolVar(&flagStats, "stats", false, "show evaluator pipeline timing stats")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&flagHistory, "history", "", "command-history database path")
	rootCmd.PersistentFlags().StringVar(&flagActor, "actor", "", "actor identifier")
	rootCmd.PersistentFlags().StringVarP(&flagProject, "project", "C", "", "project directory")

	rootCmd.AddCommand(versionCmd)
}

func projectPath() (string, error) {
	if flagProject != "" {
		return flagProject, nil
	}
	pwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return pwd, nil
}
