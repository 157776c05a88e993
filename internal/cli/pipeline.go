package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Dicklesworthstone/dcg/internal/allowlist"
	"github.com/Dicklesworthstone/dcg/internal/config"
	"github.com/Dicklesworthstone/dcg/internal/evaluator"
	"github.com/Dicklesworthstone/dcg/internal/logging"
	"github.com/Dicklesworthstone/dcg/internal/packs"
	"github.com/Dicklesworthstone/dcg/internal/pending"
	"github.com/charmbracelet/log"
)

// loadedConfig is shared setup built once per CLI invocation: the resolved
// config, the pack registry, the evaluator policy, the allowlist, and a
// logger, so scan/explain/test/hook all construct a pipeline the same way.
type loadedConfig struct {
	Config    config.Config
	Registry  *packs.Registry
	EvalCfg   evaluator.Config
	Allow     *allowlist.Layered
	Logger    *log.Logger
	Overrides evaluator.Overrides
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// loadPipeline resolves configuration and builds everything the evaluation
// pipeline needs for one invocation.
func loadPipeline() (*loadedConfig, error) {
	proj, err := projectPath()
	if err != nil {
		return nil, fmt.Errorf("resolving project path: %w", err)
	}

	cfg, err := config.Load(config.LoadOptions{
		ProjectDir:            proj,
		ProjectConfigOverride: flagConfig,
	})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	reg := packs.Default()

	var enabled map[string]bool
	packsEnv := os.Getenv("DCG_PACKS")
	switch {
	case packsEnv != "":
		enabled = toEnabledSet(strings.Split(packsEnv, ","))
	case len(cfg.Packs.Enabled) > 0:
		enabled = toEnabledSet(cfg.Packs.Enabled)
	}

	evalCfg := evaluator.DefaultConfig()
	evalCfg.EnabledPacks = enabled
	evalCfg.FailOnWarn = cfg.General.FailOnWarn
	if cfg.General.WallClockBudgetMS > 0 {
		evalCfg.WallClockBudget = time.Duration(cfg.General.WallClockBudgetMS) * time.Millisecond
	}
	if cfg.Heredoc.MaxBodyBytes > 0 {
		evalCfg.MaxHeredocBodyBytes = cfg.Heredoc.MaxBodyBytes
	}
	if cfg.Heredoc.MaxDepth > 0 {
		evalCfg.MaxRecursionDepth = cfg.Heredoc.MaxDepth
	}

	logger := logging.New(logging.Options{Verbose: flagVerbose})

	evalCfg.Pending = evaluator.PendingConfig{
		Enabled:   cfg.PendingExceptions.Enabled,
		SingleUse: cfg.PendingExceptions.SingleUse,
		CWD:       proj,
		Redaction: pending.RedactionConfig{
			Enabled:        cfg.Redaction.Enabled,
			Mode:           cfg.Redaction.Mode,
			MaxArgumentLen: cfg.Redaction.MaxArgumentLen,
		},
	}
	if evalCfg.Pending.Enabled {
		path := expandHome(cfg.PendingExceptions.Path)
		if path == "" {
			path = pending.DefaultPath()
		}
		evalCfg.Pending.Store = &pending.Store{Path: path, Logger: logger.WithPrefix("pending")}
	}

	allow, err := allowlist.Load(
		resolveAllowlistPath(cfg.Allowlist.ProjectPath, proj),
		expandHome(cfg.Allowlist.UserPath),
		expandHome(cfg.Allowlist.GlobalPath),
	)
	if err != nil {
		return nil, fmt.Errorf("loading allowlist: %w", err)
	}

	return &loadedConfig{
		Config:   cfg,
		Registry: reg,
		EvalCfg:  evalCfg,
		Allow:    allow,
		Logger:   logger,
	}, nil
}

func resolveAllowlistPath(path, projectDir string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(projectDir, path)
}

func toEnabledSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			set[id] = true
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

// exitCodeForVerdict maps an evaluation outcome to the stable hook exit code.
func exitCodeForVerdict(d evaluator.Decision, failOnWarn bool) int {
	switch d.Verdict {
	case evaluator.Deny:
		return 1
	case evaluator.Warn:
		if failOnWarn {
			return 2
		}
		return 0
	default:
		return 0
	}
}

func reasonFor(d evaluator.Decision) string {
	if d.Match != nil {
		return d.Match.Reason
	}
	if d.Timeout {
		return "evaluation exceeded wall-clock budget; allowed by default"
	}
	return ""
}

func formatInt(n int) string {
	return strconv.Itoa(n)
}
