// Package config loads dcg's layered configuration: built-in defaults,
// then a user config file, then a project config file, then environment
// variables, then explicit flag overrides — each layer replacing only the
// keys it sets.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// General holds pipeline-wide policy.
type General struct {
	FailOnWarn        bool `mapstructure:"fail_on_warn"`
	WallClockBudgetMS int  `mapstructure:"wall_clock_budget_ms"`
}

// Packs controls which built-in packs participate in evaluation.
type Packs struct {
	Enabled                 []string `mapstructure:"enabled"` // empty means all
	KeywordPrefilterEnabled bool     `mapstructure:"keyword_prefilter_enabled"`
}

// Heredoc controls the recursive heredoc/inline-code sub-evaluator.
type Heredoc struct {
	Enabled      bool `mapstructure:"enabled"`
	MaxBodyBytes int  `mapstructure:"max_body_bytes"`
	MaxDepth     int  `mapstructure:"max_depth"`
}

// Allowlist names the three allowlist file layers, in precedence order.
type Allowlist struct {
	ProjectPath string `mapstructure:"project_path"`
	UserPath    string `mapstructure:"user_path"`
	GlobalPath  string `mapstructure:"global_path"`
}

// PendingExceptions controls the pending-exceptions store.
type PendingExceptions struct {
	Enabled   bool   `mapstructure:"enabled"`
	Path      string `mapstructure:"path"`
	TTLHours  int    `mapstructure:"ttl_hours"`
	SingleUse bool   `mapstructure:"single_use"`
}

// Redaction controls how commands are redacted before being written to disk.
type Redaction struct {
	Enabled        bool   `mapstructure:"enabled"`
	Mode           string `mapstructure:"mode"` // "off", "arguments", "full"
	MaxArgumentLen int    `mapstructure:"max_argument_len"`
}

// History controls the out-of-core-scope command-history writer.
type History struct {
	Enabled        bool   `mapstructure:"enabled"`
	DatabasePath   string `mapstructure:"database_path"`
	RetentionDays  int    `mapstructure:"retention_days"`
}

// Notifications controls outbound Deny/Warn notifications.
type Notifications struct {
	WebhookURL      string `mapstructure:"webhook_url"`
	AgentMailEnabled bool  `mapstructure:"agent_mail_enabled"`
	AgentMailThread  string `mapstructure:"agent_mail_thread"`
}

// Output controls default CLI rendering.
type Output struct {
	Format    string `mapstructure:"format"`
	ShowStats bool   `mapstructure:"show_stats"`
}

// Config is the fully-resolved configuration for a dcg invocation.
type Config struct {
	General           General           `mapstructure:"general"`
	Packs             Packs             `mapstructure:"packs"`
	Heredoc           Heredoc           `mapstructure:"heredoc"`
	Allowlist         Allowlist         `mapstructure:"allowlist"`
	PendingExceptions PendingExceptions `mapstructure:"pending_exceptions"`
	Redaction         Redaction         `mapstructure:"redaction"`
	History           History           `mapstructure:"history"`
	Notifications     Notifications     `mapstructure:"notifications"`
	Output            Output            `mapstructure:"output"`
}

// DefaultConfig returns dcg's built-in defaults, matching internal/evaluator's
// DefaultConfig and internal/pending's documented defaults.
func DefaultConfig() Config {
	return Config{
		General: General{
			FailOnWarn:        false,
			WallClockBudgetMS: 250,
		},
		Packs: Packs{
			Enabled:                 nil,
			KeywordPrefilterEnabled: true,
		},
		Heredoc: Heredoc{
			Enabled:      true,
			MaxBodyBytes: 65536,
			MaxDepth:     4,
		},
		Allowlist: Allowlist{
			ProjectPath: ".dcg/allowlist.toml",
			UserPath:    "~/.dcg/allowlist.toml",
			GlobalPath:  "",
		},
		PendingExceptions: PendingExceptions{
			Enabled:   true,
			Path:      "",
			TTLHours:  24,
			SingleUse: true,
		},
		Redaction: Redaction{
			Enabled:        true,
			Mode:           "arguments",
			MaxArgumentLen: 64,
		},
		History: History{
			Enabled:       true,
			DatabasePath:  "",
			RetentionDays: 90,
		},
		Notifications: Notifications{},
		Output: Output{
			Format:    "text",
			ShowStats: false,
		},
	}
}

// ErrConfigInvalid is wrapped by Validate's returned error.
var ErrConfigInvalid = errors.New("config validation failed")

// Validate rejects out-of-range or nonsensical configuration values.
func Validate(cfg Config) error {
	var problems []string

	if cfg.General.WallClockBudgetMS <= 0 {
		problems = append(problems, "general.wall_clock_budget_ms must be positive")
	}
	if cfg.Heredoc.MaxBodyBytes <= 0 {
		problems = append(problems, "heredoc.max_body_bytes must be positive")
	}
	if cfg.Heredoc.MaxDepth <= 0 {
		problems = append(problems, "heredoc.max_depth must be positive")
	}
	if cfg.PendingExceptions.TTLHours <= 0 {
		problems = append(problems, "pending_exceptions.ttl_hours must be positive")
	}
	switch cfg.Redaction.Mode {
	case "off", "arguments", "full":
	default:
		problems = append(problems, "redaction.mode must be one of off, arguments, full")
	}
	if cfg.Redaction.MaxArgumentLen < 0 {
		problems = append(problems, "redaction.max_argument_len must not be negative")
	}
	if cfg.History.RetentionDays < 0 {
		problems = append(problems, "history.retention_days must not be negative")
	}
	switch cfg.Output.Format {
	case "text", "json", "yaml":
	default:
		problems = append(problems, "output.format must be one of text, json, yaml")
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrConfigInvalid, strings.Join(problems, "; "))
}

// LoadOptions parameterizes Load.
type LoadOptions struct {
	ProjectDir      string // defaults to the current working directory when empty
	UserConfigPath  string // override for testing; defaults to ~/.dcg/config.toml
	ProjectConfigOverride string // override for testing; defaults to <ProjectDir>/.dcg/config.toml
	FlagOverrides   map[string]any
}

// ConfigPaths returns the (user, project) config file paths for a project
// directory, honoring a project-path override.
func ConfigPaths(projectDir, projectOverride string) (userPath, projPath string) {
	home, _ := os.UserHomeDir()
	userPath = filepath.Join(home, ".dcg", "config.toml")
	projPath = projectConfigPath(projectDir, projectOverride)
	return userPath, projPath
}

func projectConfigPath(projectDir, override string) string {
	if override != "" {
		return override
	}
	if projectDir == "" {
		return filepath.Join(".dcg", "config.toml")
	}
	return filepath.Join(projectDir, ".dcg", "config.toml")
}

func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("general.fail_on_warn", def.General.FailOnWarn)
	v.SetDefault("general.wall_clock_budget_ms", def.General.WallClockBudgetMS)
	v.SetDefault("packs.enabled", def.Packs.Enabled)
	v.SetDefault("packs.keyword_prefilter_enabled", def.Packs.KeywordPrefilterEnabled)
	v.SetDefault("heredoc.enabled", def.Heredoc.Enabled)
	v.SetDefault("heredoc.max_body_bytes", def.Heredoc.MaxBodyBytes)
	v.SetDefault("heredoc.max_depth", def.Heredoc.MaxDepth)
	v.SetDefault("allowlist.project_path", def.Allowlist.ProjectPath)
	v.SetDefault("allowlist.user_path", def.Allowlist.UserPath)
	v.SetDefault("allowlist.global_path", def.Allowlist.GlobalPath)
	v.SetDefault("pending_exceptions.enabled", def.PendingExceptions.Enabled)
	v.SetDefault("pending_exceptions.path", def.PendingExceptions.Path)
	v.SetDefault("pending_exceptions.ttl_hours", def.PendingExceptions.TTLHours)
	v.SetDefault("pending_exceptions.single_use", def.PendingExceptions.SingleUse)
	v.SetDefault("redaction.enabled", def.Redaction.Enabled)
	v.SetDefault("redaction.mode", def.Redaction.Mode)
	v.SetDefault("redaction.max_argument_len", def.Redaction.MaxArgumentLen)
	v.SetDefault("history.enabled", def.History.Enabled)
	v.SetDefault("history.database_path", def.History.DatabasePath)
	v.SetDefault("history.retention_days", def.History.RetentionDays)
	v.SetDefault("notifications.webhook_url", def.Notifications.WebhookURL)
	v.SetDefault("notifications.agent_mail_enabled", def.Notifications.AgentMailEnabled)
	v.SetDefault("notifications.agent_mail_thread", def.Notifications.AgentMailThread)
	v.SetDefault("output.format", def.Output.Format)
	v.SetDefault("output.show_stats", def.Output.ShowStats)
}

// mergeConfigFile merges a TOML file into v if it exists. An empty path is a
// no-op; a missing file is a no-op; a directory or unparsable file is an
// error.
func mergeConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat config %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", path)
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("merge config %s: %w", path, err)
	}
	return nil
}

// Load resolves the layered configuration: defaults, user file, project
// file, DCG_* environment variables, then explicit flag overrides.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()
	setDefaults(v)

	projectDir := opts.ProjectDir
	if projectDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			projectDir = cwd
		}
	}

	userPath := opts.UserConfigPath
	if userPath == "" {
		home, _ := os.UserHomeDir()
		userPath = filepath.Join(home, ".dcg", "config.toml")
	}
	if err := mergeConfigFile(v, userPath); err != nil {
		return Config{}, err
	}

	projPath := projectConfigPath(projectDir, opts.ProjectConfigOverride)
	if err := mergeConfigFile(v, projPath); err != nil {
		return Config{}, err
	}

	v.SetEnvPrefix("DCG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, val := range opts.FlagOverrides {
		v.Set(key, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type valueKind int

const (
	kindInt valueKind = iota
	kindBool
	kindString
	kindStringSlice
)

var keyKinds = map[string]valueKind{
	"general.fail_on_warn":                  kindBool,
	"general.wall_clock_budget_ms":          kindInt,
	"packs.enabled":                         kindStringSlice,
	"packs.keyword_prefilter_enabled":       kindBool,
	"heredoc.enabled":                       kindBool,
	"heredoc.max_body_bytes":                kindInt,
	"heredoc.max_depth":                     kindInt,
	"allowlist.project_path":                kindString,
	"allowlist.user_path":                   kindString,
	"allowlist.global_path":                 kindString,
	"pending_exceptions.enabled":            kindBool,
	"pending_exceptions.path":               kindString,
	"pending_exceptions.ttl_hours":          kindInt,
	"pending_exceptions.single_use":         kindBool,
	"redaction.enabled":                     kindBool,
	"redaction.mode":                        kindString,
	"redaction.max_argument_len":            kindInt,
	"history.enabled":                       kindBool,
	"history.database_path":                 kindString,
	"history.retention_days":                kindInt,
	"notifications.webhook_url":             kindString,
	"notifications.agent_mail_enabled":      kindBool,
	"notifications.agent_mail_thread":       kindString,
	"output.format":                         kindString,
	"output.show_stats":                     kindBool,
}

// ParseValue parses a raw CLI string into the Go value appropriate for key,
// for `dcg config set <key> <value>`.
func ParseValue(key, raw string) (any, error) {
	kind, ok := keyKinds[key]
	if !ok {
		return nil, fmt.Errorf("unsupported config key: %s", key)
	}
	return parseValueByKind(raw, kind)
}

func parseValueByKind(raw string, kind valueKind) (any, error) {
	switch kind {
	case kindInt:
		return strconv.Atoi(raw)
	case kindBool:
		return strconv.ParseBool(raw)
	case kindString:
		return raw, nil
	case kindStringSlice:
		parts := strings.Split(raw, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value kind: %d", kind)
	}
}

// GetValue reads a dotted key out of a resolved Config, for `dcg config get`.
func GetValue(cfg Config, key string) (any, bool) {
	switch key {
	case "general":
		return cfg.General, true
	case "general.fail_on_warn":
		return cfg.General.FailOnWarn, true
	case "general.wall_clock_budget_ms":
		return cfg.General.WallClockBudgetMS, true
	case "packs":
		return cfg.Packs, true
	case "packs.enabled":
		return cfg.Packs.Enabled, true
	case "packs.keyword_prefilter_enabled":
		return cfg.Packs.KeywordPrefilterEnabled, true
	case "heredoc":
		return cfg.Heredoc, true
	case "heredoc.enabled":
		return cfg.Heredoc.Enabled, true
	case "heredoc.max_body_bytes":
		return cfg.Heredoc.MaxBodyBytes, true
	case "heredoc.max_depth":
		return cfg.Heredoc.MaxDepth, true
	case "allowlist":
		return cfg.Allowlist, true
	case "allowlist.project_path":
		return cfg.Allowlist.ProjectPath, true
	case "allowlist.user_path":
		return cfg.Allowlist.UserPath, true
	case "allowlist.global_path":
		return cfg.Allowlist.GlobalPath, true
	case "pending_exceptions":
		return cfg.PendingExceptions, true
	case "pending_exceptions.enabled":
		return cfg.PendingExceptions.Enabled, true
	case "pending_exceptions.path":
		return cfg.PendingExceptions.Path, true
	case "pending_exceptions.ttl_hours":
		return cfg.PendingExceptions.TTLHours, true
	case "pending_exceptions.single_use":
		return cfg.PendingExceptions.SingleUse, true
	case "redaction":
		return cfg.Redaction, true
	case "redaction.enabled":
		return cfg.Redaction.Enabled, true
	case "redaction.mode":
		return cfg.Redaction.Mode, true
	case "redaction.max_argument_len":
		return cfg.Redaction.MaxArgumentLen, true
	case "history":
		return cfg.History, true
	case "history.enabled":
		return cfg.History.Enabled, true
	case "history.database_path":
		return cfg.History.DatabasePath, true
	case "history.retention_days":
		return cfg.History.RetentionDays, true
	case "notifications":
		return cfg.Notifications, true
	case "notifications.webhook_url":
		return cfg.Notifications.WebhookURL, true
	case "notifications.agent_mail_enabled":
		return cfg.Notifications.AgentMailEnabled, true
	case "notifications.agent_mail_thread":
		return cfg.Notifications.AgentMailThread, true
	case "output":
		return cfg.Output, true
	case "output.format":
		return cfg.Output.Format, true
	case "output.show_stats":
		return cfg.Output.ShowStats, true
	default:
		return nil, false
	}
}

// WriteValue persists a single key=value pair into the TOML file at path,
// creating or merging with any existing file.
func WriteValue(path, key string, value any) error {
	if path == "" {
		return errors.New("write config: empty path")
	}

	tree := map[string]any{}
	if data, err := os.ReadFile(path); err == nil {
		if _, err := toml.Decode(string(data), &tree); err != nil {
			return fmt.Errorf("decode config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	parts := strings.Split(key, ".")
	cur := tree
	for i, part := range parts {
		if i == len(parts)-1 {
			cur[part] = value
			break
		}
		next, ok := cur[part]
		if !ok {
			child := map[string]any{}
			cur[part] = child
			cur = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("config key %s: %q is not a table", key, part)
		}
		cur = child
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir for config %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config %s: %w", path, err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(tree); err != nil {
		return fmt.Errorf("encode config %s: %w", path, err)
	}
	return nil
}
