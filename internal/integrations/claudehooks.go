package integrations

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ClaudeHookEntry is one entry under the top-level "hooks" key of Claude
// Code's hooks.json.
type ClaudeHookEntry struct {
	Command string `json:"command"`
}

// ClaudeHooksConfig mirrors the shape Claude Code reads from
// .claude/hooks.json. Unknown top-level keys are not modeled here; merging
// against an existing file goes through a generic map so they survive.
type ClaudeHooksConfig struct {
	Hooks map[string]ClaudeHookEntry `json:"hooks"`
}

// DefaultClaudeHooks returns the hooks config dcg installs: a pre_bash hook
// that pipes the pending tool call into "dcg hook" and lets its exit code
// decide whether the command runs.
func DefaultClaudeHooks() ClaudeHooksConfig {
	return ClaudeHooksConfig{
		Hooks: map[string]ClaudeHookEntry{
			"pre_bash": {Command: "dcg hook"},
		},
	}
}

// MarshalClaudeHooks renders hooks as indented JSON suitable for
// .claude/hooks.json.
func MarshalClaudeHooks(hooks ClaudeHooksConfig) ([]byte, error) {
	return json.MarshalIndent(hooks, "", "  ")
}

// InstallClaudeHooks writes dcg's pre_bash hook into <projectDir>/.claude/hooks.json.
// With merge=false, any existing file is overwritten with a fresh config and
// merged is reported false. With merge=true, an existing file's top-level
// keys and other hook entries are preserved and only "pre_bash" is set or
// replaced; merged is reported true whenever an existing file was folded in.
func InstallClaudeHooks(projectDir string, merge bool) (path string, merged bool, err error) {
	claudeDir := filepath.Join(projectDir, ".claude")
	path = filepath.Join(claudeDir, "hooks.json")

	if merge {
		if data, readErr := os.ReadFile(path); readErr == nil {
			var doc map[string]any
			if jsonErr := json.Unmarshal(data, &doc); jsonErr != nil {
				return "", false, fmt.Errorf("parsing existing hooks.json: %w", jsonErr)
			}
			if doc == nil {
				doc = map[string]any{}
			}
			hooksRaw, ok := doc["hooks"].(map[string]any)
			if !ok {
				hooksRaw = map[string]any{}
			}
			hooksRaw["pre_bash"] = map[string]any{"command": "dcg hook"}
			doc["hooks"] = hooksRaw

			out, marshalErr := json.MarshalIndent(doc, "", "  ")
			if marshalErr != nil {
				return "", false, fmt.Errorf("marshaling merged hooks.json: %w", marshalErr)
			}
			if err := os.MkdirAll(claudeDir, 0o750); err != nil {
				return "", false, fmt.Errorf("creating .claude directory: %w", err)
			}
			if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
				return "", false, fmt.Errorf("writing merged hooks.json: %w", err)
			}
			return path, true, nil
		} else if !os.IsNotExist(readErr) {
			return "", false, fmt.Errorf("reading existing hooks.json: %w", readErr)
		}
	}

	if err := os.MkdirAll(claudeDir, 0o750); err != nil {
		return "", false, fmt.Errorf("creating .claude directory: %w", err)
	}
	out, err := MarshalClaudeHooks(DefaultClaudeHooks())
	if err != nil {
		return "", false, fmt.Errorf("marshaling hooks.json: %w", err)
	}
	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		return "", false, fmt.Errorf("writing hooks.json: %w", err)
	}
	return path, false, nil
}
