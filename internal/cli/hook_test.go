package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/dcg/internal/history"
	"github.com/Dicklesworthstone/dcg/internal/hookio"
)

func resetHookFlags(t *testing.T, project string) {
	t.Helper()
	flagProject = project
	flagConfig = ""
	flagHistory = filepath.Join(project, "history.db")
	flagOutput = "text"
	flagJSON = false
	flagVerbose = false
	t.Cleanup(func() {
		flagProject = ""
		flagHistory = ""
	})
}

func TestRunHook_AllowsSafeCommand(t *testing.T) {
	project := t.TempDir()
	resetHookFlags(t, project)

	stdin := strings.NewReader(`{"tool_name":"Bash","tool_input":{"command":"ls -la"}}`)
	var stdout, stderr bytes.Buffer

	code := runHook(stdin, &stdout, &stderr)
	if code != hookio.ExitAllow {
		t.Fatalf("expected exit %d, got %d (stderr: %s)", hookio.ExitAllow, code, stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected empty stdout on allow, got %q", stdout.String())
	}
}

func TestRunHook_DeniesDestructiveCommand(t *testing.T) {
	project := t.TempDir()
	resetHookFlags(t, project)

	stdin := strings.NewReader(`{"tool_name":"Bash","tool_input":{"command":"rm -rf /"}}`)
	var stdout, stderr bytes.Buffer

	code := runHook(stdin, &stdout, &stderr)
	if code != hookio.ExitDenied {
		t.Fatalf("expected exit %d, got %d (stderr: %s)", hookio.ExitDenied, code, stderr.String())
	}

	var out hookio.Output
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("parsing hook output: %v (stdout: %s)", err, stdout.String())
	}
	if out.PermissionDecision != "deny" {
		t.Fatalf("expected permissionDecision=deny, got %q", out.PermissionDecision)
	}
	if out.PackID == "" {
		t.Fatalf("expected pack_id to be set")
	}
}

func TestRunHook_EmptyCommandAllows(t *testing.T) {
	project := t.TempDir()
	resetHookFlags(t, project)

	stdin := strings.NewReader(`{"tool_name":"Bash","tool_input":{"command":""}}`)
	var stdout, stderr bytes.Buffer

	if code := runHook(stdin, &stdout, &stderr); code != hookio.ExitAllow {
		t.Fatalf("expected exit %d, got %d", hookio.ExitAllow, code)
	}
}

func TestRunHook_InvalidJSONParseError(t *testing.T) {
	project := t.TempDir()
	resetHookFlags(t, project)

	stdin := strings.NewReader("not json")
	var stdout, stderr bytes.Buffer

	if code := runHook(stdin, &stdout, &stderr); code != hookio.ExitParseError {
		t.Fatalf("expected exit %d, got %d", hookio.ExitParseError, code)
	}
}

func TestRunHook_RecordsHistory(t *testing.T) {
	project := t.TempDir()
	resetHookFlags(t, project)

	stdin := strings.NewReader(`{"tool_name":"Bash","tool_input":{"command":"git push --force"}}`)
	var stdout, stderr bytes.Buffer

	runHook(stdin, &stdout, &stderr)

	lc, err := loadPipeline()
	if err != nil {
		t.Fatalf("loadPipeline: %v", err)
	}
	if !lc.Config.History.Enabled {
		t.Skip("history disabled by default config")
	}

	db, err := history.Open(flagHistory)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	defer db.Close()
	entries, err := db.ListRecent(project, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(entries) != 1 || entries[0].Command != "git push --force" {
		t.Fatalf("expected one history entry for the hook's command, got %+v", entries)
	}
}
