// Package packtest provides assertion helpers for exercising a single Pack
// in isolation, ported from the pattern-match test harness the core
// specification's predecessor carried.
package packtest

import (
	"testing"
	"time"

	ctx "github.com/Dicklesworthstone/dcg/internal/context"
	"github.com/Dicklesworthstone/dcg/internal/normalize"
	"github.com/Dicklesworthstone/dcg/internal/packs"
)

// PatternMatchTimeout is the per-match budget the test harness enforces;
// pathological backtracking in a shipped pack is a bug, not a runtime
// condition to tolerate.
const PatternMatchTimeout = 5 * time.Millisecond

// Sanitized normalizes and sanitizes cmd the way the evaluator would before
// handing it to a pack.
func Sanitized(cmd string) string {
	norm, err := normalize.Normalize(cmd)
	if err != nil {
		return cmd
	}
	cls := ctx.Classify(norm.Normalized)
	return ctx.Sanitize(cls)
}

// AssertBlocks asserts that p denies cmd, regardless of which pattern fired.
func AssertBlocks(t *testing.T, p *packs.Pack, cmd, wantReasonContains string) {
	t.Helper()
	res := p.Check(Sanitized(cmd))
	if res == nil {
		t.Fatalf("%s: expected block for %q, got none", p.ID, cmd)
	}
	if wantReasonContains != "" && !contains(res.Reason, wantReasonContains) {
		t.Fatalf("%s: reason %q does not contain %q", p.ID, res.Reason, wantReasonContains)
	}
}

// AssertBlocksWithPattern asserts a block and that the matched pattern name
// equals want.
func AssertBlocksWithPattern(t *testing.T, p *packs.Pack, cmd, want string) {
	t.Helper()
	res := p.Check(Sanitized(cmd))
	if res == nil {
		t.Fatalf("%s: expected block for %q, got none", p.ID, cmd)
	}
	if res.PatternName != want {
		t.Fatalf("%s: pattern name %q != %q", p.ID, res.PatternName, want)
	}
}

// AssertBlocksWithSeverity asserts a block and that its severity equals want.
func AssertBlocksWithSeverity(t *testing.T, p *packs.Pack, cmd string, want packs.Severity) {
	t.Helper()
	res := p.Check(Sanitized(cmd))
	if res == nil {
		t.Fatalf("%s: expected block for %q, got none", p.ID, cmd)
	}
	if res.Severity != want {
		t.Fatalf("%s: severity %v != %v", p.ID, res.Severity, want)
	}
}

// AssertAllows asserts that p does not deny cmd.
func AssertAllows(t *testing.T, p *packs.Pack, cmd string) {
	t.Helper()
	if res := p.Check(Sanitized(cmd)); res != nil {
		t.Fatalf("%s: expected allow for %q, got block: %+v", p.ID, cmd, res)
	}
}

// AssertSafePatternMatches asserts that a safe pattern fires for cmd.
func AssertSafePatternMatches(t *testing.T, p *packs.Pack, cmd string) {
	t.Helper()
	if !p.MatchesSafe(Sanitized(cmd)) {
		t.Fatalf("%s: expected a safe pattern to match %q", p.ID, cmd)
	}
}

// AssertNoMatch asserts cmd trips neither a safe nor a destructive pattern
// (it simply falls outside the pack's concern).
func AssertNoMatch(t *testing.T, p *packs.Pack, cmd string) {
	t.Helper()
	s := Sanitized(cmd)
	if p.MatchesSafe(s) {
		t.Fatalf("%s: expected no safe match for %q", p.ID, cmd)
	}
	if res := p.MatchesDestructive(s); res != nil {
		t.Fatalf("%s: expected no destructive match for %q, got %+v", p.ID, cmd, res)
	}
}

// TestBatchBlocks runs AssertBlocks over every command in cmds.
func TestBatchBlocks(t *testing.T, p *packs.Pack, cmds []string) {
	t.Helper()
	for _, cmd := range cmds {
		AssertBlocks(t, p, cmd, "")
	}
}

// TestBatchAllows runs AssertAllows over every command in cmds.
func TestBatchAllows(t *testing.T, p *packs.Pack, cmds []string) {
	t.Helper()
	for _, cmd := range cmds {
		AssertAllows(t, p, cmd)
	}
}

// AssertMatchesWithinBudget fails if checking cmd against p exceeds
// PatternMatchTimeout, guarding against catastrophic regex backtracking.
func AssertMatchesWithinBudget(t *testing.T, p *packs.Pack, cmd string) {
	t.Helper()
	start := time.Now()
	p.Check(Sanitized(cmd))
	if elapsed := time.Since(start); elapsed > PatternMatchTimeout {
		t.Fatalf("%s: match against %q took %v, exceeds budget %v", p.ID, cmd, elapsed, PatternMatchTimeout)
	}
}

// AssertPatternsCompile is a no-op by construction: packs.New panics at
// build time on a bad regex. It exists so tests can document the intent.
func AssertPatternsCompile(t *testing.T, p *packs.Pack) {
	t.Helper()
	if p == nil {
		t.Fatal("nil pack")
	}
}

// AssertAllPatternsHaveReasons is likewise enforced at construction time by
// packs.New; kept as an explicit, readable assertion in pack tests.
func AssertAllPatternsHaveReasons(t *testing.T, p *packs.Pack) {
	t.Helper()
	for _, pat := range p.DestructivePatterns {
		if pat.Reason == "" {
			t.Fatalf("%s: pattern %q has empty reason", p.ID, pat.Name)
		}
	}
}

// AssertUniquePatternNames fails if any named pattern in p (safe or
// destructive — they share one namespace for allowlist keys) repeats.
func AssertUniquePatternNames(t *testing.T, p *packs.Pack) {
	t.Helper()
	seen := map[string]bool{}
	for _, pat := range append(append([]packs.Pattern{}, p.SafePatterns...), p.DestructivePatterns...) {
		if pat.Name == "" {
			continue
		}
		if seen[pat.Name] {
			t.Fatalf("%s: duplicate pattern name %q", p.ID, pat.Name)
		}
		seen[pat.Name] = true
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return sub == ""
}
