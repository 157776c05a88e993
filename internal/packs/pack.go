// Package packs defines the pack registry: named catalogs of keywords, safe
// patterns, and destructive patterns targeting a specific tool family.
package packs

import (
	"fmt"
	"regexp"
	"sort"
)

// Severity ranks a destructive pattern's consequence. It is informational
// only — it is never used to arbitrate between competing matches.
type Severity int

const (
	Low Severity = iota
	Medium
	High
	Critical
)

func (s Severity) String() string {
	switch s {
	case Critical:
		return "critical"
	case High:
		return "high"
	case Medium:
		return "medium"
	default:
		return "low"
	}
}

// Pattern is a single named regex within a pack, with a reason shown to the
// user when it causes a Deny and a severity used only for display.
type Pattern struct {
	Name               string
	Regex              string
	Compiled           *regexp.Regexp
	Reason             string
	Severity           Severity
	AppliesToSanitized bool
}

// MatchResult is produced by Pack.Check when a destructive pattern matches.
type MatchResult struct {
	PackID      string
	PatternName string
	Reason      string
	Severity    Severity
}

// Pack is data, not behavior: keywords used only for pre-filtering, and two
// ordered pattern lists. Packs are immutable once built by New.
type Pack struct {
	ID                   string
	Keywords             []string
	SafePatterns         []Pattern
	DestructivePatterns  []Pattern
}

var segmentSeparator = regexp.MustCompile(`;|&&|\|\||\||\n`)

// New compiles every pattern in the pack and panics on a bad builtin regex —
// a compile error in a shipped pack is a programming error, not a runtime
// condition, matching the teacher's own compilePatterns behavior.
func New(id string, keywords []string, safe, destructive []Pattern) *Pack {
	p := &Pack{ID: id, Keywords: keywords}
	p.SafePatterns = compileAll(id, safe)
	p.DestructivePatterns = compileAll(id, destructive)

	seen := map[string]bool{}
	for _, pat := range append(append([]Pattern{}, p.SafePatterns...), p.DestructivePatterns...) {
		if pat.Name == "" {
			continue
		}
		if seen[pat.Name] {
			panic(fmt.Sprintf("pack %s: duplicate pattern name %q", id, pat.Name))
		}
		seen[pat.Name] = true
	}
	for _, pat := range p.DestructivePatterns {
		if pat.Reason == "" {
			panic(fmt.Sprintf("pack %s: destructive pattern %q has empty reason", id, pat.Name))
		}
	}
	return p
}

func compileAll(id string, pats []Pattern) []Pattern {
	out := make([]Pattern, len(pats))
	for i, pat := range pats {
		re, err := regexp.Compile(pat.Regex)
		if err != nil {
			panic(fmt.Sprintf("pack %s: pattern %q: %v", id, pat.Regex, err))
		}
		pat.Compiled = re
		out[i] = pat
	}
	return out
}

// MightMatch is the keyword pre-filter for this single pack: true iff any of
// the pack's keywords occurs as a substring of sanitized.
func (p *Pack) MightMatch(sanitized string) bool {
	for _, kw := range p.Keywords {
		if indexSubstring(sanitized, kw) {
			return true
		}
	}
	return false
}

func indexSubstring(s, sub string) bool {
	if sub == "" {
		return false
	}
	return indexOf(s, sub) >= 0
}

// MatchesSafe reports whether a safe pattern matches, anchored to the start
// of the sanitized command or to the character immediately following a
// segment separator (`;`, `&&`, `||`, `|`, newline).
func (p *Pack) MatchesSafe(sanitized string) bool {
	boundaries := segmentBoundaries(sanitized)
	for _, pat := range p.SafePatterns {
		for _, loc := range pat.Compiled.FindAllStringIndex(sanitized, -1) {
			if boundaries[loc[0]] {
				return true
			}
		}
	}
	return false
}

// MatchesDestructive iterates destructive patterns in declared order and
// returns the first match anchored to the start of the sanitized command or
// to the character immediately following a segment separator (`;`, `&&`,
// `||`, `|`, newline) — the same boundary rule MatchesSafe applies, so a
// destructive verb embedded inside an unrelated command's argument (e.g.
// `echo git reset --hard`, where `git reset --hard` is just a string being
// echoed, not executed) cannot fire a pack on substring alone.
func (p *Pack) MatchesDestructive(sanitized string) *MatchResult {
	boundaries := segmentBoundaries(sanitized)
	for _, pat := range p.DestructivePatterns {
		for _, loc := range pat.Compiled.FindAllStringIndex(sanitized, -1) {
			if boundaries[loc[0]] {
				return &MatchResult{
					PackID:      p.ID,
					PatternName: pat.Name,
					Reason:      pat.Reason,
					Severity:    pat.Severity,
				}
			}
		}
	}
	return nil
}

// Check runs the pack's safe-precedence-then-destructive decision for a
// sanitized command, returning nil when no destructive pattern fires or a
// safe pattern suppressed the pack for this evaluation.
func (p *Pack) Check(sanitized string) *MatchResult {
	if p.MatchesSafe(sanitized) {
		return nil
	}
	return p.MatchesDestructive(sanitized)
}

// segmentBoundaries returns the set of byte offsets that begin a logical
// command segment: offset 0, and the offset immediately after each
// separator token.
func segmentBoundaries(s string) map[int]bool {
	b := map[int]bool{0: true}
	for _, loc := range segmentSeparator.FindAllStringIndex(s, -1) {
		end := loc[1]
		for end < len(s) && (s[end] == ' ' || s[end] == '\t') {
			end++
		}
		b[end] = true
	}
	return b
}

func indexOf(s, sub string) int {
	n, m := len(s), len(sub)
	if m == 0 || m > n {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == sub {
			return i
		}
	}
	return -1
}

// SortedIDs returns pack ids in deterministic lexical order, used both by
// the registry's iteration order and as the tie-break when multiple packs
// deny the same command.
func SortedIDs(packsByID map[string]*Pack) []string {
	ids := make([]string, 0, len(packsByID))
	for id := range packsByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
