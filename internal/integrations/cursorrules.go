package integrations

import "strings"

// Mode controls how ApplyCursorRules merges the dcg section into an existing
// .cursorrules file.
type Mode int

const (
	// CursorRulesAppend adds the section to the end of the file, replacing an
	// existing section in place if one is already present.
	CursorRulesAppend Mode = iota
	// CursorRulesReplace behaves like CursorRulesAppend: an existing section
	// is replaced in place, otherwise the section is appended.
	CursorRulesReplace
)

const (
	cursorRulesStartMarker = "<!-- dcg:cursor-rules:start -->"
	cursorRulesEndMarker   = "<!-- dcg:cursor-rules:end -->"
)

// CursorRulesSection renders the block of guidance dcg installs into a
// project's .cursorrules file so that an agent working in Cursor knows to
// route shell commands through the guard before running them.
func CursorRulesSection() string {
	var b strings.Builder
	b.WriteString(cursorRulesStartMarker)
	b.WriteString("\n")
	b.WriteString("# Destructive command guard\n\n")
	b.WriteString("This project runs shell commands through dcg before execution. Before\n")
	b.WriteString("running anything destructive (deleting files, resetting git history,\n")
	b.WriteString("dropping databases, force-pushing, modifying cloud or kubernetes\n")
	b.WriteString("resources), check it first:\n\n")
	b.WriteString("- `dcg explain \"<command>\"` — see the full pipeline trace (normalize,\n")
	b.WriteString("  classify, pack match, allowlist) behind a verdict before running it.\n")
	b.WriteString("- `dcg scan \"<command>\"` — evaluate a single command and get a verdict.\n")
	b.WriteString("- `dcg pack show <pack-id>` — inspect the patterns a pack matches on.\n")
	b.WriteString("- `dcg pending list` — see commands that were denied and are waiting on\n")
	b.WriteString("  human approval.\n\n")
	b.WriteString("If dcg denies a command that is genuinely needed, do not bypass it by\n")
	b.WriteString("rephrasing the command to dodge the pattern. Ask the user to either run it\n")
	b.WriteString("themselves or approve the pending exception dcg records for it.\n")
	b.WriteString(cursorRulesEndMarker)
	b.WriteString("\n")
	return b.String()
}

// ApplyCursorRules merges the dcg section into existing .cursorrules content.
// If a dcg section (bounded by the start/end markers) is already present, it
// is replaced in place regardless of mode; otherwise the section is appended.
// changed reports whether the returned content differs from existing.
func ApplyCursorRules(existing string, mode Mode) (out string, changed bool) {
	section := CursorRulesSection()

	start := strings.Index(existing, cursorRulesStartMarker)
	end := strings.Index(existing, cursorRulesEndMarker)
	if start != -1 && end != -1 && end > start {
		end += len(cursorRulesEndMarker)
		replaced := existing[:start] + strings.TrimRight(section, "\n") + existing[end:]
		return replaced, replaced != existing
	}

	if mode == CursorRulesReplace || existing == "" {
		if existing == "" {
			return section, true
		}
		trimmed := strings.TrimRight(existing, "\n")
		return trimmed + "\n\n" + section, true
	}

	trimmed := strings.TrimRight(existing, "\n")
	return trimmed + "\n\n" + section, true
}
