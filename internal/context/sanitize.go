package context

import "strings"

// Sanitize produces the string against which pack regexes match: StringLit
// and Comment spans are masked byte-for-byte with 'X', preserving length and
// therefore regex positional anchors. Code, InlineCode, Argument, Flag, and
// Binary spans pass through unchanged. Heredoc bodies are left untouched
// here; the sub-evaluator re-classifies and re-sanitizes them independently.
func Sanitize(cls Classification) string {
	cmd := cls.Command
	var b strings.Builder
	b.Grow(len(cmd))

	for _, s := range cls.Spans {
		switch s.Kind {
		case StringLit, Comment:
			b.WriteString(strings.Repeat("X", s.End-s.Start))
		default:
			b.WriteString(cmd[s.Start:s.End])
		}
	}
	return b.String()
}
