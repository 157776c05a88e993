package context

import (
	"strings"

	"github.com/mattn/go-shellwords"
)

// Interpreters is the set of binaries whose -c/-e -c argument is classified
// as InlineCode.
var Interpreters = map[string]bool{
	"bash": true, "sh": true, "zsh": true, "python": true, "python3": true,
	"perl": true, "ruby": true, "node": true,
}

// token is a whitespace-delimited lexical unit, possibly quoted.
type token struct {
	start, end   int
	quoted       bool
	unquotedText string
}

// reservedPayload marks the byte range of an interpreter -c/-e -c argument,
// located by a pre-scan before the main character-level classification
// loop runs. It must be located first because the main loop otherwise
// treats any quote character as opening a StringLit span — which would
// swallow the entire inline-code argument (including any nested quotes
// inside it, e.g. Python's own string literals) before inline-code
// detection ever got a chance to see it.
type reservedPayload struct {
	start, end           int // full token span, including quotes if any
	innerStart, innerEnd int // content span, quotes stripped
	quoted               bool
}

// Classify scans the normalized command into non-overlapping spans.
func Classify(cmd string) Classification {
	c := Classification{Command: cmd}
	spans := make([]Span, 0, 16)

	reserved := preScanInlineCode(cmd)
	reservedByStart := make(map[int]reservedPayload, len(reserved))
	for _, r := range reserved {
		reservedByStart[r.start] = r
	}

	i := 0
	n := len(cmd)
	lastBoundary := 0

	flush := func(end int, kind SpanKind) {
		if end <= lastBoundary {
			return
		}
		spans = append(spans, Span{Start: lastBoundary, End: end, Kind: kind})
		lastBoundary = end
	}

	atWordStart := func(pos int) bool {
		if pos == 0 {
			return true
		}
		prev := cmd[pos-1]
		return prev == ' ' || prev == '\t' || prev == '\n' || strings.ContainsRune(";&|", rune(prev))
	}

	for i < n {
		if r, ok := reservedByStart[i]; ok {
			flush(i, Code)
			if r.quoted {
				flush(r.innerStart, Flag)
			}
			flush(r.innerEnd, InlineCode)
			inlineSpan := spans[len(spans)-1]
			c.InlineCodes = append(c.InlineCodes, inlineSpan)
			if r.quoted {
				flush(r.end, Flag)
			}
			i = r.end
			continue
		}

		ch := cmd[i]

		switch {
		case ch == '#' && atWordStart(i):
			flush(i, Code)
			end := indexByteFrom(cmd, '\n', i)
			if end < 0 {
				end = n
			}
			flush(end, Comment)
			i = end
			continue

		case ch == '\'' || ch == '"':
			flush(i, Code)
			end, ok := findMatchingQuote(cmd, i)
			if !ok {
				c.Incomplete = true
				flush(n, Code)
				i = n
				continue
			}
			unquoted := cmd[i+1 : end]
			kind := StringLit
			if looksLikeCodeToken(unquoted) {
				kind = Code
			}
			flush(end+1, kind)
			i = end + 1
			continue

		case ch == '`':
			flush(i, Code)
			end := indexByteFrom(cmd, '`', i+1)
			if end < 0 {
				c.Incomplete = true
				flush(n, Code)
				i = n
				continue
			}
			flush(end+1, Code)
			i = end + 1
			continue

		case ch == '<' && i+1 < n && cmd[i+1] == '<':
			flush(i, Code)
			newPos, heredocSpan, delimSpan, ok := scanHeredoc(cmd, i)
			if !ok {
				i++
				continue
			}
			flush(delimSpan.End, HeredocDelim)
			if heredocSpan.Start > lastBoundary {
				flush(heredocSpan.Start, HeredocDelim)
			}
			if heredocSpan.End > heredocSpan.Start {
				spans = append(spans, Span{Start: heredocSpan.Start, End: heredocSpan.End, Kind: Heredoc})
				c.Heredocs = append(c.Heredocs, spans[len(spans)-1])
				lastBoundary = heredocSpan.End
			}
			if newPos > lastBoundary {
				flush(newPos, HeredocDelim)
			}
			i = newPos
			continue

		default:
			i++
		}
	}
	flush(n, Code)

	c.Spans = spans
	return c
}

func indexByteFrom(s string, b byte, from int) int {
	idx := strings.IndexByte(s[from:], b)
	if idx < 0 {
		return -1
	}
	return from + idx
}

// findMatchingQuote finds the index of the unescaped closing quote matching
// the quote character at cmd[open].
func findMatchingQuote(cmd string, open int) (int, bool) {
	q := cmd[open]
	i := open + 1
	for i < len(cmd) {
		if cmd[i] == '\\' && q == '"' && i+1 < len(cmd) {
			i += 2
			continue
		}
		if cmd[i] == q {
			return i, true
		}
		i++
	}
	return 0, false
}

// looksLikeCodeToken reports whether a quoted token's content looks like a
// bare identifier (subcommand/binary/flag) rather than free-text data, so
// that e.g. git "reset" --hard classifies "reset" as Code.
func looksLikeCodeToken(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.' || r == '/':
		default:
			return false
		}
	}
	return true
}

// scanHeredoc parses a `<<` or `<<-` operator starting at pos, returning the
// position just past the heredoc body, the heredoc body span, the delimiter
// token span (the `<<[-]DELIM` header), and whether parsing succeeded.
func scanHeredoc(cmd string, pos int) (next int, body Span, delim Span, ok bool) {
	headerStart := pos
	i := pos + 2
	stripTabs := false
	if i < len(cmd) && cmd[i] == '-' {
		stripTabs = true
		i++
	}
	for i < len(cmd) && (cmd[i] == ' ' || cmd[i] == '\t') {
		i++
	}
	var delimText string
	if i < len(cmd) && (cmd[i] == '"' || cmd[i] == '\'') {
		end, found := findMatchingQuote(cmd, i)
		if !found {
			return pos + 2, Span{}, Span{Start: headerStart, End: pos + 2}, false
		}
		delimText = cmd[i+1 : end]
		i = end + 1
	} else {
		start := i
		for i < len(cmd) && !strings.ContainsRune(" \t\n", rune(cmd[i])) {
			i++
		}
		delimText = cmd[start:i]
	}
	if delimText == "" {
		return pos + 2, Span{}, Span{Start: headerStart, End: i}, false
	}
	delim = Span{Start: headerStart, End: i, Kind: HeredocDelim}

	bodyStart := i
	if bodyStart < len(cmd) && cmd[bodyStart] == '\n' {
		bodyStart++
	} else {
		nl := indexByteFrom(cmd, '\n', bodyStart)
		if nl < 0 {
			return len(cmd), Span{Start: bodyStart, End: len(cmd)}, delim, true
		}
		bodyStart = nl + 1
	}

	lines := strings.Split(cmd[bodyStart:], "\n")
	offset := bodyStart
	for _, line := range lines {
		cmpLine := line
		if stripTabs {
			cmpLine = strings.TrimLeft(line, "\t")
		}
		if cmpLine == delimText {
			next := offset + len(line)
			if next < len(cmd) {
				next++ // step past the terminator line's newline
			}
			return next, Span{Start: bodyStart, End: offset}, delim, true
		}
		offset += len(line) + 1
	}
	return len(cmd), Span{Start: bodyStart, End: len(cmd)}, delim, true
}

func isFlagToken(s string) bool {
	return len(s) >= 2 && s[0] == '-'
}

// preScanInlineCode tokenizes cmd on whitespace (honoring one layer of
// quoting) looking for `<interpreter> <flags>* -c <payload>` sequences, and
// returns the payload token's byte range for each one found.
func preScanInlineCode(cmd string) []reservedPayload {
	toks := tokenize(cmd)
	var out []reservedPayload
	for j := 0; j < len(toks); j++ {
		if !Interpreters[toks[j].unquotedText] {
			continue
		}
		k := j + 1
		sawC := false
		for k < len(toks) && isFlagToken(toks[k].unquotedText) {
			if toks[k].unquotedText == "-c" {
				sawC = true
				k++
				break
			}
			k++
		}
		if !sawC || k >= len(toks) {
			continue
		}
		payload := toks[k]
		innerStart, innerEnd := payload.start, payload.end
		if payload.quoted {
			innerStart++
			innerEnd--
		}
		out = append(out, reservedPayload{
			start: payload.start, end: payload.end,
			innerStart: innerStart, innerEnd: innerEnd,
			quoted: payload.quoted,
		})
		j = k
	}
	return out
}

// tokenize splits cmd on whitespace, honoring a single layer of quoting,
// returning absolute byte offsets into cmd.
func tokenize(cmd string) []token {
	var toks []token
	i := 0
	n := len(cmd)
	for i < n {
		for i < n && (cmd[i] == ' ' || cmd[i] == '\t' || cmd[i] == '\n') {
			i++
		}
		if i >= n {
			break
		}
		start := i
		var quoted bool
		if cmd[i] == '"' || cmd[i] == '\'' {
			quoted = true
			end, ok := findMatchingQuote(cmd, i)
			if !ok {
				i = n
			} else {
				i = end + 1
			}
		} else {
			for i < n && cmd[i] != ' ' && cmd[i] != '\t' && cmd[i] != '\n' {
				i++
			}
		}
		raw := cmd[start:i]
		unquoted := raw
		if quoted && len(raw) >= 2 {
			unquoted = raw[1 : len(raw)-1]
		}
		toks = append(toks, token{start: start, end: i, quoted: quoted, unquotedText: unquoted})
	}
	return toks
}

// ArgvFallback best-effort tokenizes a body into argv form, used by the
// heredoc/inline sub-evaluator when deciding whether an extracted payload
// itself begins with an interpreter invocation.
func ArgvFallback(body string) ([]string, error) {
	parser := shellwords.NewParser()
	parser.ParseEnv = false
	parser.ParseBacktick = false
	return parser.Parse(body)
}
