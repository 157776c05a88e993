// Package evaluator composes normalize -> classify -> sanitize -> keyword
// pre-filter -> pack engine -> allowlist -> heredoc/inline sub-evaluation
// into a single decision, per the core evaluation pipeline.
package evaluator

import (
	stdctx "context"
	"time"

	"github.com/Dicklesworthstone/dcg/internal/allowlist"
	spanctx "github.com/Dicklesworthstone/dcg/internal/context"
	"github.com/Dicklesworthstone/dcg/internal/normalize"
	"github.com/Dicklesworthstone/dcg/internal/packs"
	"github.com/Dicklesworthstone/dcg/internal/pending"
)

// Verdict is the top-level outcome of an evaluation.
type Verdict int

const (
	Allow Verdict = iota
	Deny
	Warn
)

func (v Verdict) String() string {
	switch v {
	case Deny:
		return "deny"
	case Warn:
		return "warn"
	default:
		return "allow"
	}
}

// Step records one stage of the pipeline for the `explain` trace.
type Step struct {
	Name    string         `json:"name"`
	Outcome string         `json:"outcome"`
	Details map[string]any `json:"details,omitempty"`
}

// Decision is the externally-visible result of an evaluation.
type Decision struct {
	Verdict          Verdict
	Match            *packs.MatchResult
	Trace            []Step
	Timeout          bool
	ClassificationIncomplete bool
	PendingShortCode string
}

// Overrides holds per-pattern-key (packID.patternName) behavior overrides,
// e.g. to locally disable a shipped pattern. No config key fills it; the CLI
// passes an empty value.
type Overrides struct {
	Disabled map[string]bool
}

func (o Overrides) isDisabled(packID, patternName string) bool {
	if o.Disabled == nil || patternName == "" {
		return false
	}
	return o.Disabled[packID+"."+patternName]
}

// PendingConfig controls whether and how a Deny verdict is recorded as a
// pending exception.
type PendingConfig struct {
	Enabled   bool
	Store     *pending.Store
	CWD       string
	SingleUse bool
	Redaction pending.RedactionConfig
}

// Config is the evaluator's policy input.
type Config struct {
	EnabledPacks         map[string]bool // nil/empty means all packs enabled
	MaxRecursionDepth    int             // default 4
	MaxHeredocBodyBytes  int             // default 65536
	WallClockBudget      time.Duration   // default 250ms
	FailOnWarn           bool
	Pending              PendingConfig
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxRecursionDepth:   4,
		MaxHeredocBodyBytes: 65536,
		WallClockBudget:     250 * time.Millisecond,
	}
}

// Evaluate runs the full pipeline for a raw command. now is passed in
// explicitly (rather than taken from time.Now internally) so the same
// inputs are reproducible in tests, matching the orchestrator's
// determinism contract (decisions are deterministic modulo trace
// timestamps).
func Evaluate(command string, cfg Config, reg *packs.Registry, overrides Overrides, allow *allowlist.Layered, now time.Time) Decision {
	type result struct {
		d Decision
	}
	done := make(chan result, 1)

	budget := cfg.WallClockBudget
	if budget <= 0 {
		budget = DefaultConfig().WallClockBudget
	}
	runCtx, cancel := stdctx.WithTimeout(stdctx.Background(), budget)
	defer cancel()

	go func() {
		done <- result{d: evaluateInner(command, cfg, reg, overrides, allow, now, 0)}
	}()

	select {
	case r := <-done:
		return r.d
	case <-runCtx.Done():
		return Decision{
			Verdict: Allow,
			Timeout: true,
			Trace: []Step{
				{Name: "evaluate", Outcome: "timeout", Details: map[string]any{"budget_ms": budget.Milliseconds()}},
			},
		}
	}
}

func evaluateInner(command string, cfg Config, reg *packs.Registry, overrides Overrides, allow *allowlist.Layered, now time.Time, depth int) Decision {
	var trace []Step
	step := func(name, outcome string, details map[string]any) {
		trace = append(trace, Step{Name: name, Outcome: outcome, Details: details})
	}

	norm, err := normalize.Normalize(command)
	if err != nil {
		step("normalize", "error", map[string]any{"error": err.Error()})
		return Decision{Verdict: Deny, Trace: append(trace, Step{
			Name: "decision", Outcome: "deny",
			Details: map[string]any{"reason": "input too large"},
		})}
	}
	step("normalize", "ok", map[string]any{
		"was_wrapped":       norm.WasWrapped,
		"wrappers_stripped": norm.WrappersStripped,
	})

	cls := spanctx.Classify(norm.Normalized)
	if cls.Incomplete {
		step("classify", "classification_incomplete", nil)
	} else {
		step("classify", "ok", map[string]any{
			"heredocs":     len(cls.Heredocs),
			"inline_codes": len(cls.InlineCodes),
		})
	}

	sanitized := spanctx.Sanitize(cls)

	enabledPacks := reg.Enabled(cfg.EnabledPacks)
	keywords := packs.CollectEnabledKeywords(enabledPacks)
	if !anyKeywordPresent(sanitized, keywords) {
		step("keyword_prefilter", "no_keyword_match", nil)
		return finalize(Decision{Verdict: Allow, Trace: trace, ClassificationIncomplete: cls.Incomplete}, cfg, norm.Normalized, now)
	}
	step("keyword_prefilter", "matched", nil)

	var topMatch *packs.MatchResult
	for _, p := range enabledPacks {
		if !p.MightMatch(sanitized) {
			continue
		}
		res := p.Check(sanitized)
		if res == nil {
			continue
		}
		if overrides.isDisabled(res.PackID, res.PatternName) {
			step("pack_check", "pattern_overridden_disabled", map[string]any{"pack_id": res.PackID, "pattern": res.PatternName})
			continue
		}
		topMatch = res
		step("pack_check", "matched", map[string]any{"pack_id": res.PackID, "pattern": res.PatternName})
		break
	}
	if topMatch == nil {
		step("pack_check", "no_match", nil)
	}

	decision := Decision{Verdict: Allow, ClassificationIncomplete: cls.Incomplete}
	if topMatch != nil {
		decision.Verdict = Deny
		decision.Match = topMatch

		if allow != nil {
			hit, aerr := allow.Resolve(norm.Normalized, topMatch.PackID, topMatch.PatternName, now)
			if aerr == nil && hit != nil {
				step("allowlist", "allowlisted", map[string]any{"layer": hit.Layer.String()})
				decision.Verdict = Allow
				decision.Match = nil
			} else {
				step("allowlist", "no_hit", nil)
			}
		}
	}

	if sub := subEvaluate(cls, cfg, reg, overrides, allow, now, depth, &trace); sub != nil {
		decision.Verdict = Deny
		decision.Match = sub
	}

	decision.Trace = trace
	return finalize(decision, cfg, norm.Normalized, now)
}

func anyKeywordPresent(sanitized string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if containsSubstring(sanitized, kw) {
			return true
		}
	}
	return false
}

func containsSubstring(s, sub string) bool {
	n, m := len(s), len(sub)
	if m == 0 || m > n {
		return false
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == sub {
			return true
		}
	}
	return false
}

// subEvaluate processes every Heredoc/InlineCode span, recursing into the
// full pipeline up to MaxRecursionDepth, and falling back to a bounded
// substring scan for oversized bodies or once depth is exhausted. After a
// recursion that does not deny, the same fallback scan and an argv-level
// fallback also run on the body. It returns the first deny match found, or
// nil.
func subEvaluate(cls spanctx.Classification, cfg Config, reg *packs.Registry, overrides Overrides, allow *allowlist.Layered, now time.Time, depth int, trace *[]Step) *packs.MatchResult {
	maxDepth := cfg.MaxRecursionDepth
	if maxDepth <= 0 {
		maxDepth = DefaultConfig().MaxRecursionDepth
	}
	maxBytes := cfg.MaxHeredocBodyBytes
	if maxBytes <= 0 {
		maxBytes = DefaultConfig().MaxHeredocBodyBytes
	}

	spans := append(append([]spanctx.Span{}, cls.Heredocs...), cls.InlineCodes...)
	for _, span := range spans {
		body := span.Text(cls.Command)

		if len(body) > maxBytes {
			*trace = append(*trace, Step{Name: "sub_evaluate", Outcome: "heredoc_oversize_fallback", Details: map[string]any{"bytes": len(body)}})
			if m := fallbackOnBody(body); m != nil {
				return m
			}
			continue
		}

		if depth+1 > maxDepth {
			*trace = append(*trace, Step{Name: "sub_evaluate", Outcome: "max_depth_fallback", Details: map[string]any{"depth": depth + 1}})
			if m := fallbackOnBody(body); m != nil {
				return m
			}
			continue
		}

		inner := evaluateInner(body, cfg, reg, overrides, allow, now, depth+1)
		*trace = append(*trace, Step{Name: "sub_evaluate", Outcome: inner.Verdict.String(), Details: map[string]any{"depth": depth + 1}})
		if inner.Verdict == Deny && inner.Match != nil {
			return inner.Match
		}

		// The recursive pipeline above only fires packs registered for
		// shell-command syntax. A heredoc/inline body can just as easily be
		// a script in another language (Python's shutil.rmtree, etc.) that
		// no pack's keywords or patterns recognize but that the fallback
		// scan's literal signatures do — run it unconditionally, not only
		// once the body trips the size/depth limits above, so a
		// normal-sized `python3 <<EOF` payload calling shutil.rmtree is
		// still caught.
		if m := fallbackOnBody(body); m != nil {
			*trace = append(*trace, Step{Name: "sub_evaluate", Outcome: "fallback_match", Details: map[string]any{"pattern": m.PatternName}})
			return m
		}

		// The character-level classifier's quote matching can miss a nested
		// interpreter invocation that go-shellwords' POSIX word-splitting
		// decomposes cleanly (e.g. escaped quotes inside the heredoc body
		// that confuse findMatchingQuote but not a real argv tokenizer). Try
		// the argv-level fallback as a second, independent pass over the
		// same body.
		if m := argvFallbackOnBody(body); m != nil {
			*trace = append(*trace, Step{Name: "sub_evaluate", Outcome: "argv_fallback_match", Details: map[string]any{"pattern": m.PatternName}})
			return m
		}
	}
	return nil
}

// argvFallbackOnBody best-effort argv-tokenizes body with
// spanctx.ArgvFallback and, when it decomposes into a recognized
// interpreter invocation (`python3 -c "..."`, `bash -c '...'`), fallback-
// scans the trailing script argument on its own. Tokenization failure or an
// unrecognized leading token is not itself suspicious and yields nil.
func argvFallbackOnBody(body string) *packs.MatchResult {
	argv, err := spanctx.ArgvFallback(body)
	if err != nil || len(argv) < 2 {
		return nil
	}
	if !spanctx.Interpreters[argv[0]] {
		return nil
	}
	return fallbackOnBody(argv[len(argv)-1])
}

func fallbackOnBody(body string) *packs.MatchResult {
	cls := spanctx.Classify(body)
	sanitized := spanctx.Sanitize(cls)
	m := fallbackCheck(sanitized)
	if m == nil {
		return nil
	}
	return &packs.MatchResult{
		PackID:      "core.fallback",
		PatternName: m.name,
		Reason:      m.reason,
		Severity:    packs.High,
	}
}

// finalize optionally records a pending exception for a Deny verdict;
// ancillary I/O failure while doing so never upgrades the verdict. It does
// not look at FailOnWarn, which only the CLI's exit-code mapping reads.
func finalize(d Decision, cfg Config, normalized string, now time.Time) Decision {
	if d.Verdict != Deny {
		return d
	}
	if cfg.Pending.Enabled && cfg.Pending.Store != nil {
		reason := ""
		if d.Match != nil {
			reason = d.Match.Reason
		}
		rec, _, err := cfg.Pending.Store.RecordBlock(now, cfg.Pending.CWD, normalized, reason, cfg.Pending.Redaction, cfg.Pending.SingleUse)
		if err == nil {
			d.PendingShortCode = rec.ShortCode
		}
		// store I/O failure is dropped silently, never affects verdict.
	}
	return d
}
