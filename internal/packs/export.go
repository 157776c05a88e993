package packs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// PatternExport is one pack's patterns, external-tool friendly.
type PatternExport struct {
	Keywords            []string         `json:"keywords"`
	SafePatterns        []PatternDetails `json:"safe_patterns"`
	DestructivePatterns []PatternDetails `json:"destructive_patterns"`
}

// PatternDetails is a single pattern, stripped of its compiled regexp.
type PatternDetails struct {
	Name     string `json:"name"`
	Regex    string `json:"regex"`
	Reason   string `json:"reason,omitempty"`
	Severity string `json:"severity"`
}

// RegistryExport is the exported pack set, suitable for embedding in
// external tooling without re-running dcg.
type RegistryExport struct {
	SchemaVersion int                       `json:"schema_version"`
	SHA256        string                    `json:"sha256"`
	PackCount     int                       `json:"pack_count"`
	Packs         map[string]PatternExport  `json:"packs"`
}

func toDetails(pats []Pattern) []PatternDetails {
	out := make([]PatternDetails, 0, len(pats))
	for _, p := range pats {
		out = append(out, PatternDetails{
			Name:     p.Name,
			Regex:    p.Regex,
			Reason:   p.Reason,
			Severity: p.Severity.String(),
		})
	}
	return out
}

// Export renders the registry's packs into a stable, serializable shape.
func Export(r *Registry) RegistryExport {
	exp := RegistryExport{
		SchemaVersion: 1,
		Packs:         make(map[string]PatternExport, len(r.ordered)),
	}
	for _, id := range r.ordered {
		p := r.byID[id]
		exp.Packs[id] = PatternExport{
			Keywords:            p.Keywords,
			SafePatterns:        toDetails(p.SafePatterns),
			DestructivePatterns: toDetails(p.DestructivePatterns),
		}
	}
	exp.PackCount = len(exp.Packs)
	exp.SHA256 = ComputeHash(r)
	return exp
}

// ComputeHash returns a deterministic hash of every pack's patterns, for
// change detection between dcg versions.
func ComputeHash(r *Registry) string {
	var lines []string
	for _, id := range r.ordered {
		p := r.byID[id]
		for _, pat := range p.SafePatterns {
			lines = append(lines, id+":safe:"+pat.Name+":"+pat.Regex)
		}
		for _, pat := range p.DestructivePatterns {
			lines = append(lines, id+":destructive:"+pat.Name+":"+pat.Regex)
		}
	}
	sort.Strings(lines)

	h := sha256.New()
	for _, l := range lines {
		h.Write([]byte(l))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ExportJSON renders Export(r) as indented JSON.
func ExportJSON(r *Registry) (string, error) {
	data, err := json.MarshalIndent(Export(r), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
