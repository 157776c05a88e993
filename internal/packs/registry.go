package packs

import "sync"

// Registry is the process-wide, immutable-after-build catalog of packs:
// built once at process start, readers require no synchronization.
type Registry struct {
	byID    map[string]*Pack
	ordered []string
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry of built-in packs, building it
// on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = Build(builtinPacks())
	})
	return defaultReg
}

// Build constructs a Registry from an explicit pack list, used by tests and
// by `dcg packs` tooling that wants a registry scoped to a subset.
func Build(packsList []*Pack) *Registry {
	byID := make(map[string]*Pack, len(packsList))
	for _, p := range packsList {
		byID[p.ID] = p
	}
	return &Registry{byID: byID, ordered: SortedIDs(byID)}
}

// Get returns a pack by id, or nil.
func (r *Registry) Get(id string) *Pack { return r.byID[id] }

// IDs returns all pack ids in deterministic lexical order.
func (r *Registry) IDs() []string { return r.ordered }

// All returns packs in deterministic lexical (id) order.
func (r *Registry) All() []*Pack {
	out := make([]*Pack, 0, len(r.ordered))
	for _, id := range r.ordered {
		out = append(out, r.byID[id])
	}
	return out
}

// Enabled filters to packs whose id is in the enabled set; an empty/nil set
// means "all packs enabled".
func (r *Registry) Enabled(enabled map[string]bool) []*Pack {
	all := r.All()
	if len(enabled) == 0 {
		return all
	}
	out := make([]*Pack, 0, len(all))
	for _, p := range all {
		if enabled[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// CollectEnabledKeywords returns the union of keywords across the given
// packs, for the top-level keyword pre-filter.
func CollectEnabledKeywords(packsList []*Pack) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range packsList {
		for _, kw := range p.Keywords {
			if !seen[kw] {
				seen[kw] = true
				out = append(out, kw)
			}
		}
	}
	return out
}
