package models

import "time"

// Model is one selectable model. Identity is ID; uniqueness is enforced
// within a provider's list.
type Model struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	Description   string `json:"description,omitempty"`
	ContextWindow int    `json:"context_window,omitempty"`
}

// CacheEntry is the cached model list for one provider. Entries are created
// on first successful fetch, overwritten (never merged) on refresh, and
// considered stale once FetchedAt is older than the cache TTL.
type CacheEntry struct {
	ProviderID string    `json:"provider_id"`
	Models     []Model   `json:"models"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// Result is what GetModels hands back to the caller: the (possibly
// filtered) list, whether it came from a dynamic source, and a
// human-readable note about cache freshness or fallback reasons.
type Result struct {
	Models    []Model
	IsDynamic bool
	Note      string
}

// RescanOutcome summarises one provider's part of a whole-registry rescan.
type RescanOutcome struct {
	Refreshed  bool
	ModelCount int
	Reason     string
}

// dedupe drops models whose id was already seen, preserving order.
func dedupe(list []Model) []Model {
	seen := make(map[string]bool, len(list))
	out := make([]Model, 0, len(list))
	for _, m := range list {
		if m.ID == "" || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return out
}
