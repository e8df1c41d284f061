package models

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/frogg-app/prompt-assistant/providers/catalog"
)

// DefaultTTL is the staleness window for cache entries.
const DefaultTTL = 24 * time.Hour

// FilterFunc returns the allow-listed model ids for a provider, or nil when
// no filter applies. It is applied as a post-filter after any fetch, cached
// or live, before the list is returned to the caller.
type FilterFunc func(providerID string) []string

// Cache is the shared, read-mostly model-list cache. Writes replace an
// entry atomically under the write lock so concurrent readers never observe
// a half-updated list.
type Cache struct {
	registry *catalog.Registry
	fetcher  Fetcher
	logger   *slog.Logger

	ttl    time.Duration
	filter FilterFunc
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]CacheEntry
}

// CacheOption customises a Cache.
type CacheOption func(*Cache)

// WithTTL overrides the staleness window.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) { c.ttl = ttl }
}

// WithFilter installs the model allow-list post-filter.
func WithFilter(filter FilterFunc) CacheOption {
	return func(c *Cache) { c.filter = filter }
}

// WithClock overrides the time source. Test hook.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// NewCache returns a Cache over the given registry and fetcher. A nil
// logger falls back to slog.Default().
func NewCache(registry *catalog.Registry, fetcher Fetcher, logger *slog.Logger, opts ...CacheOption) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		registry: registry,
		fetcher:  fetcher,
		logger:   logger,
		ttl:      DefaultTTL,
		now:      time.Now,
		entries:  map[string]CacheEntry{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetModels returns the selectable models for a provider.
//
// With forceRefresh false, a fresh cache entry is returned unchanged.
// Otherwise a live fetch runs and overwrites the entry wholesale. A failed
// fetch degrades to the provider's static fallback list with the failure
// reason in Note; the cache entry, if any, is left untouched because stale
// data beats erasing a working cache on a transient failure.
func (c *Cache) GetModels(ctx context.Context, providerID string, credential string, forceRefresh bool) (Result, error) {
	provider, ok := c.registry.Get(providerID)
	if !ok {
		return Result{}, fmt.Errorf("models: unknown provider %q", providerID)
	}

	if !provider.SupportsDynamicModels {
		return c.finish(providerID, Result{
			Models: StaticList(providerID),
			Note:   "static model catalog (provider does not support dynamic listing)",
		}), nil
	}

	if !forceRefresh {
		if entry, fresh := c.lookup(providerID); fresh {
			return c.finish(providerID, Result{
				Models:    entry.Models,
				IsDynamic: true,
				Note:      fmt.Sprintf("cached %s ago (ttl %s)", c.now().Sub(entry.FetchedAt).Round(time.Second), c.ttl),
			}), nil
		}
	}

	fetched, err := c.fetcher.ListModels(ctx, provider, credential)
	if err != nil {
		c.logger.WarnContext(ctx, "model list fetch failed, using static fallback",
			slog.String("provider", providerID),
			slog.String("error", err.Error()),
		)
		return c.finish(providerID, Result{
			Models: StaticList(providerID),
			Note:   fmt.Sprintf("live fetch failed, using static list: %v", err),
		}), nil
	}

	entry := CacheEntry{ProviderID: providerID, Models: fetched, FetchedAt: c.now()}
	c.mu.Lock()
	c.entries[providerID] = entry
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "model list refreshed",
		slog.String("provider", providerID),
		slog.Int("models", len(fetched)),
	)
	return c.finish(providerID, Result{
		Models:    fetched,
		IsDynamic: true,
		Note:      "freshly fetched",
	}), nil
}

// Invalidate drops one provider's cache entry.
func (c *Cache) Invalidate(providerID string) {
	c.mu.Lock()
	delete(c.entries, providerID)
	c.mu.Unlock()
}

// RescanAll re-fetches the model list of every provider currently reporting
// available. Unavailable providers are skipped with their unavailability
// reason recorded, not treated as errors, and their cache entries are left
// untouched. credentials maps provider id to a directly-supplied key for
// config-value providers; missing keys are fine.
func (c *Cache) RescanAll(ctx context.Context, credentials map[string]string) map[string]RescanOutcome {
	summary := map[string]RescanOutcome{}

	for _, provider := range c.registry.List() {
		supplied := credentials[provider.ID]

		availability := catalog.ResolveAvailability(provider, supplied)
		if !availability.Available {
			summary[provider.ID] = RescanOutcome{Reason: availability.Reason}
			continue
		}

		c.Invalidate(provider.ID)
		result, err := c.GetModels(ctx, provider.ID, catalog.ResolveCredential(provider, supplied), true)
		if err != nil {
			summary[provider.ID] = RescanOutcome{Reason: err.Error()}
			continue
		}
		summary[provider.ID] = RescanOutcome{
			Refreshed:  result.IsDynamic,
			ModelCount: len(result.Models),
			Reason:     result.Note,
		}
	}

	return summary
}

// lookup returns the entry and whether it is present and fresh.
func (c *Cache) lookup(providerID string) (CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[providerID]
	if !ok {
		return CacheEntry{}, false
	}
	return entry, c.now().Sub(entry.FetchedAt) < c.ttl
}

// finish applies the model allow-list post-filter.
func (c *Cache) finish(providerID string, result Result) Result {
	if c.filter == nil {
		return result
	}
	allowed := c.filter(providerID)
	if len(allowed) == 0 {
		return result
	}

	allowSet := make(map[string]bool, len(allowed))
	for _, id := range allowed {
		allowSet[id] = true
	}
	filtered := make([]Model, 0, len(result.Models))
	for _, m := range result.Models {
		if allowSet[m.ID] {
			filtered = append(filtered, m)
		}
	}
	result.Models = filtered
	return result
}
