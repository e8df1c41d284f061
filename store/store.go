// Package store persists the user-editable records: custom provider
// definitions and per-provider model allow-lists. Records live in one JSON
// file keyed by id; every mutation reads the file, applies the change and
// overwrites the whole file. There is no optimistic-concurrency check, the
// last writer wins, which is acceptable for a single-operator deployment.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/frogg-app/prompt-assistant/providers/catalog"
)

// ProviderConfig is the persisted transport configuration of a custom
// provider. Type is always "openai-compatible" today; the field exists so
// old files stay readable if more types appear.
type ProviderConfig struct {
	Type    string `json:"type"`
	BaseURL string `json:"baseUrl,omitempty"`
	APIKey  string `json:"apiKey,omitempty"`
	EnvVar  string `json:"envVar,omitempty"`
}

// ProviderRecord is one persisted custom provider.
type ProviderRecord struct {
	ID                    string         `json:"id"`
	Name                  string         `json:"name"`
	Config                ProviderConfig `json:"config"`
	SupportsDynamicModels bool           `json:"supportsDynamicModels"`
	Models                []string       `json:"models,omitempty"`
}

// fileData is the on-disk document.
type fileData struct {
	Providers    map[string]ProviderRecord `json:"providers"`
	ModelFilters map[string][]string       `json:"modelFilters"`
}

// Store reads and writes the records file. Safe for concurrent use within
// one process; cross-process writers race with last-writer-wins semantics.
type Store struct {
	path string
	mu   sync.Mutex
}

// Open returns a store over the given file path. The file is created lazily
// on first write; a missing file reads as empty.
func Open(path string) *Store {
	return &Store{path: path}
}

// Providers returns all persisted custom providers sorted by id.
func (s *Store) Providers() ([]ProviderRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	out := make([]ProviderRecord, 0, len(data.Providers))
	for _, rec := range data.Providers {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Provider returns one record by id.
func (s *Store) Provider(id string) (ProviderRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return ProviderRecord{}, false, err
	}
	rec, ok := data.Providers[id]
	return rec, ok, nil
}

// SaveProvider validates and upserts a custom provider record.
func (s *Store) SaveProvider(rec ProviderRecord) error {
	if _, err := recordToProvider(rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	data.Providers[rec.ID] = rec
	return s.write(data)
}

// DeleteProvider removes a record and its model filter. Deleting a missing
// id is a no-op.
func (s *Store) DeleteProvider(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	delete(data.Providers, id)
	delete(data.ModelFilters, id)
	return s.write(data)
}

// ModelFilter returns the allow-listed model ids for a provider, nil when no
// filter is set.
func (s *Store) ModelFilter(providerID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	return data.ModelFilters[providerID], nil
}

// SetModelFilter replaces a provider's allow-list. An empty list removes the
// filter entirely.
func (s *Store) SetModelFilter(providerID string, modelIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	if len(modelIDs) == 0 {
		delete(data.ModelFilters, providerID)
	} else {
		data.ModelFilters[providerID] = modelIDs
	}
	return s.write(data)
}

// ApplyTo registers every persisted custom provider into the registry.
// Invalid records abort with an error naming the offending id.
func (s *Store) ApplyTo(registry *catalog.Registry) error {
	records, err := s.Providers()
	if err != nil {
		return err
	}
	for _, rec := range records {
		provider, err := recordToProvider(rec)
		if err != nil {
			return fmt.Errorf("store: record %q: %w", rec.ID, err)
		}
		if err := registry.Register(provider); err != nil {
			return fmt.Errorf("store: record %q: %w", rec.ID, err)
		}
	}
	return nil
}

// FilterFunc adapts the persisted model filters to the cache's post-filter
// hook. Read errors disable filtering rather than failing a model lookup.
func (s *Store) FilterFunc() func(providerID string) []string {
	return func(providerID string) []string {
		allowed, err := s.ModelFilter(providerID)
		if err != nil {
			return nil
		}
		return allowed
	}
}

// Credentials returns the directly-stored api keys keyed by provider id,
// for availability resolution of config-value providers.
func (s *Store) Credentials() (map[string]string, error) {
	records, err := s.Providers()
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	for _, rec := range records {
		if rec.Config.APIKey != "" {
			out[rec.ID] = rec.Config.APIKey
		}
	}
	return out, nil
}

func recordToProvider(rec ProviderRecord) (catalog.Provider, error) {
	return catalog.NewCustom(catalog.CustomConfig{
		ID:      rec.ID,
		Name:    rec.Name,
		BaseURL: rec.Config.BaseURL,
		EnvVar:  rec.Config.EnvVar,
	})
}

// read loads the document; a missing file reads as empty.
func (s *Store) read() (fileData, error) {
	data := fileData{
		Providers:    map[string]ProviderRecord{},
		ModelFilters: map[string][]string{},
	}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return data, fmt.Errorf("store: reading %s: %w", s.path, err)
	}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("store: %s is not valid JSON: %w", s.path, err)
	}
	if data.Providers == nil {
		data.Providers = map[string]ProviderRecord{}
	}
	if data.ModelFilters == nil {
		data.ModelFilters = map[string][]string{}
	}
	return data, nil
}

// write overwrites the whole document.
func (s *Store) write(data fileData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encoding records: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("store: creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("store: writing %s: %w", s.path, err)
	}
	return nil
}
