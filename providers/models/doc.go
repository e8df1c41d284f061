// Package models maintains the per-provider list of selectable models. The
// cache is shared, read-mostly state: entries are replaced wholesale on
// refresh so concurrent readers never observe a half-updated list, a fixed
// TTL marks entries stale, and a failed live fetch degrades to the static
// list bundled for the provider instead of failing the caller's request.
//
// Providers reached over HTTP expose a models endpoint; CLI providers
// expose no structured listing, so the list is inferred by invoking the
// tool with a deliberately invalid model id and parsing the usage text that
// enumerates the valid choices.
package models
