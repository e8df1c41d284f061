// Package catalog is the registry of known AI-model providers. Each entry
// is tagged with its transport kind (HTTP or CLI), its credential-resolution
// rule and whether it supports dynamic model listing. The registry never
// stores secrets: credential rules only describe how availability is
// determined at call time.
//
// The builtin catalog is immutable; user-added custom providers (HTTP-only,
// OpenAI-compatible) are validated before registration, including an
// http/https-only base URL check so a hostile record cannot point the model
// fetcher at an arbitrary URL scheme.
package catalog
