// Package plugin is the discovery boundary for generators and extractors.
// Providers register themselves from init, the way database/sql drivers do:
//
//	func init() {
//		plugin.RegisterGenerators("builtin", Defaults)
//	}
//
// Registries built by the fixtures package enumerate every provider lazily,
// in provider-name order, on first use and after each reset.
package plugin

import (
	"sort"
	"sync"

	"github.com/conduit-lang/fixtures/pkg/extract"
	"github.com/conduit-lang/fixtures/pkg/generator"
)

// GeneratorProvider returns a fresh set of generators.
type GeneratorProvider func() []generator.Generator

// ExtractorProvider returns a fresh set of extractors.
type ExtractorProvider func() []extract.Extractor

var (
	mu         sync.RWMutex
	generators = make(map[string]GeneratorProvider)
	extractors = make(map[string]ExtractorProvider)
)

// RegisterGenerators makes a generator provider available under name. It
// panics if name is registered twice or provider is nil.
func RegisterGenerators(name string, provider GeneratorProvider) {
	mu.Lock()
	defer mu.Unlock()
	if provider == nil {
		panic("plugin: RegisterGenerators provider is nil")
	}
	if _, dup := generators[name]; dup {
		panic("plugin: RegisterGenerators called twice for " + name)
	}
	generators[name] = provider
}

// RegisterExtractors makes an extractor provider available under name. It
// panics if name is registered twice or provider is nil.
func RegisterExtractors(name string, provider ExtractorProvider) {
	mu.Lock()
	defer mu.Unlock()
	if provider == nil {
		panic("plugin: RegisterExtractors provider is nil")
	}
	if _, dup := extractors[name]; dup {
		panic("plugin: RegisterExtractors called twice for " + name)
	}
	extractors[name] = provider
}

// GeneratorProviders returns the registered provider names, sorted.
func GeneratorProviders() []string {
	mu.RLock()
	defer mu.RUnlock()
	return sortedKeys(generators)
}

// ExtractorProviders returns the registered provider names, sorted.
func ExtractorProviders() []string {
	mu.RLock()
	defer mu.RUnlock()
	return sortedKeys(extractors)
}

// Generators calls every generator provider in name order and concatenates
// the results.
func Generators() []generator.Generator {
	mu.RLock()
	names := sortedKeys(generators)
	providers := make([]GeneratorProvider, len(names))
	for i, name := range names {
		providers[i] = generators[name]
	}
	mu.RUnlock()

	var out []generator.Generator
	for _, p := range providers {
		out = append(out, p()...)
	}
	return out
}

// Extractors calls every extractor provider in name order and concatenates
// the results.
func Extractors() []extract.Extractor {
	mu.RLock()
	names := sortedKeys(extractors)
	providers := make([]ExtractorProvider, len(names))
	for i, name := range names {
		providers[i] = extractors[name]
	}
	mu.RUnlock()

	var out []extract.Extractor
	for _, p := range providers {
		out = append(out, p()...)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// unregisterAllForTest drops every provider.
func unregisterAllForTest() {
	mu.Lock()
	defer mu.Unlock()
	generators = make(map[string]GeneratorProvider)
	extractors = make(map[string]ExtractorProvider)
}
