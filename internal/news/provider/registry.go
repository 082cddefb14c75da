package provider

import (
	"log/slog"
	"sync"

	"newslens/internal/domain/apperr"
)

// Registry holds the set of configured providers and tracks the default.
// Registration order is preserved: the first registered provider becomes the
// default until changed explicitly.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	order     []string
	def       string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Credentials carries the per-provider API keys read from configuration.
// An empty key is not an error; it simply omits that provider.
type Credentials struct {
	GNewsAPIKey    string
	NewsAPIKey     string
	NewsDataAPIKey string
}

// NewRegistryFromCredentials builds a registry containing every provider whose
// credential is present, logging the ones that are skipped. The enumeration of
// constructible providers is closed here.
func NewRegistryFromCredentials(creds Credentials, logger *slog.Logger) *Registry {
	reg := NewRegistry()

	candidates := []struct {
		name string
		key  string
		ctor func(string, ...Option) Provider
	}{
		{GNews, creds.GNewsAPIKey, NewGNews},
		{NewsAPI, creds.NewsAPIKey, NewNewsAPI},
		{NewsData, creds.NewsDataAPIKey, NewNewsData},
	}

	for _, c := range candidates {
		if c.key == "" {
			logger.Info("provider skipped: no API key configured",
				slog.String("provider", c.name))
			continue
		}
		reg.Register(c.ctor(c.key))
		logger.Info("provider registered", slog.String("provider", c.name))
	}

	if len(reg.Names()) == 0 {
		logger.Warn("no news providers configured; search and headlines will fail until a key is set")
	}
	return reg
}

// Register adds a provider. The first registered provider becomes the default.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.providers[name]; !exists {
		r.order = append(r.order, name)
	}
	r.providers[name] = p
	if r.def == "" {
		r.def = name
	}
}

// SetDefault changes the default provider. Fails with a provider-not-found
// error listing the currently available providers when name is unregistered.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[name]; !ok {
		return apperr.ProviderNotFound(name, append([]string(nil), r.order...))
	}
	r.def = name
	return nil
}

// Default returns the current default provider name, or "" when the registry
// is empty.
func (r *Registry) Default() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.def
}

// Resolve returns the provider for name, or the default when name is empty.
// An empty registry yields a no-providers-available error; an unknown name
// yields provider-not-found with the available listing. The two conditions are
// both 503/404-class failures but are semantically distinct for callers.
func (r *Registry) Resolve(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		if r.def == "" {
			return nil, apperr.NoProviders()
		}
		return r.providers[r.def], nil
	}
	p, ok := r.providers[name]
	if !ok {
		return nil, apperr.ProviderNotFound(name, append([]string(nil), r.order...))
	}
	return p, nil
}

// Names returns the registered provider names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}
