package llm

import (
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// ErrNoProviderConfigured is returned when no provider has credentials.
// This is a startup precondition: without a single usable backend the
// process cannot serve requests.
var ErrNoProviderConfigured = errors.New(
	"no LLM provider configured: set at least one of GOOGLE_API_KEY, " +
		"OPENROUTER_API_KEY, MISTRAL_API_KEY, HUGGINGFACE_API_KEY")

// Registry owns the ordered collection of provider descriptors.
// The available subset is computed once at construction; the healthy subset
// is recomputed on every access.
type Registry struct {
	all       []*Descriptor // declaration order, including unconfigured variants
	available []*Descriptor // priority order, stable for equal priorities
	logger    *zap.Logger
}

// NewRegistry builds a registry from a fixed list of provider variants.
// Order of the input slice is the declaration order used to break priority ties.
func NewRegistry(providers []Provider, logger *zap.Logger) (*Registry, error) {
	r := &Registry{logger: logger}

	for _, p := range providers {
		r.all = append(r.all, NewDescriptor(p))
	}

	for _, d := range r.all {
		if d.Available() {
			r.available = append(r.available, d)
		}
	}

	// Stable sort keeps declaration order for equal priorities
	sort.SliceStable(r.available, func(i, j int) bool {
		return r.available[i].Priority() < r.available[j].Priority()
	})

	if len(r.available) == 0 {
		return nil, ErrNoProviderConfigured
	}

	names := make([]string, 0, len(r.available))
	for _, d := range r.available {
		names = append(names, d.Name())
	}
	logger.Info("LLM registry initialized",
		zap.Int("providers", len(r.available)),
		zap.Strings("order", names))

	return r, nil
}

// All returns every registered descriptor in declaration order,
// including variants without credentials
func (r *Registry) All() []*Descriptor {
	return r.all
}

// Available returns the configured descriptors sorted by ascending priority
func (r *Registry) Available() []*Descriptor {
	return r.available
}

// Healthy returns the available descriptors under their failure threshold.
// When every available provider is unhealthy, all failure counts are reset and
// the full available list is returned: the system always attempts a call
// rather than failing closed, trading a likely-repeated failure against
// permanent unavailability.
func (r *Registry) Healthy() []*Descriptor {
	var healthy []*Descriptor
	for _, d := range r.available {
		if d.Healthy() {
			healthy = append(healthy, d)
		}
	}

	if len(healthy) == 0 {
		r.logger.Warn("all providers exhausted, resetting failure counts")
		for _, d := range r.available {
			d.ResetFailures()
		}
		return r.available
	}

	return healthy
}

// Find looks up a descriptor by case-insensitive name across all variants
func (r *Registry) Find(name string) (*Descriptor, bool) {
	for _, d := range r.all {
		if strings.EqualFold(d.Name(), name) {
			return d, true
		}
	}
	return nil, false
}

// CurrentProvider returns the name of the provider the next call would try first
func (r *Registry) CurrentProvider() string {
	providers := r.Healthy()
	if len(providers) == 0 {
		return "None"
	}
	return providers[0].Name()
}
