package llm

import (
	"context"
	"sync"
)

// maxFailures is the consecutive-failure threshold after which a provider is
// skipped until its next success or a global reset.
const maxFailures = 3

// Descriptor pairs a provider variant with its health state. Health state is
// process-wide and lives for the process lifetime; the failure counter is
// advisory, so a lost increment under concurrency is acceptable, but the
// counter itself is lock-protected to keep mutation well-defined.
type Descriptor struct {
	provider Provider

	mu       sync.Mutex
	failures int
}

// NewDescriptor wraps a provider variant with fresh health state
func NewDescriptor(provider Provider) *Descriptor {
	return &Descriptor{provider: provider}
}

// Name returns the provider name
func (d *Descriptor) Name() string {
	return d.provider.Name()
}

// Priority returns the fallback priority (lower = tried first)
func (d *Descriptor) Priority() int {
	return d.provider.Priority()
}

// Available reports whether the provider has credentials configured
func (d *Descriptor) Available() bool {
	return d.provider.Available()
}

// Failures returns the current consecutive failure count
func (d *Descriptor) Failures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.failures
}

// Healthy reports whether the provider is available and under its failure threshold
func (d *Descriptor) Healthy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.provider.Available() && d.failures < maxFailures
}

// MarkFailure increments the failure count. Crossing the threshold is a silent
// state transition observed via Healthy.
func (d *Descriptor) MarkFailure() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures++
}

// ResetFailures sets the failure count back to zero
func (d *Descriptor) ResetFailures() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures = 0
}

// Invoke delegates to the underlying provider
func (d *Descriptor) Invoke(ctx context.Context, req *Request) (string, error) {
	return d.provider.Invoke(ctx, req)
}
