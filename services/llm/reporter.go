package llm

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Reporter is a read-only projection of registry state for diagnostics.
// TestProvider/TestAllProviders issue real calls and update health state
// exactly as the fallback loop would.
type Reporter struct {
	registry *Registry
}

// NewReporter creates a health reporter over a registry
func NewReporter(registry *Registry) *Reporter {
	return &Reporter{registry: registry}
}

// ProviderStatus describes one provider for the status endpoint
type ProviderStatus struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Healthy   bool   `json:"healthy"`
	Failures  int    `json:"failures"`
	Priority  int    `json:"priority"`
}

// Status is the full diagnostics projection
type Status struct {
	CurrentProvider string           `json:"current_provider"`
	Providers       []ProviderStatus `json:"providers"`
}

// TestResult is the outcome of one diagnostic call to a single provider
type TestResult struct {
	Provider            string  `json:"provider"`
	Success             bool    `json:"success"`
	Response            string  `json:"response,omitempty"`
	ResponseTimeSeconds float64 `json:"response_time_seconds,omitempty"`
	Error               string  `json:"error,omitempty"`
	Skipped             bool    `json:"skipped,omitempty"`
}

// TestReport aggregates TestResult across every provider
type TestReport struct {
	Summary string       `json:"summary"`
	Results []TestResult `json:"results"`
}

// Status returns the current provider plus per-provider health details
func (r *Reporter) Status() Status {
	status := Status{
		CurrentProvider: r.registry.CurrentProvider(),
	}
	for _, d := range r.registry.All() {
		status.Providers = append(status.Providers, ProviderStatus{
			Name:      d.Name(),
			Available: d.Available(),
			Healthy:   d.Healthy(),
			Failures:  d.Failures(),
			Priority:  d.Priority(),
		})
	}
	return status
}

// TestProvider issues one real call to a single named provider, bypassing
// fallback, and updates its health state like the fallback loop would.
func (r *Reporter) TestProvider(ctx context.Context, name string) TestResult {
	provider, ok := r.registry.Find(name)
	if !ok {
		available := make([]string, 0, len(r.registry.All()))
		for _, d := range r.registry.All() {
			available = append(available, d.Name())
		}
		return TestResult{
			Provider: name,
			Success:  false,
			Error:    fmt.Sprintf("provider %q not found, available: %v", name, available),
		}
	}

	if !provider.Available() {
		return TestResult{
			Provider: provider.Name(),
			Success:  false,
			Error:    "API key not configured",
		}
	}

	req := &Request{
		Prompt:      fmt.Sprintf("Say 'Hello from %s!' in exactly 5 words.", provider.Name()),
		Temperature: 0.1,
	}

	start := time.Now()
	response, err := provider.Invoke(ctx, req)
	elapsed := math.Round(time.Since(start).Seconds()*100) / 100

	if err != nil {
		provider.MarkFailure()
		return TestResult{
			Provider: provider.Name(),
			Success:  false,
			Error:    err.Error(),
		}
	}

	provider.ResetFailures()
	return TestResult{
		Provider:            provider.Name(),
		Success:             true,
		Response:            response,
		ResponseTimeSeconds: elapsed,
	}
}

// TestAllProviders runs TestProvider across every variant. Providers without
// credentials are reported as skipped, not tested.
func (r *Reporter) TestAllProviders(ctx context.Context) TestReport {
	var results []TestResult

	for _, d := range r.registry.All() {
		if d.Available() {
			results = append(results, r.TestProvider(ctx, d.Name()))
			continue
		}
		results = append(results, TestResult{
			Provider: d.Name(),
			Success:  false,
			Error:    "API key not configured",
			Skipped:  true,
		})
	}

	working := 0
	for _, res := range results {
		if res.Success {
			working++
		}
	}

	return TestReport{
		Summary: fmt.Sprintf("%d/%d providers working", working, len(results)),
		Results: results,
	}
}
