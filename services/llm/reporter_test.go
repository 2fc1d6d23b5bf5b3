package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_Status(t *testing.T) {
	unconfigured := newMockProvider("HuggingFace", 4)
	unconfigured.available = false

	registry := newTestRegistry(t,
		newMockProvider("Gemini", 1),
		newMockProvider("OpenRouter", 2),
		unconfigured,
	)
	reporter := NewReporter(registry)

	gemini, _ := registry.Find("Gemini")
	gemini.MarkFailure()

	status := reporter.Status()
	assert.Equal(t, "Gemini", status.CurrentProvider)
	require.Len(t, status.Providers, 3)

	byName := map[string]ProviderStatus{}
	for _, p := range status.Providers {
		byName[p.Name] = p
	}

	assert.True(t, byName["Gemini"].Available)
	assert.True(t, byName["Gemini"].Healthy)
	assert.Equal(t, 1, byName["Gemini"].Failures)
	assert.Equal(t, 1, byName["Gemini"].Priority)

	assert.False(t, byName["HuggingFace"].Available)
	assert.False(t, byName["HuggingFace"].Healthy)
}

func TestReporter_TestProvider(t *testing.T) {
	provider := newMockProvider("Gemini", 1)
	provider.response = "Hello from Gemini right now!"

	registry := newTestRegistry(t, provider)
	reporter := NewReporter(registry)

	result := reporter.TestProvider(context.Background(), "gemini")
	assert.True(t, result.Success)
	assert.Equal(t, "Gemini", result.Provider)
	assert.Equal(t, "Hello from Gemini right now!", result.Response)
	assert.Equal(t, 1, provider.calls)
}

func TestReporter_TestProviderFailureMarksHealth(t *testing.T) {
	provider := newMockProvider("Gemini", 1)
	provider.err = errors.New("429 too many requests")

	registry := newTestRegistry(t, provider)
	reporter := NewReporter(registry)

	result := reporter.TestProvider(context.Background(), "Gemini")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "429")

	desc, _ := registry.Find("Gemini")
	assert.Equal(t, 1, desc.Failures())
}

func TestReporter_TestProviderSuccessResetsFailures(t *testing.T) {
	provider := newMockProvider("Gemini", 1)
	registry := newTestRegistry(t, provider)
	reporter := NewReporter(registry)

	desc, _ := registry.Find("Gemini")
	desc.MarkFailure()

	result := reporter.TestProvider(context.Background(), "Gemini")
	assert.True(t, result.Success)
	assert.Equal(t, 0, desc.Failures())
}

func TestReporter_TestProviderNotFound(t *testing.T) {
	registry := newTestRegistry(t, newMockProvider("Gemini", 1))
	reporter := NewReporter(registry)

	result := reporter.TestProvider(context.Background(), "Claude")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "not found")
}

func TestReporter_TestProviderUnconfigured(t *testing.T) {
	configured := newMockProvider("Gemini", 1)
	unconfigured := newMockProvider("Mistral", 3)
	unconfigured.available = false

	registry := newTestRegistry(t, configured, unconfigured)
	reporter := NewReporter(registry)

	result := reporter.TestProvider(context.Background(), "Mistral")
	assert.False(t, result.Success)
	assert.Equal(t, "API key not configured", result.Error)
	assert.Equal(t, 0, unconfigured.calls)
}

func TestReporter_TestAllProviders(t *testing.T) {
	working := newMockProvider("Gemini", 1)
	broken := newMockProvider("OpenRouter", 2)
	broken.err = errors.New("boom")
	skipped := newMockProvider("Mistral", 3)
	skipped.available = false

	registry := newTestRegistry(t, working, broken, skipped)
	reporter := NewReporter(registry)

	report := reporter.TestAllProviders(context.Background())
	assert.Equal(t, "1/3 providers working", report.Summary)
	require.Len(t, report.Results, 3)

	assert.True(t, report.Results[0].Success)
	assert.False(t, report.Results[1].Success)
	assert.True(t, report.Results[2].Skipped)
	assert.Equal(t, 0, skipped.calls, "unconfigured providers are skipped, not tested")
}
