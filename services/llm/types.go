package llm

import (
	"context"
	"strings"
)

// Provider represents one backend capable of producing a completion.
// Variants are a closed set selected from configuration at registry build time.
type Provider interface {
	// Name returns the provider name (e.g., "Gemini", "OpenRouter")
	Name() string

	// Priority orders fallback attempts; lower is tried first
	Priority() int

	// Available reports whether the provider has credentials configured.
	// Computed from configuration at construction and immutable afterwards.
	Available() bool

	// Invoke performs the underlying model call and returns the raw response
	// text (JSON text when a schema was requested)
	Invoke(ctx context.Context, req *Request) (string, error)
}

// Schema declares a structured-output contract for a request
type Schema struct {
	// Name identifies the schema (e.g., "Resume")
	Name string

	// Definition is a JSON Schema document
	Definition map[string]interface{}
}

// Request represents one completion request. Immutable once constructed.
type Request struct {
	// System is the system instruction
	System string

	// Prompt is the user message
	Prompt string

	// Schema, when set, constrains the output to JSON matching the schema
	Schema *Schema

	// Temperature controls randomness
	Temperature float64
}

// Result is a successful completion together with the provider that produced it
type Result struct {
	// Text is the raw response (JSON text for structured requests)
	Text string

	// Provider is the name of the provider that succeeded
	Provider string
}

// FailureClass is a best-effort classification of a provider failure.
// It exists for observability only; both classes receive identical treatment.
type FailureClass string

const (
	// FailureRateLimit covers rate-limit/quota/overload signals
	FailureRateLimit FailureClass = "rate_limit"

	// FailureGeneric covers everything else (transport, auth, malformed response)
	FailureGeneric FailureClass = "generic"
)

// rateLimitSignals are the substrings sniffed out of provider error messages.
// Heuristic and non-authoritative: providers do not agree on error shapes.
var rateLimitSignals = []string{
	"rate limit",
	"quota",
	"429",
	"too many requests",
	"resource exhausted",
	"capacity",
	"overloaded",
}

// Classify inspects an error message for rate-limit/quota/overload signals
func Classify(err error) FailureClass {
	if err == nil {
		return FailureGeneric
	}
	msg := strings.ToLower(err.Error())
	for _, signal := range rateLimitSignals {
		if strings.Contains(msg, signal) {
			return FailureRateLimit
		}
	}
	return FailureGeneric
}
