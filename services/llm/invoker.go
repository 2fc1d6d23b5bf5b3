package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yshmodi/eiregate/services"
	"go.uber.org/zap"
)

// Invoker executes a completion against providers in priority order,
// classifying failures and updating health state as it goes.
type Invoker struct {
	registry *Registry
	logger   *zap.Logger
}

// NewInvoker creates a new fallback invoker on top of a registry
func NewInvoker(registry *Registry, logger *zap.Logger) *Invoker {
	return &Invoker{
		registry: registry,
		logger:   logger,
	}
}

// Registry exposes the underlying registry (used by the health reporter)
func (i *Invoker) Registry() *Registry {
	return i.registry
}

// Invoke tries each healthy provider in priority order until one succeeds.
// First success wins: the provider's failure count is reset and no further
// provider is invoked. Individual provider errors never escape; if every
// provider fails, the aggregate exhaustion error carries the last one.
//
// The loop is strictly sequential within one request. Parallel speculative
// calls would burn quota on providers that were never meant to be tried.
func (i *Invoker) Invoke(ctx context.Context, req *Request) (*Result, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, services.ErrEmptyPrompt
	}

	providers := i.registry.Healthy()

	var lastErr error
	for _, provider := range providers {
		i.logger.Debug("trying provider", zap.String("provider", provider.Name()))

		text, err := provider.Invoke(ctx, req)
		if err == nil {
			provider.ResetFailures()
			i.logger.Info("provider succeeded", zap.String("provider", provider.Name()))
			return &Result{Text: text, Provider: provider.Name()}, nil
		}

		// Classification is observability-only: rate-limit and generic
		// failures currently receive identical treatment.
		switch Classify(err) {
		case FailureRateLimit:
			i.logger.Warn("provider rate limited",
				zap.String("provider", provider.Name()),
				zap.Error(err))
		default:
			i.logger.Error("provider error",
				zap.String("provider", provider.Name()),
				zap.Error(err))
		}
		provider.MarkFailure()

		lastErr = err
	}

	return nil, services.NewDomainError(services.ErrorTypeExhausted,
		"all LLM providers failed", lastErr)
}

// InvokeStructured performs a structured call and unmarshals the JSON response
// into out. The request must carry a schema.
func (i *Invoker) InvokeStructured(ctx context.Context, req *Request, out interface{}) (string, error) {
	if req.Schema == nil {
		return "", fmt.Errorf("structured invocation requires a schema")
	}

	result, err := i.Invoke(ctx, req)
	if err != nil {
		return "", err
	}

	if err := json.Unmarshal([]byte(StripFences(result.Text)), out); err != nil {
		return "", services.NewDomainError(services.ErrorTypeExternal,
			fmt.Sprintf("provider %s returned malformed %s JSON", result.Provider, req.Schema.Name), err)
	}

	return result.Provider, nil
}

// StripFences removes a markdown code fence around a JSON payload.
// Some models wrap structured output in ```json fences despite instructions.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
