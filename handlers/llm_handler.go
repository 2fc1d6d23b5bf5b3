package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yshmodi/eiregate/services/llm"
	"github.com/yshmodi/eiregate/utils"
)

// HealthReporter exposes provider diagnostics
type HealthReporter interface {
	Status() llm.Status
	TestProvider(ctx context.Context, name string) llm.TestResult
	TestAllProviders(ctx context.Context) llm.TestReport
}

// LLMHandler handles provider diagnostics HTTP requests
type LLMHandler struct {
	reporter HealthReporter
	logger   *zap.Logger
}

// NewLLMHandler creates a new LLMHandler
func NewLLMHandler(reporter HealthReporter, logger *zap.Logger) *LLMHandler {
	return &LLMHandler{
		reporter: reporter,
		logger:   logger,
	}
}

// HandleStatus handles GET /api/v1/llm/status
func (h *LLMHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteJSON(w, http.StatusOK, h.reporter.Status())
}

// HandleTestProvider handles POST /api/v1/llm/test/{name}.
// Issues one real call to the named provider; failures are reported in the
// body, not as HTTP errors.
func (h *LLMHandler) HandleTestProvider(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	result := h.reporter.TestProvider(r.Context(), name)
	if !result.Success {
		h.logger.Warn("provider test failed",
			zap.String("provider", name),
			zap.String("error", result.Error))
	}

	_ = utils.WriteJSON(w, http.StatusOK, result)
}

// HandleTestAll handles POST /api/v1/llm/test
func (h *LLMHandler) HandleTestAll(w http.ResponseWriter, r *http.Request) {
	report := h.reporter.TestAllProviders(r.Context())
	h.logger.Info("provider test sweep complete", zap.String("summary", report.Summary))

	_ = utils.WriteJSON(w, http.StatusOK, report)
}
