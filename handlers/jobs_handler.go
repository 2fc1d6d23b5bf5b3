package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yshmodi/eiregate/services/jobs"
	"github.com/yshmodi/eiregate/utils"
)

// JobSearcher is the slice of the job service the handlers need
type JobSearcher interface {
	Search(ctx context.Context, params jobs.SearchParams, forceRefresh bool) ([]jobs.Job, error)
	GetByID(ctx context.Context, jobID string) (*jobs.Job, error)
}

// JobsHandler handles job search HTTP requests
type JobsHandler struct {
	service JobSearcher
	logger  *zap.Logger
}

// NewJobsHandler creates a new JobsHandler
func NewJobsHandler(service JobSearcher, logger *zap.Logger) *JobsHandler {
	return &JobsHandler{
		service: service,
		logger:  logger,
	}
}

// HandleSearch handles GET /api/v1/jobs/search.
// All search parameters are explicit query parameters; nothing is defaulted
// server-side except force_refresh.
func (h *JobsHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	daysOld, err := strconv.Atoi(query.Get("days_old"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "days_old must be an integer", nil)
		return
	}
	maxResults, err := strconv.Atoi(query.Get("max_results"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "max_results must be an integer", nil)
		return
	}

	params := jobs.SearchParams{
		Term:       strings.TrimSpace(query.Get("search_term")),
		Location:   strings.TrimSpace(query.Get("location")),
		DaysOld:    daysOld,
		MaxResults: maxResults,
		Sources:    splitSources(query.Get("sources")),
	}
	forceRefresh := query.Get("force_refresh") == "true" || query.Get("force_refresh") == "1"

	results, err := h.service.Search(r.Context(), params, forceRefresh)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "success",
		"count":         len(results),
		"search_params": params,
		"jobs":          results,
	})
}

// HandleGetByID handles GET /api/v1/jobs/{id}.
// Looks the job up in cached search results; used after /search to fetch the
// full description for tailoring.
func (h *JobsHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	job, err := h.service.GetByID(r.Context(), jobID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"job":    job,
	})
}

func splitSources(raw string) []string {
	var sources []string
	for _, s := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			sources = append(sources, trimmed)
		}
	}
	return sources
}
