// Package jobs implements the user-controlled job search with a Redis-backed
// result cache.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yshmodi/eiregate/services"
)

// DefaultCacheTTL is how long search results stay cached (2 hours)
const DefaultCacheTTL = 2 * time.Hour

// SearchParams echoes the caller's exact search inputs
type SearchParams struct {
	Term       string   `json:"term"`
	Location   string   `json:"location"`
	DaysOld    int      `json:"days_old"`
	MaxResults int      `json:"max_results"`
	Sources    []string `json:"sources"`
}

// Job is one normalized job posting
type Job struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Company      string       `json:"company"`
	Location     string       `json:"location"`
	Posted       string       `json:"posted"`
	Description  string       `json:"description"`
	URL          string       `json:"url"`
	Source       string       `json:"source"`
	Salary       string       `json:"salary,omitempty"`
	SearchParams SearchParams `json:"search_params"`
	Timestamp    string       `json:"timestamp"`
}

// Posting is the raw shape returned by a scrape provider before normalization
type Posting struct {
	JobID       string
	Title       string
	Company     string
	Location    string
	DatePosted  string
	Description string
	URL         string
	Site        string
	Salary      string
}

// Searcher is the external scrape provider
type Searcher interface {
	Scrape(ctx context.Context, params SearchParams) ([]Posting, error)
}

// Cache is the slice of the Redis client the job service needs
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
}

// Service runs searches through the provider and caches normalized results
type Service struct {
	searcher Searcher
	cache    Cache
	ttl      time.Duration
	logger   *zap.Logger
}

// NewService creates the job search service
func NewService(searcher Searcher, cacheClient Cache, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{
		searcher: searcher,
		cache:    cacheClient,
		ttl:      ttl,
		logger:   logger,
	}
}

// Validate enforces the search parameter bounds
func (p SearchParams) Validate() error {
	if strings.TrimSpace(p.Term) == "" {
		return services.NewDomainError(services.ErrorTypeValidation, "search term is required", nil).
			WithDetail("field", "search_term")
	}
	if strings.TrimSpace(p.Location) == "" {
		return services.NewDomainError(services.ErrorTypeValidation, "location is required", nil).
			WithDetail("field", "location")
	}
	if p.DaysOld < 1 || p.DaysOld > 90 {
		return services.NewDomainError(services.ErrorTypeValidation, "days_old must be between 1 and 90", nil).
			WithDetail("field", "days_old")
	}
	if p.MaxResults < 5 || p.MaxResults > 50 {
		return services.NewDomainError(services.ErrorTypeValidation, "max_results must be between 5 and 50", nil).
			WithDetail("field", "max_results")
	}
	if len(p.Sources) == 0 {
		return services.NewDomainError(services.ErrorTypeValidation, "sources list is required (e.g. ['linkedin', 'indeed'])", nil).
			WithDetail("field", "sources")
	}
	return nil
}

// CacheKey is unique per exact combination of search parameters
func (p SearchParams) CacheKey() string {
	sorted := append([]string(nil), p.Sources...)
	sort.Strings(sorted)
	return fmt.Sprintf("jobs:%s:%s:%d:%d:%s",
		p.Term, p.Location, p.DaysOld, p.MaxResults, strings.Join(sorted, ","))
}

// Search runs one job search. Results are served from cache unless
// forceRefresh is set. Provider failures degrade to an empty list so a broken
// scrape never takes the endpoint down.
func (s *Service) Search(ctx context.Context, params SearchParams, forceRefresh bool) ([]Job, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	key := params.CacheKey()
	if !forceRefresh {
		if cached, ok := s.cache.Get(ctx, key); ok {
			var jobs []Job
			if err := json.Unmarshal([]byte(cached), &jobs); err == nil {
				s.logger.Debug("job search served from cache", zap.String("key", key), zap.Int("count", len(jobs)))
				return jobs, nil
			}
			s.logger.Warn("dropping corrupt cache entry", zap.String("key", key))
		}
	}

	postings, err := s.searcher.Scrape(ctx, params)
	if err != nil {
		s.logger.Error("job search failed", zap.String("term", params.Term), zap.Error(err))
		return []Job{}, nil
	}
	if len(postings) == 0 {
		return []Job{}, nil
	}

	jobs := normalize(postings, params)

	if encoded, err := json.Marshal(jobs); err == nil {
		s.cache.Set(ctx, key, string(encoded), s.ttl)
	}

	s.logger.Info("job search completed",
		zap.String("term", params.Term),
		zap.String("location", params.Location),
		zap.Int("count", len(jobs)))

	return jobs, nil
}

// GetByID fetches one job from the cached search results. Requires a live
// cache; returns not-found when no cached search contains the id.
func (s *Service) GetByID(ctx context.Context, jobID string) (*Job, error) {
	keys, err := s.cache.ScanKeys(ctx, "jobs:*")
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		cached, ok := s.cache.Get(ctx, key)
		if !ok {
			continue
		}
		var jobs []Job
		if err := json.Unmarshal([]byte(cached), &jobs); err != nil {
			continue
		}
		for i := range jobs {
			if jobs[i].ID == jobID {
				return &jobs[i], nil
			}
		}
	}

	return nil, services.ErrJobNotFound
}

func normalize(postings []Posting, params SearchParams) []Job {
	now := time.Now().UTC().Format(time.RFC3339)

	jobs := make([]Job, 0, len(postings))
	for _, p := range postings {
		site := p.Site
		if site == "" {
			site = "unknown"
		}
		jobID := p.JobID
		if jobID == "" {
			jobID = fmt.Sprintf("%x", hashString(p.Title))
		}

		jobs = append(jobs, Job{
			ID:           fmt.Sprintf("%s_%s", site, jobID),
			Title:        orDefault(p.Title, "N/A"),
			Company:      orDefault(p.Company, "N/A"),
			Location:     orDefault(p.Location, "N/A"),
			Posted:       orDefault(p.DatePosted, "Recent"),
			Description:  p.Description,
			URL:          p.URL,
			Source:       site,
			Salary:       p.Salary,
			SearchParams: params,
			Timestamp:    now,
		})
	}
	return jobs
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func hashString(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
