package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yshmodi/eiregate/services"
)

type fakeCache struct {
	data     map[string]string
	down     bool
	setCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, bool) {
	if f.down {
		return "", false
	}
	val, ok := f.data[key]
	return val, ok
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	f.setCalls++
	if !f.down {
		f.data[key] = value
	}
}

func (f *fakeCache) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	if f.down {
		return nil, services.ErrCacheUnavailable
	}
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	return keys, nil
}

type fakeSearcher struct {
	postings []Posting
	err      error
	calls    int
}

func (f *fakeSearcher) Scrape(ctx context.Context, params SearchParams) ([]Posting, error) {
	f.calls++
	return f.postings, f.err
}

func validParams() SearchParams {
	return SearchParams{
		Term:       "AI Engineer",
		Location:   "Cork, Ireland",
		DaysOld:    14,
		MaxResults: 20,
		Sources:    []string{"linkedin", "indeed"},
	}
}

func TestSearchParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SearchParams)
		wantOK bool
	}{
		{"valid", func(p *SearchParams) {}, true},
		{"empty term", func(p *SearchParams) { p.Term = "  " }, false},
		{"empty location", func(p *SearchParams) { p.Location = "" }, false},
		{"days too low", func(p *SearchParams) { p.DaysOld = 0 }, false},
		{"days too high", func(p *SearchParams) { p.DaysOld = 91 }, false},
		{"results too low", func(p *SearchParams) { p.MaxResults = 4 }, false},
		{"results too high", func(p *SearchParams) { p.MaxResults = 51 }, false},
		{"no sources", func(p *SearchParams) { p.Sources = nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)
			err := params.Validate()
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.True(t, services.IsValidationError(err))
				assert.NotEmpty(t, services.GetErrorDetails(err)["field"])
			}
		})
	}
}

func TestSearchParamsCacheKey(t *testing.T) {
	params := validParams()
	params.Sources = []string{"linkedin", "indeed", "glassdoor"}

	// Sources are sorted so key is order-independent
	assert.Equal(t, "jobs:AI Engineer:Cork, Ireland:14:20:glassdoor,indeed,linkedin", params.CacheKey())

	reordered := validParams()
	reordered.Sources = []string{"glassdoor", "linkedin", "indeed"}
	assert.Equal(t, params.CacheKey(), reordered.CacheKey())
}

func TestSearch_NormalizesAndCaches(t *testing.T) {
	searcher := &fakeSearcher{postings: []Posting{
		{JobID: "123", Title: "AI Engineer", Company: "Stripe", Location: "Dublin", Site: "linkedin", URL: "https://example.com/123"},
		{Title: "", Company: "", Site: ""},
	}}
	cacheClient := newFakeCache()
	svc := NewService(searcher, cacheClient, 0, zap.NewNop())

	jobs, err := svc.Search(context.Background(), validParams(), false)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "linkedin_123", jobs[0].ID)
	assert.Equal(t, "AI Engineer", jobs[0].Title)
	assert.Equal(t, validParams().Term, jobs[0].SearchParams.Term)
	assert.NotEmpty(t, jobs[0].Timestamp)

	// Missing fields fall back to defaults
	assert.Equal(t, "N/A", jobs[1].Title)
	assert.Equal(t, "N/A", jobs[1].Company)
	assert.Equal(t, "Recent", jobs[1].Posted)
	assert.Equal(t, "unknown", jobs[1].Source)

	assert.Equal(t, 1, cacheClient.setCalls)
}

func TestNormalize_HashedIDForMissingJobID(t *testing.T) {
	jobs := normalize([]Posting{{Title: "AI Engineer", Site: "linkedin"}}, validParams())
	require.Len(t, jobs, 1)

	h := fnv.New32a()
	_, _ = h.Write([]byte("AI Engineer"))
	assert.Equal(t, fmt.Sprintf("linkedin_%x", h.Sum32()), jobs[0].ID)

	// Same title hashes to the same id across runs
	again := normalize([]Posting{{Title: "AI Engineer", Site: "linkedin"}}, validParams())
	assert.Equal(t, jobs[0].ID, again[0].ID)
}

func TestSearch_ServesFromCache(t *testing.T) {
	searcher := &fakeSearcher{postings: []Posting{{JobID: "1", Title: "Cached", Site: "linkedin"}}}
	cacheClient := newFakeCache()
	svc := NewService(searcher, cacheClient, 0, zap.NewNop())

	_, err := svc.Search(context.Background(), validParams(), false)
	require.NoError(t, err)
	require.Equal(t, 1, searcher.calls)

	jobs, err := svc.Search(context.Background(), validParams(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, searcher.calls, "second search hits the cache")
	assert.Equal(t, "Cached", jobs[0].Title)
}

func TestSearch_ForceRefreshBypassesCache(t *testing.T) {
	searcher := &fakeSearcher{postings: []Posting{{JobID: "1", Title: "Fresh", Site: "linkedin"}}}
	cacheClient := newFakeCache()
	svc := NewService(searcher, cacheClient, 0, zap.NewNop())

	_, err := svc.Search(context.Background(), validParams(), false)
	require.NoError(t, err)

	_, err = svc.Search(context.Background(), validParams(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, searcher.calls)
}

func TestSearch_ProviderFailureDegradesToEmpty(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("scrape blew up")}
	svc := NewService(searcher, newFakeCache(), 0, zap.NewNop())

	jobs, err := svc.Search(context.Background(), validParams(), false)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestSearch_InvalidParamsNeverHitProvider(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := NewService(searcher, newFakeCache(), 0, zap.NewNop())

	params := validParams()
	params.DaysOld = 0

	_, err := svc.Search(context.Background(), params, false)
	assert.True(t, services.IsValidationError(err))
	assert.Equal(t, 0, searcher.calls)
}

func TestGetByID(t *testing.T) {
	cacheClient := newFakeCache()
	jobsPayload, _ := json.Marshal([]Job{
		{ID: "linkedin_1", Title: "AI Engineer"},
		{ID: "indeed_2", Title: "Data Scientist"},
	})
	cacheClient.data["jobs:some:search:14:20:linkedin"] = string(jobsPayload)

	svc := NewService(&fakeSearcher{}, cacheClient, 0, zap.NewNop())

	job, err := svc.GetByID(context.Background(), "indeed_2")
	require.NoError(t, err)
	assert.Equal(t, "Data Scientist", job.Title)

	_, err = svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, services.ErrJobNotFound)
}

func TestGetByID_CacheDown(t *testing.T) {
	cacheClient := newFakeCache()
	cacheClient.down = true

	svc := NewService(&fakeSearcher{}, cacheClient, 0, zap.NewNop())

	_, err := svc.GetByID(context.Background(), "any")
	assert.ErrorIs(t, err, services.ErrCacheUnavailable)
}
