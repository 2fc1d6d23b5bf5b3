package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// HTTPSearcher scrapes job boards through an external scraping service that
// exposes a JSON search endpoint.
type HTTPSearcher struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPSearcher creates a searcher against the scrape service base URL
func NewHTTPSearcher(baseURL string, timeout time.Duration) *HTTPSearcher {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &HTTPSearcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type scrapedPosting struct {
	JobID       string `json:"job_id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	DatePosted  string `json:"date_posted"`
	Description string `json:"description"`
	JobURL      string `json:"job_url"`
	Site        string `json:"site"`
	Salary      string `json:"salary"`
}

// Scrape runs one search against the scrape service
func (s *HTTPSearcher) Scrape(ctx context.Context, params SearchParams) ([]Posting, error) {
	query := url.Values{}
	query.Set("search_term", params.Term)
	query.Set("location", params.Location)
	query.Set("hours_old", strconv.Itoa(params.DaysOld*24))
	query.Set("results_wanted", strconv.Itoa(params.MaxResults))
	query.Set("site_name", strings.Join(params.Sources, ","))

	endpoint := s.baseURL + "/search?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create scrape request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read scrape response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scrape service status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var scraped []scrapedPosting
	if err := json.Unmarshal(body, &scraped); err != nil {
		return nil, fmt.Errorf("unmarshal scrape response: %w", err)
	}

	postings := make([]Posting, 0, len(scraped))
	for _, p := range scraped {
		postings = append(postings, Posting{
			JobID:       p.JobID,
			Title:       p.Title,
			Company:     p.Company,
			Location:    p.Location,
			DatePosted:  p.DatePosted,
			Description: p.Description,
			URL:         p.JobURL,
			Site:        p.Site,
			Salary:      p.Salary,
		})
	}
	return postings, nil
}
