package discovery

import (
	"bytes"
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

const (
	defaultBaseURL  = "http://localhost:8000"
	defaultBasePath = "/api/gemini"
	defaultTimeout  = 60 * time.Second

	defaultBatchTopK       = 5
	defaultSingleTopK      = 10
	defaultMinMatchScore   = 70
	defaultMaxRecommend    = 20
	statusSuccess          = "success"
	maxErrorBodyBytes      = 4096
	contentTypeApplication = "application/json"
)

// NewClient instantiates a job discovery client
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("discovery: parse base url: %w", err)
	}

	basePath := cfg.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}
	basePath = "/" + strings.Trim(basePath, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		endpoint:   baseURL + basePath,
		httpClient: httpClient,
	}, nil
}

// DiscoverJobs searches several companies at once. topK <= 0 means 5.
func (c *Client) DiscoverJobs(ctx context.Context, companies []Company, prefs UserPreferences, topK int) (*JobSearchBatchResult, error) {
	if topK <= 0 {
		topK = defaultBatchTopK
	}

	body := searchJobsRequest{
		Companies:       companies,
		UserPreferences: prefs,
		TopK:            topK,
		EnableCaching:   true,
	}

	var out JobSearchBatchResult
	if err := c.call(ctx, http.MethodPost, "/search-jobs", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchSingleCompany searches one company's careers pages
func (c *Client) SearchSingleCompany(ctx context.Context, name, website string, prefs UserPreferences, opts SearchOptions) (*JobSearchResult, error) {
	topK := opts.TopK
	if topK <= 0 {
		topK = defaultSingleTopK
	}
	useCache := true
	if opts.UseCache != nil {
		useCache = *opts.UseCache
	}

	body := searchSingleCompanyRequest{
		Company:         name,
		Website:         website,
		UserPreferences: prefs,
		TopK:            topK,
		UseCache:        useCache,
	}

	var out JobSearchResult
	if err := c.call(ctx, http.MethodPost, "/search-single-company", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeJobFit asks the backend how well one posting fits prefs
func (c *Client) AnalyzeJobFit(ctx context.Context, jobURL string, prefs UserPreferences) (Opaque, error) {
	body := analyzeJobFitRequest{JobURL: jobURL, UserPreferences: prefs}

	var out Opaque
	if err := c.call(ctx, http.MethodPost, "/analyze-job-fit", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// JobRecommendations returns ranked jobs above opts.MinScore
func (c *Client) JobRecommendations(ctx context.Context, prefs UserPreferences, opts RecommendationOptions) ([]RankedJob, error) {
	minScore := float64(defaultMinMatchScore)
	if opts.MinScore != nil {
		minScore = *opts.MinScore
	}
	maxCount := opts.MaxCount
	if maxCount <= 0 {
		maxCount = defaultMaxRecommend
	}

	body := recommendationsRequest{
		UserPreferences:    prefs,
		TargetCompanies:    opts.TargetCompanies,
		MinMatchScore:      minScore,
		MaxRecommendations: maxCount,
	}

	var out recommendationsPayload
	if err := c.call(ctx, http.MethodPost, "/get-recommendations", nil, body, &out); err != nil {
		return nil, err
	}
	return out.Recommendations, nil
}

// ServiceStats returns backend statistics
func (c *Client) ServiceStats(ctx context.Context) (Opaque, error) {
	var out Opaque
	if err := c.call(ctx, http.MethodGet, "/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ClearCache drops the backend's search cache
func (c *Client) ClearCache(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/clear-cache", nil, nil, nil)
}

// SearchHistory lists recent searches. limit <= 0 lets the backend decide.
func (c *Client) SearchHistory(ctx context.Context, limit int) ([]JobSearchResult, error) {
	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": []string{strconv.Itoa(limit)}}
	}

	var out historyPayload
	if err := c.call(ctx, http.MethodGet, "/search-history", query, nil, &out); err != nil {
		return nil, err
	}
	return out.History, nil
}

// HealthCheck reports backend health
func (c *Client) HealthCheck(ctx context.Context) (Opaque, error) {
	var out Opaque
	if err := c.call(ctx, http.MethodGet, "/health", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// call performs one round trip and unwraps the envelope into out.
// A nil out only requires a successful status.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c == nil {
		return fmt.Errorf("discovery: client is nil")
	}

	u := c.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("discovery: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("discovery: build request: %w", err)
	}
	req.Header.Set("Accept", contentTypeApplication)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeApplication)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("discovery: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &TransportError{StatusCode: resp.StatusCode, Status: statusText(resp)}
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("discovery: decode response: %w", err)
	}

	if env.Status != statusSuccess {
		return &APIError{Message: envelopeMessage(env)}
	}
	if out == nil {
		return nil
	}
	if !hasData(env.Data) {
		return &APIError{Message: envelopeMessage(env)}
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("discovery: decode data: %w", err)
	}
	return nil
}

func statusText(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}

func envelopeMessage(env Envelope) string {
	if env.Message != "" {
		return env.Message
	}
	return defaultErrorMessage
}

func hasData(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
