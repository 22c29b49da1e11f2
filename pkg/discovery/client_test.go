package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	body   map[string]any
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, func() []recordedRequest) {
	t.Helper()

	var (
		mu   sync.Mutex
		seen []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.body)
		}
		mu.Lock()
		seen = append(seen, rec)
		mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	requests := func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), seen...)
	}
	return client, requests
}

func writeEnvelope(w http.ResponseWriter, status, message string, data any) {
	env := map[string]any{"status": status, "timestamp": "2024-06-10T00:00:00Z"}
	if message != "" {
		env["message"] = message
	}
	if data != nil {
		env["data"] = data
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(env)
}

// every client operation, so contract tests cover all eight
func allOperations(c *Client) map[string]func(context.Context) error {
	prefs := DefaultUserPreferences()
	return map[string]func(context.Context) error{
		"DiscoverJobs": func(ctx context.Context) error {
			_, err := c.DiscoverJobs(ctx, []Company{{Name: "Acme", Website: "https://acme.test"}}, prefs, 0)
			return err
		},
		"SearchSingleCompany": func(ctx context.Context) error {
			_, err := c.SearchSingleCompany(ctx, "Acme", "https://acme.test", prefs, SearchOptions{})
			return err
		},
		"AnalyzeJobFit": func(ctx context.Context) error {
			_, err := c.AnalyzeJobFit(ctx, "https://acme.test/jobs/1", prefs)
			return err
		},
		"JobRecommendations": func(ctx context.Context) error {
			_, err := c.JobRecommendations(ctx, prefs, RecommendationOptions{})
			return err
		},
		"ServiceStats": func(ctx context.Context) error {
			_, err := c.ServiceStats(ctx)
			return err
		},
		"ClearCache": func(ctx context.Context) error {
			return c.ClearCache(ctx)
		},
		"SearchHistory": func(ctx context.Context) error {
			_, err := c.SearchHistory(ctx, 3)
			return err
		},
		"HealthCheck": func(ctx context.Context) error {
			_, err := c.HealthCheck(ctx)
			return err
		},
	}
}

func TestEveryOperationSurfacesEnvelopeError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, "error", "X", nil)
	})

	for name, op := range allOperations(client) {
		err := op(context.Background())
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("%s: expected *APIError, got %v", name, err)
		}
		if apiErr.Message != "X" {
			t.Fatalf("%s: expected message X, got %q", name, apiErr.Message)
		}
	}
}

func TestEveryOperationSurfacesTransportStatus(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	})

	for name, op := range allOperations(client) {
		err := op(context.Background())
		var trErr *TransportError
		if !errors.As(err, &trErr) {
			t.Fatalf("%s: expected *TransportError, got %v", name, err)
		}
		if trErr.StatusCode != http.StatusBadGateway {
			t.Fatalf("%s: expected 502, got %d", name, trErr.StatusCode)
		}
		if !strings.Contains(err.Error(), "Bad Gateway") {
			t.Fatalf("%s: expected status text in error, got %q", name, err.Error())
		}
	}
}

func TestMissingDataUsesDefaultMessage(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, "success", "", nil)
	})

	_, err := client.ServiceStats(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != defaultErrorMessage {
		t.Fatalf("expected default APIError, got %v", err)
	}

	if err := client.ClearCache(context.Background()); err != nil {
		t.Fatalf("ClearCache should not require data, got %v", err)
	}
}

func TestDiscoverJobsSendsBatchRequest(t *testing.T) {
	t.Parallel()

	client, seen := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, "success", "", map[string]any{
			"total_companies":     1,
			"successful_searches": 1,
			"total_jobs_found":    7,
			"top_matches": []map[string]any{
				{"job": map[string]any{"id": "j1", "title": "Go Engineer"}, "overall_score": 91.5},
			},
		})
	})

	res, err := client.DiscoverJobs(context.Background(), []Company{{Name: "Acme", Website: "https://acme.test"}}, DefaultUserPreferences(), 0)
	if err != nil {
		t.Fatalf("DiscoverJobs: %v", err)
	}
	if res.TotalJobsFound != 7 || len(res.TopMatches) != 1 || res.TopMatches[0].Job.Title != "Go Engineer" {
		t.Fatalf("unexpected result: %+v", res)
	}

	req := seen()[0]
	if req.method != http.MethodPost || req.path != "/api/gemini/search-jobs" {
		t.Fatalf("unexpected request %s %s", req.method, req.path)
	}
	if req.body["top_k"] != float64(5) || req.body["enable_caching"] != true {
		t.Fatalf("unexpected body: %v", req.body)
	}
	if _, ok := req.body["user_preferences"].(map[string]any); !ok {
		t.Fatalf("expected user_preferences object, got %v", req.body["user_preferences"])
	}
}

func TestSearchSingleCompanyDefaults(t *testing.T) {
	t.Parallel()

	client, seen := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, "success", "", map[string]any{"company": "Acme", "from_cache": true})
	})

	res, err := client.SearchSingleCompany(context.Background(), "Acme", "https://acme.test", DefaultUserPreferences(), SearchOptions{})
	if err != nil {
		t.Fatalf("SearchSingleCompany: %v", err)
	}
	if res.Company != "Acme" || !res.FromCache {
		t.Fatalf("unexpected result: %+v", res)
	}

	body := seen()[0].body
	if body["top_k"] != float64(10) || body["use_cache"] != true || body["company"] != "Acme" {
		t.Fatalf("unexpected body: %v", body)
	}

	noCache := false
	if _, err := client.SearchSingleCompany(context.Background(), "Acme", "", DefaultUserPreferences(), SearchOptions{TopK: 3, UseCache: &noCache}); err != nil {
		t.Fatalf("SearchSingleCompany: %v", err)
	}
	body = seen()[1].body
	if body["top_k"] != float64(3) || body["use_cache"] != false {
		t.Fatalf("unexpected body with options: %v", body)
	}
}

func TestJobRecommendationsExtractsList(t *testing.T) {
	t.Parallel()

	client, seen := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, "success", "", map[string]any{
			"recommendations": []map[string]any{
				{"job": map[string]any{"id": "a"}, "overall_score": 88, "missing_skills": []string{"Rust"}},
				{"job": map[string]any{"id": "b"}, "overall_score": 72},
			},
		})
	})

	recs, err := client.JobRecommendations(context.Background(), DefaultUserPreferences(), RecommendationOptions{})
	if err != nil {
		t.Fatalf("JobRecommendations: %v", err)
	}
	if len(recs) != 2 || recs[0].Job.ID != "a" || recs[0].MissingSkills[0] != "Rust" {
		t.Fatalf("unexpected recommendations: %+v", recs)
	}

	body := seen()[0].body
	if body["min_match_score"] != float64(70) || body["max_recommendations"] != float64(20) {
		t.Fatalf("unexpected defaults: %v", body)
	}
	if _, ok := body["target_companies"]; ok {
		t.Fatalf("target_companies should be omitted when empty: %v", body)
	}
}

func TestJobRecommendationsSendsZeroMinScore(t *testing.T) {
	t.Parallel()

	client, seen := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, "success", "", map[string]any{"recommendations": []map[string]any{}})
	})

	zero := 0.0
	if _, err := client.JobRecommendations(context.Background(), DefaultUserPreferences(), RecommendationOptions{MinScore: &zero, MaxCount: 5}); err != nil {
		t.Fatalf("JobRecommendations: %v", err)
	}

	body := seen()[0].body
	if body["min_match_score"] != float64(0) || body["max_recommendations"] != float64(5) {
		t.Fatalf("explicit minimum score not sent: %v", body)
	}
}

func TestSearchHistoryPassesLimit(t *testing.T) {
	t.Parallel()

	client, seen := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, "success", "", map[string]any{
			"history": []map[string]any{{"company": "Acme"}, {"company": "Globex"}},
		})
	})

	history, err := client.SearchHistory(context.Background(), 2)
	if err != nil {
		t.Fatalf("SearchHistory: %v", err)
	}
	if len(history) != 2 || history[1].Company != "Globex" {
		t.Fatalf("unexpected history: %+v", history)
	}
	if got := seen()[0]; got.method != http.MethodGet || got.path != "/api/gemini/search-history" || got.query != "limit=2" {
		t.Fatalf("unexpected request: %+v", got)
	}

	if _, err := client.SearchHistory(context.Background(), 0); err != nil {
		t.Fatalf("SearchHistory: %v", err)
	}
	if q := seen()[1].query; q != "" {
		t.Fatalf("expected no query without limit, got %q", q)
	}
}

func TestCustomBasePath(t *testing.T) {
	t.Parallel()

	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		writeEnvelope(w, "success", "", map[string]any{"status": "healthy"})
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL + "/", BasePath: "discovery/v2/"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	health, err := client.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	if health["status"] != "healthy" {
		t.Fatalf("unexpected health payload: %v", health)
	}
	if path != "/discovery/v2/health" {
		t.Fatalf("unexpected path %q", path)
	}
}
