package marketplace

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

type memoryCache struct {
	data    map[string][]byte
	sets    int
	deletes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest any) error {
	raw, ok := m.data[key]
	if !ok {
		return errors.New("miss")
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.sets++
	m.data[key] = raw
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.deletes++
	delete(m.data, key)
	return nil
}

func newBackend(t *testing.T, hits *int) *httptest.Server {
	t.Helper()

	pages := [][]map[string]any{
		{
			{"id": "w1", "name": "Sarah", "rating": 4.9, "hourlyRate": 85, "completedJobs": 127, "workType": "projects", "badges": []string{"top-rated"}},
			{"id": "w2", "name": "Marcus", "rating": 4.8, "hourlyRate": 65, "workType": "gigs"},
		},
		{
			{"id": "w3", "name": "Elena", "rating": 4.7, "hourlyRate": 70, "location": "Remote"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/workers", func(w http.ResponseWriter, r *http.Request) {
		*hits++
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		page := 0
		if p := r.URL.Query().Get("page"); p != "" {
			fmt.Sscanf(p, "%d", &page)
		}
		if r.URL.Query().Get("per_page") != perPage {
			t.Errorf("expected per_page=%s, got %q", perPage, r.URL.Query().Get("per_page"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items":    pages[page],
			"page":     page,
			"pages":    len(pages),
			"per_page": 2,
			"found":    3,
		})
	})
	mux.HandleFunc("/profiles/w1", func(w http.ResponseWriter, _ *http.Request) {
		*hits++
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		defer gz.Close()
		json.NewEncoder(gz).Encode(map[string]any{
			"id":     "w1",
			"name":   "Sarah",
			"bio":    "Builds production web apps",
			"skills": []string{"React"},
		})
	})

	return httptest.NewServer(mux)
}

func TestGetWorkersFollowsPagination(t *testing.T) {
	hits := 0
	srv := newBackend(t, &hits)
	defer srv.Close()

	client := New(srv.URL+"/", "secret", zap.NewNop())

	roster, err := client.GetWorkers(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if roster.Len() != 3 {
		t.Fatalf("expected 3 workers, got %d", roster.Len())
	}
	if hits != 2 {
		t.Fatalf("expected 2 requests, got %d", hits)
	}

	sarah := roster.FindByID("w1")
	if sarah == nil {
		t.Fatalf("expected w1 in roster")
	}
	if sarah.CompletedJobs != 127 || sarah.HourlyRate != 85 || sarah.WorkType != WorkTypeProjects {
		t.Fatalf("unexpected decoded worker: %+v", sarah)
	}
	if len(sarah.Badges) != 1 || sarah.Badges[0] != BadgeTopRated {
		t.Fatalf("unexpected badges: %v", sarah.Badges)
	}
}

func TestGetWorkersStopsWhenBackendIgnoresPage(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{{"id": "w1", "name": "Sarah"}},
			"page":  0,
			"pages": 2,
		})
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	roster, err := New(srv.URL, "", zap.NewNop()).GetWorkers(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits != 2 {
		t.Fatalf("expected 2 requests, got %d", hits)
	}
	if roster.Len() != 1 {
		t.Fatalf("repeated page must not be appended, got %d workers", roster.Len())
	}
}

func TestGetWorkersStopsOnEmptyPage(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		json.NewEncoder(w).Encode(map[string]any{"items": []any{}, "page": 0, "pages": 5})
	}))
	defer srv.Close()

	roster, err := New(srv.URL, "", zap.NewNop()).GetWorkers(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits != 1 || roster.Len() != 0 {
		t.Fatalf("expected a single request and no workers, got %d requests and %d workers", hits, roster.Len())
	}
}

func TestGetWorkersBadToken(t *testing.T) {
	hits := 0
	srv := newBackend(t, &hits)
	defer srv.Close()

	client := New(srv.URL, "wrong", nil)
	if _, err := client.GetWorkers(context.Background(), nil); err == nil {
		t.Fatalf("expected error for unauthorized request")
	}
}

func TestGetProfileDecodesGzip(t *testing.T) {
	hits := 0
	srv := newBackend(t, &hits)
	defer srv.Close()

	client := New(srv.URL, "secret", zap.NewNop())

	profile, err := client.GetProfile(context.Background(), "w1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Bio != "Builds production web apps" {
		t.Fatalf("unexpected bio: %q", profile.Bio)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	hits := 0
	srv := newBackend(t, &hits)
	defer srv.Close()

	client := New(srv.URL, "secret", zap.NewNop())

	_, err := client.GetProfile(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := client.GetProfile(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestClientUsesCache(t *testing.T) {
	hits := 0
	srv := newBackend(t, &hits)
	defer srv.Close()

	cache := newMemoryCache()
	client := New(srv.URL, "secret", zap.NewNop()).WithCache(cache, 0)

	for i := 0; i < 3; i++ {
		if _, err := client.GetProfile(context.Background(), "w1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if hits != 1 {
		t.Fatalf("expected a single backend hit, got %d", hits)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.sets)
	}
	if client.cacheTTL != defaultCacheTTL {
		t.Fatalf("expected default ttl, got %v", client.cacheTTL)
	}

	hits = 0
	for i := 0; i < 2; i++ {
		roster, err := client.GetWorkers(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if roster.Len() != 3 {
			t.Fatalf("expected 3 cached workers, got %d", roster.Len())
		}
	}
	if hits != 2 {
		t.Fatalf("expected only the first listing to hit the backend, got %d", hits)
	}
}

func TestClientRefreshDropsCachedResponses(t *testing.T) {
	hits := 0
	srv := newBackend(t, &hits)
	defer srv.Close()

	cache := newMemoryCache()
	if _, err := New(srv.URL, "secret", zap.NewNop()).WithCache(cache, time.Minute).GetProfile(context.Background(), "w1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	client := New(srv.URL, "secret", zap.NewNop()).WithCache(cache, time.Minute).WithRefresh()
	if _, err := client.GetProfile(context.Background(), "w1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hits != 2 {
		t.Fatalf("expected refresh to hit the backend again, got %d requests", hits)
	}
	if cache.deletes != 1 {
		t.Fatalf("expected the stale entry to be deleted once, got %d", cache.deletes)
	}
	if _, ok := cache.data[profileKey("w1")]; !ok {
		t.Fatalf("expected the fresh profile to be cached again")
	}
}
