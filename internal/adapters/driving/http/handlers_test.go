package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nearbyhq/nearby-core/internal/core/domain"
)

// stubSearchService records the last filters it saw and returns canned results
type stubSearchService struct {
	lastFilters domain.SearchFilters
	page        *domain.SearchPage
	trending    []domain.QueryCount
	err         error
}

func (s *stubSearchService) Search(ctx context.Context, filters domain.SearchFilters) (*domain.SearchPage, error) {
	s.lastFilters = filters
	if s.err != nil {
		return nil, s.err
	}
	if s.page != nil {
		return s.page, nil
	}
	return domain.EmptyPage(1, 10), nil
}

func (s *stubSearchService) TrendingQueries(ctx context.Context, limit int) ([]domain.QueryCount, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.trending, nil
}

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(ctx context.Context) error {
	return p.err
}

func newTestServer(t *testing.T, svc *stubSearchService) *Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.JWTSecret = "test-secret"
	return NewServer(cfg, svc, &stubPinger{}, nil)
}

func doRequest(s *Server, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, &stubSearchService{})

	rec := doRequest(s, http.MethodGet, "/health", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestHandleReady(t *testing.T) {
	t.Run("all dependencies healthy", func(t *testing.T) {
		s := newTestServer(t, &stubSearchService{})

		rec := doRequest(s, http.MethodGet, "/ready", "", nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("database unreachable", func(t *testing.T) {
		cfg := DefaultConfig()
		svc := &stubSearchService{}
		s := NewServer(cfg, svc, &stubPinger{err: errors.New("connection refused")}, nil)

		rec := doRequest(s, http.MethodGet, "/ready", "", nil)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})

	t.Run("cache unreachable", func(t *testing.T) {
		cfg := DefaultConfig()
		svc := &stubSearchService{}
		s := NewServer(cfg, svc, &stubPinger{}, &stubPinger{err: errors.New("connection refused")})

		rec := doRequest(s, http.MethodGet, "/ready", "", nil)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}

func TestHandleVersion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Version = "1.2.3"
	s := NewServer(cfg, &stubSearchService{}, &stubPinger{}, nil)

	rec := doRequest(s, http.MethodGet, "/version", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["version"] != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %q", body["version"])
	}
}

func TestHandleSearch(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		svc := &stubSearchService{
			page: &domain.SearchPage{
				Page:  1,
				Limit: 10,
				Total: 1,
				Providers: []*domain.ProviderSummary{
					{ID: "p1", Title: "Alice Cleaning"},
				},
			},
		}
		s := newTestServer(t, svc)

		rec := doRequest(s, http.MethodPost, "/api/v1/search",
			`{"q":"cleaning","rating":4,"sort":"rating"}`, nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var page domain.SearchPage
		if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if page.Total != 1 || len(page.Providers) != 1 {
			t.Errorf("unexpected page: %+v", page)
		}
		if svc.lastFilters.Query != "cleaning" {
			t.Errorf("expected query to reach the service, got %q", svc.lastFilters.Query)
		}
		if svc.lastFilters.Sort != domain.SortRating {
			t.Errorf("expected sort rating, got %q", svc.lastFilters.Sort)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		s := newTestServer(t, &stubSearchService{})

		rec := doRequest(s, http.MethodPost, "/api/v1/search", `{"q":`, nil)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rating out of range is rejected", func(t *testing.T) {
		svc := &stubSearchService{}
		s := newTestServer(t, svc)

		rec := doRequest(s, http.MethodPost, "/api/v1/search", `{"rating":9}`, nil)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown sort key is rejected", func(t *testing.T) {
		s := newTestServer(t, &stubSearchService{})

		rec := doRequest(s, http.MethodPost, "/api/v1/search", `{"sort":"price"}`, nil)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("invalid location maps to 400", func(t *testing.T) {
		svc := &stubSearchService{
			err: fmt.Errorf("%w: %q", domain.ErrInvalidLocation, "not-a-point"),
		}
		s := newTestServer(t, svc)

		rec := doRequest(s, http.MethodPost, "/api/v1/search",
			`{"location":"not-a-point"}`, nil)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown category maps to 400", func(t *testing.T) {
		svc := &stubSearchService{
			err: fmt.Errorf("%w: %q", domain.ErrUnknownCategory, "astrology"),
		}
		s := newTestServer(t, svc)

		rec := doRequest(s, http.MethodPost, "/api/v1/search",
			`{"category":"astrology"}`, nil)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("retrieval failure maps to 500", func(t *testing.T) {
		svc := &stubSearchService{err: errors.New("search index unavailable")}
		s := newTestServer(t, svc)

		rec := doRequest(s, http.MethodPost, "/api/v1/search", `{"q":"plumber"}`, nil)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("bearer token resolves user id", func(t *testing.T) {
		svc := &stubSearchService{}
		s := newTestServer(t, svc)

		token := signedToken(t, "test-secret", "user-42")
		rec := doRequest(s, http.MethodPost, "/api/v1/search", `{"q":"plumber"}`,
			map[string]string{"Authorization": "Bearer " + token})

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if svc.lastFilters.UserID != "user-42" {
			t.Errorf("expected user id user-42, got %q", svc.lastFilters.UserID)
		}
	})

	t.Run("invalid bearer token is ignored", func(t *testing.T) {
		svc := &stubSearchService{}
		s := newTestServer(t, svc)

		rec := doRequest(s, http.MethodPost, "/api/v1/search", `{"q":"plumber"}`,
			map[string]string{"Authorization": "Bearer not-a-jwt"})

		if rec.Code != http.StatusOK {
			t.Fatalf("expected anonymous fallback 200, got %d", rec.Code)
		}
		if svc.lastFilters.UserID != "" {
			t.Errorf("expected empty user id, got %q", svc.lastFilters.UserID)
		}
	})

	t.Run("request id is echoed", func(t *testing.T) {
		s := newTestServer(t, &stubSearchService{})

		rec := doRequest(s, http.MethodPost, "/api/v1/search", `{}`,
			map[string]string{"X-Request-ID": "req-123"})

		if got := rec.Header().Get("X-Request-ID"); got != "req-123" {
			t.Errorf("expected request id to be echoed, got %q", got)
		}
	})

	t.Run("request id is generated when missing", func(t *testing.T) {
		s := newTestServer(t, &stubSearchService{})

		rec := doRequest(s, http.MethodPost, "/api/v1/search", `{}`, nil)

		if rec.Header().Get("X-Request-ID") == "" {
			t.Error("expected a generated request id")
		}
	})
}

func TestHandleTrending(t *testing.T) {
	t.Run("returns terms", func(t *testing.T) {
		svc := &stubSearchService{
			trending: []domain.QueryCount{
				{Term: "plumber", Count: 12},
				{Term: "cleaning", Count: 7},
			},
		}
		s := newTestServer(t, svc)

		rec := doRequest(s, http.MethodGet, "/api/v1/search/trending?limit=5", "", nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var terms []domain.QueryCount
		if err := json.Unmarshal(rec.Body.Bytes(), &terms); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(terms) != 2 || terms[0].Term != "plumber" {
			t.Errorf("unexpected terms: %+v", terms)
		}
	})

	t.Run("invalid limit is rejected", func(t *testing.T) {
		s := newTestServer(t, &stubSearchService{})

		rec := doRequest(s, http.MethodGet, "/api/v1/search/trending?limit=zero", "", nil)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("log failure maps to 500", func(t *testing.T) {
		svc := &stubSearchService{err: errors.New("redis down")}
		s := newTestServer(t, svc)

		rec := doRequest(s, http.MethodGet, "/api/v1/search/trending", "", nil)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestHandleCategories(t *testing.T) {
	s := newTestServer(t, &stubSearchService{})

	rec := doRequest(s, http.MethodGet, "/api/v1/categories", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var taxonomy map[domain.Category][]domain.Subcategory
	if err := json.Unmarshal(rec.Body.Bytes(), &taxonomy); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(taxonomy) != len(domain.AllowedSubcategories) {
		t.Errorf("expected %d categories, got %d", len(domain.AllowedSubcategories), len(taxonomy))
	}
	if _, ok := taxonomy["cleaning"]; !ok {
		t.Error("expected cleaning category in taxonomy")
	}
}

func signedToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": subject})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}
