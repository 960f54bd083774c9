package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/nearbyhq/nearby-core/internal/core/domain"
)

// validate checks SearchFilters constraints before resolution
var validate = validator.New()

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid location"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the API (checks database and cache connections)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "A dependency is unreachable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "cache unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// handleSearch godoc
// @Summary      Search service providers
// @Description  Resolves marketplace filters into a paginated, ranked list of provider summaries
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        request  body      domain.SearchFilters  true  "Search filters"
// @Success      200      {object}  domain.SearchPage
// @Failure      400      {object}  ErrorResponse  "Invalid filters or location"
// @Failure      500      {object}  ErrorResponse  "Retrieval failure"
// @Router       /api/v1/search [post]
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var filters domain.SearchFilters
	if err := json.NewDecoder(r.Body).Decode(&filters); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validate.Struct(filters); err != nil {
		writeError(w, http.StatusBadRequest, "invalid search filters")
		return
	}

	filters.UserID = UserIDFromContext(r.Context())

	page, err := s.searchService.Search(r.Context(), filters)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidLocation):
			writeError(w, http.StatusBadRequest, "invalid location")
		case errors.Is(err, domain.ErrUnknownCategory):
			writeError(w, http.StatusBadRequest, "unknown category")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid search filters")
		default:
			writeError(w, http.StatusInternalServerError, "search failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// handleTrending godoc
// @Summary      Trending search terms
// @Description  Returns the most frequent free-text search terms
// @Tags         Search
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of terms"  default(10)
// @Success      200    {array}   domain.QueryCount
// @Failure      400    {object}  ErrorResponse  "Invalid limit"
// @Failure      500    {object}  ErrorResponse
// @Router       /api/v1/search/trending [get]
func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	terms, err := s.searchService.TrendingQueries(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load trending terms")
		return
	}

	writeJSON(w, http.StatusOK, terms)
}

// handleCategories godoc
// @Summary      List the category taxonomy
// @Description  Returns the allowed category to subcategory mapping used to build search filters
// @Tags         Search
// @Produce      json
// @Success      200  {object}  map[string][]string
// @Router       /api/v1/categories [get]
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.AllowedSubcategories)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
