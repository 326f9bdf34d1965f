package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"pingboard/internal/domain/recommend"
)

// RecommendationHandler handles free-text recommendation requests
type RecommendationHandler struct {
	service recommend.Service
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(service recommend.Service) *RecommendationHandler {
	return &RecommendationHandler{
		service: service,
	}
}

// Recommend returns the pings the external matcher judges relevant to the
// search term. An empty list is a successful outcome; a matcher answer
// that is not a parseable id list is a server-side failure.
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SearchTerm string `json:"searchTerm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	pings, err := h.service.Recommend(r.Context(), req.SearchTerm)
	if err != nil {
		if errors.Is(err, recommend.ErrEmptySearchTerm) {
			respondWithError(w, http.StatusBadRequest, "searchTerm is required", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch recommendations", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"recommendedPings": pings,
	})
}
