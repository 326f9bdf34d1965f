package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pingboard/internal/domain/ping"
)

// PingHandler handles ping-related HTTP requests
type PingHandler struct {
	service ping.Service
}

// NewPingHandler creates a new ping handler
func NewPingHandler(service ping.Service) *PingHandler {
	return &PingHandler{
		service: service,
	}
}

// ListPings returns every stored ping. With ?active=true the list is
// narrowed to pings whose expiry lies in the future; Active/Expired is a
// read-time classification, nothing is persisted or deleted.
func (h *PingHandler) ListPings(w http.ResponseWriter, r *http.Request) {
	pings, err := h.service.List(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch pings", err)
		return
	}

	if activeStr := r.URL.Query().Get("active"); activeStr != "" {
		activeOnly, err := strconv.ParseBool(activeStr)
		if err == nil && activeOnly {
			now := time.Now().UTC()
			filtered := make([]ping.Ping, 0, len(pings))
			for _, p := range pings {
				if !p.Expired(now) {
					filtered = append(filtered, p)
				}
			}
			pings = filtered
		}
	}

	if pings == nil {
		pings = []ping.Ping{}
	}
	respondWithJSON(w, http.StatusOK, pings)
}

// GetPing returns a specific ping by ID; reads are public.
func (h *PingHandler) GetPing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing ping ID", nil)
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ping.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Ping not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch ping", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

// MyPings returns the pings owned by the identity in the user-email header.
func (h *PingHandler) MyPings(w http.ResponseWriter, r *http.Request) {
	userEmail := r.Header.Get("user-email")
	if userEmail == "" {
		respondWithError(w, http.StatusBadRequest, "User email is required", nil)
		return
	}

	pings, err := h.service.ListByOwner(r.Context(), userEmail)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch pings", err)
		return
	}

	if pings == nil {
		pings = []ping.Ping{}
	}
	respondWithJSON(w, http.StatusOK, pings)
}

// CreatePing stores a new ping and returns it with its server-assigned id,
// creation instant and computed expiry.
func (h *PingHandler) CreatePing(w http.ResponseWriter, r *http.Request) {
	var input ping.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, err := h.service.Create(r.Context(), input)
	if err != nil {
		var verr *ping.ValidationError
		if errors.As(err, &verr) {
			respondWithError(w, http.StatusBadRequest, verr.Reason, nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to create ping", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Ping created",
		"ping":    p,
	})
}

// UpdatePing merges a partial update into a stored ping. A missing record
// and an owner mismatch are the same 404 on purpose; see ping.ErrNotFound.
func (h *PingHandler) UpdatePing(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID        string `json:"id"`
		UserEmail string `json:"userEmail"`
		ping.Patch
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if _, err := h.service.Update(r.Context(), req.ID, req.UserEmail, req.Patch); err != nil {
		var verr *ping.ValidationError
		switch {
		case errors.Is(err, ping.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Ping not found", nil)
		case errors.As(err, &verr):
			respondWithError(w, http.StatusBadRequest, verr.Reason, nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to update ping", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Ping updated"})
}

// DeletePing removes a ping, with the same 404 conflation as UpdatePing.
func (h *PingHandler) DeletePing(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID        string `json:"id"`
		UserEmail string `json:"userEmail"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.service.Delete(r.Context(), req.ID, req.UserEmail); err != nil {
		var verr *ping.ValidationError
		switch {
		case errors.Is(err, ping.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Ping not found", nil)
		case errors.As(err, &verr):
			respondWithError(w, http.StatusBadRequest, verr.Reason, nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to delete ping", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Ping deleted"})
}
