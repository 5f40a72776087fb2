package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/quotekeep/quotekeep-go/internal/middleware"
	"github.com/quotekeep/quotekeep-go/internal/model"
	"github.com/quotekeep/quotekeep-go/internal/service"
)

// QuoteHandler handles HTTP requests for quote operations.
type QuoteHandler struct {
	service *service.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(svc *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: svc}
}

// parseListParams converts the raw query string into typed listing
// parameters. Unparseable numbers become zero and are clamped by
// ListParams.Normalize before they reach the store.
func parseListParams(r *http.Request) model.ListParams {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	var tags []string
	if raw := q.Get("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	return model.ListParams{
		Search:     q.Get("search"),
		Collection: q.Get("collection"),
		Tags:       tags,
		Page:       page,
		Limit:      limit,
		SortBy:     q.Get("sortBy"),
		SortOrder:  q.Get("sortOrder"),
	}
}

// HandleList handles GET /api/quotes requests.
func (h *QuoteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	resp, err := h.service.List(r.Context(), userID, parseListParams(r))
	if err != nil {
		internalError(w, "error fetching quotes", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleStats handles GET /api/quotes/stats requests.
func (h *QuoteHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	stats, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		internalError(w, "error fetching stats", err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// HandleCreate handles POST /api/quotes requests.
func (h *QuoteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err.Error() == "http: request body too large" {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	resp, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		internalError(w, "error creating quote", err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleUpdate handles PUT /api/quotes/{quote_id} requests.
func (h *QuoteHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	quoteID := chi.URLParam(r, "quote_id")
	if quoteID == "" || len(quoteID) > 36 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid quote id"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err.Error() == "http: request body too large" {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	resp, err := h.service.Update(r.Context(), userID, quoteID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrQuoteNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			internalError(w, "error updating quote", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /api/quotes/{quote_id} requests.
func (h *QuoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	quoteID := chi.URLParam(r, "quote_id")
	if quoteID == "" || len(quoteID) > 36 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid quote id"))
		return
	}

	err := h.service.Delete(r.Context(), userID, quoteID)
	if err != nil {
		if errors.Is(err, service.ErrQuoteNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		internalError(w, "error deleting quote", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleTags handles GET /api/tags requests.
func (h *QuoteHandler) HandleTags(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	tags, err := h.service.Tags(r.Context(), userID)
	if err != nil {
		internalError(w, "error fetching tags", err)
		return
	}

	writeJSON(w, http.StatusOK, tags)
}
