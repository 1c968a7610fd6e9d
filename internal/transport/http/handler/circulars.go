package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/school-api/internal/application/circular"
	"github.com/school-api/internal/application/readstate"
	"github.com/school-api/internal/domain"
)

// CircularHandler handles circular endpoints and their per-category read state.
type CircularHandler struct {
	svc       circular.Service
	readState readstate.Service
}

func NewCircularHandler(svc circular.Service, readState readstate.Service) *CircularHandler {
	return &CircularHandler{svc: svc, readState: readState}
}

func (h *CircularHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var req domain.CreateCircularRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	c, err := h.svc.Create(r.Context(), caller, req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CircularHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	f, err := circularFilter(r)
	if err != nil {
		httpError(w, r, err)
		return
	}
	page, err := h.svc.List(r.Context(), caller, f)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *CircularHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	id, err := uintParam(r, "id")
	if err != nil {
		httpError(w, r, err)
		return
	}
	c, err := h.svc.Get(r.Context(), caller, id)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CircularHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	id, err := uintParam(r, "id")
	if err != nil {
		httpError(w, r, err)
		return
	}
	var req domain.UpdateCircularRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	c, err := h.svc.Update(r.Context(), caller, id, req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CircularHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	id, err := uintParam(r, "id")
	if err != nil {
		httpError(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), caller, id); err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "circular deleted"})
}

func (h *CircularHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	if err := h.readState.MarkSeen(r.Context(), caller, chi.URLParam(r, "category")); err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "ok"})
}

func (h *CircularHandler) UnseenCount(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	c, err := h.readState.UnseenCount(r.Context(), caller, chi.URLParam(r, "category"))
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CountEnvelope{Category: c.Category, Count: c.Count})
}

func (h *CircularHandler) UnseenCounts(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	counts, err := h.readState.UnseenCounts(r.Context(), caller)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func circularFilter(r *http.Request) (domain.CircularFilter, error) {
	var f domain.CircularFilter
	var err error
	if f.Pagination, err = parsePagination(r); err != nil {
		return f, err
	}
	if f.Active, err = boolQuery(r, "active"); err != nil {
		return f, err
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		cat, err := domain.ParseCategory(raw)
		if err != nil {
			return f, err
		}
		f.Category = &cat
	}
	f.Search = r.URL.Query().Get("search")
	return f, nil
}
