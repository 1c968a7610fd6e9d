package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/school-api/internal/application/page"
	"github.com/school-api/internal/domain"
)

// PageHandler handles the school's CMS pages.
type PageHandler struct {
	svc page.Service
}

func NewPageHandler(svc page.Service) *PageHandler { return &PageHandler{svc: svc} }

func (h *PageHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	pages, err := h.svc.List(r.Context(), caller)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pages)
}

func (h *PageHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	p, err := h.svc.Get(r.Context(), caller, chi.URLParam(r, "slug"))
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PageHandler) Put(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var req domain.UpsertPageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	p, err := h.svc.Upsert(r.Context(), caller, chi.URLParam(r, "slug"), req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), caller, chi.URLParam(r, "slug")); err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "page deleted"})
}
