package handler

import (
	"net/http"

	"github.com/school-api/internal/application/alert"
	"github.com/school-api/internal/domain"
)

// AlertHandler handles security alerts.
type AlertHandler struct {
	svc alert.Service
}

func NewAlertHandler(svc alert.Service) *AlertHandler { return &AlertHandler{svc: svc} }

func (h *AlertHandler) Raise(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var req domain.RaiseAlertRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	a, err := h.svc.Raise(r.Context(), caller, req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var f domain.AlertFilter
	var err error
	if f.Pagination, err = parsePagination(r); err != nil {
		httpError(w, r, err)
		return
	}
	active, err := boolQuery(r, "active")
	if err != nil {
		httpError(w, r, err)
		return
	}
	f.ActiveOnly = active != nil && *active

	page, err := h.svc.List(r.Context(), caller, f)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *AlertHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	id, err := uintParam(r, "id")
	if err != nil {
		httpError(w, r, err)
		return
	}
	a, err := h.svc.Resolve(r.Context(), caller, id)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
