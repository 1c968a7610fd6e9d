package handler

import (
	"net/http"

	"github.com/school-api/internal/application/notification"
	"github.com/school-api/internal/domain"
)

// NotificationHandler handles the caller's notification feed.
type NotificationHandler struct {
	svc notification.Service
}

func NewNotificationHandler(svc notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var f domain.FeedFilter
	var err error
	if f.Pagination, err = parsePagination(r); err != nil {
		httpError(w, r, err)
		return
	}
	if f.IsRead, err = boolQuery(r, "is_read"); err != nil {
		httpError(w, r, err)
		return
	}
	f.Search = r.URL.Query().Get("search")

	page, err := h.svc.List(r.Context(), caller, f)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var req domain.MarkReadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	res, err := h.svc.MarkRead(r.Context(), caller, req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	n, err := h.svc.UnreadCount(r.Context(), caller)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"unread": n})
}
