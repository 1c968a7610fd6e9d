package handler

import (
	"net/http"

	"github.com/school-api/internal/application/upload"
	"github.com/school-api/internal/domain"
)

// UploadHandler brokers direct-to-S3 uploads.
type UploadHandler struct {
	svc upload.Service
}

func NewUploadHandler(svc upload.Service) *UploadHandler { return &UploadHandler{svc: svc} }

func (h *UploadHandler) Presign(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var req domain.PresignUploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	out, err := h.svc.Presign(r.Context(), caller, req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}
