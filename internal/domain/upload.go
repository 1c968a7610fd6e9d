package domain

import "time"

type PresignUploadRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required"`
	Purpose     string `json:"purpose" validate:"required,oneof=circular page alert avatar"`
}

type PresignedUpload struct {
	UploadURL string    `json:"upload_url"`
	ObjectKey string    `json:"object_key"`
	FileURL   string    `json:"file_url"`
	ExpiresAt time.Time `json:"expires_at"`
}
