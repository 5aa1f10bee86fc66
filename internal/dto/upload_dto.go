package dto

import "time"

// UploadResponse returns the stored location of an uploaded artifact. The
// URL is what a FILE answer references on a later quiz submit.
type UploadResponse struct {
	ID        uint      `json:"id"`
	URL       string    `json:"url"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}
