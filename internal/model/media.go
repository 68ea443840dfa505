package model

import "errors"

const (
	MaxSessionMediaSize  = 25 * 1024 * 1024 // 25MB per photo or short clip
	SessionMediaFolder   = "sessions"
	SessionMediaCacheCtl = "public, max-age=31536000" // 1 year
	PresignExpirySeconds = 900
)

// Supported content types for session media
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
	ContentTypeMP4  = "video/mp4"
)

var mediaExtensions = map[string]string{
	ContentTypeJPEG: ".jpg",
	ContentTypePNG:  ".png",
	ContentTypeGIF:  ".gif",
	ContentTypeWebP: ".webp",
	ContentTypeMP4:  ".mp4",
}

// Error codes for HTTP responses
const (
	CodeFileTooLarge       = "FILE_TOO_LARGE"
	CodeInvalidContentType = "INVALID_CONTENT_TYPE"
)

var (
	ErrFileTooLarge       = errors.New("file too large")
	ErrInvalidContentType = errors.New("unsupported media type")
)

// PresignUploadRequest requests a presigned URL for uploading session media directly to storage.
type PresignUploadRequest struct {
	ContentType string `json:"content_type" validate:"required"`
	FileSize    int64  `json:"file_size" validate:"gte=0"` // Optional but recommended
}

// PresignUploadResponse returns upload details for direct-to-storage uploads.
// Client PUTs bytes to UploadURL and keeps PublicURL for display.
type PresignUploadResponse struct {
	UploadURL  string `json:"upload_url"`
	PublicURL  string `json:"public_url"`
	Key        string `json:"key"`
	ExpiresInS int    `json:"expires_in"`
}

// MediaExtension returns the file extension for a supported content type.
func MediaExtension(contentType string) (string, bool) {
	ext, ok := mediaExtensions[contentType]
	return ext, ok
}
