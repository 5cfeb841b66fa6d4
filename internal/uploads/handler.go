// Package uploads accepts listing photos, either as multipart files or by
// downloading a remote URL, and stores them as opaque filenames that listing
// operations reference.
package uploads

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"homestay/internal/storage"
)

const (
	maxPhotosPerUpload = 100
	downloadURLTTL     = 1 * time.Hour
	maxFilenameLength  = 255
)

// Handler handles photo upload HTTP requests.
type Handler struct {
	storage storage.Service
	client  *http.Client
}

// NewHandler creates a new uploads handler.
func NewHandler(st storage.Service) *Handler {
	return &Handler{storage: st, client: newSafeClient()}
}

// storageReady answers an explicit 503 when the server came up without
// photo storage. The core API keeps running in that mode; upload routes
// must fail loudly, not fault.
func (h *Handler) storageReady(c *gin.Context) bool {
	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo storage unavailable"})
		return false
	}
	return true
}

// UploadByLinkRequest is the payload for POST /upload-by-link.
type UploadByLinkRequest struct {
	Link string `json:"link" binding:"required,url"`
}

// UploadByLink handles POST /upload-by-link: it downloads the remote image
// through the SSRF-guarded client and stores it under a generated name.
func (h *Handler) UploadByLink(c *gin.Context) {
	if !h.storageReady(c) {
		return
	}

	var req UploadByLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, contentType, err := fetchImage(h.client, req.Link)
	if err != nil {
		slog.Warn("Image download rejected", "link", req.Link, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "image download failed"})
		return
	}

	name := fmt.Sprintf("photo%d.jpg", time.Now().UnixMilli())
	if err := h.storage.Upload(c.Request.Context(), name, contentType, bytes.NewReader(data)); err != nil {
		slog.Error("Failed to store downloaded image", "name", name, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "image download failed"})
		return
	}

	c.JSON(http.StatusOK, name)
}

// Upload handles POST /upload: multipart files under the "photos" field are
// stored and their generated filenames returned in order.
func (h *Handler) Upload(c *gin.Context) {
	if !h.storageReady(c) {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	files := form.File["photos"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no photos provided"})
		return
	}
	if len(files) > maxPhotosPerUpload {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d photos per upload", maxPhotosPerUpload)})
		return
	}

	names := make([]string, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxImageSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("photo %s exceeds size limit", fh.Filename)})
			return
		}

		ext := strings.ToLower(filepath.Ext(fh.Filename))
		name := uuid.New().String() + ext

		src, err := fh.Open()
		if err != nil {
			slog.Error("Failed to open uploaded photo", "filename", fh.Filename, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
			return
		}

		contentType := fh.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		err = h.storage.Upload(c.Request.Context(), name, contentType, src)
		src.Close()
		if err != nil {
			slog.Error("Failed to store uploaded photo", "name", name, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
			return
		}

		names = append(names, name)
	}

	c.JSON(http.StatusOK, names)
}

// ServePhoto handles GET /uploads/:name by redirecting to a presigned
// download URL for the stored object.
func (h *Handler) ServePhoto(c *gin.Context) {
	if !h.storageReady(c) {
		return
	}

	name := c.Param("name")
	if err := validatePhotoName(name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := h.storage.DownloadURL(c.Request.Context(), name, downloadURLTTL)
	if err != nil {
		slog.Error("Failed to presign photo URL", "name", name, "error", err.Error())
		c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
		return
	}

	c.Redirect(http.StatusFound, url)
}

// validatePhotoName rejects keys that could escape the bucket namespace.
func validatePhotoName(name string) error {
	if name == "" {
		return fmt.Errorf("photo name cannot be empty")
	}
	if len(name) > maxFilenameLength {
		return fmt.Errorf("photo name too long (max %d characters)", maxFilenameLength)
	}
	if strings.Contains(name, "..") || strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf("photo name contains invalid characters")
	}
	return nil
}
