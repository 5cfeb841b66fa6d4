package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type fakeStorage struct {
	objects map[string][]byte
	types   map[string]string
	failing bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeStorage) Upload(_ context.Context, key, contentType string, body io.Reader) error {
	if f.failing {
		return fmt.Errorf("storage unavailable")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeStorage) DownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if _, ok := f.objects[key]; !ok {
		return "", fmt.Errorf("no such object %s", key)
	}
	return "http://storage.local/bucket/" + key, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) EnsureBucketExists(_ context.Context) error { return nil }

func (f *fakeStorage) Health(_ context.Context) error { return nil }

func newRouter(st *fakeStorage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(st)
	r := gin.New()
	r.POST("/upload", h.Upload)
	r.GET("/uploads/:name", h.ServePhoto)
	return r
}

func multipartBody(t *testing.T, field string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, data := range files {
		part, err := writer.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestUpload_StoresPhotosAndReturnsGeneratedNames(t *testing.T) {
	st := newFakeStorage()
	r := newRouter(st)

	body, contentType := multipartBody(t, "photos", map[string][]byte{
		"cabin.jpg": []byte("jpeg-bytes"),
	})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var names []string
	if err := json.NewDecoder(w.Body).Decode(&names); err != nil {
		t.Fatalf("failed to decode names: %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("expected 1 name, got %d", len(names))
	}
	if !strings.HasSuffix(names[0], ".jpg") {
		t.Errorf("expected generated name to keep the extension, got %q", names[0])
	}
	if names[0] == "cabin.jpg" {
		t.Error("stored key must not reuse the client-supplied filename")
	}
	if string(st.objects[names[0]]) != "jpeg-bytes" {
		t.Errorf("stored bytes do not match upload")
	}
}

func TestUpload_RejectsEmptyAndWrongField(t *testing.T) {
	st := newFakeStorage()
	r := newRouter(st)

	body, contentType := multipartBody(t, "attachments", map[string][]byte{
		"cabin.jpg": []byte("jpeg-bytes"),
	})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for wrong field name, got %d", w.Code)
	}
	if len(st.objects) != 0 {
		t.Errorf("nothing should be stored, got %d objects", len(st.objects))
	}
}

func TestUpload_StorageFailureAnswers500(t *testing.T) {
	st := newFakeStorage()
	st.failing = true
	r := newRouter(st)

	body, contentType := multipartBody(t, "photos", map[string][]byte{
		"cabin.jpg": []byte("jpeg-bytes"),
	})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 when storage fails, got %d", w.Code)
	}
}

func TestServePhoto_RedirectsToPresignedURL(t *testing.T) {
	st := newFakeStorage()
	st.objects["abc.jpg"] = []byte("jpeg-bytes")
	r := newRouter(st)

	req := httptest.NewRequest(http.MethodGet, "/uploads/abc.jpg", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "http://storage.local/bucket/abc.jpg" {
		t.Errorf("unexpected redirect target %q", loc)
	}
}

func TestServePhoto_UnknownNameAnswers404(t *testing.T) {
	st := newFakeStorage()
	r := newRouter(st)

	req := httptest.NewRequest(http.MethodGet, "/uploads/missing.jpg", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown photo, got %d", w.Code)
	}
}

func TestHandler_WithoutStorageAnswers503(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(nil)
	r := gin.New()
	r.POST("/upload", h.Upload)
	r.POST("/upload-by-link", h.UploadByLink)
	r.GET("/uploads/:name", h.ServePhoto)

	body, contentType := multipartBody(t, "photos", map[string][]byte{
		"cabin.jpg": []byte("jpeg-bytes"),
	})
	upload := httptest.NewRequest(http.MethodPost, "/upload", body)
	upload.Header.Set("Content-Type", contentType)

	byLink := httptest.NewRequest(http.MethodPost, "/upload-by-link",
		strings.NewReader(`{"link":"http://photos.example.com/a.jpg"}`))
	byLink.Header.Set("Content-Type", "application/json")

	serve := httptest.NewRequest(http.MethodGet, "/uploads/a.jpg", nil)

	for _, req := range []*http.Request{upload, byLink, serve} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s %s: expected 503, got %d", req.Method, req.URL.Path, w.Code)
		}
		var resp map[string]string
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("%s %s: expected structured error body: %v", req.Method, req.URL.Path, err)
		}
		if resp["error"] == "" {
			t.Errorf("%s %s: expected error message in body", req.Method, req.URL.Path)
		}
	}
}

func TestValidatePhotoName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain name", "photo123.jpg", false},
		{"uuid name", "6f1b8c9a-1111-2222-3333-444455556666.png", false},
		{"empty", "", true},
		{"dotdot traversal", "..secret", true},
		{"slash", "a/b.jpg", true},
		{"backslash", `a\b.jpg`, true},
		{"too long", strings.Repeat("a", maxFilenameLength+1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePhotoName(tt.input)
			if tt.wantErr && err == nil {
				t.Errorf("validatePhotoName(%q) expected error, got nil", tt.input)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("validatePhotoName(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}
