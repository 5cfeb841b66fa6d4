package uploads

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
)

const (
	fetchTimeout = 15 * time.Second
	// maxImageSize caps remote downloads and multipart uploads at 10MB.
	maxImageSize = 10 * 1024 * 1024
)

// newSafeClient builds an HTTP client for fetching remote images on behalf
// of users. safeurl validates resolved IPs in the dialer's Control hook, so
// requests to private, loopback, link-local, and metadata addresses are
// blocked even under DNS rebinding.
func newSafeClient() *http.Client {
	cfg := safeurl.GetConfigBuilder().
		SetTimeout(fetchTimeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()

	wrapped := safeurl.Client(cfg)
	return wrapped.Client
}

// fetchImage downloads a remote image and returns its bytes and content
// type. Responses that are not images or exceed the size cap are rejected.
func fetchImage(client *http.Client, link string) ([]byte, string, error) {
	resp, err := client.Get(link)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d downloading image", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image body: %w", err)
	}
	if len(data) > maxImageSize {
		return nil, "", fmt.Errorf("image exceeds %d byte limit", maxImageSize)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty image body")
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("content type %s is not an image", contentType)
	}

	return data, contentType, nil
}
