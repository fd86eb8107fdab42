package blobstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MrSnakeDoc/scribe/internal/domain"
	"github.com/MrSnakeDoc/scribe/internal/utils"
)

// Config holds the object storage endpoint settings.
type Config struct {
	// BaseURL is the upload API endpoint, e.g. "https://files.example.com/api/blobs".
	BaseURL string
	// Token authenticates uploads (Bearer).
	Token string
	// PublicBaseURL is the public serving root used in direct mode. When
	// empty, BaseURL is used.
	PublicBaseURL string
	// Timeout bounds a single upload request.
	Timeout time.Duration
}

// Client is an HTTP client for the permanent object storage collaborator.
//
// The store speaks a small REST surface: PUT a blob to its destination
// path, get back 2xx on success. In signed mode the store's JSON response
// carries the token-bearing temporary-access URL.
type Client struct {
	cfg        Config
	HTTPClient *http.Client
}

// NewClient creates a blob storage client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// uploadResponse is the storage host's reply body. Only signed mode
// needs it.
type uploadResponse struct {
	URL string `json:"url"`
}

// Upload stores body at path and returns the URL to reference it with,
// shaped according to mode:
//
//	relative -> "/{path}"
//	direct   -> "{public base}/{path}"
//	signed   -> the temporary-access URL returned by the store
func (c *Client) Upload(ctx context.Context, path, contentType string, body io.Reader, mode domain.StorageMode) (string, error) {
	path = strings.TrimLeft(path, "/")

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("upload rejected: %s", resp.Status)
	}

	switch mode {
	case domain.StorageRelative:
		return "/" + path, nil
	case domain.StorageSigned:
		var ur uploadResponse
		if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
			return "", fmt.Errorf("failed to decode upload response: %w", err)
		}
		if ur.URL == "" {
			return "", fmt.Errorf("storage host returned no signed url for %s", path)
		}
		return ur.URL, nil
	default: // direct
		base := c.cfg.PublicBaseURL
		if base == "" {
			base = c.cfg.BaseURL
		}
		return strings.TrimRight(base, "/") + "/" + path, nil
	}
}
