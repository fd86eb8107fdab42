package media

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/scribe/internal/domain"
	"github.com/MrSnakeDoc/scribe/internal/logger"
	"github.com/MrSnakeDoc/scribe/internal/utils"
)

// maxFetchBytes bounds how much media we are willing to mirror.
const maxFetchBytes = 25 << 20 // 25 MiB

// ObjectStore is the permanent storage collaborator the resolver
// uploads to. Any provider implementing it is substitutable.
type ObjectStore interface {
	Upload(ctx context.Context, path, contentType string, body io.Reader, mode domain.StorageMode) (string, error)
}

// Resolver replaces ephemeral media URLs with permanent storage URLs.
//
// Resolution is pure enrichment: every failure path (fetch error, odd
// content type, storage rejection) logs and hands the submission back
// unchanged. Publishing is never blocked by it.
type Resolver struct {
	store      ObjectStore
	httpClient *http.Client
	logger     logger.Logger
}

// NewResolver creates a resolver. A nil store disables resolution
// entirely (submissions pass through untouched).
func NewResolver(store ObjectStore, log logger.Logger) *Resolver {
	return &Resolver{
		store: store,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log,
	}
}

// Resolve returns a copy of sub with MediaURL re-homed to permanent
// storage when it points at a known ephemeral host. The original
// submission is never mutated.
func (r *Resolver) Resolve(ctx context.Context, sub domain.PostSubmission, sm domain.SiteMap) domain.PostSubmission {
	if r.store == nil || sub.MediaURL == "" {
		return sub
	}
	if !sm.IsEphemeral(sub.MediaURL) {
		r.logger.Debug("media url not ephemeral, keeping as-is",
			logger.String("url", sub.MediaURL))
		return sub
	}

	data, contentType, err := r.fetch(ctx, sub.MediaURL)
	if err != nil {
		r.logger.Warn("media fetch failed, keeping original url",
			logger.String("url", sub.MediaURL),
			logger.Error(err))
		return sub
	}

	dest := destinationPath(sm.UploadPrefix, sub.MediaURL)
	newURL, err := r.store.Upload(ctx, dest, contentType, bytes.NewReader(data), sm.StorageMode)
	if err != nil {
		r.logger.Warn("media upload failed, keeping original url",
			logger.String("url", sub.MediaURL),
			logger.String("dest", dest),
			logger.Error(err))
		return sub
	}

	r.logger.Info("media re-homed to permanent storage",
		logger.String("from", sub.MediaURL),
		logger.String("to", newURL))

	sub.MediaURL = newURL
	return sub
}

// fetch downloads the media bytes with a size cap and a content type
// allow-list.
func (r *Resolver) fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, "", err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &fetchError{status: resp.Status}
	}

	contentType := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	if !supportedContentType(contentType) {
		return nil, "", &fetchError{unsupported: contentType}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxFetchBytes {
		return nil, "", &fetchError{tooLarge: true}
	}
	return data, contentType, nil
}

func supportedContentType(ct string) bool {
	for _, prefix := range []string{"image/", "video/", "audio/"} {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}
	return false
}

// destinationPath builds the object store path: the upload prefix, a
// short unique id, and the sanitized source filename.
func destinationPath(prefix, rawURL string) string {
	stem := "upload"
	ext := ""
	if u, err := url.Parse(rawURL); err == nil {
		base := path.Base(u.Path)
		ext = strings.ToLower(path.Ext(base))
		if s := domain.Slugify(strings.TrimSuffix(base, path.Ext(base))); s != "" {
			stem = s
		}
	}

	name := uuid.NewString()[:8] + "-" + stem + ext
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

type fetchError struct {
	status      string
	unsupported string
	tooLarge    bool
}

func (e *fetchError) Error() string {
	switch {
	case e.tooLarge:
		return "media exceeds size limit"
	case e.unsupported != "":
		return "unsupported content type: " + e.unsupported
	default:
		return "unexpected response: " + e.status
	}
}
