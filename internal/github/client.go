package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/scribe/internal/utils"
)

// DefaultBaseURL is the public GitHub REST v3 endpoint.
const DefaultBaseURL = "https://api.github.com"

// Config holds the target repository coordinates and credentials.
type Config struct {
	// BaseURL overrides the API endpoint (GitHub Enterprise, tests).
	BaseURL string
	Token   string
	Owner   string
	Repo    string
	// Timeout bounds a single API call.
	Timeout time.Duration
}

// Client is a minimal GitHub REST adapter covering exactly the calls
// the publishing saga needs: ref lookup, branch creation, contents
// read/write, pull request creation.
type Client struct {
	baseURL    string
	token      string
	owner      string
	repo       string
	HTTPClient *http.Client
}

// NewClient creates a GitHub API client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      cfg.Token,
		owner:      cfg.Owner,
		repo:       cfg.Repo,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type refResponse struct {
	Object struct {
		SHA string `json:"sha"`
	} `json:"object"`
}

type contentsResponse struct {
	SHA string `json:"sha"`
}

type putContentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

type putContentsResponse struct {
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

type createRefRequest struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

type createPullRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Head  string `json:"head"`
	Base  string `json:"base"`
}

type pullResponse struct {
	HTMLURL string `json:"html_url"`
}

// BranchSHA returns the commit SHA a branch currently points at.
func (c *Client) BranchSHA(ctx context.Context, branch string) (string, error) {
	var ref refResponse
	path := fmt.Sprintf("/repos/%s/%s/git/ref/heads/%s", c.owner, c.repo, branch)
	if err := c.do(ctx, http.MethodGet, path, nil, &ref); err != nil {
		return "", fmt.Errorf("failed to resolve branch %s: %w", branch, err)
	}
	if ref.Object.SHA == "" {
		return "", fmt.Errorf("branch %s has no commit sha", branch)
	}
	return ref.Object.SHA, nil
}

// CreateBranch creates a new branch pointing at fromSHA.
func (c *Client) CreateBranch(ctx context.Context, name, fromSHA string) error {
	body := createRefRequest{
		Ref: "refs/heads/" + name,
		SHA: fromSHA,
	}
	path := fmt.Sprintf("/repos/%s/%s/git/refs", c.owner, c.repo)
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return nil
}

// FileSHA returns the blob SHA of filePath on branch, or "" when the
// file does not exist there.
func (c *Client) FileSHA(ctx context.Context, filePath, branch string) (string, error) {
	var contents contentsResponse
	path := fmt.Sprintf("/repos/%s/%s/contents/%s?ref=%s",
		c.owner, c.repo, escapePath(filePath), url.QueryEscape(branch))
	err := c.do(ctx, http.MethodGet, path, nil, &contents)
	if err != nil {
		var apiErr *APIError
		if asAPIError(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to check file %s: %w", filePath, err)
	}
	return contents.SHA, nil
}

// PutFile creates or updates filePath on branch and returns the commit
// SHA. Pass the existing blob SHA to update, empty to create.
func (c *Client) PutFile(ctx context.Context, filePath, branch, message string, content []byte, existingSHA string) (string, error) {
	body := putContentsRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  branch,
		SHA:     existingSHA,
	}

	var out putContentsResponse
	path := fmt.Sprintf("/repos/%s/%s/contents/%s", c.owner, c.repo, escapePath(filePath))
	if err := c.do(ctx, http.MethodPut, path, body, &out); err != nil {
		return "", fmt.Errorf("failed to commit %s: %w", filePath, err)
	}
	return out.Commit.SHA, nil
}

// OpenPullRequest opens a PR from head to base and returns its URL.
func (c *Client) OpenPullRequest(ctx context.Context, title, body, head, base string) (string, error) {
	req := createPullRequest{
		Title: title,
		Body:  body,
		Head:  head,
		Base:  base,
	}

	var out pullResponse
	path := fmt.Sprintf("/repos/%s/%s/pulls", c.owner, c.repo)
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return "", fmt.Errorf("failed to open pull request: %w", err)
	}
	if out.HTMLURL == "" {
		return "", fmt.Errorf("pull request created but no url returned")
	}
	return out.HTMLURL, nil
}

// do performs one API call. Request and response bodies are JSON; a nil
// out discards the response body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// escapePath escapes each segment of a repository file path while
// keeping the slashes.
func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
