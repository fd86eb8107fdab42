package integration

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/scribe/internal/domain"
	"github.com/MrSnakeDoc/scribe/internal/github"
	"github.com/MrSnakeDoc/scribe/internal/index"
	"github.com/MrSnakeDoc/scribe/internal/logger"
	"github.com/MrSnakeDoc/scribe/internal/markdown"
	"github.com/MrSnakeDoc/scribe/internal/publisher"
)

// gitHostRecorder is a fake GitHub API that records every call and the
// markdown committed through the contents endpoint.
type gitHostRecorder struct {
	mu           sync.Mutex
	calls        []string
	committedDoc string
	branchName   string
}

func (rec *gitHostRecorder) record(call string) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.calls = append(rec.calls, call)
}

func (rec *gitHostRecorder) callCount() int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return len(rec.calls)
}

func newFakeGitHost(t *testing.T, rec *gitHostRecorder) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/alice/garden/git/ref/heads/main", func(w http.ResponseWriter, r *http.Request) {
		rec.record("branch-sha")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": map[string]string{"sha": "base-sha-000"},
		})
	})
	mux.HandleFunc("POST /repos/alice/garden/git/refs", func(w http.ResponseWriter, r *http.Request) {
		rec.record("create-branch")
		var req struct {
			Ref string `json:"ref"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		rec.mu.Lock()
		rec.branchName = strings.TrimPrefix(req.Ref, "refs/heads/")
		rec.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("GET /repos/alice/garden/contents/", func(w http.ResponseWriter, r *http.Request) {
		rec.record("file-sha")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
	})
	mux.HandleFunc("PUT /repos/alice/garden/contents/", func(w http.ResponseWriter, r *http.Request) {
		rec.record("put-file")
		var req struct {
			Content string `json:"content"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		raw, err := base64.StdEncoding.DecodeString(req.Content)
		if err != nil {
			t.Errorf("committed content is not valid base64: %v", err)
		}
		rec.mu.Lock()
		rec.committedDoc = string(raw)
		rec.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit": map[string]string{"sha": "commit-sha-111"},
		})
	})
	mux.HandleFunc("POST /repos/alice/garden/pulls", func(w http.ResponseWriter, r *http.Request) {
		rec.record("open-pr")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"html_url": "https://github.com/alice/garden/pull/7",
		})
	})

	return httptest.NewServer(mux)
}

func newPipeline(t *testing.T, apiURL string) *publisher.Publisher {
	t.Helper()

	log := logger.New("error", false)
	git := github.NewClient(github.Config{
		BaseURL: apiURL,
		Token:   "test-token",
		Owner:   "alice",
		Repo:    "garden",
	})
	builder := markdown.NewBuilder(markdown.YouTube{}).
		WithClock(func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) })
	idx := index.NewMemoryIndex()

	return publisher.New(git, nil, builder, idx, "main", log).
		WithClock(func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) })
}

// TestPublishNote runs a note submission through the real renderer,
// path computation and git client against a fake API.
func TestPublishNote(t *testing.T) {
	rec := &gitHostRecorder{}
	srv := newFakeGitHost(t, rec)
	defer srv.Close()

	pub := newPipeline(t, srv.URL)

	result := pub.Publish(context.Background(), domain.PostSubmission{
		Type:      domain.TypeNote,
		Title:     "My First Note",
		Content:   "Hello from the garden.",
		Tags:      []string{"intro"},
		CreatedBy: "alice",
	})

	if !result.OK() {
		t.Fatalf("Publish() failed: %s", result.ErrorDetail)
	}
	if result.Filepath != "notes/my-first-note.md" {
		t.Errorf("Filepath = %q, want notes/my-first-note.md", result.Filepath)
	}
	if !strings.HasPrefix(result.BranchName, "post/note-20250601-120000-") {
		t.Errorf("BranchName = %q, want post/note-20250601-120000-<suffix>", result.BranchName)
	}
	if result.BranchName != rec.branchName {
		t.Errorf("branch created on the host = %q, result says %q", rec.branchName, result.BranchName)
	}
	if result.CommitSHA != "commit-sha-111" {
		t.Errorf("CommitSHA = %q, want commit-sha-111", result.CommitSHA)
	}
	if result.PRURL != "https://github.com/alice/garden/pull/7" {
		t.Errorf("PRURL = %q, want the fake pull request url", result.PRURL)
	}

	// The committed document carries frontmatter and the body.
	if !strings.HasPrefix(rec.committedDoc, "---\n") {
		t.Errorf("committed doc missing frontmatter:\n%s", rec.committedDoc)
	}
	if !strings.Contains(rec.committedDoc, "title: My First Note") {
		t.Errorf("committed doc missing title:\n%s", rec.committedDoc)
	}
	if !strings.Contains(rec.committedDoc, "Hello from the garden.") {
		t.Errorf("committed doc missing body:\n%s", rec.committedDoc)
	}
}

// TestPublishInvalidSubmission checks that validation rejects the
// submission before any call reaches the git host.
func TestPublishInvalidSubmission(t *testing.T) {
	rec := &gitHostRecorder{}
	srv := newFakeGitHost(t, rec)
	defer srv.Close()

	pub := newPipeline(t, srv.URL)

	result := pub.Publish(context.Background(), domain.PostSubmission{
		Type:  domain.TypeBookmark,
		Title: "A link with no target",
	})

	if result.OK() {
		t.Fatal("Publish() should have failed for a bookmark without target_url")
	}
	if result.ErrorKind != domain.ErrorKindValidation {
		t.Errorf("ErrorKind = %q, want %q", result.ErrorKind, domain.ErrorKindValidation)
	}
	if got := rec.callCount(); got != 0 {
		t.Errorf("git host received %d calls, want 0", got)
	}
}

// TestPublishResponseWithVideoEmbed checks that a reply to a YouTube
// URL ends up committed with the thumbnail embed appended.
func TestPublishResponseWithVideoEmbed(t *testing.T) {
	rec := &gitHostRecorder{}
	srv := newFakeGitHost(t, rec)
	defer srv.Close()

	pub := newPipeline(t, srv.URL)

	result := pub.Publish(context.Background(), domain.PostSubmission{
		Type:      domain.TypeResponse,
		Title:     "Great talk",
		Content:   "Worth a watch.",
		TargetURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		CreatedBy: "alice",
	})

	if !result.OK() {
		t.Fatalf("Publish() failed: %s", result.ErrorDetail)
	}
	if result.Filepath != "responses/great-talk.md" {
		t.Errorf("Filepath = %q, want responses/great-talk.md", result.Filepath)
	}
	if !strings.Contains(rec.committedDoc, "img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg") {
		t.Errorf("committed doc missing video embed:\n%s", rec.committedDoc)
	}
	if !strings.Contains(rec.committedDoc, "target_url: https://www.youtube.com/watch?v=dQw4w9WgXcQ") {
		t.Errorf("committed doc missing target_url frontmatter:\n%s", rec.committedDoc)
	}
}
