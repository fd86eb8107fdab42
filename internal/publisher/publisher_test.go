package publisher

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/scribe/internal/domain"
	"github.com/MrSnakeDoc/scribe/internal/index"
	"github.com/MrSnakeDoc/scribe/internal/logger"
	"github.com/MrSnakeDoc/scribe/internal/markdown"
)

// fakeGitHost records calls and fails on demand.
type fakeGitHost struct {
	branchSHACalls int
	createCalls    int
	putCalls       int
	prCalls        int

	createdBranch string
	putPath       string
	putBranch     string
	putMessage    string
	putContent    []byte
	prHead        string
	prBase        string
	prTitle       string

	branchSHAErr error
	createErr    error
	fileSHA      string
	fileSHAErr   error
	putErr       error
	prErr        error
}

func (f *fakeGitHost) BranchSHA(_ context.Context, branch string) (string, error) {
	f.branchSHACalls++
	if f.branchSHAErr != nil {
		return "", f.branchSHAErr
	}
	return "base-sha", nil
}

func (f *fakeGitHost) CreateBranch(_ context.Context, name, fromSHA string) error {
	f.createCalls++
	f.createdBranch = name
	return f.createErr
}

func (f *fakeGitHost) FileSHA(_ context.Context, filePath, branch string) (string, error) {
	return f.fileSHA, f.fileSHAErr
}

func (f *fakeGitHost) PutFile(_ context.Context, filePath, branch, message string, content []byte, existingSHA string) (string, error) {
	f.putCalls++
	f.putPath = filePath
	f.putBranch = branch
	f.putMessage = message
	f.putContent = content
	if f.putErr != nil {
		return "", f.putErr
	}
	return "commit-sha", nil
}

func (f *fakeGitHost) OpenPullRequest(_ context.Context, title, body, head, base string) (string, error) {
	f.prCalls++
	f.prTitle = title
	f.prHead = head
	f.prBase = base
	if f.prErr != nil {
		return "", f.prErr
	}
	return "https://github.com/octo/site/pull/1", nil
}

func newTestPublisher(git *fakeGitHost) *Publisher {
	log := logger.New("error", false)
	builder := markdown.NewBuilder(markdown.YouTube{}).WithClock(func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	})
	p := New(git, nil, builder, index.NewMemoryIndex(), "main", log)
	p.WithClock(func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	})
	p.suffix = func() string { return "ab12cd34" }
	return p
}

func TestPublishNoteEndToEnd(t *testing.T) {
	git := &fakeGitHost{}
	p := newTestPublisher(git)

	res := p.Publish(context.Background(), domain.PostSubmission{
		Type:      domain.TypeNote,
		Title:     "My First Note",
		Content:   "Hello",
		CreatedBy: "user#1234",
	})

	if res.Status != domain.StatusSuccess {
		t.Fatalf("Publish() status = %s, detail = %s", res.Status, res.ErrorDetail)
	}
	if res.Filepath != "notes/my-first-note.md" {
		t.Errorf("Filepath = %q, want notes/my-first-note.md", res.Filepath)
	}
	if res.BranchName != "post/note-20250601-120000-ab12cd34" {
		t.Errorf("BranchName = %q", res.BranchName)
	}
	if res.CommitSHA != "commit-sha" {
		t.Errorf("CommitSHA = %q", res.CommitSHA)
	}
	if res.PRURL != "https://github.com/octo/site/pull/1" {
		t.Errorf("PRURL = %q", res.PRURL)
	}

	doc := string(git.putContent)
	if !strings.Contains(doc, "type: note") || !strings.Contains(doc, "Hello") {
		t.Errorf("committed document incomplete:\n%s", doc)
	}
	if !strings.Contains(git.putMessage, "Add note: My First Note") {
		t.Errorf("commit message = %q", git.putMessage)
	}
	if !strings.Contains(git.putMessage, "user#1234") {
		t.Errorf("commit message should name the principal: %q", git.putMessage)
	}
	if git.prHead != res.BranchName || git.prBase != "main" {
		t.Errorf("pr head/base = %q/%q", git.prHead, git.prBase)
	}
}

func TestPublishValidationFailureMakesNoRemoteCalls(t *testing.T) {
	git := &fakeGitHost{}
	p := newTestPublisher(git)

	res := p.Publish(context.Background(), domain.PostSubmission{
		Type:  domain.TypeBookmark,
		Title: "x",
		// TargetURL missing
	})

	if res.Status != domain.StatusError {
		t.Fatalf("Publish() status = %s, want error", res.Status)
	}
	if res.ErrorKind != domain.ErrorKindValidation {
		t.Errorf("ErrorKind = %q, want validation", res.ErrorKind)
	}
	if res.ErrorDetail == "" {
		t.Error("ErrorDetail should describe the failure")
	}
	if git.branchSHACalls+git.createCalls+git.putCalls+git.prCalls != 0 {
		t.Errorf("validation failure should make zero git host calls, got %d/%d/%d/%d",
			git.branchSHACalls, git.createCalls, git.putCalls, git.prCalls)
	}
}

func TestPublishBranchFailure(t *testing.T) {
	git := &fakeGitHost{createErr: errors.New("reference already exists")}
	p := newTestPublisher(git)

	res := p.Publish(context.Background(), domain.PostSubmission{
		Type: domain.TypeNote, Title: "x", Content: "y",
	})

	if res.Status != domain.StatusError {
		t.Fatalf("status = %s, want error", res.Status)
	}
	if res.ErrorKind != domain.ErrorKindRemote {
		t.Errorf("ErrorKind = %q, want remote", res.ErrorKind)
	}
	if git.putCalls != 0 || git.prCalls != 0 {
		t.Error("no commit or pr should follow a failed branch creation")
	}
}

func TestPublishPRFailureLeavesBranch(t *testing.T) {
	git := &fakeGitHost{prErr: errors.New("rate limited")}
	p := newTestPublisher(git)

	res := p.Publish(context.Background(), domain.PostSubmission{
		Type: domain.TypeNote, Title: "x", Content: "y",
	})

	if res.Status != domain.StatusError {
		t.Fatalf("status = %s, want error", res.Status)
	}
	// The saga has no compensation: branch and commit happened and stay.
	if git.createCalls != 1 || git.putCalls != 1 {
		t.Errorf("branch/commit calls = %d/%d, want 1/1", git.createCalls, git.putCalls)
	}
	if !strings.Contains(res.ErrorDetail, "rate limited") {
		t.Errorf("ErrorDetail = %q, should carry the cause", res.ErrorDetail)
	}
}

func TestPublishSlugOverridesTitle(t *testing.T) {
	git := &fakeGitHost{}
	p := newTestPublisher(git)

	res := p.Publish(context.Background(), domain.PostSubmission{
		Type:  domain.TypeNote,
		Title: "A Very Long Title Indeed",
		Slug:  "short",
	})

	if res.Filepath != "notes/short.md" {
		t.Errorf("Filepath = %q, want notes/short.md", res.Filepath)
	}
}

func TestPublishUsesExistingFileSHA(t *testing.T) {
	git := &fakeGitHost{fileSHA: "existing-blob"}
	p := newTestPublisher(git)

	res := p.Publish(context.Background(), domain.PostSubmission{
		Type: domain.TypeNote, Title: "dup", Content: "y",
	})
	if res.Status != domain.StatusSuccess {
		t.Fatalf("status = %s, detail = %s", res.Status, res.ErrorDetail)
	}
	// Survivable existence-check path: a lookup error falls back to create.
	git2 := &fakeGitHost{fileSHAErr: errors.New("boom")}
	p2 := newTestPublisher(git2)
	res2 := p2.Publish(context.Background(), domain.PostSubmission{
		Type: domain.TypeNote, Title: "dup", Content: "y",
	})
	if res2.Status != domain.StatusSuccess {
		t.Errorf("status = %s, existence check failures should not abort", res2.Status)
	}
}

func TestPublishBranchNamesDifferPerSuffix(t *testing.T) {
	git := &fakeGitHost{}
	p := newTestPublisher(git)

	suffixes := []string{"aaaa1111", "bbbb2222"}
	i := 0
	p.suffix = func() string { s := suffixes[i%2]; i++; return s }

	first := p.Publish(context.Background(), domain.PostSubmission{Type: domain.TypeNote, Title: "a"})
	second := p.Publish(context.Background(), domain.PostSubmission{Type: domain.TypeNote, Title: "a"})

	if first.BranchName == second.BranchName {
		t.Errorf("concurrent publishes must not share branch names: %q", first.BranchName)
	}
}

type fakeResolver struct {
	rewritten string
}

func (f *fakeResolver) Resolve(_ context.Context, sub domain.PostSubmission, _ domain.SiteMap) domain.PostSubmission {
	sub.MediaURL = f.rewritten
	return sub
}

func TestPublishRunsMediaResolutionFirst(t *testing.T) {
	git := &fakeGitHost{}
	p := newTestPublisher(git)
	p.resolver = &fakeResolver{rewritten: "https://files.example.com/uploads/cat.png"}

	res := p.Publish(context.Background(), domain.PostSubmission{
		Type:     domain.TypeMedia,
		Title:    "Cat",
		MediaURL: "https://cdn.discordapp.com/attachments/1/2/cat.png",
	})
	if res.Status != domain.StatusSuccess {
		t.Fatalf("status = %s, detail = %s", res.Status, res.ErrorDetail)
	}
	if !strings.Contains(string(git.putContent), "https://files.example.com/uploads/cat.png") {
		t.Errorf("document should carry the re-homed url:\n%s", git.putContent)
	}
}
