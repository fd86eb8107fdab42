package publisher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/scribe/internal/domain"
	"github.com/MrSnakeDoc/scribe/internal/index"
	"github.com/MrSnakeDoc/scribe/internal/logger"
)

// GitHost is the git hosting capability the publishing saga runs
// against. Any provider implementing it is substitutable; the shipped
// implementation lives in internal/github.
type GitHost interface {
	BranchSHA(ctx context.Context, branch string) (string, error)
	CreateBranch(ctx context.Context, name, fromSHA string) error
	FileSHA(ctx context.Context, filePath, branch string) (string, error)
	PutFile(ctx context.Context, filePath, branch, message string, content []byte, existingSHA string) (string, error)
	OpenPullRequest(ctx context.Context, title, body, head, base string) (string, error)
}

// MediaResolver is the best-effort media re-homing step. It never
// fails; it returns the submission unchanged when resolution is not
// possible.
type MediaResolver interface {
	Resolve(ctx context.Context, sub domain.PostSubmission, sm domain.SiteMap) domain.PostSubmission
}

// Renderer turns a submission into the final markdown document.
type Renderer interface {
	Render(sub domain.PostSubmission) (string, error)
}

// Publisher runs the publish saga: resolve media, render, compute the
// target path, then branch, commit and pull request against the git
// host.
//
// The saga is linear with no compensation. A failure after branch
// creation can leave an orphaned branch behind; that is accepted, since
// a human reviews every pull request before merge and stale branches
// are visible in the repository. No retries happen here either: the
// caller re-invokes on transient failure, producing a fresh branch.
type Publisher struct {
	git      GitHost
	resolver MediaResolver
	renderer Renderer
	index    *index.MemoryIndex
	logger   logger.Logger

	baseBranch string
	now        func() time.Time
	suffix     func() string
}

// New creates a publisher. resolver may be nil when no object storage
// is configured.
func New(git GitHost, resolver MediaResolver, renderer Renderer, idx *index.MemoryIndex, baseBranch string, log logger.Logger) *Publisher {
	return &Publisher{
		git:        git,
		resolver:   resolver,
		renderer:   renderer,
		index:      idx,
		logger:     log,
		baseBranch: baseBranch,
		now:        time.Now,
		suffix:     func() string { return uuid.NewString()[:8] },
	}
}

// WithClock overrides the timestamp source used for branch names.
func (p *Publisher) WithClock(now func() time.Time) *Publisher {
	p.now = now
	return p
}

// Publish runs the full pipeline for one submission and returns its
// result. Errors come back inside the result, never as panics or bare
// error returns: the inbound adapter renders a uniform failure message
// from ErrorDetail regardless of where the saga stopped.
func (p *Publisher) Publish(ctx context.Context, sub domain.PostSubmission) domain.PublishResult {
	sm := p.index.Current()

	// Step 1: media resolution, best-effort.
	if p.resolver != nil {
		sub = p.resolver.Resolve(ctx, sub, sm)
	}

	// Step 2: render. This is the validation gate; failing here means
	// zero git host calls were made.
	doc, err := p.renderer.Render(sub)
	if err != nil {
		p.logger.Warn("submission rejected",
			logger.String("type", string(sub.Type)),
			logger.Error(err))
		return errorResult(err)
	}

	// Step 3: target path.
	dir, ok := sm.DirectoryFor(sub.Type)
	if !ok {
		err := fmt.Errorf("no directory mapped for post type %s", sub.Type)
		p.logger.Error("site map incomplete", logger.Error(err))
		return errorResult(err)
	}
	filePath := dir + "/" + domain.Filename(sub.Title, sub.Slug)

	// Step 4: branch.
	branch := p.branchName(sub.Type)
	baseSHA, err := p.git.BranchSHA(ctx, p.baseBranch)
	if err != nil {
		return p.remoteFailure("branch", branch, err)
	}
	if err := p.git.CreateBranch(ctx, branch, baseSHA); err != nil {
		return p.remoteFailure("branch", branch, err)
	}

	// Step 5: commit. The existence check decides create vs update; a
	// failed check is survivable because PutFile is authoritative.
	existingSHA, err := p.git.FileSHA(ctx, filePath, branch)
	if err != nil {
		p.logger.Warn("file existence check failed, assuming new file",
			logger.String("path", filePath),
			logger.Error(err))
		existingSHA = ""
	}
	commitSHA, err := p.git.PutFile(ctx, filePath, branch, commitMessage(sub, filePath), []byte(doc), existingSHA)
	if err != nil {
		return p.remoteFailure("commit", branch, err)
	}

	// Step 6: pull request.
	prURL, err := p.git.OpenPullRequest(ctx, prTitle(sub, filePath), prBody(sub, filePath, branch), branch, p.baseBranch)
	if err != nil {
		// The branch and commit stay behind for manual inspection.
		return p.remoteFailure("pull_request", branch, err)
	}

	p.logger.Info("post published",
		logger.String("type", string(sub.Type)),
		logger.String("path", filePath),
		logger.String("branch", branch),
		logger.String("pr", prURL))

	return domain.PublishResult{
		Status:     domain.StatusSuccess,
		Filepath:   filePath,
		BranchName: branch,
		CommitSHA:  commitSHA,
		PRURL:      prURL,
	}
}

// branchName builds a collision-resistant branch name from post type,
// timestamp and a short random suffix. Concurrent publishes are safe
// because each gets its own branch.
func (p *Publisher) branchName(t domain.PostType) string {
	return fmt.Sprintf("post/%s-%s-%s",
		t, p.now().UTC().Format("20060102-150405"), p.suffix())
}

func (p *Publisher) remoteFailure(op, branch string, err error) domain.PublishResult {
	remoteErr := &domain.RemoteOperationError{Op: op, Err: err}
	p.logger.Error("publish failed",
		logger.String("op", op),
		logger.String("branch", branch),
		logger.Error(err))
	return errorResult(remoteErr)
}

func errorResult(err error) domain.PublishResult {
	return domain.PublishResult{
		Status:      domain.StatusError,
		ErrorKind:   errorKind(err),
		ErrorDetail: err.Error(),
	}
}

func errorKind(err error) string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return domain.ErrorKindValidation
	}
	var rerr *domain.RemoteOperationError
	if errors.As(err, &rerr) {
		return domain.ErrorKindRemote
	}
	return domain.ErrorKindConfig
}

func displayTitle(sub domain.PostSubmission, filePath string) string {
	if sub.Title != "" {
		return sub.Title
	}
	// Fall back to the filename stem.
	name := filePath
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, ".md")
}

func commitMessage(sub domain.PostSubmission, filePath string) string {
	msg := fmt.Sprintf("Add %s: %s", sub.Type, displayTitle(sub, filePath))
	if sub.CreatedBy != "" {
		msg += "\n\nSubmitted by " + sub.CreatedBy
	}
	return msg
}

func prTitle(sub domain.PostSubmission, filePath string) string {
	return fmt.Sprintf("New %s: %s", sub.Type, displayTitle(sub, filePath))
}

func prBody(sub domain.PostSubmission, filePath, branch string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Publishing a new %s post.\n\n", sub.Type)
	fmt.Fprintf(&b, "- File: `%s`\n", filePath)
	fmt.Fprintf(&b, "- Branch: `%s`\n", branch)
	if sub.CreatedBy != "" {
		fmt.Fprintf(&b, "- Submitted by: %s\n", sub.CreatedBy)
	}
	if sub.TargetURL != "" {
		fmt.Fprintf(&b, "- Target: %s\n", sub.TargetURL)
	}
	return b.String()
}
