package domain

// PostType identifies the kind of post a submission produces.
//
// It determines which fields are required and which directory of the
// target repository the rendered document lands in.
type PostType string

const (
	TypeNote     PostType = "note"
	TypeResponse PostType = "response"
	TypeBookmark PostType = "bookmark"
	TypeMedia    PostType = "media"
)

// Valid reports whether t is one of the four known post types.
func (t PostType) Valid() bool {
	switch t {
	case TypeNote, TypeResponse, TypeBookmark, TypeMedia:
		return true
	}
	return false
}

// ResponseType qualifies a response post (reply to, repost of, or like
// of the target URL).
type ResponseType string

const (
	ResponseReply  ResponseType = "reply"
	ResponseRepost ResponseType = "repost"
	ResponseLike   ResponseType = "like"
)

// Valid reports whether rt is a known response type.
func (rt ResponseType) Valid() bool {
	switch rt {
	case ResponseReply, ResponseRepost, ResponseLike:
		return true
	}
	return false
}

// PostSubmission is the normalized unit of work the publishing pipeline
// consumes.
//
// It is NOT tied to any inbound transport. Whatever surface received the
// post (HTTP API, chat interaction) is responsible for producing one of
// these. A submission is consumed exactly once, end to end, and never
// mutated after construction; enrichment steps return copies.
type PostSubmission struct {
	// Type determines required fields and the target directory.
	Type PostType `json:"type"`

	// Title feeds the frontmatter and, when Slug is absent, the filename.
	Title string `json:"title"`

	// Content is the markdown body. May be empty for pure link or media
	// posts.
	Content string `json:"content,omitempty"`

	// Tags is an ordered list of tags. Optional.
	Tags []string `json:"tags,omitempty"`

	// Slug is a user-supplied override for the URL path segment.
	Slug string `json:"slug,omitempty"`

	// TargetURL is the bookmarked or replied-to URL. Required for
	// response and bookmark posts.
	TargetURL string `json:"target_url,omitempty"`

	// ResponseType qualifies a response post. Defaults to reply.
	ResponseType ResponseType `json:"response_type,omitempty"`

	// MediaURL points at the media asset. Required for media posts. May
	// reference an ephemeral source until media resolution runs.
	MediaURL string `json:"media_url,omitempty"`

	// MediaAlt is accessibility text for media posts.
	MediaAlt string `json:"media_alt,omitempty"`

	// CreatedBy is an opaque identifier of the submitting principal,
	// used in commit messages only.
	CreatedBy string `json:"created_by,omitempty"`
}

// Validate enforces the type-specific required fields. It is the single
// hard gate of the pipeline; everything downstream of it degrades
// gracefully instead of failing.
func (s PostSubmission) Validate() error {
	if !s.Type.Valid() {
		return &ValidationError{Field: "type", Reason: "unknown post type " + string(s.Type)}
	}
	switch s.Type {
	case TypeResponse, TypeBookmark:
		if s.TargetURL == "" {
			return &ValidationError{Field: "target_url", Reason: "required for " + string(s.Type) + " posts"}
		}
	case TypeMedia:
		if s.MediaURL == "" {
			return &ValidationError{Field: "media_url", Reason: "required for media posts"}
		}
	}
	if s.Type == TypeResponse && s.ResponseType != "" && !s.ResponseType.Valid() {
		return &ValidationError{Field: "response_type", Reason: "unknown response type " + string(s.ResponseType)}
	}
	return nil
}

// EffectiveResponseType returns the response type with the reply default
// applied.
func (s PostSubmission) EffectiveResponseType() ResponseType {
	if s.ResponseType == "" {
		return ResponseReply
	}
	return s.ResponseType
}

// Publish outcome statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error kinds carried by a failed PublishResult, so adapters can map
// failures to user-facing responses without parsing detail strings.
const (
	ErrorKindValidation = "validation"
	ErrorKindRemote     = "remote"
	ErrorKindConfig     = "config"
)

// PublishResult is the output record of one publish attempt. It is
// produced exactly once per submission and returned to the caller;
// journal storage of results is best-effort.
type PublishResult struct {
	Status      string `json:"status"`
	Filepath    string `json:"filepath,omitempty"`
	BranchName  string `json:"branch_name,omitempty"`
	CommitSHA   string `json:"commit_sha,omitempty"`
	PRURL       string `json:"pr_url,omitempty"`
	ErrorKind   string `json:"error_kind,omitempty"`
	ErrorDetail string `json:"error_detail,omitempty"`
}

// OK reports whether the publish attempt succeeded.
func (r PublishResult) OK() bool { return r.Status == StatusSuccess }
