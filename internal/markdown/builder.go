package markdown

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/scribe/internal/domain"
)

// frontmatter is the YAML header of a published document. Field order
// here is the serialization order. Type-specific keys carry omitempty so
// they only appear for their post types.
type frontmatter struct {
	Title        string   `yaml:"title"`
	Date         string   `yaml:"date"`
	Type         string   `yaml:"type"`
	Tags         []string `yaml:"tags"`
	ResponseType string   `yaml:"response_type,omitempty"`
	TargetURL    string   `yaml:"target_url,omitempty"`
	MediaURL     string   `yaml:"media_url,omitempty"`
	MediaAlt     string   `yaml:"media_alt,omitempty"`
}

// Builder renders a PostSubmission into a markdown document with a YAML
// frontmatter block.
type Builder struct {
	providers []EmbedProvider
	now       func() time.Time
}

// NewBuilder creates a builder with the given embed providers. The
// clock defaults to time.Now and is overridable for tests.
func NewBuilder(providers ...EmbedProvider) *Builder {
	return &Builder{
		providers: providers,
		now:       time.Now,
	}
}

// WithClock overrides the timestamp source. Returns the builder for
// chaining at construction time.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Render produces the full document: frontmatter, blank line, body.
//
// It is the validation gate of the pipeline: a response or bookmark
// submission without a target URL, or a media submission without a media
// URL, fails here with a domain.ValidationError before any output is
// produced. Everything after validation is best-effort.
func (b *Builder) Render(sub domain.PostSubmission) (string, error) {
	if err := sub.Validate(); err != nil {
		return "", err
	}

	fm := frontmatter{
		Title: sub.Title,
		Date:  b.now().UTC().Format(time.RFC3339),
		Type:  string(sub.Type),
		Tags:  sub.Tags,
	}
	if fm.Tags == nil {
		// Serialize as an empty YAML sequence, not null.
		fm.Tags = []string{}
	}

	switch sub.Type {
	case domain.TypeResponse:
		fm.ResponseType = string(sub.EffectiveResponseType())
		fm.TargetURL = sub.TargetURL
	case domain.TypeBookmark:
		fm.TargetURL = sub.TargetURL
	case domain.TypeMedia:
		fm.MediaURL = sub.MediaURL
		fm.MediaAlt = sub.MediaAlt
	case domain.TypeNote:
		// No extra keys.
	}

	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("failed to marshal frontmatter: %w", err)
	}

	body := b.renderBody(sub)

	var doc strings.Builder
	doc.WriteString("---\n")
	doc.Write(header)
	doc.WriteString("---\n")
	if body != "" {
		doc.WriteString("\n")
		doc.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			doc.WriteString("\n")
		}
	}
	return doc.String(), nil
}

// renderBody returns the user content, with a video embed appended for
// response posts whose target URL matches a registered provider. The
// original content is never altered, only appended to; a URL no provider
// recognizes simply yields no embed.
func (b *Builder) renderBody(sub domain.PostSubmission) string {
	body := sub.Content

	if sub.Type != domain.TypeResponse {
		return body
	}
	for _, p := range b.providers {
		id, ok := p.Match(sub.TargetURL)
		if !ok {
			continue
		}
		snippet := p.Embed(id, sub.TargetURL, sub.Title)
		if body == "" {
			return snippet
		}
		return body + "\n\n" + snippet
	}
	return body
}
