package domain

import "strings"

const (
	// maxStemLength bounds the sanitized filename stem.
	maxStemLength = 80

	// fallbackStem is used when sanitization eats the whole input
	// (e.g. a title made of punctuation only).
	fallbackStem = "untitled"
)

// Filename derives the markdown filename for a post.
//
// A non-blank user-supplied slug wins over the title; both go through the
// same sanitization. The stem carries no date prefix: the target
// directory plus git history provide chronology, and keeping the stem
// clean gives users full control over their URLs.
//
// Pure and deterministic, no I/O.
func Filename(title, slug string) string {
	stem := Slugify(slug)
	if stem == "" {
		stem = Slugify(title)
	}
	if stem == "" {
		stem = fallbackStem
	}
	return stem + ".md"
}

// Slugify sanitizes s into a URL-safe slug: lowercase alphanumerics and
// hyphens only, no leading/trailing/duplicate hyphens, truncated to
// maxStemLength. Returns "" when nothing survives.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	prevHyphen := true // swallow leading hyphens
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevHyphen = false
		default:
			// Whitespace and every other character collapse into a
			// single hyphen.
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	out := strings.TrimRight(b.String(), "-")
	if len(out) > maxStemLength {
		out = strings.TrimRight(out[:maxStemLength], "-")
	}
	return out
}
