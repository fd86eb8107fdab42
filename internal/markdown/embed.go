package markdown

import (
	"fmt"
	"net/url"
	"strings"
)

// EmbedProvider recognizes URLs of a video hosting provider and renders
// a markdown embed snippet for them.
//
// Matching is deliberately conservative: a provider that is unsure
// returns ok=false and the post goes out without an embed. Embed
// generation is enrichment, never a failure path.
type EmbedProvider interface {
	// Match extracts the canonical video identifier from rawURL.
	Match(rawURL string) (videoID string, ok bool)
	// Embed renders the markdown snippet for a matched video. The post
	// title serves as both alt text and link title.
	Embed(videoID, rawURL, title string) string
}

// YouTube matches youtube.com/watch, youtu.be and youtube.com/shorts
// URLs and embeds the hq thumbnail linked back to the video.
type YouTube struct{}

func (YouTube) Match(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtube.com", "m.youtube.com":
		path := strings.Trim(u.Path, "/")
		if path == "watch" {
			if id := u.Query().Get("v"); validVideoID(id) {
				return id, true
			}
			return "", false
		}
		for _, prefix := range []string{"shorts/", "embed/", "live/"} {
			if id, found := strings.CutPrefix(path, prefix); found && validVideoID(id) {
				return id, true
			}
		}
	case "youtu.be":
		if id := strings.Trim(u.Path, "/"); validVideoID(id) {
			return id, true
		}
	}
	return "", false
}

func (YouTube) Embed(videoID, rawURL, title string) string {
	return fmt.Sprintf("[![%s](https://img.youtube.com/vi/%s/hqdefault.jpg %q)](%s)",
		title, videoID, title, rawURL)
}

// validVideoID checks the 11-character YouTube video id alphabet.
func validVideoID(id string) bool {
	if len(id) != 11 {
		return false
	}
	for _, r := range id {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_'
		if !ok {
			return false
		}
	}
	return true
}
