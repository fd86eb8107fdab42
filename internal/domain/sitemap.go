package domain

import (
	"net/url"
	"strings"
)

// StorageMode selects how a permanently stored media asset is addressed
// in the published document.
type StorageMode string

const (
	// StorageDirect rewrites to a public URL on the storage host.
	StorageDirect StorageMode = "direct"
	// StorageRelative rewrites to a site-relative path.
	StorageRelative StorageMode = "relative"
	// StorageSigned rewrites to a token-bearing temporary-access URL
	// returned by the storage host.
	StorageSigned StorageMode = "signed"
)

// Valid reports whether m is a known storage mode.
func (m StorageMode) Valid() bool {
	switch m {
	case StorageDirect, StorageRelative, StorageSigned:
		return true
	}
	return false
}

// SiteMap is the static publishing configuration: where each post type
// lands in the target repository and how media is handled.
//
// It is loaded from sitemap.yaml at startup, held read-only in the
// runtime index, and swapped wholesale on reload. Individual publish
// invocations see a consistent snapshot.
type SiteMap struct {
	// Directories maps each post type to its directory prefix inside
	// the target repository (no trailing slash).
	Directories map[PostType]string

	// EphemeralHosts lists hostname suffixes whose URLs are known to
	// expire and should be re-homed to permanent storage.
	EphemeralHosts []string

	// StorageMode selects the URL form for re-homed media.
	StorageMode StorageMode

	// UploadPrefix is the destination prefix inside the object store.
	UploadPrefix string
}

// DefaultSiteMap returns the built-in mapping used when no sitemap file
// is configured.
func DefaultSiteMap() SiteMap {
	return SiteMap{
		Directories: map[PostType]string{
			TypeNote:     "notes",
			TypeResponse: "responses",
			TypeBookmark: "bookmarks",
			TypeMedia:    "media",
		},
		StorageMode:  StorageDirect,
		UploadPrefix: "uploads",
	}
}

// DirectoryFor returns the directory prefix for a post type.
func (m SiteMap) DirectoryFor(t PostType) (string, bool) {
	dir, ok := m.Directories[t]
	return dir, ok
}

// IsEphemeral reports whether rawURL points at a host known to expire.
// Matching is by exact hostname or subdomain suffix.
func (m SiteMap) IsEphemeral(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	for _, suffix := range m.EphemeralHosts {
		suffix = strings.ToLower(suffix)
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}
