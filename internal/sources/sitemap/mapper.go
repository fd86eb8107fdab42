package sitemap

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/scribe/internal/domain"
)

// Mapper converts a parsed sitemap Config into a domain.SiteMap
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map validates the config and merges it over the built-in defaults.
// Unknown post type names and invalid storage modes are hard errors: a
// half-applied mapping would publish files into the wrong directories.
func (m *Mapper) Map(config Config) (domain.SiteMap, error) {
	result := domain.DefaultSiteMap()

	for name, dir := range config.Directories {
		pt := domain.PostType(name)
		if !pt.Valid() {
			return domain.SiteMap{}, fmt.Errorf("unknown post type in sitemap directories: %q", name)
		}
		dir = strings.Trim(strings.TrimSpace(dir), "/")
		if dir == "" {
			return domain.SiteMap{}, fmt.Errorf("empty directory for post type %q", name)
		}
		result.Directories[pt] = dir
	}

	for _, host := range config.Media.EphemeralHosts {
		host = strings.TrimSpace(host)
		if host == "" {
			continue
		}
		result.EphemeralHosts = append(result.EphemeralHosts, host)
	}

	if config.Media.StorageMode != "" {
		mode := domain.StorageMode(config.Media.StorageMode)
		if !mode.Valid() {
			return domain.SiteMap{}, fmt.Errorf("unknown storage mode: %q", config.Media.StorageMode)
		}
		result.StorageMode = mode
	}

	if prefix := strings.Trim(strings.TrimSpace(config.Media.UploadPrefix), "/"); prefix != "" {
		result.UploadPrefix = prefix
	}

	return result, nil
}
