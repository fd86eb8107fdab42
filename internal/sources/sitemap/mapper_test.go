package sitemap

import (
	"testing"

	"github.com/MrSnakeDoc/scribe/internal/domain"
)

func TestMapperMergesOverDefaults(t *testing.T) {
	config := Config{
		Directories: map[string]string{
			"note": "content/notes/",
		},
		Media: MediaConfig{
			EphemeralHosts: []string{"cdn.discordapp.com"},
			StorageMode:    "relative",
			UploadPrefix:   "/files/",
		},
	}

	mapper := NewMapper()
	m, err := mapper.Map(config)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if dir, _ := m.DirectoryFor(domain.TypeNote); dir != "content/notes" {
		t.Errorf("note directory = %q, want content/notes (trimmed)", dir)
	}
	// Unconfigured types keep their defaults.
	if dir, _ := m.DirectoryFor(domain.TypeBookmark); dir != "bookmarks" {
		t.Errorf("bookmark directory = %q, want default bookmarks", dir)
	}
	if m.StorageMode != domain.StorageRelative {
		t.Errorf("storage mode = %q, want relative", m.StorageMode)
	}
	if m.UploadPrefix != "files" {
		t.Errorf("upload prefix = %q, want files (trimmed)", m.UploadPrefix)
	}
	if !m.IsEphemeral("https://cdn.discordapp.com/attachments/1/2/x.png") {
		t.Error("configured ephemeral host not applied")
	}
}

func TestMapperEmptyConfigKeepsDefaults(t *testing.T) {
	m, err := NewMapper().Map(Config{})
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	want := domain.DefaultSiteMap()
	for _, pt := range []domain.PostType{domain.TypeNote, domain.TypeResponse, domain.TypeBookmark, domain.TypeMedia} {
		got, _ := m.DirectoryFor(pt)
		def, _ := want.DirectoryFor(pt)
		if got != def {
			t.Errorf("directory for %s = %q, want default %q", pt, got, def)
		}
	}
	if m.StorageMode != domain.StorageDirect {
		t.Errorf("storage mode = %q, want direct default", m.StorageMode)
	}
}

func TestMapperRejectsUnknownPostType(t *testing.T) {
	_, err := NewMapper().Map(Config{
		Directories: map[string]string{"essay": "essays"},
	})
	if err == nil {
		t.Error("Map() should reject unknown post types")
	}
}

func TestMapperRejectsUnknownStorageMode(t *testing.T) {
	_, err := NewMapper().Map(Config{
		Media: MediaConfig{StorageMode: "magic"},
	})
	if err == nil {
		t.Error("Map() should reject unknown storage modes")
	}
}

func TestMapperRejectsEmptyDirectory(t *testing.T) {
	_, err := NewMapper().Map(Config{
		Directories: map[string]string{"note": "  / "},
	})
	if err == nil {
		t.Error("Map() should reject empty directories")
	}
}
