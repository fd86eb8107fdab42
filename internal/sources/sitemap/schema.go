package sitemap

// Config represents the top-level structure of sitemap.yaml.
type Config struct {
	// Directories maps post type names to repository directory prefixes.
	// Missing entries fall back to the built-in defaults.
	Directories map[string]string `yaml:"directories,omitempty"`

	Media MediaConfig `yaml:"media,omitempty"`
}

// MediaConfig carries the media handling policy.
type MediaConfig struct {
	// EphemeralHosts lists hostname suffixes whose URLs expire and
	// should be re-homed to permanent storage.
	EphemeralHosts []string `yaml:"ephemeral_hosts,omitempty"`

	// StorageMode is one of direct, relative, signed.
	StorageMode string `yaml:"storage_mode,omitempty"`

	// UploadPrefix is the destination prefix inside the object store.
	UploadPrefix string `yaml:"upload_prefix,omitempty"`
}
