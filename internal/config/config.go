package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	SitemapFile    string        // path to sitemap.yaml (optional, empty = built-in defaults)
	ReloadInterval time.Duration // interval to reload sitemap.yaml (default: 1h)
	GCInterval     time.Duration // interval to prune the publish journal (default: 24h)
	PublishTimeout time.Duration // budget for one publish's remote calls (default: 45s)

	// GitHub (target content repository)
	GitHubToken   string // fine-grained token with contents + pull-requests scopes
	GitHubOwner   string // repository owner (user or org)
	GitHubRepo    string // repository name
	GitBaseBranch string // branch new posts fork from (default: "main")
	GitHubAPIURL  string // override for GitHub Enterprise (default: https://api.github.com)

	// Blobstore (media re-homing, optional)
	BlobstoreURL       string // PUT endpoint base URL, empty = media passthrough
	BlobstoreToken     string // bearer token for uploads
	BlobstorePublicURL string // public base for direct mode URLs
	BlobstoreTimeout   time.Duration

	// Redis (publish journal, optional)
	RedisEnabled          bool          // false => journal disabled, /api/recent returns 503
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 5.6.7.8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	// Local dev convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SCRIBE_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SCRIBE_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("SCRIBE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("SCRIBE_PRETTY_LOG", true),

		// Sitemap
		SitemapFile:    getenv("SCRIBE_SITEMAP_FILE", ""), // Optional, empty = built-in defaults
		ReloadInterval: mustDuration("SCRIBE_RELOAD_SOURCE_INTERVAL", time.Hour),
		GCInterval:     mustDuration("SCRIBE_GC_INTERVAL", 24*time.Hour),
		PublishTimeout: mustDuration("SCRIBE_PUBLISH_TIMEOUT", 45*time.Second),

		// GitHub settings
		GitHubToken:   requireEnv("SCRIBE_GITHUB_TOKEN"),
		GitHubOwner:   requireEnv("SCRIBE_GITHUB_OWNER"),
		GitHubRepo:    requireEnv("SCRIBE_GITHUB_REPO"),
		GitBaseBranch: getenv("SCRIBE_GIT_BASE_BRANCH", "main"),
		GitHubAPIURL:  getenv("SCRIBE_GITHUB_API_URL", ""),

		// Blobstore settings
		BlobstoreURL:       getenv("SCRIBE_BLOBSTORE_URL", ""), // Optional, empty = media passthrough
		BlobstoreToken:     getenv("SCRIBE_BLOBSTORE_TOKEN", ""),
		BlobstorePublicURL: getenv("SCRIBE_BLOBSTORE_PUBLIC_URL", ""),
		BlobstoreTimeout:   mustDuration("SCRIBE_BLOBSTORE_TIMEOUT", 30*time.Second),

		// Redis settings
		RedisEnabled:          mustBool("SCRIBE_REDIS_ENABLED", false),
		RedisAddr:             getenv("SCRIBE_REDIS_ADDR", "localhost:6379"),
		RedisUser:             getenv("SCRIBE_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("SCRIBE_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("SCRIBE_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("SCRIBE_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("SCRIBE_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("SCRIBE_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("SCRIBE_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if cfg.RedisEnabled && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: SCRIBE_REDIS_PASSWORD is required when SCRIBE_REDIS_PASSWORD_REQUIRED=true")
	}

	// Blobstore direct mode needs a public base to build the final URL
	if cfg.BlobstoreURL != "" && cfg.BlobstorePublicURL == "" {
		cfg.BlobstorePublicURL = cfg.BlobstoreURL
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.GitHubToken = "***REDACTED***"
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.BlobstoreToken != "" {
			cfgCopy.BlobstoreToken = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
