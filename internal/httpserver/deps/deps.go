package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/scribe/internal/index"
	"github.com/MrSnakeDoc/scribe/internal/logger"
	"github.com/MrSnakeDoc/scribe/internal/publisher"
	redisstore "github.com/MrSnakeDoc/scribe/internal/store/redis"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time     // for testing, defaults to time.Now
	AllowedHosts  []string             // Host headers allowed to access the server
	AllowedCIDRS  []string             // IPs allowed to access operational endpoints
	TrustProxy    bool                 // true if running behind a trusted reverse proxy (e.g., cloudflared)
	SitemapFile   string               // Path to the sitemap file ("" = built-in defaults only)
	RedisClient   *redis.Client        // Redis client connection (nil when journal disabled)
	MemoryIndex   *index.MemoryIndex   // In-memory site map snapshot
	Publisher     *publisher.Publisher // The publishing pipeline
	Journal       *redisstore.Store    // Publish journal (nil when Redis is disabled)
	GitRepo       string               // owner/repo of the target repository, for display
	BaseBranch    string               // base branch pull requests target
	ReloadTrigger chan struct{}        // Channel to trigger manual sitemap reload (nil if no sitemap file)
}
