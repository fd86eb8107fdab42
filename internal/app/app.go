package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/scribe/internal/blobstore"
	"github.com/MrSnakeDoc/scribe/internal/config"
	"github.com/MrSnakeDoc/scribe/internal/github"
	"github.com/MrSnakeDoc/scribe/internal/httpserver"
	"github.com/MrSnakeDoc/scribe/internal/httpserver/deps"
	"github.com/MrSnakeDoc/scribe/internal/index"
	"github.com/MrSnakeDoc/scribe/internal/logger"
	"github.com/MrSnakeDoc/scribe/internal/markdown"
	"github.com/MrSnakeDoc/scribe/internal/media"
	"github.com/MrSnakeDoc/scribe/internal/publisher"
	"github.com/MrSnakeDoc/scribe/internal/redis"
	"github.com/MrSnakeDoc/scribe/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/scribe/internal/store/redis"
	"github.com/MrSnakeDoc/scribe/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	memIndex    *index.MemoryIndex
	reloader    *scheduler.SitemapReloader
	gc          *scheduler.JournalGC
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early when the journal is enabled - fail fast if unavailable
	var redisClient *goredis.Client
	var journal *redisstore.Store
	var gc *scheduler.JournalGC
	if cfg.RedisEnabled {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		loggerClient.Info("Redis initialized successfully")
		redisClient = client
		journal = redisstore.NewStore(redisClient)
		gc = scheduler.NewJournalGC(journal, loggerClient, cfg.GCInterval)
	} else {
		loggerClient.Info("Redis disabled, publish journal unavailable")
	}

	// Initialize memory index (preloaded with built-in defaults)
	memIndex := index.NewMemoryIndex()

	// Initialize sitemap reloader (if a sitemap file is configured)
	var reloader *scheduler.SitemapReloader
	var reloadTrigger chan struct{}
	if cfg.SitemapFile != "" {
		loggerClient.Info("sitemap file configured, initializing reloader",
			logger.String("file", cfg.SitemapFile))
		reloadTrigger = make(chan struct{}, 1)
		reloader = scheduler.NewSitemapReloader(
			cfg.SitemapFile,
			memIndex,
			loggerClient,
			cfg.ReloadInterval,
			reloadTrigger,
		)
	} else {
		loggerClient.Info("sitemap file not configured, using built-in defaults")
	}

	// Initialize GitHub client for the target content repository
	gitHost := github.NewClient(github.Config{
		BaseURL: cfg.GitHubAPIURL,
		Token:   cfg.GitHubToken,
		Owner:   cfg.GitHubOwner,
		Repo:    cfg.GitHubRepo,
	})

	// Initialize media resolver (passthrough when no blobstore is configured)
	var objectStore media.ObjectStore
	if cfg.BlobstoreURL != "" {
		loggerClient.Info("blobstore configured, media re-homing enabled",
			logger.String("url", cfg.BlobstoreURL))
		objectStore = blobstore.NewClient(blobstore.Config{
			BaseURL:       cfg.BlobstoreURL,
			Token:         cfg.BlobstoreToken,
			PublicBaseURL: cfg.BlobstorePublicURL,
			Timeout:       cfg.BlobstoreTimeout,
		})
	} else {
		loggerClient.Info("blobstore not configured, media urls kept as-is")
	}
	resolver := media.NewResolver(objectStore, loggerClient)

	// Initialize the publishing pipeline
	builder := markdown.NewBuilder(markdown.YouTube{})
	pub := publisher.New(gitHost, resolver, builder, memIndex, cfg.GitBaseBranch, loggerClient)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		SitemapFile:   cfg.SitemapFile,
		RedisClient:   redisClient,
		MemoryIndex:   memIndex,
		Publisher:     pub,
		Journal:       journal,
		GitRepo:       cfg.GitHubOwner + "/" + cfg.GitHubRepo,
		BaseBranch:    cfg.GitBaseBranch,
		ReloadTrigger: reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		memIndex:    memIndex,
		reloader:    reloader,
		gc:          gc,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Scribe v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Scribe %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start sitemap reloader (loads the site map and starts periodic refresh)
	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start sitemap reloader: %w", err)
		}
		a.logger.Info("sitemap reloader started",
			logger.Duration("interval", a.cfg.ReloadInterval))
	}

	// Start journal garbage collector (if the journal is enabled)
	if a.gc != nil {
		if err := a.gc.Start(ctx); err != nil {
			return fmt.Errorf("failed to start journal gc: %w", err)
		}
		a.logger.Info("journal gc started",
			logger.Duration("interval", a.cfg.GCInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	// Stop reloader
	if a.reloader != nil {
		a.reloader.Stop()
	}

	// Stop journal garbage collector
	if a.gc != nil {
		a.gc.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Scribe stopped cleanly")
	return nil
}
