package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/scribe/internal/index"
	"github.com/MrSnakeDoc/scribe/internal/logger"
	"github.com/MrSnakeDoc/scribe/internal/sources/sitemap"
)

// SitemapReloader handles periodic reloading of the site map file
type SitemapReloader struct {
	loader        *sitemap.Loader
	mapper        *sitemap.Mapper
	index         *index.MemoryIndex
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewSitemapReloader creates a new sitemap reloader
func NewSitemapReloader(
	sitemapFile string,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *SitemapReloader {
	return &SitemapReloader{
		loader:        sitemap.NewLoader(sitemapFile),
		mapper:        sitemap.NewMapper(),
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic reload process
func (sr *SitemapReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := sr.Reload(ctx); err != nil {
		return fmt.Errorf("initial sitemap reload failed: %w", err)
	}

	// Start periodic reload
	ticker := time.NewTicker(sr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := sr.Reload(ctx); err != nil {
					sr.logger.Error("failed to reload sitemap",
						logger.Error(err))
				}
			case <-sr.manualTrigger:
				sr.logger.Info("manual sitemap reload triggered")
				if err := sr.Reload(ctx); err != nil {
					sr.logger.Error("failed to reload sitemap",
						logger.Error(err))
				}
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (sr *SitemapReloader) Stop() {
	close(sr.stopCh)
}

// Reload loads the sitemap file and swaps the index snapshot. A broken
// file leaves the previous snapshot active.
func (sr *SitemapReloader) Reload(ctx context.Context) error {
	sr.logger.Info("reloading sitemap")

	config, err := sr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load sitemap: %w", err)
	}

	siteMap, err := sr.mapper.Map(config)
	if err != nil {
		return fmt.Errorf("failed to map sitemap: %w", err)
	}

	sr.index.Update(siteMap)

	sr.logger.Info("sitemap loaded",
		logger.Int("directories", len(siteMap.Directories)),
		logger.Int("ephemeral_hosts", len(siteMap.EphemeralHosts)),
		logger.String("storage_mode", string(siteMap.StorageMode)))

	return nil
}
