package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheWarmer reloads popular products into the product cache.
type CacheWarmer interface {
	WarmCache(ctx context.Context, limit int) (int, error)
}

// CacheWarmWorker periodically refreshes the product cache so product pages
// rarely hit the database.
type CacheWarmWorker struct {
	warmer   CacheWarmer
	interval time.Duration
	limit    int
}

// NewCacheWarmWorker constructs a CacheWarmWorker.
func NewCacheWarmWorker(warmer CacheWarmer, interval time.Duration, limit int) *CacheWarmWorker {
	return &CacheWarmWorker{
		warmer:   warmer,
		interval: interval,
		limit:    limit,
	}
}

// Start begins the periodic warm-up loop and listens for context cancellation.
func (w *CacheWarmWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		log.Info().Msg("Cache warm worker disabled")
		return
	}
	log.Info().Dur("interval", w.interval).Int("limit", w.limit).Msg("Starting cache warm worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Cache warm worker stopped")
			return
		}
	}
}

func (w *CacheWarmWorker) run(ctx context.Context) {
	start := time.Now()
	n, err := w.warmer.WarmCache(ctx, w.limit)
	if err != nil {
		log.Error().Err(err).Int("warmed", n).Msg("Failed to warm product cache")
		return
	}

	log.Info().Int("warmed", n).Dur("duration", time.Since(start)).Msg("Product cache warmed")
}
