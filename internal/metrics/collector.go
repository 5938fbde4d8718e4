package metrics

import (
	"context"
	"time"

	"media-source/internal/logging"
)

// LibraryStats is a snapshot of library totals.
type LibraryStats struct {
	Folders   int
	Audio     int
	Video     int
	Playlists int
	OpenConns int
}

// StatsProvider supplies library statistics to the Collector.
type StatsProvider interface {
	LibraryStats(ctx context.Context) (LibraryStats, error)
}

// Collector periodically refreshes gauges that cannot be updated inline.
type Collector struct {
	provider StatsProvider
	interval time.Duration
	stopChan chan struct{}
	done     chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Collector{
		provider: provider,
		interval: interval,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the collection loop and waits for it to exit
func (c *Collector) Stop() {
	close(c.stopChan)
	<-c.done
}

func (c *Collector) collectLoop() {
	defer close(c.done)

	c.Collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Collect()
		case <-c.stopChan:
			return
		}
	}
}

// Collect performs a single refresh.
func (c *Collector) Collect() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats, err := c.provider.LibraryStats(ctx)
	if err != nil {
		logging.Warn("Failed to collect library stats: %v", err)
		return
	}

	LibraryItems.WithLabelValues("folder").Set(float64(stats.Folders))
	LibraryItems.WithLabelValues("audio").Set(float64(stats.Audio))
	LibraryItems.WithLabelValues("video").Set(float64(stats.Video))
	LibraryItems.WithLabelValues("playlist").Set(float64(stats.Playlists))
	DBConnectionsOpen.Set(float64(stats.OpenConns))
}
