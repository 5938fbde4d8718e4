package indexer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"media-source/internal/database"
	"media-source/internal/filesystem"
	"media-source/internal/logging"
	"media-source/internal/mediatypes"
	"media-source/internal/metrics"
)

// Number of entries written per transaction
const batchSize = 500

// ErrIndexInProgress is returned by Index when another run is active.
var ErrIndexInProgress = errors.New("index already in progress")

// Indexer manages the indexing of media files in the media directory.
type Indexer struct {
	db            *database.Database
	mediaDir      string
	indexInterval time.Duration
	retry         filesystem.RetryConfig

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	indexMu              sync.Mutex
	isIndexing           bool
	lastIndexTime        time.Time
	initialIndexComplete bool
	initialIndexError    error
	startTime            time.Time

	filesIndexed   atomic.Int64
	foldersIndexed atomic.Int64

	onIndexComplete func()
}

// HealthStatus contains health check information.
type HealthStatus struct {
	Ready             bool      `json:"ready"`
	Indexing          bool      `json:"indexing"`
	StartTime         time.Time `json:"startTime"`
	Uptime            string    `json:"uptime"`
	LastIndexed       time.Time `json:"lastIndexed,omitzero"`
	InitialIndexError string    `json:"initialIndexError,omitempty"`
	FilesIndexed      int64     `json:"filesIndexed"`
	FoldersIndexed    int64     `json:"foldersIndexed"`
}

// New creates a new Indexer. An indexInterval of zero disables periodic runs.
func New(db *database.Database, mediaDir string, indexInterval time.Duration) *Indexer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Indexer{
		db:            db,
		mediaDir:      mediaDir,
		indexInterval: indexInterval,
		retry:         filesystem.DefaultRetryConfig(),
		ctx:           ctx,
		cancel:        cancel,
		startTime:     time.Now(),
	}
}

// SetOnIndexComplete sets a callback invoked after each successful run.
func (idx *Indexer) SetOnIndexComplete(callback func()) {
	idx.onIndexComplete = callback
}

// Start runs the initial index in the background and schedules periodic runs.
// A library indexed by a previous process is served while the first run is
// still in progress.
func (idx *Indexer) Start() error {
	if last, err := idx.db.GetLastIndexRun(idx.ctx); err != nil {
		logging.Warn("Could not read last index time: %v", err)
	} else if !last.IsZero() {
		logging.Info("Library last indexed at %v, ready before initial index", last.Local())
		idx.indexMu.Lock()
		idx.initialIndexComplete = true
		idx.lastIndexTime = last
		idx.indexMu.Unlock()
	}

	idx.wg.Add(1)
	go func() {
		defer idx.wg.Done()
		logging.Info("Starting initial index in background...")
		if err := idx.Index(idx.ctx); err != nil && !errors.Is(err, context.Canceled) {
			logging.Error("Initial index error: %v", err)
			idx.indexMu.Lock()
			idx.initialIndexError = err
			idx.indexMu.Unlock()
		}
	}()

	if idx.indexInterval > 0 {
		idx.wg.Add(1)
		go idx.periodicIndex()
	}

	return nil
}

// Stop cancels any active run and waits for background goroutines.
func (idx *Indexer) Stop() {
	idx.cancel()
	idx.wg.Wait()
}

// IsReady reports whether the library index can serve requests.
func (idx *Indexer) IsReady() bool {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()
	return idx.initialIndexComplete
}

// IsIndexing returns whether an index operation is currently in progress.
func (idx *Indexer) IsIndexing() bool {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()
	return idx.isIndexing
}

// LastIndexTime returns the time of the last completed index operation.
func (idx *Indexer) LastIndexTime() time.Time {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()
	return idx.lastIndexTime
}

// GetHealthStatus returns detailed health information.
func (idx *Indexer) GetHealthStatus() HealthStatus {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	status := HealthStatus{
		Ready:          idx.initialIndexComplete,
		Indexing:       idx.isIndexing,
		StartTime:      idx.startTime,
		Uptime:         time.Since(idx.startTime).Round(time.Second).String(),
		LastIndexed:    idx.lastIndexTime,
		FilesIndexed:   idx.filesIndexed.Load(),
		FoldersIndexed: idx.foldersIndexed.Load(),
	}
	if idx.initialIndexError != nil {
		status.InitialIndexError = idx.initialIndexError.Error()
	}
	return status
}

// TriggerIndex starts a run in the background. It returns false when a run
// is already active.
func (idx *Indexer) TriggerIndex() bool {
	if idx.IsIndexing() {
		return false
	}
	idx.wg.Add(1)
	go func() {
		defer idx.wg.Done()
		if err := idx.Index(idx.ctx); err != nil && !errors.Is(err, ErrIndexInProgress) {
			logging.Error("manually triggered re-index failed: %v", err)
		}
	}()
	return true
}

// Index performs a full index of the media directory.
func (idx *Indexer) Index(ctx context.Context) error {
	if !idx.tryStartIndexing() {
		return ErrIndexInProgress
	}
	defer idx.finishIndexing()

	metrics.IndexerIsRunning.Set(1)
	defer metrics.IndexerIsRunning.Set(0)
	metrics.IndexerRunsTotal.Inc()

	startTime := time.Now()
	logging.Info("Starting file indexing of %s", idx.mediaDir)

	idx.filesIndexed.Store(0)
	idx.foldersIndexed.Store(0)

	w := &batchWriter{idx: idx, seenAt: startTime}

	// An unreadable root must not reach cleanup, which would empty the library.
	if _, err := filesystem.StatWithRetry(idx.mediaDir, idx.retry); err != nil {
		metrics.IndexerErrors.Inc()
		return fmt.Errorf("media directory unavailable: %w", err)
	}

	err := idx.walk(ctx, idx.mediaDir, "", w)
	if err == nil {
		err = w.flush(ctx)
	}
	if err != nil {
		metrics.IndexerErrors.Inc()
		return err
	}

	if w.failed {
		logging.Warn("Skipping cleanup of missing files: some batches failed to write")
	} else if err := idx.cleanupMissingFiles(ctx, startTime); err != nil {
		logging.Error("Error cleaning up missing files: %v", err)
		metrics.IndexerErrors.Inc()
	}

	idx.finalizeIndex(ctx, startTime)
	return nil
}

func (idx *Indexer) tryStartIndexing() bool {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	if idx.isIndexing {
		return false
	}
	idx.isIndexing = true
	return true
}

func (idx *Indexer) finishIndexing() {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	idx.isIndexing = false
	idx.initialIndexComplete = true
}

// walk indexes the children of dir, whose library path is relDir.
func (idx *Indexer) walk(ctx context.Context, dir, relDir string, w *batchWriter) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := filesystem.ReadDirWithRetry(dir, idx.retry)
	if err != nil {
		if relDir == "" {
			return fmt.Errorf("read media directory: %w", err)
		}
		logging.Warn("Error reading directory %s: %v", dir, err)
		metrics.IndexerErrors.Inc()
		// Its previous entries would otherwise be dropped as missing.
		w.failed = true
		return nil
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		fullPath := filepath.Join(dir, name)
		relPath := path.Join(relDir, name)

		info, err := entry.Info()
		if err == nil && entry.Type()&os.ModeSymlink != 0 {
			info, err = filesystem.StatWithRetry(fullPath, idx.retry)
			if err == nil && info.IsDir() {
				logging.Debug("Skipping symlinked directory %s", fullPath)
				continue
			}
		}
		if err != nil {
			logging.Warn("Error accessing path %s: %v", fullPath, err)
			continue
		}

		file, ok := createMediaFile(relPath, relDir, info)
		if !ok {
			continue
		}
		if err := w.add(ctx, file); err != nil {
			return err
		}

		if info.IsDir() {
			idx.foldersIndexed.Add(1)
			if err := idx.walk(ctx, fullPath, relPath, w); err != nil {
				return err
			}
		} else {
			idx.filesIndexed.Add(1)
		}
	}
	return nil
}

// createMediaFile builds the library entry for info, or reports false when
// the file is not something the library lists.
func createMediaFile(relPath, parentPath string, info os.FileInfo) (database.MediaFile, bool) {
	if info.IsDir() {
		return database.MediaFile{
			Name:       info.Name(),
			Path:       relPath,
			ParentPath: parentPath,
			Type:       mediatypes.FileTypeFolder,
			ModTime:    info.ModTime(),
		}, true
	}

	ext := strings.ToLower(filepath.Ext(info.Name()))
	fileType := mediatypes.GetFileType(ext)
	if fileType == mediatypes.FileTypeOther {
		return database.MediaFile{}, false
	}

	return database.MediaFile{
		Name:       info.Name(),
		Path:       relPath,
		ParentPath: parentPath,
		Type:       fileType,
		Size:       info.Size(),
		ModTime:    info.ModTime(),
		MimeType:   mediatypes.GetMimeType(ext),
	}, true
}

// batchWriter accumulates entries and writes them batchSize at a time.
type batchWriter struct {
	idx     *Indexer
	seenAt  time.Time
	pending []database.MediaFile
	failed  bool
}

func (w *batchWriter) add(ctx context.Context, file database.MediaFile) error {
	w.pending = append(w.pending, file)
	if len(w.pending) < batchSize {
		return nil
	}
	return w.flush(ctx)
}

func (w *batchWriter) flush(ctx context.Context) error {
	if len(w.pending) == 0 {
		return nil
	}
	defer func() { w.pending = w.pending[:0] }()

	if err := w.idx.processBatch(ctx, w.pending, w.seenAt); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.Error("Error processing batch: %v", err)
		w.failed = true
	}
	return nil
}

// processBatch writes files in a single transaction.
func (idx *Indexer) processBatch(ctx context.Context, files []database.MediaFile, seenAt time.Time) error {
	batch, err := idx.db.BeginBatch(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin batch transaction: %w", err)
	}

	for i := range files {
		if err = idx.db.UpsertFile(ctx, batch, &files[i], seenAt); err != nil {
			break
		}
	}

	if err := idx.db.EndBatch(batch, err); err != nil {
		return fmt.Errorf("failed to write batch: %w", err)
	}
	return nil
}

// cleanupMissingFiles removes entries the run did not see.
func (idx *Indexer) cleanupMissingFiles(ctx context.Context, cutoff time.Time) error {
	batch, err := idx.db.BeginBatch(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin cleanup transaction: %w", err)
	}

	deleted, err := idx.db.DeleteMissingFiles(ctx, batch, cutoff)
	if err := idx.db.EndBatch(batch, err); err != nil {
		return fmt.Errorf("failed to clean up missing files: %w", err)
	}

	if deleted > 0 {
		logging.Info("Removed %d missing files from index", deleted)
	}
	return nil
}

func (idx *Indexer) finalizeIndex(ctx context.Context, startTime time.Time) {
	now := time.Now()
	duration := now.Sub(startTime)
	files, folders := idx.filesIndexed.Load(), idx.foldersIndexed.Load()

	idx.indexMu.Lock()
	idx.lastIndexTime = now
	idx.indexMu.Unlock()

	if err := idx.db.SetLastIndexRun(ctx, now); err != nil {
		logging.Warn("Failed to record index time: %v", err)
	}

	metrics.IndexerLastRunTimestamp.Set(float64(now.Unix()))
	metrics.IndexerLastRunDuration.Set(duration.Seconds())
	metrics.IndexerFilesProcessed.Add(float64(files))
	metrics.IndexerFoldersProcessed.Add(float64(folders))

	logging.Info("Index complete: %d files, %d folders in %v", files, folders, duration)

	if idx.onIndexComplete != nil {
		idx.onIndexComplete()
	}
}

func (idx *Indexer) periodicIndex() {
	defer idx.wg.Done()

	ticker := time.NewTicker(idx.indexInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logging.Debug("Periodic re-index triggered")
			err := idx.Index(idx.ctx)
			if err != nil && !errors.Is(err, ErrIndexInProgress) && !errors.Is(err, context.Canceled) {
				logging.Error("periodic re-index failed: %v", err)
			}
		case <-idx.ctx.Done():
			return
		}
	}
}
