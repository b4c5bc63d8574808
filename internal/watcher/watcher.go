// Package watcher imports master recordings dropped into the inbox folder.
// The inbox has one subdirectory per project, named by project ID; files
// landing there are run through the alignment engine with chapter-only
// matching once they have settled.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/scriptroom/scriptroom-server/internal/align"
	"github.com/scriptroom/scriptroom-server/internal/config"
	"github.com/scriptroom/scriptroom-server/internal/domain"
)

// Store is the slice of the persistence layer the watcher needs.
type Store interface {
	GetProject(projectID string) (*domain.Project, error)
}

// Watcher tails the inbox folder and feeds settled files to the engine.
type Watcher struct {
	orchestrator *align.Orchestrator
	store        Store
	inbox        string
	settle       time.Duration
	logger       *slog.Logger

	fs *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
}

// New creates an inbox watcher. The inbox directory is created if missing.
func New(cfg config.ImportConfig, orchestrator *align.Orchestrator, store Store, logger *slog.Logger) (*Watcher, error) {
	if err := os.MkdirAll(cfg.InboxPath, 0o755); err != nil {
		return nil, err
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		orchestrator: orchestrator,
		store:        store,
		inbox:        cfg.InboxPath,
		settle:       cfg.SettleDelay,
		logger:       logger,
		fs:           fs,
		pending:      make(map[string]*time.Timer),
	}

	if err := fs.Add(cfg.InboxPath); err != nil {
		_ = fs.Close()
		return nil, err
	}
	// Project subdirectories that already exist get watched up front;
	// files already sitting in them are picked up too.
	entries, err := os.ReadDir(cfg.InboxPath)
	if err != nil {
		_ = fs.Close()
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() {
			w.watchProjectDir(filepath.Join(cfg.InboxPath, e.Name()))
		}
	}
	return w, nil
}

// Start consumes filesystem events until the context is canceled.
func (w *Watcher) Start(ctx context.Context) {
	w.logger.Info("inbox watcher started", "path", w.inbox, "settle", w.settle)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("inbox watch error", "error", err)
		}
	}
}

// Close stops the watcher and cancels pending settle timers.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()
	return w.fs.Close()
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if filepath.Dir(event.Name) == w.inbox {
			w.watchProjectDir(event.Name)
		}
		return
	}

	// Only files inside a project subdirectory are imports; strays at the
	// inbox root are ignored.
	if filepath.Dir(filepath.Dir(event.Name)) != filepath.Clean(w.inbox) {
		return
	}
	w.scheduleImport(ctx, event.Name)
}

func (w *Watcher) watchProjectDir(dir string) {
	if err := w.fs.Add(dir); err != nil {
		w.logger.Warn("cannot watch project inbox", "dir", dir, "error", err)
		return
	}
	w.logger.Info("watching project inbox", "dir", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			w.scheduleImport(context.Background(), filepath.Join(dir, e.Name()))
		}
	}
}

// scheduleImport (re)arms the settle timer for a file. Every write resets
// the timer, so a file is only imported once it has been quiet for the
// settle delay.
func (w *Watcher) scheduleImport(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		closed := w.closed
		w.mu.Unlock()
		if closed || ctx.Err() != nil {
			return
		}
		w.importFile(ctx, path)
	})
}

// importFile runs one settled file through the engine. The parent directory
// names the project. Successfully processed files are removed from the
// inbox; failed ones stay for the user to fix and retouch.
func (w *Watcher) importFile(ctx context.Context, path string) {
	projectID := filepath.Base(filepath.Dir(path))
	filename := filepath.Base(path)
	log := w.logger.With("file", filename, "project", projectID)

	if _, err := w.store.GetProject(projectID); err != nil {
		log.Warn("inbox directory does not name a project", "error", err)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("cannot read inbox file", "error", err)
		return
	}

	results, err := w.orchestrator.ProcessBatch(ctx, projectID, []align.BatchFile{
		{Filename: filename, Data: data},
	}, align.AxisChapter)
	if err != nil {
		log.Warn("inbox import aborted", "error", err)
		return
	}

	log.Info("inbox import finished", "summary", align.Summarize(results))
	if len(results) == 1 && results[0].Class() != align.ClassError {
		if err := os.Remove(path); err != nil {
			log.Warn("cannot remove imported file", "error", err)
		}
	}
}
