package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/scriptroom/scriptroom-server/internal/align"
	"github.com/scriptroom/scriptroom-server/internal/config"
	"github.com/scriptroom/scriptroom-server/internal/logger"
	"github.com/scriptroom/scriptroom-server/internal/watcher"
)

// InboxWatcherHandle wraps the inbox watcher with its context for lifecycle
// management. A nil Watcher means the inbox is disabled by configuration.
type InboxWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *InboxWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Close()
}

// ProvideInboxWatcher provides the inbox folder watcher.
func ProvideInboxWatcher(i do.Injector) (*InboxWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Import.InboxPath == "" || !cfg.Import.WatchInbox {
		log.Info("inbox watcher disabled")
		return &InboxWatcherHandle{}, nil
	}

	storeHandle := do.MustInvoke[*StoreHandle](i)
	orchestrator := do.MustInvoke[*align.Orchestrator](i)

	w, err := watcher.New(cfg.Import, orchestrator, storeHandle.Store, log.Logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)

	return &InboxWatcherHandle{Watcher: w, cancel: cancel}, nil
}
