package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// modelWatcher calls onChange once a burst of file changes in the followed model
// directory has settled.
type modelWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	dir      string
	pending  time.Time
	debounce time.Duration
	onChange func()

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func newModelWatcher(logger *zap.Logger, debounce time.Duration, onChange func()) (*modelWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &modelWatcher{
		watcher:  watcher,
		logger:   logger,
		debounce: debounce,
		onChange: onChange,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Follow switches the watch to dir.
func (mw *modelWatcher) Follow(dir string) {
	dir = filepath.Clean(dir)

	mw.mu.Lock()
	defer mw.mu.Unlock()

	if dir == mw.dir {
		return
	}
	if mw.dir != "" {
		_ = mw.watcher.Remove(mw.dir)
	}
	mw.dir = ""
	mw.pending = time.Time{}
	if err := mw.watcher.Add(dir); err != nil {
		mw.logger.Warn("cannot watch model directory", zap.String("dir", dir), zap.Error(err))
		return
	}
	mw.dir = dir
	mw.logger.Debug("watching model directory", zap.String("dir", dir))
}

// Start runs the event loop until ctx is done or Stop is called.
func (mw *modelWatcher) Start(ctx context.Context) {
	go mw.run(ctx)
}

// Stop stops the event loop and closes the watcher.
func (mw *modelWatcher) Stop() {
	mw.stopOnce.Do(func() {
		close(mw.stopCh)
		<-mw.doneCh
		if err := mw.watcher.Close(); err != nil {
			mw.logger.Warn("error closing watcher", zap.Error(err))
		}
	})
}

func (mw *modelWatcher) run(ctx context.Context) {
	defer close(mw.doneCh)

	ticker := time.NewTicker(mw.debounce / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-mw.stopCh:
			return
		case event, ok := <-mw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			mw.logger.Debug("model file changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			mw.mu.Lock()
			mw.pending = time.Now()
			mw.mu.Unlock()
		case err, ok := <-mw.watcher.Errors:
			if !ok {
				return
			}
			mw.logger.Error("watcher error", zap.Error(err))
		case <-ticker.C:
			mw.mu.Lock()
			fire := !mw.pending.IsZero() && time.Since(mw.pending) >= mw.debounce
			if fire {
				mw.pending = time.Time{}
			}
			mw.mu.Unlock()
			if fire {
				mw.onChange()
			}
		}
	}
}
