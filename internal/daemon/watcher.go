package daemon

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/exdoc/internal/logfields"
	"git.home.luguber.info/inful/exdoc/internal/source"
)

// sourceWatcher monitors local source trees and invokes a callback after a
// quiet window, so a burst of writes triggers one regeneration instead of
// many.
type sourceWatcher struct {
	roots    []string
	excludes source.ExcludeContext
	debounce time.Duration
	onChange func()

	watcher    *fsnotify.Watcher
	stopChan   chan struct{}
	changeChan chan struct{}
	stopOnce   sync.Once
}

func newSourceWatcher(roots []string, excludes source.ExcludeContext, debounce time.Duration, onChange func()) (*sourceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	return &sourceWatcher{
		roots:      roots,
		excludes:   excludes,
		debounce:   debounce,
		onChange:   onChange,
		watcher:    watcher,
		stopChan:   make(chan struct{}),
		changeChan: make(chan struct{}, 1),
	}, nil
}

// Start registers every directory under the roots and launches the event
// loops. fsnotify watches are not recursive, so each subdirectory is added
// individually; directories created later are picked up from create events.
func (w *sourceWatcher) Start(ctx context.Context) error {
	for _, root := range w.roots {
		if err := w.addTree(root); err != nil {
			w.watcher.Close()
			return fmt.Errorf("watching %s: %w", root, err)
		}
	}
	slog.Info("watching source trees", logfields.Count(len(w.roots)))

	go w.watchLoop(ctx)
	go w.debounceLoop(ctx)
	return nil
}

// Stop tears the watcher down. Safe to call more than once.
func (w *sourceWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		if err := w.watcher.Close(); err != nil {
			slog.Warn("closing file watcher failed", logfields.Error(err))
		}
	})
}

func (w *sourceWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			slog.Warn("skipping unwatchable path",
				logfields.Path(path), logfields.Error(err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.excludes.ExcludesDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *sourceWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("file watcher error", logfields.Error(err))
		}
	}
}

func (w *sourceWatcher) handleEvent(event fsnotify.Event) {
	base := filepath.Base(event.Name)
	if w.excludes.ExcludesDir(base) || w.excludes.ExcludesFile(base) {
		return
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				slog.Warn("cannot watch new directory",
					logfields.Path(event.Name), logfields.Error(err))
			}
		}
	}

	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	select {
	case w.changeChan <- struct{}{}:
	default:
	}
}

// debounceLoop restarts the quiet-window timer on every change signal and
// fires the callback once the window passes without further changes.
func (w *sourceWatcher) debounceLoop(ctx context.Context) {
	var timer *time.Timer
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
	}
	for {
		select {
		case <-ctx.Done():
			stopTimer()
			return
		case <-w.stopChan:
			stopTimer()
			return
		case <-w.changeChan:
			stopTimer()
			timer = time.AfterFunc(w.debounce, w.onChange)
		}
	}
}
