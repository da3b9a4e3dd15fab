package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of editor writes into one rebuild.
const DefaultDebounce = 200 * time.Millisecond

// BuildFunc receives the outcome of every rebuild in watch mode.
type BuildFunc func(Report, error)

// Watch compiles once, then recompiles whenever a matching document under
// cfg.Root changes. It blocks until ctx is done.
// A missing root fails immediately; later compile errors are reported to
// onBuild and logged, and watching continues.
func Watch(ctx context.Context, cfg Config, debounce time.Duration, onBuild BuildFunc) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg = cfg.withDefaults()
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if onBuild == nil {
		onBuild = func(Report, error) {}
	}

	report, err := Compile(ctx, cfg)
	if err != nil {
		return err
	}
	onBuild(report, nil)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addTree(watcher, cfg.Root); err != nil {
		return err
	}

	w := &watchLoop{cfg: cfg, watcher: watcher, debounce: debounce, onBuild: onBuild}
	return w.run(ctx)
}

type watchLoop struct {
	cfg      Config
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onBuild  BuildFunc

	buildMu sync.Mutex
}

func (w *watchLoop) run(ctx context.Context) error {
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.cfg.Logger.Debug("source changed", "path", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			w.rebuild(ctx)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.cfg.Logger.Error("fsnotify error", "error", wErr)
		}
	}
}

// relevant reports whether an event should trigger a rebuild.
// New directories are added to the watch set as a side effect.
func (w *watchLoop) relevant(event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				return false
			}
			if err := addTree(w.watcher, event.Name); err != nil {
				w.cfg.Logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			return true
		}
	}

	rel, err := filepath.Rel(w.cfg.Root, event.Name)
	if err != nil {
		return false
	}
	// Removing or renaming a directory drops every document under it.
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		if filepath.Ext(rel) == "" {
			return true
		}
	}
	return matches(w.cfg.Patterns, filepath.ToSlash(rel))
}

// rebuild runs a compile on a tracked goroutine. Rebuilds never overlap.
func (w *watchLoop) rebuild(ctx context.Context) {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		w.buildMu.Lock()
		defer w.buildMu.Unlock()

		report, err := Compile(ctx, w.cfg)
		if err != nil {
			w.cfg.Logger.Error("rebuild failed", "error", err)
		}
		w.onBuild(report, err)
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		w.cfg.Logger.Error("rebuild panic", "error", err)
	}))
}

// addTree watches root and every non-hidden directory below it.
func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
