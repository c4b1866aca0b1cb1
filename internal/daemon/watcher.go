package daemon

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// TreeWatcher monitors the output tree and triggers a localization run after
// changes settle. Rapid event bursts (a site rebuild touches many files) are
// debounced into a single trigger.
type TreeWatcher struct {
	root     string
	watcher  *fsnotify.Watcher
	trigger  chan<- string
	debounce time.Duration
}

// NewTreeWatcher creates a watcher over root.
func NewTreeWatcher(root string, debounce time.Duration, trigger chan<- string) (*TreeWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("resolve output root: %w", err)
	}
	tw := &TreeWatcher{
		root:     absRoot,
		watcher:  watcher,
		trigger:  trigger,
		debounce: debounce,
	}
	if err := tw.addRecursive(); err != nil {
		watcher.Close()
		return nil, err
	}
	return tw, nil
}

// addRecursive registers every directory under the root. fsnotify does not
// watch recursively on its own; new directories are picked up from create
// events in the watch loop.
func (tw *TreeWatcher) addRecursive() error {
	return filepath.WalkDir(tw.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != tw.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return tw.watcher.Add(p)
	})
}

// Start runs the watch loop until the context is canceled.
func (tw *TreeWatcher) Start(ctx context.Context) {
	slog.Info("Watching output tree", "root", tw.root, "debounce", tw.debounce)
	go tw.watchLoop(ctx)
}

// Stop closes the underlying watcher.
func (tw *TreeWatcher) Stop() error {
	return tw.watcher.Close()
}

func (tw *TreeWatcher) watchLoop(ctx context.Context) {
	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) {
				// A new directory needs its own watch.
				_ = tw.watcher.Add(event.Name)
			}
			if timer == nil {
				timer = time.AfterFunc(tw.debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(tw.debounce)
			}
		case <-fire:
			timer = nil
			select {
			case tw.trigger <- "watch":
			default:
			}
		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("File watcher error", "error", err)
		}
	}
}
