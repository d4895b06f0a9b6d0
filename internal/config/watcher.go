package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Reload is delivered by Watcher whenever config.json changes. Err is set
// when the new file could not be read or parsed; Config is then nil.
type Reload struct {
	Config *Config
	Err    error
	Time   time.Time
}

// Watcher reports edits to a project's config.json.
type Watcher struct {
	watcher  *fsnotify.Watcher
	root     string
	debounce time.Duration
}

// NewWatcher watches the project root directory. The directory rather than
// the file is watched so that editors that save by rename are seen.
func NewWatcher(root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch directory %s: %w", root, err)
	}
	return &Watcher{
		watcher:  fsw,
		root:     root,
		debounce: 150 * time.Millisecond,
	}, nil
}

// Watch starts watching and returns a channel of reloads. Cancelling the
// context stops watching and closes the channel. Successful reloads also
// replace the cached config returned by Get.
func (w *Watcher) Watch(ctx context.Context) <-chan Reload {
	out := make(chan Reload, 4)

	go func() {
		defer close(out)

		// Initialize a stopped timer
		timer := time.NewTimer(0)
		if !timer.Stop() {
			<-timer.C
		}
		pending := false

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != FileName {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if pending && !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
				pending = true

			case <-timer.C:
				pending = false
				r := Reload{Time: time.Now()}
				r.Config, r.Err = Load(w.root)
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}

			case _, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				// Keep watching; a missed event only delays the next reload.
			}
		}
	}()

	return out
}

// Close stops watching and cleans up resources.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
