package flatfile

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/quickbasket/smartsync-agent/internal/core/domain"
	"github.com/quickbasket/smartsync-agent/internal/logger"
)

// watchDebounce coalesces the burst of events a single file export
// produces into one change signal.
const watchDebounce = 2 * time.Second

// Watch emits one value per detected change to a matching file in the
// watched folder, until ctx is cancelled. Only folder mode supports
// watching.
func (c *Connector) Watch(ctx context.Context) (<-chan struct{}, error) {
	if c.cfg.FolderPath == "" {
		return nil, fmt.Errorf("%w: watch requires folder mode", domain.ErrUnsupportedOperation)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(c.cfg.FolderPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", c.cfg.FolderPath, err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer watcher.Close()
		defer close(changes)

		var timer *time.Timer
		var timerC <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if !matchExtensions[strings.ToLower(filepath.Ext(event.Name))] {
					continue
				}
				// Restart the debounce window.
				if timer == nil {
					timer = time.NewTimer(watchDebounce)
					timerC = timer.C
				} else {
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
					timer.Reset(watchDebounce)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("folder watch error", "folder", c.cfg.FolderPath, "err", err)

			case <-timerC:
				timerC = nil
				timer = nil
				select {
				case changes <- struct{}{}:
				default:
					// A signal is already pending; coalesce.
				}
			}
		}
	}()

	return changes, nil
}
