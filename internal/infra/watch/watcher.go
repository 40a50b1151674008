// Package watch notices new round files landing in the quiz directory
// and triggers a rescan, so a quiz master can keep exporting rounds
// mid-event without touching the server.
package watch

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"pubquiz-service/internal/infra/dirscan"
)

// Watcher debounces filesystem events on the quiz directory and invokes
// the rescan callback once things settle.
type Watcher struct {
	dir      string
	debounce time.Duration
	rescan   func(context.Context)
	log      *zap.Logger
}

// New creates a watcher for dir. rescan is called from the watcher
// goroutine after events quiet down for the debounce interval.
func New(dir string, debounce time.Duration, rescan func(context.Context), log *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{dir: dir, debounce: debounce, rescan: rescan, log: log}
}

// Run watches until ctx is cancelled. It blocks; run it in its own
// goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return err
	}
	w.log.Info("watching quiz directory", zap.String("dir", w.dir))

	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			if _, isRound := dirscan.SectionName(event.Name); !isRound {
				continue
			}
			w.log.Debug("round file event", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-pending:
			timer = nil
			pending = nil
			w.rescan(ctx)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}
