package batch

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultSettle is how long the watcher waits after the last event before
// parsing the files it saw.
const DefaultSettle = 500 * time.Millisecond

// Watcher parses SPL files dropped into a directory. Files created or
// written within one settle interval are parsed together as one run.
type Watcher struct {
	dir       string
	runner    *Runner
	logger    zerolog.Logger
	settle    time.Duration
	onSummary func(*Summary)

	pending map[string]struct{}
}

// NewWatcher creates a watcher for dir. Parsed documents go to the runner's
// sink.
func NewWatcher(dir string, runner *Runner, logger zerolog.Logger) *Watcher {
	return &Watcher{
		dir:     dir,
		runner:  runner,
		logger:  logger.With().Str("component", "watcher").Str("dir", dir).Logger(),
		settle:  DefaultSettle,
		pending: make(map[string]struct{}),
	}
}

// SetSettle overrides the settle interval.
func (w *Watcher) SetSettle(d time.Duration) {
	if d > 0 {
		w.settle = d
	}
}

// OnSummary registers a callback invoked after every run.
func (w *Watcher) OnSummary(fn func(*Summary)) {
	w.onSummary = fn
}

// Run watches the directory until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("batch: creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("batch: watching directory %s: %w", w.dir, err)
	}
	w.logger.Info().Msg("watching for SPL files")

	timer := time.NewTimer(w.settle)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.handle(event) {
				timer.Reset(w.settle)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watch error")

		case <-timer.C:
			w.flush(ctx)
		}
	}
}

// handle records a created or written XML file and reports whether it was
// queued.
func (w *Watcher) handle(event fsnotify.Event) bool {
	if !IsSPLFile(event.Name) {
		return false
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	w.pending[event.Name] = struct{}{}
	return true
}

// flush parses every queued file in one run.
func (w *Watcher) flush(ctx context.Context) *Summary {
	if len(w.pending) == 0 {
		return nil
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	w.pending = make(map[string]struct{})

	inputs := make([]Input, len(paths))
	for i, p := range paths {
		inputs[i] = Input{Path: p}
	}
	sum := w.runner.Run(ctx, inputs)
	if w.onSummary != nil {
		w.onSummary(sum)
	}
	return sum
}
