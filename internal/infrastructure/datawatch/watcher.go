package datawatch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/geowild/ConserveIQ/internal/domain/genetics"
	"github.com/geowild/ConserveIQ/internal/domain/occurrence"
	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
)

// debounceWindow coalesces the burst of filesystem events most editors and
// atomic-rename writers emit for a single logical change.
const debounceWindow = 250 * time.Millisecond

// Sink receives freshly loaded inputs.  The analysis service satisfies it.
type Sink interface {
	SetInputs(ctx context.Context, points []*occurrence.Point, samples []*genetics.Sample) error
}

// Watcher keeps a Sink's inputs synchronized with the collaborator input
// files on disk.
type Watcher struct {
	occurrencePath string
	samplePath     string
	sink           Sink
	logger         logging.Logger

	fswatch *fsnotify.Watcher
}

// NewWatcher constructs a Watcher over the given input files.  Either path
// may be empty, in which case that input stays empty.
func NewWatcher(occurrencePath, samplePath string, sink Sink, logger logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		occurrencePath: occurrencePath,
		samplePath:     samplePath,
		sink:           sink,
		logger:         logger.Named("datawatch"),
		fswatch:        fsw,
	}, nil
}

// Run performs an initial load, then watches the input files' directories
// until ctx is cancelled.  Directories are watched rather than the files
// themselves so atomic replace-by-rename is still observed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fswatch.Close()

	if err := w.reload(ctx); err != nil {
		return err
	}

	for _, dir := range w.watchDirs() {
		if err := w.fswatch.Add(dir); err != nil {
			return err
		}
	}

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fswatch.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			// Debounce: restart the window on every relevant event.
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounceWindow)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			if err := w.reload(ctx); err != nil {
				// A half-written file is transient; keep the previous inputs
				// and wait for the next event.
				w.logger.Warn("input reload failed, keeping previous inputs", logging.Err(err))
			}

		case err, ok := <-w.fswatch.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("filesystem watch error", logging.Err(err))
		}
	}
}

func (w *Watcher) watchDirs() []string {
	seen := make(map[string]struct{})
	var dirs []string
	for _, p := range []string{w.occurrencePath, w.samplePath} {
		if p == "" {
			continue
		}
		dir := filepath.Dir(p)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	return dirs
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	return name == filepath.Clean(w.occurrencePath) || name == filepath.Clean(w.samplePath)
}

func (w *Watcher) reload(ctx context.Context) error {
	in, err := Load(w.occurrencePath, w.samplePath)
	if err != nil {
		return err
	}
	if err := w.sink.SetInputs(ctx, in.Points, in.Samples); err != nil {
		return err
	}
	w.logger.Info("inputs loaded",
		logging.Int("occurrences", len(in.Points)), logging.Int("samples", len(in.Samples)))
	return nil
}
