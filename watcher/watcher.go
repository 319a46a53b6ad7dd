// Package watcher turns file system changes under a model directory into
// debounced batches that drive sequential annotation runs.
package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultPatterns selects CellML files anywhere below the root.
var DefaultPatterns = []string{"**/*.cellml"}

// Config configures the file watcher
type Config struct {
	// Root is the directory to watch recursively
	Root string

	// Patterns are doublestar patterns, relative to Root, selecting the
	// files whose changes trigger a batch. Empty means DefaultPatterns.
	Patterns []string

	// Debounce is how long the tree must stay quiet before a batch is
	// emitted
	Debounce time.Duration

	// Logger for logging events
	Logger *slog.Logger
}

// Batch is the set of files that changed during one quiet period.
type Batch struct {
	// Changed are created or modified files, absolute and sorted
	Changed []string

	// Removed are deleted or renamed-away files, absolute and sorted
	Removed []string
}

// Empty reports whether the batch carries no change.
func (b Batch) Empty() bool {
	return len(b.Changed) == 0 && len(b.Removed) == 0
}

// Merge folds a later batch into b. A file changed after being removed (or
// the reverse) keeps only its latest state.
func (b Batch) Merge(later Batch) Batch {
	state := make(map[string]bool)
	for _, p := range b.Changed {
		state[p] = true
	}
	for _, p := range b.Removed {
		state[p] = false
	}
	for _, p := range later.Changed {
		state[p] = true
	}
	for _, p := range later.Removed {
		state[p] = false
	}
	return batchFrom(state)
}

func batchFrom(state map[string]bool) Batch {
	var out Batch
	for p, changed := range state {
		if changed {
			out.Changed = append(out.Changed, p)
		} else {
			out.Removed = append(out.Removed, p)
		}
	}
	sort.Strings(out.Changed)
	sort.Strings(out.Removed)
	return out
}

// Watcher watches a model directory and emits batches of changed files
type Watcher struct {
	config  Config
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	// Debouncing: collect changes until the tree is quiet
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op // path → most recent operation
	lastEvent time.Time

	// Content hashes so that touching a file without changing it is ignored
	hashMu sync.RWMutex
	hashes map[string]string

	events chan Batch
}

// NewWatcher creates a new file watcher
func NewWatcher(config Config) (*Watcher, error) {
	if config.Root == "" {
		return nil, errors.New("watch root is required")
	}
	root, err := filepath.Abs(config.Root)
	if err != nil {
		return nil, err
	}
	config.Root = root

	for _, p := range config.Patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, &PatternError{Pattern: p}
		}
	}
	if len(config.Patterns) == 0 {
		config.Patterns = DefaultPatterns
	}
	if config.Debounce <= 0 {
		config.Debounce = 500 * time.Millisecond
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  logger,
		pending: make(map[string]fsnotify.Op),
		hashes:  make(map[string]string),
		events:  make(chan Batch, 16),
	}, nil
}

// PatternError reports an invalid watch pattern.
type PatternError struct {
	Pattern string
}

func (e *PatternError) Error() string {
	return "invalid watch pattern: " + e.Pattern
}

// Events returns the channel of batches. It is closed when the watcher stops.
func (w *Watcher) Events() <-chan Batch {
	return w.events
}

// Start records the current content of every matching file and begins
// watching. Files present at start do not produce a batch until they change.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.config.Root); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("File watcher started",
		"root", w.config.Root,
		"patterns", w.config.Patterns,
		"debounce", w.config.Debounce)

	return nil
}

// Stop stops the watcher. The events channel is closed once the processing
// goroutine exits.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// Matches reports whether an absolute path is selected by the watch
// patterns. Hidden files, such as temporary files written by an atomic save,
// never match.
func (w *Watcher) Matches(path string) bool {
	rel, err := filepath.Rel(w.config.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, p := range w.config.Patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// addWatchesRecursive adds watches to all directories and hashes the
// matching files found on the way
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			if w.Matches(path) {
				if hash, err := hashFile(path); err == nil {
					w.setHash(path, hash)
				}
			}
			return nil
		}

		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory",
				"path", path,
				"error", err)
		} else {
			w.logger.Debug("Watching directory", "path", path)
		}

		return nil
	})
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".")
}

// processEvents handles fsnotify events with debouncing
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	ticker := time.NewTicker(max(w.config.Debounce/4, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleFSEvent processes a single fsnotify event
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.handleNewDirectory(path)
			return
		}
	}

	if !w.Matches(path) {
		return
	}

	w.pendingMu.Lock()
	w.pending[path] |= event.Op
	w.lastEvent = time.Now()
	w.pendingMu.Unlock()

	w.logger.Debug("File change detected",
		"path", path,
		"op", event.Op.String())
}

// handleNewDirectory watches a newly created directory and picks up any
// matching files already written into it
func (w *Watcher) handleNewDirectory(path string) {
	if skipDir(filepath.Base(path)) {
		return
	}

	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != path && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			if err := w.watcher.Add(p); err != nil {
				w.logger.Warn("Failed to watch new directory",
					"path", p,
					"error", err)
			} else {
				w.logger.Debug("Added watch for new directory", "path", p)
			}
			return nil
		}
		if w.Matches(p) {
			w.pendingMu.Lock()
			w.pending[p] |= fsnotify.Create
			w.lastEvent = time.Now()
			w.pendingMu.Unlock()
		}
		return nil
	})
}

// flushPending emits accumulated changes once the debounce period has
// passed without new events
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 || time.Since(w.lastEvent) < w.config.Debounce {
		w.pendingMu.Unlock()
		return
	}

	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	state := make(map[string]bool, len(toProcess))
	for path := range toProcess {
		hash, err := hashFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			// Removed or renamed away
			if w.deleteHash(path) {
				state[path] = false
			}
			continue
		}
		if err != nil {
			w.logger.Warn("Failed to read changed file", "path", path, "error", err)
			continue
		}

		if old, ok := w.hash(path); ok && old == hash {
			continue
		}
		w.setHash(path, hash)
		state[path] = true
	}

	batch := batchFrom(state)
	if batch.Empty() {
		return
	}

	select {
	case w.events <- batch:
		w.logger.Debug("Sent watch batch",
			"changed", len(batch.Changed),
			"removed", len(batch.Removed))
	case <-ctx.Done():
	}
}

func (w *Watcher) hash(path string) (string, bool) {
	w.hashMu.RLock()
	defer w.hashMu.RUnlock()
	h, ok := w.hashes[path]
	return h, ok
}

func (w *Watcher) setHash(path, hash string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hashes[path] = hash
}

// deleteHash forgets a file and reports whether it was known.
func (w *Watcher) deleteHash(path string) bool {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	_, ok := w.hashes[path]
	delete(w.hashes, path)
	return ok
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
