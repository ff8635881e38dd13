package definition

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/artpar/modelkit/core/registry"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ErrWatcherStopped is returned by Start after Stop.
var ErrWatcherStopped = errors.New("definitions watcher stopped")

// Watcher keeps a registry built from a definitions directory and rebuilds
// it when definition files change.
type Watcher struct {
	mu          sync.RWMutex
	current     *registry.Registry
	dir         string
	logger      zerolog.Logger
	newRegistry func() *registry.Registry
	buildOpts   []BuildOption
	watcher     *fsnotify.Watcher
	onChange    []func(*registry.Registry)
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewWatcher builds the initial registry from dir. newRegistry returns an
// empty registry for every build; opts apply to every build.
func NewWatcher(dir string, logger zerolog.Logger, newRegistry func() *registry.Registry, opts ...BuildOption) (*Watcher, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}

	w := &Watcher{
		dir:         absDir,
		logger:      logger.With().Str("component", "definitions").Logger(),
		newRegistry: newRegistry,
		buildOpts:   opts,
		stopCh:      make(chan struct{}),
	}

	reg, err := w.build()
	if err != nil {
		return nil, fmt.Errorf("load definitions: %w", err)
	}
	w.current = reg

	return w, nil
}

// Get returns the current registry (thread-safe).
func (w *Watcher) Get() *registry.Registry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Reload rebuilds the registry from disk.
// Returns error if loading fails (keeps old registry).
func (w *Watcher) Reload() error {
	w.logger.Info().Str("dir", w.dir).Msg("reloading definitions")

	reg, err := w.build()
	if err != nil {
		w.logger.Error().Err(err).Msg("definitions reload failed, keeping old registry")
		return fmt.Errorf("reload definitions: %w", err)
	}

	w.mu.Lock()
	old := w.current
	w.current = reg
	listeners := append([]func(*registry.Registry){}, w.onChange...)
	w.mu.Unlock()

	w.logChanges(old, reg)

	for _, fn := range listeners {
		fn(reg)
	}

	w.logger.Info().Int("types", reg.Len()).Msg("definitions reloaded successfully")
	return nil
}

// OnChange registers a callback to be called with every rebuilt registry.
func (w *Watcher) OnChange(fn func(*registry.Registry)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Start watches the directory tree for changes to definition files.
// Changes trigger automatic reload. Starting a running watcher is a no-op;
// starting a stopped one is an error.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		return nil
	}
	select {
	case <-w.stopCh:
		return ErrWatcherStopped
	default:
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	err = filepath.WalkDir(w.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}
	w.watcher = watcher

	go w.watchLoop(watcher)

	w.logger.Info().Str("dir", w.dir).Msg("watching definitions for changes")
	return nil
}

// Stop stops watching for changes.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.mu.RLock()
		watcher := w.watcher
		w.mu.RUnlock()
		if watcher != nil {
			watcher.Close()
		}
	})
}

func (w *Watcher) build() (*registry.Registry, error) {
	reg := w.newRegistry()
	if _, err := LoadDir(reg, w.dir, w.buildOpts...); err != nil {
		return nil, err
	}
	return reg, nil
}

func (w *Watcher) watchLoop(watcher *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						w.logger.Error().Err(err).Str("dir", event.Name).Msg("watch new directory")
					}
					continue
				}
			}

			if !IsDefinitionFile(filepath.Base(event.Name)) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("definition file changed")

				if err := w.Reload(); err != nil {
					w.logger.Error().Err(err).Msg("file watch reload failed")
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("file watcher error")

		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) logChanges(old, new *registry.Registry) {
	before := make(map[string]bool)
	for _, name := range old.Names() {
		before[name] = true
	}

	var added, removed []string
	for _, name := range new.Names() {
		if !before[name] {
			added = append(added, name)
		}
		delete(before, name)
	}
	for name := range before {
		removed = append(removed, name)
	}
	sort.Strings(removed)

	if len(added) > 0 {
		w.logger.Info().Strs("types", added).Msg("types added")
	}
	if len(removed) > 0 {
		w.logger.Info().Strs("types", removed).Msg("types removed")
	}
}
