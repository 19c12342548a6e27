package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Loader reloads a SimulatorConfig from whatever path a Watcher is
// following. LoadTOML and LoadYAML both satisfy it once bound to a path.
type Loader func(path string) (SimulatorConfig, error)

// Watcher hot-reloads a config file between Simulator runs. It never
// touches a Simulator directly — the core run loop is single-threaded and
// must not be mutated mid-run — it only delivers the freshly loaded
// SimulatorConfig on Changes for the caller to apply once the current
// run has returned.
type Watcher struct {
	path    string
	load    Loader
	watcher *fsnotify.Watcher
	debounce time.Duration

	Changes chan SimulatorConfig
	Errors  chan error
}

// loaderFor picks LoadTOML or LoadYAML based on path's extension.
func loaderFor(path string) (Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return LoadTOML, nil
	case ".yaml", ".yml":
		return LoadYAML, nil
	default:
		return nil, fmt.Errorf("config: unrecognized config file extension %q", path)
	}
}

// NewWatcher starts watching path for writes, debounced by interval
// (Default().ReloadInterval if interval is zero; the watched file's own
// reload_interval is not read). Call Close when done.
func NewWatcher(path string, interval time.Duration) (*Watcher, error) {
	load, err := loaderFor(path)
	if err != nil {
		return nil, err
	}
	if interval == 0 {
		interval = Default().ReloadInterval
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: starting watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("config: watching %q: %w", path, err)
	}

	w := &Watcher{
		path:     path,
		load:     load,
		watcher:  fsw,
		debounce: interval,
		Changes:  make(chan SimulatorConfig, 1),
		Errors:   make(chan error, 1),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	var pending *time.Timer
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(w.debounce, w.reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := w.load(w.path)
	if err != nil {
		select {
		case w.Errors <- err:
		default:
		}
		return
	}
	select {
	case w.Changes <- cfg:
	default:
	}
}

// Close stops the underlying filesystem watch.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
