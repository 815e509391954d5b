// Package devwatch is a development convenience, not part of the
// compiler core: it watches a directory of ".pl" files and keeps a
// Registry's functions in sync with their source files on disk. Core
// packages never import this package and never depend on its
// presence.
package devwatch

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/orizon-lang/pljit"
)

// Watcher re-registers a Registry's functions whenever their backing
// ".pl" file changes on disk.
type Watcher struct {
	reg *pljit.Registry
	dir string
	fsw *fsnotify.Watcher

	errC chan error
}

// New creates a Watcher over dir, registering it is not itself
// enough to start watching; call Start.
func New(reg *pljit.Registry, dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{reg: reg, dir: dir, fsw: fsw, errC: make(chan error, 1)}, nil
}

// Errors reports watcher-internal errors (e.g. a file becoming
// unreadable); it never carries compilation diagnostics, which belong
// to the functions themselves.
func (w *Watcher) Errors() <-chan error { return w.errC }

// Start begins watching w.dir and blocks until Close is called or the
// underlying fsnotify watcher is closed. Call it from its own
// goroutine.
func (w *Watcher) Start() error {
	if err := w.fsw.Add(w.dir); err != nil {
		return err
	}

	if err := w.loadAll(); err != nil {
		w.errC <- err
	}

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}

			if !strings.HasSuffix(ev.Name, ".pl") {
				continue
			}

			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if err := w.reload(ev.Name); err != nil {
				w.errC <- err
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}

			w.errC <- err
		}
	}
}

// Close stops watching and releases the underlying OS resources.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) loadAll() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pl") {
			continue
		}

		if err := w.reload(filepath.Join(w.dir, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

func (w *Watcher) reload(path string) error {
	text, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(path), ".pl")

	_, err = w.reg.RegisterFunction(name, string(text))

	return err
}
