package config

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/anima-choreographer/engine/core"
)

/**
 * @brief Watches a configuration file and publishes every version of it that
 * parses and validates. Invalid edits are reported on Errors and otherwise
 * ignored, so the last good configuration stays in effect.
 */
type Watcher struct {
	path string

	fsnotify *fsnotify.Watcher
	updates  chan *Config
	errors   chan error
	done     chan struct{}

	mutex    sync.Mutex
	isClosed bool
	wg       sync.WaitGroup
}

func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// watch the directory: editors often replace the file instead of writing it
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		fsnotify: fsWatch,
		updates:  make(chan *Config, 1),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.start()
	return w, nil
}

// Updates delivers configurations that changed on disk. Only the latest
// pending one is kept.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

func (w *Watcher) Errors() <-chan error {
	return w.errors
}

func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) Close() error {
	w.mutex.Lock()
	if w.isClosed {
		w.mutex.Unlock()
		return errors.New("config watcher already closed")
	}
	w.isClosed = true
	w.mutex.Unlock()

	close(w.done)
	w.wg.Wait()
	return nil
}

func (w *Watcher) start() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				core.LogWarn("ignoring config change: %s", err)
				publish(w.errors, err)
				continue
			}
			core.LogInfo("config %s reloaded", w.path)
			publish(w.updates, cfg)

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())
			publish(w.errors, err)

		case <-w.done:
			w.fsnotify.Close()
			close(w.updates)
			close(w.errors)
			return
		}
	}
}

// publish replaces a pending value instead of blocking the watcher.
func publish[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
