package watch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	stats "github.com/lyft/gostats"
	"github.com/lyft/sysexconv/table"

	logger "github.com/sirupsen/logrus"
)

// Runner performs one conversion of the watched source.
type Runner interface {
	InputPath() string
	Run() (*table.Table, error)
}

type watchStats struct {
	reruns        stats.Counter
	rerunFailures stats.Counter
	watchErrors   stats.Counter
}

func newWatchStats(scope stats.Scope) watchStats {
	ret := watchStats{}
	ret.reruns = scope.NewCounter("reruns")
	ret.rerunFailures = scope.NewCounter("rerun_failures")
	ret.watchErrors = scope.NewCounter("errors")
	return ret
}

type callbacks struct {
	mu     sync.Mutex
	cbs    []chan<- struct{}
	done   chan struct{}
	closed bool
}

func notifyCallback(notify <-chan struct{}, done <-chan struct{}, callback chan<- int) {
	for {
		select {
		case <-done:
			return
		case <-notify:
			select {
			case callback <- 1: // potentially blocking send
			case <-done:
				return
			}
		}
	}
}

// doneLocked returns the channel closed by Close. c.mu must be held.
func (c *callbacks) doneLocked() chan struct{} {
	if c.done == nil {
		c.done = make(chan struct{})
	}
	return c.done
}

// Add registers callback. Each callback gets its own buffered channel and goroutine so that a slow
// receiver misses intermediate signals instead of stalling the watcher. It is still signalled at
// least once after any rerun.
func (c *callbacks) Add(callback chan<- int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	notify := make(chan struct{}, 1)
	c.cbs = append(c.cbs, notify)
	go notifyCallback(notify, c.doneLocked(), callback)
}

// Signal all callback channels without blocking. Does nothing once closed.
func (c *callbacks) Signal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	for _, ch := range c.cbs {
		select {
		case ch <- struct{}{}:
		default:
			// A previous signal is still pending.
		}
	}
}

// Close stops every notifying goroutine, including one blocked on a receiver that went away.
func (c *callbacks) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.doneLocked())
	c.cbs = nil
}

// atomic.Value requires every stored value to share one concrete type.
type current struct {
	table table.IFace
}

// Watcher reruns a conversion whenever its source listing changes.
type Watcher struct {
	currentTable atomic.Value
	watcher      *fsnotify.Watcher
	refresher    Refresher
	runner       Runner
	callbacks    callbacks
	stats        watchStats
}

// New starts watching the runner's input and performs the first conversion immediately. A failed
// conversion is logged and counted; the watcher keeps serving the last good table.
func New(runner Runner, scope stats.Scope, refresher Refresher) (*Watcher, error) {
	watchedPath := refresher.WatchDirectory(runner.InputPath())

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		// EMFILE here usually means fs.inotify.max_user_instances is exhausted.
		return nil, fmt.Errorf("unable to create source watcher: %[1]s (%[1]T %#[1]v)", err)
	}

	err = watcher.Add(watchedPath)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("unable to watch directory (%[1]s): %[2]s (%[2]T %#[2]v)", watchedPath, err)
	}

	w := &Watcher{
		watcher:   watcher,
		refresher: refresher,
		runner:    runner,
		stats:     newWatchStats(scope.Scope("watch")),
	}
	w.currentTable.Store(current{table: table.NewNil()})
	w.onSourceChanged()

	return w, nil
}

// Table returns the most recently generated table, or an empty table if no run has succeeded.
func (w *Watcher) Table() table.IFace {
	v, _ := w.currentTable.Load().(current)
	return v.table
}

// Add a channel that will be written to after every rerun, successful or not. "1" is written as a
// sentinel.
func (w *Watcher) AddUpdateCallback(callback chan<- int) {
	if callback == nil {
		panic("sysexconv/watch: nil callback")
	}
	w.callbacks.Add(callback)
}

// Run processes filesystem events until ctx is done, then releases the underlying watcher and
// stops delivering to update callbacks.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.callbacks.Close()
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.refresher.ShouldRefresh(ev.Name, getFileSystemOp(ev)) {
				w.onSourceChanged()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.stats.watchErrors.Inc()
			logger.Warnf("source watch error: %s", err)
		}
	}
}

func (w *Watcher) onSourceChanged() {
	w.stats.reruns.Inc()

	t, err := w.runner.Run()
	if err != nil {
		w.stats.rerunFailures.Inc()
		logger.Warnf("watch: conversion of %s failed: %s", w.runner.InputPath(), err)
	} else {
		w.currentTable.Store(current{table: t})
	}

	w.callbacks.Signal()
}

func getFileSystemOp(ev fsnotify.Event) FileSystemOp {
	switch {
	case ev.Op&fsnotify.Write != 0:
		return Write
	case ev.Op&fsnotify.Create != 0:
		return Create
	case ev.Op&fsnotify.Chmod != 0:
		return Chmod
	case ev.Op&fsnotify.Remove != 0:
		return Remove
	case ev.Op&fsnotify.Rename != 0:
		return Rename
	}
	return -1
}
