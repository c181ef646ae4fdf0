package reload

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the window used to coalesce bursts of filesystem events
// into a single change notification. Compilers and editors rarely produce one
// clean write; a whole burst should trigger one reload.
const DefaultDebounce = time.Second

// dirWatcher subscribes to the parent directory of the module file and turns
// noisy filesystem traffic into a single pending notification the
// orchestrator drains from its own thread. The fsnotify goroutine only ever
// produces; poll only ever consumes, so the orchestrator needs no lock.
type dirWatcher struct {
	target   string
	debounce time.Duration
	filter   ChangeFilter
	logger   ReloadLogger

	fw     *fsnotify.Watcher
	notify chan struct{}
	done   chan struct{}
	once   sync.Once
}

func newDirWatcher(target string, debounce time.Duration, filter ChangeFilter, logger ReloadLogger) (*dirWatcher, error) {
	dir := filepath.Dir(target)
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, &WatchError{Dir: dir, Err: err}
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, &WatchError{Dir: dir, Err: err}
	}
	w := &dirWatcher{
		target:   target,
		debounce: debounce,
		filter:   filter,
		logger:   logger,
		fw:       fw,
		notify:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *dirWatcher) run() {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := false
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !w.matches(event) {
				continue
			}
			if w.debounce <= 0 {
				w.push()
				continue
			}
			pending = true
			timer.Reset(w.debounce)
		case <-timer.C:
			if pending {
				pending = false
				w.push()
			}
		case _, ok := <-w.fw.Errors:
			// Polling never fails; watch errors after setup are dropped.
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

// matches reports whether event describes a write-class change of the target
// file. Events for unrelated paths are discarded, then the optional change
// filter gets a veto.
func (w *dirWatcher) matches(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return false
	}
	path := filepath.Clean(event.Name)
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if path != w.target {
		return false
	}
	if w.filter == nil {
		return true
	}
	ok, err := w.filter.Match(Change{
		Path: path,
		Base: filepath.Base(path),
		Ext:  filepath.Ext(path),
		Op:   event.Op.String(),
	})
	if err != nil {
		// A broken filter must not wedge reloads; fail open and report.
		w.logger.LogReload(ReloadLogEvent{Op: OpFilter, Path: path, Err: err})
		return true
	}
	return ok
}

func (w *dirWatcher) push() {
	select {
	case w.notify <- struct{}{}:
	default:
	}
}

// poll drains the pending notification without blocking. It reports whether
// at least one change of the target file was observed since the previous
// call.
func (w *dirWatcher) poll() bool {
	changed := false
	for {
		select {
		case <-w.notify:
			changed = true
		default:
			return changed
		}
	}
}

func (w *dirWatcher) close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fw.Close()
	})
	return err
}
