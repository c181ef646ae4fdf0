package reload

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Reloadable manages one live-reloadable module slot: it owns the loaded
// module handle, the opaque state buffer that survives swaps, and the
// filesystem watcher that drives reload decisions.
//
// A Reloadable is exclusively owned by one goroutine's call sequence. Every
// method runs to completion on the calling goroutine; the watcher's
// background goroutine only feeds a queue that Reload drains without
// blocking. RawState views and Protocol references obtained from a module
// must not be retained past the next reload or Close.
//
// The engine never verifies that the host type or the state layout agree
// between the host build and the module file. Both are contracts the module
// author keeps; see Protocol and RawState.
type Reloadable[H any] struct {
	path    string
	host    H
	cfg     config[H]
	watcher *dirWatcher

	module     Module[H]
	buf        stateBuffer
	generation int
	closed     bool
}

// New loads the module at path and starts watching its directory for
// changes. The host value is passed by reference into every lifecycle call
// for the life of the Reloadable. On any failure no Reloadable is produced:
// a missing or protocol-less file surfaces as a LoadError, a watch setup
// failure as a WatchError.
func New[H any](path string, host H, opts ...Option[H]) (*Reloadable[H], error) {
	cfg := applyOptions(opts)
	canonical, err := canonicalPath(path)
	if err != nil {
		return nil, err
	}
	watcher, err := newDirWatcher(canonical, cfg.debounce, cfg.filter, cfg.logger)
	if err != nil {
		return nil, err
	}
	r := &Reloadable[H]{
		path:    canonical,
		host:    host,
		cfg:     cfg,
		watcher: watcher,
	}
	if err := r.loadFirst(); err != nil {
		watcher.close()
		return nil, err
	}
	return r, nil
}

func (r *Reloadable[H]) loadFirst() error {
	start := time.Now()
	module, err := r.cfg.loader.Load(r.path)
	if err != nil {
		r.cfg.logger.LogReload(ReloadLogEvent{
			Op:       OpLoad,
			Path:     r.path,
			Duration: time.Since(start),
			Err:      err,
		})
		return err
	}
	r.module = module
	r.generation = 1
	r.buf.resize(module.Protocol().StateSize())
	module.Protocol().Init(&r.host, r.buf.view())
	r.cfg.logger.LogReload(ReloadLogEvent{
		Op:         OpLoad,
		Path:       r.path,
		Generation: r.generation,
		Duration:   time.Since(start),
	})
	return nil
}

// Reload consults the watcher and reloads the module if its file changed
// since the last check. When no module is loaded, a previous reload having
// failed, it retries unconditionally, with or without a new change event,
// until the file becomes loadable again. Cheap when nothing changed;
// designed for per-tick polling.
func (r *Reloadable[H]) Reload() error {
	if r.watcher.poll() || r.module == nil {
		return r.ReloadNow()
	}
	return nil
}

// ReloadNow swaps the module immediately, without consulting the watcher.
//
// The outgoing module's Unload entry runs first, then its handle is
// released. If loading the new module fails, the Reloadable is left with no
// module loaded, the state buffer and host untouched, and the error is
// returned. On success the buffer is resized to the new module's declared
// state size, content preserved up to the smaller size, and the incoming
// module's Reload entry runs.
func (r *Reloadable[H]) ReloadNow() error {
	if r.module != nil {
		r.module.Protocol().Unload(&r.host, r.buf.view())
		r.cfg.logger.LogReload(ReloadLogEvent{
			Op:         OpUnload,
			Path:       r.path,
			Generation: r.generation,
		})
		r.module.Close()
		r.module = nil
	}
	start := time.Now()
	module, err := r.cfg.loader.Load(r.path)
	if err != nil {
		r.cfg.logger.LogReload(ReloadLogEvent{
			Op:       OpLoad,
			Path:     r.path,
			Duration: time.Since(start),
			Err:      err,
		})
		return err
	}
	r.buf.resize(module.Protocol().StateSize())
	module.Protocol().Reload(&r.host, r.buf.view())
	r.module = module
	r.generation++
	r.cfg.logger.LogReload(ReloadLogEvent{
		Op:         OpReload,
		Path:       r.path,
		Generation: r.generation,
		Duration:   time.Since(start),
	})
	return nil
}

// Update invokes the module's Update entry and returns its continuation
// signal. With no module loaded it performs no call and returns Continue.
// Update never evaluates reload conditions; pair it with Reload in the host
// loop.
func (r *Reloadable[H]) Update() Signal {
	if r.module == nil {
		return Continue
	}
	return r.module.Protocol().Update(&r.host, r.buf.view())
}

// SaveState returns an immutable copy of the state buffer's bytes.
func (r *Reloadable[H]) SaveState() SaveState {
	return r.buf.snapshot()
}

// LoadState replaces the state buffer's contents with the snapshot's bytes.
// No resizing toward the loaded module's declared size happens and no
// compatibility check runs; handing a module state it cannot reinterpret is
// the caller's responsibility.
func (r *Reloadable[H]) LoadState(s SaveState) {
	r.buf.restore(s)
}

// Host returns the host capability object shared with the module.
func (r *Reloadable[H]) Host() *H {
	return &r.host
}

// Loaded reports whether a module is currently loaded.
func (r *Reloadable[H]) Loaded() bool {
	return r.module != nil
}

// Generation reports how many loads have succeeded over the Reloadable's
// lifetime. The first load is generation 1.
func (r *Reloadable[H]) Generation() int {
	return r.generation
}

// StateLen reports the current size of the state buffer in bytes, including
// the rounding up to storage granularity.
func (r *Reloadable[H]) StateLen() int {
	return r.buf.len()
}

// Path returns the canonicalized module path being watched.
func (r *Reloadable[H]) Path() string {
	return r.path
}

// Close tears the Reloadable down: if a module is loaded its Deinit entry
// runs exactly once, then the module handle, the watcher subscription and
// the state buffer are released. Close is idempotent.
func (r *Reloadable[H]) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.module != nil {
		r.module.Protocol().Deinit(&r.host, r.buf.view())
		r.cfg.logger.LogReload(ReloadLogEvent{
			Op:         OpDeinit,
			Path:       r.path,
			Generation: r.generation,
		})
		r.module.Close()
		r.module = nil
	}
	r.buf.resize(0)
	return r.watcher.close()
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("reload: canonicalize %q: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", wrapLoadError("", path, ErrModuleNotFound)
		}
		return "", fmt.Errorf("reload: canonicalize %q: %w", path, err)
	}
	return resolved, nil
}
