package reload

import (
	"fmt"
	"os"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// Symbol names a source module must define at package level.
const (
	sourceStateSizeFunc = "StateSize"
	sourceInitFunc      = "Init"
	sourceReloadFunc    = "Reload"
	sourceUpdateFunc    = "Update"
	sourceUnloadFunc    = "Unload"
	sourceDeinitFunc    = "Deinit"
)

type sourceLoaderConfig struct {
	symbols []interp.Exports
}

// SourceLoaderOption configures the source loader.
type SourceLoaderOption func(*sourceLoaderConfig)

// SourceWithSymbols exposes extra symbols to interpreted modules, typically
// the package defining the host capability type so modules can assert the
// host they receive back to its concrete type.
func SourceWithSymbols(symbols interp.Exports) SourceLoaderOption {
	return func(cfg *sourceLoaderConfig) {
		if symbols == nil {
			return
		}
		cfg.symbols = append(cfg.symbols, symbols)
	}
}

// sourceLoader interprets a Go source file as the live module.
type sourceLoader[H any] struct {
	cfg sourceLoaderConfig
}

// NewSourceLoader constructs a Loader that evaluates the module file as Go
// source with yaegi. The file must define, at package level:
//
//	func StateSize() int
//	func Init(host any, state []byte)
//	func Reload(host any, state []byte)
//	func Update(host any, state []byte) int
//	func Unload(host any, state []byte)
//	func Deinit(host any, state []byte)
//
// The host argument is the *H the orchestrator carries; modules assert it
// back to the concrete type when the host package's symbols are exposed via
// SourceWithSymbols. Update returns 0 to continue and any other value to ask
// the host to quit. Module source must not keep package-level state: every
// load starts a fresh interpreter and only the state bytes survive the swap.
func NewSourceLoader[H any](opts ...SourceLoaderOption) Loader[H] {
	cfg := sourceLoaderConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &sourceLoader[H]{cfg: cfg}
}

// Load implements Loader.
func (l *sourceLoader[H]) Load(path string) (Module[H], error) {
	if _, err := os.Stat(path); err != nil {
		return nil, wrapLoadError("source", path, fmt.Errorf("%w: %v", ErrModuleNotFound, err))
	}
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, wrapLoadError("source", path, err)
	}
	for _, symbols := range l.cfg.symbols {
		if err := i.Use(symbols); err != nil {
			return nil, wrapLoadError("source", path, err)
		}
	}
	if _, err := i.EvalPath(path); err != nil {
		return nil, wrapLoadError("source", path, fmt.Errorf("%w: interpret: %v", ErrBadModule, err))
	}

	stateSize, err := resolveSourceFunc[func() int](i, path, sourceStateSizeFunc)
	if err != nil {
		return nil, err
	}
	initFn, err := resolveSourceFunc[func(any, []byte)](i, path, sourceInitFunc)
	if err != nil {
		return nil, err
	}
	reloadFn, err := resolveSourceFunc[func(any, []byte)](i, path, sourceReloadFunc)
	if err != nil {
		return nil, err
	}
	update, err := resolveSourceFunc[func(any, []byte) int](i, path, sourceUpdateFunc)
	if err != nil {
		return nil, err
	}
	unload, err := resolveSourceFunc[func(any, []byte)](i, path, sourceUnloadFunc)
	if err != nil {
		return nil, err
	}
	deinit, err := resolveSourceFunc[func(any, []byte)](i, path, sourceDeinitFunc)
	if err != nil {
		return nil, err
	}

	proto := Protocol[H]{
		StateSize: stateSize,
		Init:      func(host *H, state RawState) { initFn(host, state) },
		Reload:    func(host *H, state RawState) { reloadFn(host, state) },
		Update: func(host *H, state RawState) Signal {
			if update(host, state) != 0 {
				return Quit
			}
			return Continue
		},
		Unload: func(host *H, state RawState) { unload(host, state) },
		Deinit: func(host *H, state RawState) { deinit(host, state) },
	}
	return &sourceModule[H]{interp: i, proto: proto}, nil
}

func resolveSourceFunc[F any](i *interp.Interpreter, path, name string) (F, error) {
	var zero F
	value, err := i.Eval(name)
	if err != nil {
		return zero, wrapLoadError("source", path, fmt.Errorf("%w: missing %s: %v", ErrBadModule, name, err))
	}
	if !value.IsValid() {
		return zero, wrapLoadError("source", path, fmt.Errorf("%w: missing %s", ErrBadModule, name))
	}
	fn, ok := value.Interface().(F)
	if !ok {
		return zero, wrapLoadError("source", path, fmt.Errorf("%w: %s has type %T, want %T", ErrBadModule, name, value.Interface(), zero))
	}
	return fn, nil
}

// sourceModule keeps the interpreter alive for the lifetime of the load; the
// protocol's closures call into it.
type sourceModule[H any] struct {
	interp *interp.Interpreter
	proto  Protocol[H]
}

func (m *sourceModule[H]) Protocol() *Protocol[H] { return &m.proto }

// Close drops the interpreter. The orchestrator never invokes protocol
// entries after Close.
func (m *sourceModule[H]) Close() error {
	m.interp = nil
	return nil
}
