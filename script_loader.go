//go:build js_module

package reload

import (
	"fmt"
	"os"

	"github.com/dop251/goja"
)

// scriptAPIName is the global a script module must assign its lifecycle
// table to.
const scriptAPIName = "reloadAPI"

type scriptLoader[H any] struct {
	cache    ProgramCache
	registry *HostFuncRegistry
}

// NewScriptLoader constructs a Loader backed by goja. The module file is a
// JavaScript program that assigns its lifecycle table to the global
// reloadAPI:
//
//	reloadAPI = {
//	    stateSize: function() { return 8; },
//	    init:      function(host, state) {},
//	    reload:    function(host, state) {},
//	    update:    function(host, state) { return 0; },
//	    unload:    function(host, state) {},
//	    deinit:    function(host, state) {},
//	}
//
// state arrives as an ArrayBuffer sharing the orchestrator's buffer, so
// writes through a DataView persist across reloads. update returns a falsy
// value to continue and a truthy one to ask the host to quit. Functions
// registered through ScriptWithHostFuncs are available as globals; host is
// the orchestrator's host value. Exceptions thrown by lifecycle entries are
// swallowed, so modules should report failures through a host function.
func NewScriptLoader[H any](opts ...ScriptLoaderOption) Loader[H] {
	cfg := applyScriptLoaderOptions(opts)
	return &scriptLoader[H]{
		cache:    cfg.cache,
		registry: cfg.registry,
	}
}

// Load implements Loader.
func (l *scriptLoader[H]) Load(path string) (Module[H], error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapLoadError("script", path, fmt.Errorf("%w: %v", ErrModuleNotFound, err))
	}
	program, err := l.loadOrCompile(path, string(source))
	if err != nil {
		return nil, err
	}

	vm := goja.New()
	l.injectHostFuncs(vm)
	if _, err := vm.RunProgram(program); err != nil {
		return nil, wrapLoadError("script", path, fmt.Errorf("%w: run: %v", ErrBadModule, err))
	}

	apiValue := vm.Get(scriptAPIName)
	if apiValue == nil || goja.IsUndefined(apiValue) || goja.IsNull(apiValue) {
		return nil, wrapLoadError("script", path, fmt.Errorf("%w: missing global %s", ErrBadModule, scriptAPIName))
	}
	api := apiValue.ToObject(vm)

	entries := make(map[string]goja.Callable, 6)
	for _, name := range []string{"stateSize", "init", "reload", "update", "unload", "deinit"} {
		fn, ok := goja.AssertFunction(api.Get(name))
		if !ok {
			return nil, wrapLoadError("script", path, fmt.Errorf("%w: %s.%s is not a function", ErrBadModule, scriptAPIName, name))
		}
		entries[name] = fn
	}

	m := &scriptModule[H]{vm: vm, entries: entries}
	m.proto = Protocol[H]{
		StateSize: m.stateSize,
		Init:      m.voidEntry("init"),
		Reload:    m.voidEntry("reload"),
		Update:    m.update,
		Unload:    m.voidEntry("unload"),
		Deinit:    m.voidEntry("deinit"),
	}
	return m, nil
}

func (l *scriptLoader[H]) loadOrCompile(path, source string) (*goja.Program, error) {
	if l.cache != nil {
		if cached, ok := l.cache.Get(source); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile(path, source, false)
	if err != nil {
		return nil, wrapLoadError("script", path, fmt.Errorf("%w: compile: %v", ErrBadModule, err))
	}
	if l.cache != nil {
		l.cache.Set(source, program)
	}
	return program, nil
}

func (l *scriptLoader[H]) injectHostFuncs(vm *goja.Runtime) {
	if l.registry == nil {
		return
	}
	for _, name := range l.registry.Names() {
		fn := name
		vm.Set(fn, func(args ...any) (any, error) {
			return l.registry.Call(fn, args...)
		})
	}
}

type scriptModule[H any] struct {
	vm      *goja.Runtime
	entries map[string]goja.Callable
	proto   Protocol[H]
}

func (m *scriptModule[H]) Protocol() *Protocol[H] { return &m.proto }

func (m *scriptModule[H]) Close() error {
	m.vm = nil
	m.entries = nil
	return nil
}

func (m *scriptModule[H]) stateSize() int {
	result, err := m.entries["stateSize"](goja.Undefined())
	if err != nil {
		return 0
	}
	return int(result.ToInteger())
}

func (m *scriptModule[H]) voidEntry(name string) func(*H, RawState) {
	return func(host *H, state RawState) {
		m.call(name, host, state)
	}
}

func (m *scriptModule[H]) update(host *H, state RawState) Signal {
	result, ok := m.call("update", host, state)
	if !ok || result == nil {
		return Continue
	}
	if result.ToBoolean() {
		return Quit
	}
	return Continue
}

func (m *scriptModule[H]) call(name string, host *H, state RawState) (goja.Value, bool) {
	buffer := m.vm.NewArrayBuffer([]byte(state))
	result, err := m.entries[name](goja.Undefined(), m.vm.ToValue(host), m.vm.ToValue(buffer))
	if err != nil {
		return nil, false
	}
	return result, true
}

func scriptLoaderAvailable() bool {
	return true
}
