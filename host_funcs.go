package reload

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// HostFunc represents a host capability callable from a script module.
type HostFunc func(args ...any) (any, error)

// HostFuncRegistry stores host capabilities keyed by name. Script loaders
// inject every registered function as a global into the module's runtime,
// forming the callback half of the host capability object for modules that
// cannot hold Go function values directly.
type HostFuncRegistry struct {
	mu        sync.RWMutex
	functions map[string]HostFunc
}

// NewHostFuncRegistry constructs an empty registry.
func NewHostFuncRegistry() *HostFuncRegistry {
	return &HostFuncRegistry{
		functions: make(map[string]HostFunc),
	}
}

// Register stores fn under name guarding against duplicates.
func (r *HostFuncRegistry) Register(name string, fn HostFunc) error {
	if fn == nil {
		return fmt.Errorf("reload: host function %q is nil", name)
	}
	if name == "" {
		return fmt.Errorf("reload: host function name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]HostFunc)
	}
	key := strings.ToLower(name)
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("reload: host function %q already registered", name)
	}
	r.functions[key] = fn
	return nil
}

// Clone returns a shallow copy of the registry.
func (r *HostFuncRegistry) Clone() *HostFuncRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &HostFuncRegistry{
		functions: make(map[string]HostFunc, len(r.functions)),
	}
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	return clone
}

// Call executes the function registered for name.
func (r *HostFuncRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("reload: host function registry is nil")
	}
	r.mu.RLock()
	fn := r.functions[strings.ToLower(name)]
	r.mu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("reload: host function %q not registered", name)
	}
	return fn(args...)
}

// Names returns registered function names sorted alphabetically.
func (r *HostFuncRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
