//go:build js_module

package reload

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const counterScriptSource = `
reloadAPI = {
	stateSize: function() { return 8; },
	init: function(host, state) {
		new DataView(state).setUint32(0, 0, true);
	},
	reload: function(host, state) {},
	update: function(host, state) {
		var view = new DataView(state);
		view.setUint32(0, view.getUint32(0, true) + 2, true);
		return 0;
	},
	unload: function(host, state) {},
	deinit: function(host, state) {},
};
`

func writeScriptModule(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "module.js")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write script module: %v", err)
	}
	return path
}

func TestScriptLoaderResolvesProtocol(t *testing.T) {
	loader := NewScriptLoader[testHost]()
	module, err := loader.Load(writeScriptModule(t, counterScriptSource))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer module.Close()

	proto := module.Protocol()
	if got := proto.StateSize(); got != 8 {
		t.Fatalf("state size = %d, want 8", got)
	}

	host := testHost{}
	state := make(RawState, 8)
	proto.Init(&host, state)
	proto.Update(&host, state)
	proto.Update(&host, state)
	if got := state.Uint64At(0); got != 4 {
		t.Fatalf("counter = %d after two updates, want 4", got)
	}
}

func TestScriptLoaderQuitSignal(t *testing.T) {
	source := strings.Replace(counterScriptSource, "return 0;", "return true;", 1)
	loader := NewScriptLoader[testHost]()
	module, err := loader.Load(writeScriptModule(t, source))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer module.Close()

	host := testHost{}
	state := make(RawState, 8)
	module.Protocol().Init(&host, state)
	if got := module.Protocol().Update(&host, state); got != Quit {
		t.Fatalf("update returned %v, want quit", got)
	}
}

func TestScriptLoaderMissingAPI(t *testing.T) {
	loader := NewScriptLoader[testHost]()
	_, err := loader.Load(writeScriptModule(t, `var unrelated = 1;`))
	if !errors.Is(err, ErrBadModule) {
		t.Fatalf("error = %v, want ErrBadModule", err)
	}
}

func TestScriptLoaderIncompleteAPI(t *testing.T) {
	source := strings.Replace(counterScriptSource, "update:", "tick:", 1)
	loader := NewScriptLoader[testHost]()
	_, err := loader.Load(writeScriptModule(t, source))
	if !errors.Is(err, ErrBadModule) {
		t.Fatalf("error = %v, want ErrBadModule", err)
	}
	if !strings.Contains(err.Error(), "update") {
		t.Fatalf("error %q does not name the missing entry", err)
	}
}

func TestScriptLoaderMissingFile(t *testing.T) {
	loader := NewScriptLoader[testHost]()
	_, err := loader.Load(filepath.Join(t.TempDir(), "absent.js"))
	if !errors.Is(err, ErrModuleNotFound) {
		t.Fatalf("error = %v, want ErrModuleNotFound", err)
	}
}

func TestScriptLoaderInjectsHostFuncs(t *testing.T) {
	registry := NewHostFuncRegistry()
	var lines []string
	if err := registry.Register("print", func(args ...any) (any, error) {
		for _, arg := range args {
			lines = append(lines, arg.(string))
		}
		return nil, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	source := strings.Replace(counterScriptSource,
		"init: function(host, state) {",
		`init: function(host, state) { print("hello from init");`, 1)
	loader := NewScriptLoader[testHost](ScriptWithHostFuncs(registry))
	module, err := loader.Load(writeScriptModule(t, source))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer module.Close()

	host := testHost{}
	state := make(RawState, 8)
	module.Protocol().Init(&host, state)
	if len(lines) != 1 || lines[0] != "hello from init" {
		t.Fatalf("host funcs saw %v, want [hello from init]", lines)
	}
}

func TestScriptLoaderUsesProgramCache(t *testing.T) {
	cache := &countingCache{entries: map[string]any{}}
	loader := NewScriptLoader[testHost](ScriptWithProgramCache(cache))
	path := writeScriptModule(t, counterScriptSource)

	if _, err := loader.Load(path); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if _, err := loader.Load(path); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if cache.hits == 0 {
		t.Fatalf("second load of unchanged source never hit the cache")
	}
}

type countingCache struct {
	entries map[string]any
	hits    int
}

func (c *countingCache) Get(key string) (any, bool) {
	value, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return value, ok
}

func (c *countingCache) Set(key string, value any) {
	c.entries[key] = value
}
