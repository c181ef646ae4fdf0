package reload

type scriptLoaderConfig struct {
	cache    ProgramCache
	registry *HostFuncRegistry
}

// ScriptLoaderOption configures the script loader.
type ScriptLoaderOption func(*scriptLoaderConfig)

// ScriptWithProgramCache applies a ProgramCache to the script loader so
// reloading an unchanged module source skips recompilation.
func ScriptWithProgramCache(cache ProgramCache) ScriptLoaderOption {
	return func(cfg *scriptLoaderConfig) {
		cfg.cache = cache
	}
}

// ScriptWithHostFuncs applies a HostFuncRegistry to the script loader. Every
// registered function becomes a global in the module's runtime.
func ScriptWithHostFuncs(registry *HostFuncRegistry) ScriptLoaderOption {
	return func(cfg *scriptLoaderConfig) {
		if registry == nil {
			return
		}
		cfg.registry = registry.Clone()
	}
}

func applyScriptLoaderOptions(opts []ScriptLoaderOption) scriptLoaderConfig {
	cfg := scriptLoaderConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
