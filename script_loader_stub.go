//go:build !js_module

package reload

// NewScriptLoader is unavailable without the js_module build tag.
func NewScriptLoader[H any](opts ...ScriptLoaderOption) Loader[H] {
	_ = applyScriptLoaderOptions(opts)
	return nil
}

func scriptLoaderAvailable() bool {
	return false
}
