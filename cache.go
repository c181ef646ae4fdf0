package reload

// ProgramCache stores compiled module programs keyed by their source text.
// Script loaders consult it so that reloading an unchanged file skips
// recompilation.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}
