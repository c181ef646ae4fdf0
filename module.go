package reload

// Module owns one loaded unit of logic and its resolved lifecycle table. At
// most one exists per orchestrator. The Protocol reference is only valid
// until Close; the orchestrator never calls an entry after releasing the
// module.
type Module[H any] interface {
	// Protocol returns the module's resolved lifecycle table.
	Protocol() *Protocol[H]
	// Close releases the underlying module resource. After Close the
	// Protocol's entries must not be invoked.
	Close() error
}

// Loader opens a module file and resolves its lifecycle table. Load either
// returns a fully usable module or an error, never a partial handle.
type Loader[H any] interface {
	Load(path string) (Module[H], error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc[H any] func(path string) (Module[H], error)

// Load implements Loader.
func (f LoaderFunc[H]) Load(path string) (Module[H], error) {
	return f(path)
}

type staticModule[H any] struct {
	proto Protocol[H]
}

// NewStaticModule wraps an in-process protocol table as a Module. It backs
// tests and embedded hosts that swap logic without touching the filesystem;
// Close is a no-op since there is no resource to release.
func NewStaticModule[H any](proto Protocol[H]) (Module[H], error) {
	if err := proto.Validate(); err != nil {
		return nil, err
	}
	return &staticModule[H]{proto: proto}, nil
}

func (m *staticModule[H]) Protocol() *Protocol[H] { return &m.proto }

func (m *staticModule[H]) Close() error { return nil }
