package reload

import "time"

type config[H any] struct {
	loader   Loader[H]
	debounce time.Duration
	filter   ChangeFilter
	logger   ReloadLogger
}

// Option configures a Reloadable.
type Option[H any] func(*config[H])

// WithLoader selects the loader used to open the module file. The default is
// the yaegi-backed source loader.
func WithLoader[H any](loader Loader[H]) Option[H] {
	return func(cfg *config[H]) {
		if loader == nil {
			return
		}
		cfg.loader = loader
	}
}

// WithDebounce sets the window used to coalesce change-event bursts. Zero
// disables coalescing so every matching event notifies immediately.
func WithDebounce[H any](window time.Duration) Option[H] {
	return func(cfg *config[H]) {
		if window < 0 {
			window = 0
		}
		cfg.debounce = window
	}
}

// WithChangeFilter attaches a filter that can veto change events before they
// count toward a reload.
func WithChangeFilter[H any](filter ChangeFilter) Option[H] {
	return func(cfg *config[H]) {
		cfg.filter = filter
	}
}

// WithReloadLogger attaches a lifecycle event logger to the Reloadable.
func WithReloadLogger[H any](logger ReloadLogger) Option[H] {
	return func(cfg *config[H]) {
		if logger == nil {
			cfg.logger = noopReloadLogger{}
			return
		}
		cfg.logger = logger
	}
}

func applyOptions[H any](opts []Option[H]) config[H] {
	cfg := config[H]{
		debounce: DefaultDebounce,
		logger:   noopReloadLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.loader == nil {
		cfg.loader = NewSourceLoader[H]()
	}
	return cfg
}
