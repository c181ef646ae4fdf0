package reload

import "time"

// Lifecycle operations reported through ReloadLogEvent.
const (
	OpLoad   = "load"
	OpReload = "reload"
	OpUnload = "unload"
	OpDeinit = "deinit"
	OpFilter = "filter"
)

// ReloadLogEvent describes one lifecycle operation for logging.
type ReloadLogEvent struct {
	Op         string
	Path       string
	Generation int
	Duration   time.Duration
	Err        error
}

// ReloadLogger records lifecycle events.
type ReloadLogger interface {
	LogReload(ReloadLogEvent)
}

// ReloadLoggerFunc adapts a function to ReloadLogger.
type ReloadLoggerFunc func(ReloadLogEvent)

// LogReload implements ReloadLogger.
func (f ReloadLoggerFunc) LogReload(event ReloadLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopReloadLogger struct{}

func (noopReloadLogger) LogReload(ReloadLogEvent) {}
