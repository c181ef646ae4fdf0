package reload

import (
	"encoding/binary"
	"fmt"
)

// Signal tells the host whether the loaded module wants the main loop to keep
// running. More self-documenting than a boolean.
type Signal int

const (
	// Continue means the module wants the host to keep running.
	Continue Signal = iota
	// Quit means the module asks the host to shut down.
	Quit
)

// String implements fmt.Stringer.
func (s Signal) String() string {
	if s == Quit {
		return "quit"
	}
	return "continue"
}

// RawState is the unchecked view over the orchestrator's state buffer that is
// handed to every lifecycle entry. The engine guarantees the slice addresses
// at least StateSize() bytes for the duration of the call and nothing more:
// it performs no validation that the bytes match any layout a previous module
// wrote. Reinterpreting them is the module author's responsibility. Slices
// must not be retained past the call; the next resize invalidates them.
type RawState []byte

// Uint64At reads the little-endian word starting at off. It is a convenience
// for modules that keep a fixed-layout record; out-of-range offsets return 0.
func (s RawState) Uint64At(off int) uint64 {
	if off < 0 || off+8 > len(s) {
		return 0
	}
	return binary.LittleEndian.Uint64(s[off:])
}

// PutUint64At writes v as a little-endian word starting at off. Out-of-range
// offsets are ignored.
func (s RawState) PutUint64At(off int, v uint64) {
	if off < 0 || off+8 > len(s) {
		return
	}
	binary.LittleEndian.PutUint64(s[off:], v)
}

// Protocol is the fixed table of entry points a module exports. A loader
// resolves the whole table as a unit; partial tables never reach the
// orchestrator. H is the host capability type agreed between the surrounding
// application and the module source. Its layout has to stay identical for the
// lifetime of the process; the engine never checks that it does.
type Protocol[H any] struct {
	// StateSize reports how many bytes of state the module needs. The
	// orchestrator sizes its buffer from this after every load.
	StateSize func() int
	// Init runs exactly once, on the first load of the orchestrator's life.
	Init func(host *H, state RawState)
	// Reload runs after every load except the first. The state bytes are
	// whatever the previous module left behind.
	Reload func(host *H, state RawState)
	// Update runs at the host's discretion, typically once per tick.
	Update func(host *H, state RawState) Signal
	// Unload runs right before the current module is released.
	Unload func(host *H, state RawState)
	// Deinit runs once, at orchestrator teardown, if a module is loaded.
	Deinit func(host *H, state RawState)
}

// Validate checks that every entry is present. Loaders call this before
// handing a module to the orchestrator: a module describes its lifecycle by
// constructing a Protocol value, and an incomplete one is rejected as a unit.
func (p Protocol[H]) Validate() error {
	var missing string
	switch {
	case p.StateSize == nil:
		missing = "StateSize"
	case p.Init == nil:
		missing = "Init"
	case p.Reload == nil:
		missing = "Reload"
	case p.Update == nil:
		missing = "Update"
	case p.Unload == nil:
		missing = "Unload"
	case p.Deinit == nil:
		missing = "Deinit"
	}
	if missing != "" {
		return fmt.Errorf("%w: protocol entry %s is nil", ErrBadModule, missing)
	}
	return nil
}
