package reload

import (
	"time"

	"github.com/google/uuid"
)

// stateWordSize is the storage granularity of the state buffer. Capacity
// requests round up to whole words so that modules laying out word-aligned
// records never run past the allocation.
const stateWordSize = 8

// stateBuffer owns the opaque byte region that survives reloads. It is the
// only thing the orchestrator carries from one module to the next; the bytes
// mean nothing to the engine.
type stateBuffer struct {
	data []byte
}

// resize grows or shrinks the buffer to n bytes rounded up to the word
// granularity. Growth preserves existing content and zero-fills the new tail;
// shrinking silently discards the tail. Any previously obtained RawState view
// is invalid afterwards.
func (b *stateBuffer) resize(n int) {
	if n < 0 {
		n = 0
	}
	size := roundUpWords(n)
	if size == len(b.data) {
		return
	}
	next := make([]byte, size)
	copy(next, b.data)
	b.data = next
}

// view returns the current RawState window, valid until the next resize or
// restore.
func (b *stateBuffer) view() RawState {
	return RawState(b.data)
}

func (b *stateBuffer) len() int {
	return len(b.data)
}

// snapshot produces an immutable byte-for-byte copy.
func (b *stateBuffer) snapshot() SaveState {
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return SaveState{
		ID:      uuid.NewString(),
		TakenAt: time.Now(),
		data:    data,
	}
}

// restore replaces the buffer contents exactly with the snapshot's bytes.
// The buffer takes the snapshot's length, not any module's declared size, and
// no compatibility check runs: feeding a module state it cannot reinterpret
// is the caller's responsibility.
func (b *stateBuffer) restore(s SaveState) {
	next := make([]byte, len(s.data))
	copy(next, s.data)
	b.data = next
}

func roundUpWords(n int) int {
	return (n + stateWordSize - 1) / stateWordSize * stateWordSize
}

// SaveState is an immutable copy of the state buffer's bytes at a point in
// time. It carries no association with any module's expected layout; the
// engine only produces and consumes the raw bytes, storage is up to the
// caller.
type SaveState struct {
	// ID uniquely identifies the snapshot for trace and audit purposes.
	ID string
	// TakenAt records when the snapshot was captured.
	TakenAt time.Time

	data []byte
}

// NewSaveState builds a snapshot from caller-owned bytes, copying them so the
// result stays immutable. Stores deserializing persisted state use this to
// rebuild a SaveState for LoadState.
func NewSaveState(data []byte) SaveState {
	owned := make([]byte, len(data))
	copy(owned, data)
	return SaveState{
		ID:      uuid.NewString(),
		TakenAt: time.Now(),
		data:    owned,
	}
}

// Bytes returns a copy of the snapshot's bytes.
func (s SaveState) Bytes() []byte {
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out
}

// Len reports the snapshot size in bytes.
func (s SaveState) Len() int {
	return len(s.data)
}
