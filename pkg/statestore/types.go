package statestore

import (
	"context"
	"errors"

	reload "github.com/goliatone/go-reload"
)

// ErrBadKey reports a key the store cannot represent.
var ErrBadKey = errors.New("statestore: invalid snapshot key")

// Store saves and loads one snapshot per key. Implementations decide the
// medium and its durability; the engine only produces and consumes raw
// snapshot bytes.
type Store interface {
	// Save persists the snapshot's bytes under key, replacing any previous
	// snapshot stored there.
	Save(ctx context.Context, key string, snapshot reload.SaveState) error
	// Load returns the snapshot stored under key. ok is false when nothing
	// is stored there.
	Load(ctx context.Context, key string) (snapshot reload.SaveState, ok bool, err error)
}
