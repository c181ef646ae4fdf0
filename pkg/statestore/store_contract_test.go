package statestore_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	reload "github.com/goliatone/go-reload"
	"github.com/goliatone/go-reload/pkg/statestore"
)

// runStoreContract exercises the behavior every Store implementation must
// share: snapshot bytes round-trip untouched, keys act independently, and
// missing keys report ok=false without an error.
func runStoreContract(t *testing.T, store statestore.Store) {
	t.Helper()
	ctx := context.Background()

	snapshot := reload.NewSaveState([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	if err := store.Save(ctx, "slot-a", snapshot); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, ok, err := store.Load(ctx, "slot-a")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatalf("saved snapshot not found")
	}
	if !bytes.Equal(loaded.Bytes(), snapshot.Bytes()) {
		t.Fatalf("bytes did not round-trip: %v != %v", loaded.Bytes(), snapshot.Bytes())
	}
	if loaded.ID == "" {
		t.Fatalf("restored snapshot has no identity")
	}

	// Overwrite replaces, other keys stay independent.
	replacement := reload.NewSaveState([]byte{9, 9})
	if err := store.Save(ctx, "slot-a", replacement); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	loaded, ok, err = store.Load(ctx, "slot-a")
	if err != nil || !ok {
		t.Fatalf("load after overwrite: ok=%t err=%v", ok, err)
	}
	if !bytes.Equal(loaded.Bytes(), replacement.Bytes()) {
		t.Fatalf("overwrite did not replace bytes")
	}

	if _, ok, err := store.Load(ctx, "slot-b"); err != nil || ok {
		t.Fatalf("missing key: ok=%t err=%v, want ok=false err=nil", ok, err)
	}

	if err := store.Save(ctx, "", snapshot); !errors.Is(err, statestore.ErrBadKey) {
		t.Fatalf("empty key error = %v, want ErrBadKey", err)
	}
}

func TestMemoryStoreContract(t *testing.T) {
	runStoreContract(t, statestore.NewMemoryStore())
}

func TestFileStoreContract(t *testing.T) {
	store, err := statestore.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	runStoreContract(t, store)
}
