// Package statestore defines persistence-facing contracts for saving and
// restoring reload.SaveState snapshots, plus small memory and file backed
// implementations for tests, examples and simple hosts.
//
// Responsibilities:
//   - Store only moves snapshot bytes in and out of a backing medium keyed
//     by a caller-chosen name.
//   - The core reload package stays persistence-agnostic; snapshots are
//     uninterpreted byte sequences and every layout concern stays with the
//     module author (see reload.RawState).
//
// Data flow:
//
//	Reloadable.SaveState() -> Store.Save -> ... -> Store.Load -> Reloadable.LoadState
//
// A snapshot restored through a Store gets a fresh identity (ID, TakenAt);
// only the bytes are durable.
package statestore
