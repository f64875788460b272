// Implements the WorkerTable, the fixed-capacity registry of currently
// active workers. The controller is its only user; no locking is involved.

package sim

import (
	"errors"
	"fmt"
	"strings"
)

// WorkerID identifies a worker within one run. IDs are assigned sequentially
// from 1 in launch order.
type WorkerID int

// ErrUnknownWorker is returned by WorkerTable.Release when no occupied entry
// carries the given ID. The controller treats it as a consistency fault and
// aborts the run rather than retrying.
var ErrUnknownWorker = errors.New("unknown worker")

type tableEntry struct {
	occupied   bool
	id         WorkerID
	launchedAt Time
}

// WorkerTable holds one entry per active worker in a fixed-size slot array.
// Capacity is set once at construction and is independent of the concurrency
// limit; the controller keeps occupancy at or below both.
type WorkerTable struct {
	entries []tableEntry
}

// NewWorkerTable creates a table with the given number of slots.
func NewWorkerTable(capacity int) *WorkerTable {
	if capacity <= 0 {
		panic(fmt.Sprintf("NewWorkerTable: capacity must be positive, got %d", capacity))
	}
	return &WorkerTable{entries: make([]tableEntry, capacity)}
}

// Capacity returns the number of slots.
func (t *WorkerTable) Capacity() int {
	return len(t.entries)
}

// Occupied returns the number of slots currently holding a worker.
func (t *WorkerTable) Occupied() int {
	n := 0
	for _, e := range t.entries {
		if e.occupied {
			n++
		}
	}
	return n
}

// FreeSlot returns the index of the first unoccupied slot, or false when the
// table is full.
func (t *WorkerTable) FreeSlot() (int, bool) {
	for i, e := range t.entries {
		if !e.occupied {
			return i, true
		}
	}
	return 0, false
}

// Register records a newly launched worker in the given slot. Registering
// into an occupied slot is a programming error and panics.
func (t *WorkerTable) Register(slot int, id WorkerID, launchedAt Time) {
	if slot < 0 || slot >= len(t.entries) {
		panic(fmt.Sprintf("Register: slot %d out of range [0, %d)", slot, len(t.entries)))
	}
	if t.entries[slot].occupied {
		panic(fmt.Sprintf("Register: slot %d already holds worker %d", slot, t.entries[slot].id))
	}
	t.entries[slot] = tableEntry{occupied: true, id: id, launchedAt: launchedAt}
}

// Release frees the slot occupied by the given worker. A release for an ID
// with no occupied entry returns ErrUnknownWorker.
func (t *WorkerTable) Release(id WorkerID) error {
	for i, e := range t.entries {
		if e.occupied && e.id == id {
			t.entries[i] = tableEntry{}
			return nil
		}
	}
	return fmt.Errorf("release worker %d: %w", id, ErrUnknownWorker)
}

// LaunchedAt returns the launch time recorded for an active worker.
func (t *WorkerTable) LaunchedAt(id WorkerID) (Time, bool) {
	for _, e := range t.entries {
		if e.occupied && e.id == id {
			return e.launchedAt, true
		}
	}
	return Time{}, false
}

// String renders the full table, one row per slot, occupied or not.
func (t *WorkerTable) String() string {
	var sb strings.Builder
	sb.WriteString("slot  occupied  worker  launched\n")
	for i, e := range t.entries {
		if e.occupied {
			sb.WriteString(fmt.Sprintf("%-5d yes       %-7d %s\n", i, e.id, e.launchedAt))
		} else {
			sb.WriteString(fmt.Sprintf("%-5d no\n", i))
		}
	}
	return sb.String()
}
