// Package snapshot persists the resting state of the book so restarts
// only replay the WAL tail written after the last snapshot.
package snapshot

import "time"

// Snapshot captures every resting order at a point in time, together
// with the last sequence number applied to the book.
type Snapshot struct {
	Seq     uint64
	Created time.Time
	Orders  []OrderEntry
}

// OrderEntry preserves fill state: Remaining, not just the original
// quantity, or a restart would resurrect already-traded interest.
type OrderEntry struct {
	ID        uint64
	Side      int
	Price     int64
	Initial   int64
	Remaining int64
}
