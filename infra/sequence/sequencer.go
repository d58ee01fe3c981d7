package sequence

import "sync/atomic"

// Sequencer hands out strictly monotonic sequence numbers. Every
// accepted command gets one; the WAL and snapshots are keyed by it.
type Sequencer struct {
	last atomic.Uint64
}

func New(start uint64) *Sequencer {
	s := &Sequencer{}
	s.last.Store(start)
	return s
}

func (s *Sequencer) Next() uint64 {
	return s.last.Add(1)
}

// Current returns the last issued sequence number.
func (s *Sequencer) Current() uint64 {
	return s.last.Load()
}

// Reset rewinds the sequencer. Only valid after replay, before the
// engine accepts traffic.
func (s *Sequencer) Reset(v uint64) {
	s.last.Store(v)
}
