package sequence

import "testing"

func TestSequencerMonotonic(t *testing.T) {
	s := New(0)
	if s.Current() != 0 {
		t.Fatalf("fresh sequencer should start at 0, got %d", s.Current())
	}
	for want := uint64(1); want <= 100; want++ {
		if got := s.Next(); got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}
	if s.Current() != 100 {
		t.Fatalf("current should track last issued, got %d", s.Current())
	}
}

func TestSequencerResetAfterReplay(t *testing.T) {
	s := New(0)
	s.Reset(41)
	if got := s.Next(); got != 42 {
		t.Fatalf("expected resume at 42, got %d", got)
	}
}
