package snapshot

import (
	"testing"

	"vela/domain/book"
)

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()

	b := book.New()
	b.AddOrder(1, book.GoodTillCancel, 10, 100, book.Buy)
	b.AddOrder(2, book.GoodTillCancel, 5, 99, book.Buy)
	b.AddOrder(3, book.GoodTillCancel, 7, 105, book.Sell)
	// partial fill so Remaining differs from Initial
	b.AddOrder(4, book.GoodTillCancel, 4, 100, book.Sell)

	w := &Writer{Dir: dir}
	if err := w.Write(42, b); err != nil {
		t.Fatalf("write: %v", err)
	}

	restored := book.New()
	seq, err := Load(dir, restored)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if seq != 42 {
		t.Fatalf("expected seq 42, got %d", seq)
	}

	want := b.Depth()
	got := restored.Depth()
	if len(got.Bids) != len(want.Bids) || len(got.Asks) != len(want.Asks) {
		t.Fatalf("level counts differ: got %+v want %+v", got, want)
	}
	for i := range want.Bids {
		if got.Bids[i] != want.Bids[i] {
			t.Fatalf("bid level %d: got %+v want %+v", i, got.Bids[i], want.Bids[i])
		}
	}
	for i := range want.Asks {
		if got.Asks[i] != want.Asks[i] {
			t.Fatalf("ask level %d: got %+v want %+v", i, got.Asks[i], want.Asks[i])
		}
	}
	if restored.OrderCount() != b.OrderCount() {
		t.Fatalf("order counts differ: %d vs %d", restored.OrderCount(), b.OrderCount())
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	b := book.New()
	seq, err := Load(t.TempDir(), b)
	if err != nil {
		t.Fatalf("missing snapshot should not error: %v", err)
	}
	if seq != 0 || b.OrderCount() != 0 {
		t.Fatalf("expected empty start, got seq=%d orders=%d", seq, b.OrderCount())
	}
}

func TestWriteOverwritesPrevious(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: dir}

	b := book.New()
	b.AddOrder(1, book.GoodTillCancel, 10, 100, book.Buy)
	if err := w.Write(1, b); err != nil {
		t.Fatal(err)
	}

	b.CancelOrder(1)
	if err := w.Write(2, b); err != nil {
		t.Fatal(err)
	}

	restored := book.New()
	seq, err := Load(dir, restored)
	if err != nil {
		t.Fatal(err)
	}
	if seq != 2 || restored.OrderCount() != 0 {
		t.Fatalf("expected latest empty snapshot, got seq=%d orders=%d", seq, restored.OrderCount())
	}
}
