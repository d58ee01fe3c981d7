package outbox

import (
	"bytes"
	"testing"
)

func openTest(t *testing.T) *Outbox {
	t.Helper()
	box, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open outbox: %v", err)
	}
	t.Cleanup(func() { _ = box.Close() })
	return box
}

func TestOutbox_PutAndGet(t *testing.T) {
	box := openTest(t)

	if err := box.Put(1, []byte("trade-1")); err != nil {
		t.Fatalf("put: %v", err)
	}

	rec, err := box.Get(1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.State != StateNew {
		t.Fatalf("expected NEW, got %v", rec.State)
	}
	if !bytes.Equal(rec.Payload, []byte("trade-1")) {
		t.Fatalf("payload mangled: %q", rec.Payload)
	}
}

func TestOutbox_StateWalk(t *testing.T) {
	box := openTest(t)
	_ = box.Put(1, []byte("a"))

	if err := box.MarkSent(1); err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	rec, _ := box.Get(1)
	if rec.State != StateSent || rec.Attempts != 1 {
		t.Fatalf("after sent: state=%v attempts=%d", rec.State, rec.Attempts)
	}

	if err := box.MarkAcked(1); err != nil {
		t.Fatalf("mark acked: %v", err)
	}
	rec, _ = box.Get(1)
	if rec.State != StateAcked {
		t.Fatalf("after acked: state=%v", rec.State)
	}
}

func TestOutbox_ScanByState(t *testing.T) {
	box := openTest(t)
	_ = box.Put(3, []byte("c"))
	_ = box.Put(1, []byte("a"))
	_ = box.Put(2, []byte("b"))
	_ = box.MarkAcked(2)

	var seqs []uint64
	err := box.ScanByState(StateNew, func(seq uint64, rec Record) error {
		seqs = append(seqs, seq)
		return nil
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	// sequence order, acked record skipped
	if len(seqs) != 2 || seqs[0] != 1 || seqs[1] != 3 {
		t.Fatalf("unexpected scan result: %v", seqs)
	}
}

func TestOutbox_DeleteAckedUpTo(t *testing.T) {
	box := openTest(t)
	for seq := uint64(1); seq <= 4; seq++ {
		_ = box.Put(seq, []byte("x"))
	}
	_ = box.MarkAcked(1)
	_ = box.MarkAcked(2)
	_ = box.MarkAcked(4)

	if err := box.DeleteAckedUpTo(3); err != nil {
		t.Fatalf("gc: %v", err)
	}

	// 1 and 2 gone, 3 still NEW, 4 acked but above the watermark
	if _, err := box.Get(1); err == nil {
		t.Fatal("seq 1 should be deleted")
	}
	if _, err := box.Get(2); err == nil {
		t.Fatal("seq 2 should be deleted")
	}
	if rec, err := box.Get(3); err != nil || rec.State != StateNew {
		t.Fatalf("seq 3 should survive as NEW: %v", err)
	}
	if rec, err := box.Get(4); err != nil || rec.State != StateAcked {
		t.Fatalf("seq 4 should survive as ACKED: %v", err)
	}
}

func TestOutbox_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	box, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	_ = box.Put(7, []byte("durable"))
	_ = box.Close()

	box2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer box2.Close()

	rec, err := box2.Get(7)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if rec.State != StateNew || !bytes.Equal(rec.Payload, []byte("durable")) {
		t.Fatalf("record lost fidelity: %+v", rec)
	}
}
