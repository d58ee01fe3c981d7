package snapshot

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"time"

	"vela/domain/book"
)

const fileName = "snapshot.bin"

type Writer struct {
	Dir string
}

// Write dumps the resting book atomically: encode to a temp file, fsync,
// rename over the previous snapshot.
func (w *Writer) Write(seq uint64, b *book.Book) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return err
	}

	s := Snapshot{
		Seq:     seq,
		Created: time.Now(),
		Orders:  make([]OrderEntry, 0, b.OrderCount()),
	}
	b.Resting(func(o *book.Order) {
		s.Orders = append(s.Orders, OrderEntry{
			ID:        o.ID,
			Side:      int(o.Side),
			Price:     o.Price,
			Initial:   o.Initial,
			Remaining: o.Remaining,
		})
	})

	tmp := filepath.Join(w.Dir, fileName+".tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(&s); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(w.Dir, fileName))
}
