package snapshot

import (
	"encoding/gob"
	"os"
	"path/filepath"

	"vela/domain/book"
)

// Load restores resting orders into the book and returns the snapshot's
// sequence number. A missing snapshot is not an error; the engine just
// replays the whole WAL.
func Load(dir string, b *book.Book) (uint64, error) {
	f, err := os.Open(filepath.Join(dir, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	defer f.Close()

	var s Snapshot
	if err := gob.NewDecoder(f).Decode(&s); err != nil {
		return 0, err
	}

	for _, e := range s.Orders {
		b.Restore(e.ID, book.Side(e.Side), e.Price, e.Initial, e.Remaining)
	}
	return s.Seq, nil
}
