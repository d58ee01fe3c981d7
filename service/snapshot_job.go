package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"vela/snapshot"
)

// StartSnapshotJob periodically persists the resting book, then trims
// the WAL segments and acked outbox records the snapshot covers.
func (s *OrderService) StartSnapshotJob(ctx context.Context, dir string, interval time.Duration) {
	w := &snapshot.Writer{Dir: dir}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if err := s.writeSnapshot(w); err != nil {
					s.log.Warn("snapshot cycle failed", zap.Error(err))
				}
			}
		}
	}()
}

func (s *OrderService) writeSnapshot(w *snapshot.Writer) error {
	s.mu.Lock()
	seq := s.seqGen.Current()
	err := w.Write(seq, s.book)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if err := s.wal.TruncateBefore(seq); err != nil {
		return err
	}
	if err := s.box.DeleteAckedUpTo(seq); err != nil {
		return err
	}
	s.log.Info("snapshot written", zap.Uint64("seq", seq))
	return nil
}
