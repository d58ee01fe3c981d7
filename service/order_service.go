package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vela/domain/book"
	"vela/infra/outbox"
	"vela/infra/sequence"
	"vela/infra/wal"
)

/*
OrderService is the only write entry point into the engine.

The book itself is single-threaded by contract; the service owns the
serialization boundary (one mutex, every operation runs to completion
under it) and the durability order: WAL intent first, then the book,
then the trade outbox.
*/

// TradeEvent is what leaves the engine: one accepted command and the
// trades it produced.
type TradeEvent struct {
	EventID string       `json:"event_id"`
	Seq     uint64       `json:"seq"`
	Time    int64        `json:"time"`
	Trades  []book.Trade `json:"trades"`
}

// TradeSink receives events on the submission path, after durability.
// Sinks must not block; the websocket hub drops slow clients.
type TradeSink interface {
	Publish(TradeEvent)
}

type OrderService struct {
	mu sync.Mutex

	book   *book.Book
	seqGen *sequence.Sequencer
	wal    *wal.WAL
	box    *outbox.Outbox
	codec  wal.Serializer
	log    *zap.Logger

	sinks []TradeSink
}

func NewOrderService(
	b *book.Book,
	seqGen *sequence.Sequencer,
	w *wal.WAL,
	box *outbox.Outbox,
	codec wal.Serializer,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		book:   b,
		seqGen: seqGen,
		wal:    w,
		box:    box,
		codec:  codec,
		log:    log,
	}
}

// AddSink registers a trade sink. Not safe to call once traffic flows.
func (s *OrderService) AddSink(sink TradeSink) {
	s.sinks = append(s.sinks, sink)
}

// WAL payloads. JSON via the wal serializer; the field set is the whole
// command, so replay needs nothing else.

type placeCommand struct {
	ID    uint64 `json:"id"`
	Side  int    `json:"side"`
	Type  int    `json:"type"`
	Price int64  `json:"price"`
	Qty   int64  `json:"qty"`
}

type cancelCommand struct {
	ID uint64 `json:"id"`
}

type modifyCommand struct {
	ID    uint64 `json:"id"`
	Side  int    `json:"side"`
	Price int64  `json:"price"`
	Qty   int64  `json:"qty"`
}

// Submit places a new order. The returned trades follow the book's
// contract: nil for duplicate ids and for unmatched fill-and-kill.
func (s *OrderService) Submit(id uint64, typ book.OrderType, side book.Side, qty, price int64) ([]book.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.seqGen.Next()
	if err := s.logIntent(wal.RecordPlace, seq, placeCommand{
		ID: id, Side: int(side), Type: int(typ), Price: price, Qty: qty,
	}); err != nil {
		return nil, err
	}

	trades := s.book.AddOrder(id, typ, qty, price, side)
	if err := s.emit(seq, trades); err != nil {
		return trades, err
	}

	s.log.Debug("order submitted",
		zap.Uint64("id", id),
		zap.Stringer("side", side),
		zap.Stringer("type", typ),
		zap.Int64("price", price),
		zap.Int64("qty", qty),
		zap.Uint64("seq", seq),
		zap.Int("trades", len(trades)),
	)
	return trades, nil
}

// Cancel removes a resting order. Unknown ids are a silent no-op but
// are still logged to the WAL so replay converges to the same state.
func (s *OrderService) Cancel(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.seqGen.Next()
	if err := s.logIntent(wal.RecordCancel, seq, cancelCommand{ID: id}); err != nil {
		return err
	}

	s.book.CancelOrder(id)
	s.log.Debug("order canceled", zap.Uint64("id", id), zap.Uint64("seq", seq))
	return nil
}

// Modify is cancel-and-replace; the replacement forfeits time priority.
func (s *OrderService) Modify(id uint64, side book.Side, qty, price int64) ([]book.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.seqGen.Next()
	if err := s.logIntent(wal.RecordModify, seq, modifyCommand{
		ID: id, Side: int(side), Price: price, Qty: qty,
	}); err != nil {
		return nil, err
	}

	trades := s.book.ModifyOrder(id, side, qty, price)
	if err := s.emit(seq, trades); err != nil {
		return trades, err
	}

	s.log.Debug("order modified",
		zap.Uint64("id", id),
		zap.Uint64("seq", seq),
		zap.Int("trades", len(trades)),
	)
	return trades, nil
}

// Depth returns the aggregated live book, best first on both sides.
func (s *OrderService) Depth() book.DepthSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.Depth()
}

func (s *OrderService) logIntent(t wal.RecordType, seq uint64, cmd any) error {
	data, err := s.codec.Encode(cmd)
	if err != nil {
		return err
	}
	return s.wal.Append(wal.NewRecord(t, seq, data))
}

// emit records produced trades in the outbox and hands them to the live
// sinks. No trades, nothing to do.
func (s *OrderService) emit(seq uint64, trades []book.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	ev := TradeEvent{
		EventID: uuid.NewString(),
		Seq:     seq,
		Time:    time.Now().UnixNano(),
		Trades:  trades,
	}
	payload, err := s.codec.Encode(ev)
	if err != nil {
		return err
	}
	if err := s.box.Put(seq, payload); err != nil {
		return err
	}
	for _, sink := range s.sinks {
		sink.Publish(ev)
	}
	return nil
}
