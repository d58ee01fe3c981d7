package book

import (
	"vela/infra/memory"
)

// Book is a single-instrument limit order book. It is deterministic and
// single-writer: callers serialize access (the service layer holds the
// lock), the book itself takes no locks.
type Book struct {
	bids *priceIndex
	asks *priceIndex

	// id -> live order; the order's intrusive queue node is the O(1)
	// removal handle, so this index is all a cancel needs.
	orders map[uint64]*Order

	pool *memory.Pool[Order]
}

func New() *Book {
	return &Book{
		bids:   newPriceIndex(Buy),
		asks:   newPriceIndex(Sell),
		orders: make(map[uint64]*Order, 1024),
		pool:   memory.NewPool(func() *Order { return new(Order) }),
	}
}

// AddOrder submits a new order and returns the trades it produced.
//
// A duplicate id is silently ignored: retried submissions from a racing
// caller are an expected condition, not a fault. A fill-and-kill order
// that cannot cross immediately is discarded without ever resting.
func (b *Book) AddOrder(id uint64, typ OrderType, qty, price int64, side Side) []Trade {
	if _, live := b.orders[id]; live {
		return nil
	}
	if typ == FillAndKill && !b.canMatch(side, price) {
		return nil
	}

	o := b.pool.Get()
	*o = Order{
		ID:        id,
		Price:     price,
		Initial:   qty,
		Remaining: qty,
		Side:      side,
		Type:      typ,
	}

	b.sideIndex(side).getOrCreate(price).Enqueue(o)
	b.orders[id] = o

	return b.match()
}

// CancelOrder removes a live order. Unknown ids are a silent no-op;
// cancellation never triggers matching.
func (b *Book) CancelOrder(id uint64) {
	o, live := b.orders[id]
	if !live {
		return
	}
	b.removeOrder(o)
}

// ModifyOrder is cancel-and-replace: the replacement keeps the original
// order's type but joins the back of its new queue, forfeiting time
// priority even when side and price are unchanged.
func (b *Book) ModifyOrder(id uint64, side Side, qty, price int64) []Trade {
	o, live := b.orders[id]
	if !live {
		return nil
	}
	typ := o.Type
	b.removeOrder(o)
	return b.AddOrder(id, typ, qty, price, side)
}

// Restore re-seats a resting order from a snapshot, preserving its fill
// state. Snapshot state is non-crossing by construction, so no matching
// runs. Duplicate ids are ignored.
func (b *Book) Restore(id uint64, side Side, price, initial, remaining int64) {
	if _, live := b.orders[id]; live {
		return
	}
	o := b.pool.Get()
	*o = Order{
		ID:        id,
		Price:     price,
		Initial:   initial,
		Remaining: remaining,
		Side:      side,
		Type:      GoodTillCancel,
	}
	b.sideIndex(side).getOrCreate(price).Enqueue(o)
	b.orders[id] = o
}

// OrderCount reports the number of live orders across both sides.
func (b *Book) OrderCount() int {
	return len(b.orders)
}

func (b *Book) canMatch(side Side, price int64) bool {
	if side == Buy {
		best := b.asks.best()
		return best != nil && price >= best.Price
	}
	best := b.bids.best()
	return best != nil && price <= best.Price
}

// match crosses the best bid level against the best ask level until the
// book no longer crosses. Within a level it is strict FIFO.
func (b *Book) match() []Trade {
	var trades []Trade
	for {
		bidLvl := b.bids.best()
		askLvl := b.asks.best()
		if bidLvl == nil || askLvl == nil {
			return trades
		}
		if bidLvl.Price < askLvl.Price {
			return trades
		}

		for !bidLvl.Empty() && !askLvl.Empty() {
			bid := bidLvl.Head()
			ask := askLvl.Head()

			qty := min(bid.Remaining, ask.Remaining)

			bid.Fill(qty)
			bidLvl.Reduce(qty)
			ask.Fill(qty)
			askLvl.Reduce(qty)

			trades = append(trades, Trade{
				Bid: TradeSide{OrderID: bid.ID, Price: bid.Price, Quantity: qty},
				Ask: TradeSide{OrderID: ask.ID, Price: ask.Price, Quantity: qty},
			})

			if bid.IsFilled() {
				bidLvl.PopHead()
				delete(b.orders, bid.ID)
				b.release(bid)
			}
			if ask.IsFilled() {
				askLvl.PopHead()
				delete(b.orders, ask.ID)
				b.release(ask)
			}
		}

		if bidLvl.Empty() {
			b.bids.remove(bidLvl.Price)
		}
		if askLvl.Empty() {
			b.asks.remove(askLvl.Price)
		}

		// One side's level ran dry. A leftover head on the surviving
		// side can only be the incoming order; discard it if it is
		// fill-and-kill, leave it resting otherwise. The type gate
		// applies symmetrically; resting liquidity is never evicted.
		if lvl := b.bids.best(); lvl != nil {
			if head := lvl.Head(); head != nil && head.Type == FillAndKill {
				b.removeOrder(head)
			}
		}
		if lvl := b.asks.best(); lvl != nil {
			if head := lvl.Head(); head != nil && head.Type == FillAndKill {
				b.removeOrder(head)
			}
		}
	}
}

// removeOrder detaches a live order from its level queue, drops the
// level if it emptied, and unindexes the id.
func (b *Book) removeOrder(o *Order) {
	lvl := o.level
	lvl.Remove(o)
	if lvl.Empty() {
		b.sideIndex(o.Side).remove(lvl.Price)
	}
	delete(b.orders, o.ID)
	b.release(o)
}

func (b *Book) sideIndex(s Side) *priceIndex {
	if s == Buy {
		return b.bids
	}
	return b.asks
}

func (b *Book) release(o *Order) {
	*o = Order{}
	b.pool.Put(o)
}
