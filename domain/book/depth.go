package book

// LevelInfo is one aggregated price level: the total remaining quantity
// across every order resting at that price.
type LevelInfo struct {
	Price    int64 `json:"price"`
	Quantity int64 `json:"quantity"`
}

// DepthSnapshot is a point-in-time view of both sides, best price first.
type DepthSnapshot struct {
	Bids []LevelInfo `json:"bids"`
	Asks []LevelInfo `json:"asks"`
}

// Depth reports the live aggregated book. Read-only.
func (b *Book) Depth() DepthSnapshot {
	snap := DepthSnapshot{
		Bids: make([]LevelInfo, 0, b.bids.size()),
		Asks: make([]LevelInfo, 0, b.asks.size()),
	}
	b.bids.walk(func(lvl *Level) {
		snap.Bids = append(snap.Bids, LevelInfo{Price: lvl.Price, Quantity: lvl.TotalQty})
	})
	b.asks.walk(func(lvl *Level) {
		snap.Asks = append(snap.Asks, LevelInfo{Price: lvl.Price, Quantity: lvl.TotalQty})
	})
	return snap
}

// Resting visits every live order best-price-first, bids then asks, in
// queue order within a level. Used by snapshotting; callers must treat
// orders as read-only.
func (b *Book) Resting(fn func(*Order)) {
	b.bids.walk(func(lvl *Level) {
		for o := lvl.Head(); o != nil; o = o.Next() {
			fn(o)
		}
	})
	b.asks.walk(func(lvl *Level) {
		for o := lvl.Head(); o != nil; o = o.Next() {
			fn(o)
		}
	})
}
