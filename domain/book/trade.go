package book

// TradeSide is one settlement leg of a match. Price is the matched
// order's own limit price, not a shared clearing price.
type TradeSide struct {
	OrderID  uint64 `json:"order_id"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

// Trade records one match between a buy-side and a sell-side order.
// Trades are immutable once produced; the caller owns them.
type Trade struct {
	Bid TradeSide `json:"bid"`
	Ask TradeSide `json:"ask"`
}
