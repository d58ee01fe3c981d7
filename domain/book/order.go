package book

import "fmt"

type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "sell"
	}
	return "buy"
}

type OrderType int

const (
	// GoodTillCancel rests until fully filled or explicitly canceled.
	GoodTillCancel OrderType = iota
	// FillAndKill matches immediately against resting interest; any
	// unmatched remainder is discarded, it never rests.
	FillAndKill
)

func (t OrderType) String() string {
	if t == FillAndKill {
		return "fill-and-kill"
	}
	return "good-till-cancel"
}

// Order is a pure domain entity. ID, Side, Type and Price are fixed at
// submission; only Remaining changes, and only through Fill.
type Order struct {
	ID        uint64
	Price     int64
	Initial   int64
	Remaining int64

	Side Side
	Type OrderType

	// intrusive queue node, owned by the level the order rests in
	next  *Order
	prev  *Order
	level *Level
}

// Fill reduces the remaining quantity. Overfilling can only come from a
// defect in the matching arithmetic, never from external input, so it is
// fatal rather than a recoverable error.
func (o *Order) Fill(qty int64) {
	if qty > o.Remaining {
		panic(fmt.Sprintf("book: order %d overfilled: %d > %d remaining", o.ID, qty, o.Remaining))
	}
	o.Remaining -= qty
}

func (o *Order) IsFilled() bool {
	return o.Remaining == 0
}

// Next supports read-only queue traversal.
func (o *Order) Next() *Order {
	return o.next
}
