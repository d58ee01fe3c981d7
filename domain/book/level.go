package book

// Level is the FIFO queue of orders resting at a single price.
// Arrival order is time priority; all queued orders carry this exact
// price and nonzero remaining quantity.
type Level struct {
	Price int64

	head *Order
	tail *Order

	TotalQty   int64
	OrderCount int
}

func (l *Level) Enqueue(o *Order) {
	if l.head == nil {
		l.head = o
		l.tail = o
	} else {
		l.tail.next = o
		o.prev = l.tail
		l.tail = o
	}
	o.level = l
	l.TotalQty += o.Remaining
	l.OrderCount++
}

func (l *Level) PopHead() *Order {
	o := l.head
	if o == nil {
		return nil
	}
	l.TotalQty -= o.Remaining
	l.unlink(o)
	return o
}

// Remove unlinks an arbitrary queued order in O(1).
func (l *Level) Remove(o *Order) {
	l.TotalQty -= o.Remaining
	l.unlink(o)
}

// Reduce keeps the aggregate in step with a partial fill of a queued order.
func (l *Level) Reduce(qty int64) {
	l.TotalQty -= qty
}

func (l *Level) Empty() bool {
	return l.head == nil
}

func (l *Level) Head() *Order {
	return l.head
}

func (l *Level) unlink(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}
	o.next = nil
	o.prev = nil
	o.level = nil
	l.OrderCount--
}
