package book

import (
	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"
)

// priceIndex is an ordered map price -> Level for one side of the book.
// The comparator puts the best price at the leftmost node: highest first
// for bids, lowest first for asks.
type priceIndex struct {
	tree *rbt.Tree[int64, *Level]
}

func newPriceIndex(side Side) *priceIndex {
	var cmp func(a, b int64) int
	if side == Buy {
		cmp = func(a, b int64) int {
			switch {
			case a > b:
				return -1
			case a < b:
				return 1
			}
			return 0
		}
	} else {
		cmp = func(a, b int64) int {
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			}
			return 0
		}
	}
	return &priceIndex{tree: rbt.NewWith[int64, *Level](cmp)}
}

func (p *priceIndex) getOrCreate(price int64) *Level {
	if lvl, ok := p.tree.Get(price); ok {
		return lvl
	}
	lvl := &Level{Price: price}
	p.tree.Put(price, lvl)
	return lvl
}

func (p *priceIndex) remove(price int64) {
	p.tree.Remove(price)
}

// best returns the top-of-book level, or nil when the side is empty.
func (p *priceIndex) best() *Level {
	n := p.tree.Left()
	if n == nil {
		return nil
	}
	return n.Value
}

func (p *priceIndex) empty() bool {
	return p.tree.Empty()
}

func (p *priceIndex) size() int {
	return p.tree.Size()
}

// walk visits levels best-first.
func (p *priceIndex) walk(fn func(*Level)) {
	it := p.tree.Iterator()
	for it.Next() {
		fn(it.Value())
	}
}
