// Package book implements a single-instrument limit order book with
// price-time priority. Incoming orders cross against resting interest
// best price first, FIFO within a price; resting good-till-cancel
// orders can be canceled or replaced in O(1) through the order index.
//
// The package holds no locks and performs no I/O. Serialization and
// durability belong to the service layer.
package book
