// Package memory provides the low-level allocation primitives shared by
// the matching engine. The book churns through order objects at match
// rate; pooling them keeps the steady state allocation-free.
package memory
