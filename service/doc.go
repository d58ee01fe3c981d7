// Package service orchestrates the engine's core components — book,
// WAL, outbox, snapshots — behind a single serialized write path,
// decoupled from network transports.
package service
