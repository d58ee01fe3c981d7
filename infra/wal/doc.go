// Package wal is a segmented append-only command log. Every accepted
// order command is framed with a CRC32 and written before it is applied
// to the book, so a restart can rebuild the exact book state by
// replaying the log on top of the last snapshot.
package wal
