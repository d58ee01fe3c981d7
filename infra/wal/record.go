package wal

import "time"

// RecordType tags the command a WAL entry carries.
type RecordType uint8

const (
	RecordPlace RecordType = iota
	RecordCancel
	RecordModify
)

func (t RecordType) String() string {
	switch t {
	case RecordPlace:
		return "place"
	case RecordCancel:
		return "cancel"
	case RecordModify:
		return "modify"
	default:
		return "unknown"
	}
}

// Record is an immutable WAL entry. Data is opaque to the log; the
// service layer owns the payload encoding.
type Record struct {
	Type RecordType
	Seq  uint64
	Time int64
	Data []byte
}

func NewRecord(t RecordType, seq uint64, data []byte) *Record {
	return &Record{
		Type: t,
		Seq:  seq,
		Time: time.Now().UnixNano(),
		Data: data,
	}
}
