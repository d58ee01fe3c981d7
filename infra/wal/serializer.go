package wal

import (
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/proto"
)

// Serializer encodes command payloads into WAL record data.
type Serializer interface {
	Encode(any) ([]byte, error)
	Decode([]byte, any) error
}

// NewSerializer resolves a codec name from config. Empty means JSON.
// The proto codec requires proto-typed payloads; with plain struct
// payloads every Encode fails with ErrNotProto.
func NewSerializer(name string) (Serializer, error) {
	switch name {
	case "", "json":
		return JSONSerializer{}, nil
	case "proto":
		return ProtoSerializer{}, nil
	default:
		return nil, fmt.Errorf("wal: unknown codec %q", name)
	}
}

// ---------- JSON (default) ----------

type JSONSerializer struct{}

func (JSONSerializer) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONSerializer) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ---------- Protobuf ----------

var ErrNotProto = errors.New("wal: value does not implement proto.Message")

// ProtoSerializer handles proto-typed payloads for deployments that
// share WAL records with downstream consumers.
type ProtoSerializer struct{}

func (ProtoSerializer) Encode(v any) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, ErrNotProto
	}
	return proto.Marshal(msg)
}

func (ProtoSerializer) Decode(data []byte, v any) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return ErrNotProto
	}
	return proto.Unmarshal(data, msg)
}
