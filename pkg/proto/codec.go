package proto

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Format selects the wire encoding of a connection
type Format string

const (
	JSON    Format = "json"
	MsgPack Format = "msgpack"
)

// ParseFormat accepts "json" or "msgpack"; empty means JSON
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "json":
		return JSON, nil
	case "msgpack":
		return MsgPack, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Binary reports whether frames must be sent as binary messages
func (f Format) Binary() bool {
	return f == MsgPack
}

// Encode marshals v in format f
func Encode(f Format, v any) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if f == MsgPack {
		data, err = msgpack.Marshal(v)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", f, err)
	}
	return data, nil
}

// Decode unmarshals data in format f into v
func Decode(f Format, data []byte, v any) error {
	var err error
	if f == MsgPack {
		err = msgpack.Unmarshal(data, v)
	} else {
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", f, err)
	}
	return nil
}
