package service

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec lets Connect handlers and clients exchange plain Go structs.
// It registers under the "json" name so requests use application/json.
type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// WithJSONCodec is the codec option every handler and client in this
// package needs.
func WithJSONCodec() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
