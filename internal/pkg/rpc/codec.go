// Package rpc carries the shared pieces of the gRPC transport: a JSON codec so
// services can exchange plain Go structs without generated protobuf stubs.
//
// Callers select the codec with grpc.CallContentSubtype(rpc.CodecName); the
// server picks it up automatically from the request's content subtype.
package rpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content subtype registered for the JSON codec.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

// Marshal encodes v as JSON.
func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes JSON data into v.
func (jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json codec: %w", err)
	}
	return nil
}

// Name returns the codec's registered name.
func (jsonCodec) Name() string {
	return CodecName
}
