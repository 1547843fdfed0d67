// Package rpcjson registers a JSON encoding.Codec under the content-subtype
// "json". Every internal gRPC service in this repo is hand-written rather
// than protoc-generated, so there are no compiled .pb.go message types to
// carry the binary protobuf wire format; JSON over grpc-go's existing
// framing, flow control, and service-descriptor dispatch gives the same
// transport without requiring a generated marshaler.
package rpcjson

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

const Name = "json"

func init() {
	encoding.RegisterCodec(codec{})
}

type codec struct{}

func (codec) Name() string { return Name }

func (codec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (codec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
