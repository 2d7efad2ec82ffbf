package signerpb

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName is registered with grpc's encoding registry and selected by the
// server via grpc.ForceServerCodec, standing in for the protoc-generated
// protobuf codec a real deployment would use.
const codecName = "dasigner-json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// Codec returns the registered codec instance, for ForceServerCodec.
func Codec() encoding.Codec { return jsonCodec{} }
