package walletrpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName identifies the wire encoding of the wallet service. Messages are
// plain JSON with snake_case fields; no protoc artifacts are involved.
// Clients must set the matching call content-subtype (see Dial).
const CodecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string { return CodecName }
