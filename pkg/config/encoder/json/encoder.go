package json

import (
	"encoding/json"

	"github.com/ninja0404/token-risk/pkg/config/encoder"
)

const EncodingName = "json"

type jsonEncoder struct{}

func (jsonEncoder) Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonEncoder) Decode(d []byte, v interface{}) error {
	return json.Unmarshal(d, v)
}

func (jsonEncoder) String() string {
	return EncodingName
}

func NewEncoder() encoder.Encoder {
	return jsonEncoder{}
}
