package toml

import (
	"bytes"

	"github.com/BurntSushi/toml"

	"github.com/ninja0404/token-risk/pkg/config/encoder"
)

const EncodingName = "toml"

type tomlEncoder struct{}

func (tomlEncoder) Encode(v interface{}) ([]byte, error) {
	var b bytes.Buffer
	if err := toml.NewEncoder(&b).Encode(v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (tomlEncoder) Decode(d []byte, v interface{}) error {
	return toml.Unmarshal(d, v)
}

func (tomlEncoder) String() string {
	return EncodingName
}

func NewEncoder() encoder.Encoder {
	return tomlEncoder{}
}
