package yaml

import (
	"github.com/ghodss/yaml"

	"github.com/ninja0404/token-risk/pkg/config/encoder"
)

const EncodingName = "yaml"

// yamlEncoder 经由 JSON 中转，保证 json tag 同样适用于 yaml 配置
type yamlEncoder struct{}

func (yamlEncoder) Encode(v interface{}) ([]byte, error) {
	return yaml.Marshal(v)
}

func (yamlEncoder) Decode(d []byte, v interface{}) error {
	return yaml.Unmarshal(d, v)
}

func (yamlEncoder) String() string {
	return EncodingName
}

func NewEncoder() encoder.Encoder {
	return yamlEncoder{}
}
