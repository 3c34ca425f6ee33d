package json

import (
	"time"

	"dario.cat/mergo"
	"github.com/pkg/errors"

	"github.com/ninja0404/token-risk/pkg/config/encoder"
	jsonenc "github.com/ninja0404/token-risk/pkg/config/encoder/json"
	"github.com/ninja0404/token-risk/pkg/config/reader"
	"github.com/ninja0404/token-risk/pkg/config/source"
)

type jsonReader struct {
	opts reader.Options
	json encoder.Encoder
}

// Merge 按顺序合并多个来源，后面的覆盖前面的
func (j *jsonReader) Merge(changes ...*source.ChangeSet) (*source.ChangeSet, error) {
	merged := make(map[string]interface{})

	for _, ch := range changes {
		if ch == nil || len(ch.Data) == 0 {
			continue
		}

		codec, ok := j.opts.Encoding[ch.Format]
		if !ok {
			codec = j.json
		}

		var data map[string]interface{}
		if err := codec.Decode(ch.Data, &data); err != nil {
			return nil, errors.Wrapf(err, "decode %s config from %s", ch.Format, ch.Source)
		}
		if data == nil {
			continue
		}
		if err := mergo.Merge(&merged, data, mergo.WithOverride); err != nil {
			return nil, errors.Wrap(err, "merge config")
		}
	}

	b, err := j.json.Encode(merged)
	if err != nil {
		return nil, err
	}

	cs := &source.ChangeSet{
		Timestamp: time.Now(),
		Data:      b,
		Source:    "json",
		Format:    j.json.String(),
	}
	cs.Checksum = cs.Sum()

	return cs, nil
}

func (j *jsonReader) Values(ch *source.ChangeSet) (reader.Values, error) {
	if ch == nil {
		return nil, errors.New("changeset is nil")
	}
	return newValues(ch)
}

func (j *jsonReader) String() string {
	return "json"
}

// NewReader 创建 json reader，yaml/toml 来源在 Merge 时统一转成 json
func NewReader(opts ...reader.Option) reader.Reader {
	options := reader.NewOptions(opts...)
	return &jsonReader{
		json: jsonenc.NewEncoder(),
		opts: options,
	}
}
