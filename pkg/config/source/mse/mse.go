package mse

import (
	"time"

	"github.com/nacos-group/nacos-sdk-go/clients/config_client"
	"github.com/nacos-group/nacos-sdk-go/vo"
	"github.com/pkg/errors"

	"github.com/ninja0404/token-risk/pkg/config/source"
)

const DefaultGroup = "DEFAULT_GROUP"

type mse struct {
	client config_client.IConfigClient
	config *MseConfig
	opts   source.Options
}

func (s *mse) Read() (*source.ChangeSet, error) {
	content, err := s.client.GetConfig(vo.ConfigParam{
		Group:  s.config.Group,
		DataId: s.config.DataID,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get mse config %s/%s", s.config.Group, s.config.DataID)
	}

	cs := &source.ChangeSet{
		Format:    s.opts.Format,
		Source:    s.String(),
		Timestamp: time.Now(),
		Data:      []byte(content),
	}
	cs.Checksum = cs.Sum()

	return cs, nil
}

func (s *mse) String() string {
	return "mse"
}

func (s *mse) Watch() (source.Watcher, error) {
	return newWatcher(s)
}

func (s *mse) Write(cs *source.ChangeSet) error {
	return nil
}

// NewSource 创建 MSE 配置源，需通过 WithMseConfig 传入连接参数
func NewSource(opts ...source.Option) (source.Source, error) {
	options := source.NewOptions(opts...)
	if options.Format == "" {
		options.Format = "yaml"
	}

	conf, ok := options.Context.Value(mseConfigKey{}).(*MseConfig)
	if !ok {
		return nil, errors.New("mse config not provided")
	}

	client, err := createClient(conf)
	if err != nil {
		return nil, errors.Wrap(err, "create nacos config client")
	}

	return &mse{opts: options, client: client, config: conf}, nil
}
