package mse

import (
	"context"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/ninja0404/token-risk/pkg/config/source"
)

type mseConfigKey struct{}

// MseConfig 阿里云 MSE(Nacos) 配置中心参数
type MseConfig struct {
	ServerAddr  string
	Port        uint64
	NamespaceID string
	AccessKey   string
	SecretKey   string
	Group       string
	DataID      string
	TimeoutMs   uint64
	LogDir      string
	CacheDir    string
}

// ConfigFromEnv 从 MSE_* 环境变量读取配置，prefix 为项目环境变量前缀
func ConfigFromEnv(prefix string) (*MseConfig, error) {
	conf := &MseConfig{
		ServerAddr:  os.Getenv(prefix + "MSE_SERVER_ADDR"),
		NamespaceID: os.Getenv(prefix + "MSE_NAMESPACE"),
		AccessKey:   os.Getenv(prefix + "MSE_ACCESSKEY"),
		SecretKey:   os.Getenv(prefix + "MSE_SECRETKEY"),
		Group:       os.Getenv(prefix + "MSE_GROUP"),
		DataID:      os.Getenv(prefix + "MSE_DATAID"),
		LogDir:      os.Getenv(prefix + "MSE_LOG_DIR"),
		CacheDir:    os.Getenv(prefix + "MSE_CACHE_DIR"),
		Port:        8848,
		TimeoutMs:   5000,
	}
	if p := os.Getenv(prefix + "MSE_PORT"); p != "" {
		port, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "invalid MSE_PORT")
		}
		conf.Port = port
	}

	if conf.ServerAddr == "" || conf.DataID == "" {
		return nil, errors.New("MSE_SERVER_ADDR and MSE_DATAID are required")
	}
	if conf.Group == "" {
		conf.Group = DefaultGroup
	}
	return conf, nil
}

func WithMseConfig(conf *MseConfig) source.Option {
	return func(o *source.Options) {
		if o.Context == nil {
			o.Context = context.Background()
		}
		o.Context = context.WithValue(o.Context, mseConfigKey{}, conf)
	}
}
