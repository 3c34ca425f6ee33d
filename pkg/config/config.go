// Package config 提供可插拔的配置加载：来源(file/mse) → loader → reader。
package config

import (
	"context"
	"sync"

	"github.com/ninja0404/token-risk/pkg/config/loader"
	"github.com/ninja0404/token-risk/pkg/config/loader/memory"
	"github.com/ninja0404/token-risk/pkg/config/reader"
	"github.com/ninja0404/token-risk/pkg/config/reader/json"
	"github.com/ninja0404/token-risk/pkg/config/source"
)

// Config 配置接口
type Config interface {
	reader.Values
	Init(opts ...Option) error
	Options() Options
	Close() error
	Load(source ...source.Source) error
	Sync() error
}

type Options struct {
	Loader  loader.Loader
	Reader  reader.Reader
	Source  []source.Source
	Context context.Context
}

type Option func(o *Options)

// DefaultConfig 进程默认配置
var DefaultConfig = NewConfig()

type config struct {
	mu      sync.Mutex
	opts    Options
	vals    reader.Values
	version string
}

// NewConfig 创建配置实例，加载失败不会阻止创建，可通过 Load 重试
func NewConfig(opts ...Option) Config {
	c := &config{}
	_ = c.Init(opts...)
	return c
}

func (c *config) Init(opts ...Option) error {
	c.opts = Options{
		Reader:  json.NewReader(),
		Context: context.Background(),
	}
	for _, o := range opts {
		o(&c.opts)
	}

	if c.opts.Loader == nil {
		c.opts.Loader = memory.NewLoader(memory.WithReader(c.opts.Reader))
	}

	if len(c.opts.Source) > 0 {
		return c.opts.Loader.Load(c.opts.Source...)
	}
	return nil
}

func (c *config) Options() Options {
	return c.opts
}

// values 按快照版本惰性刷新，保证文件变更后读到新值
func (c *config) values() reader.Values {
	snap, _ := c.opts.Loader.Snapshot()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.vals != nil && snap != nil && snap.Version == c.version {
		return c.vals
	}

	cs := &source.ChangeSet{Data: []byte("{}"), Format: "json"}
	if snap != nil && snap.ChangeSet != nil {
		cs = snap.ChangeSet
	}

	vals, err := c.opts.Reader.Values(cs)
	if err != nil {
		if c.vals != nil {
			return c.vals
		}
		vals, _ = json.NewReader().Values(&source.ChangeSet{Data: []byte("{}"), Format: "json"})
	}

	c.vals = vals
	if snap != nil {
		c.version = snap.Version
	}
	return c.vals
}

func (c *config) Bytes() []byte {
	return c.values().Bytes()
}

func (c *config) Get(path ...string) reader.Value {
	return c.values().Get(path...)
}

func (c *config) Set(val interface{}, path ...string) {
	c.values().Set(val, path...)
}

func (c *config) Del(path ...string) {
	c.values().Del(path...)
}

func (c *config) Map() map[string]interface{} {
	return c.values().Map()
}

func (c *config) Scan(v interface{}) error {
	return c.values().Scan(v)
}

func (c *config) Load(sources ...source.Source) error {
	return c.opts.Loader.Load(sources...)
}

func (c *config) Sync() error {
	return c.opts.Loader.Sync()
}

func (c *config) Close() error {
	return c.opts.Loader.Close()
}

// Load 向默认配置加载来源
func Load(source ...source.Source) error {
	return DefaultConfig.Load(source...)
}

// Get 读取默认配置的某个路径
func Get(path ...string) reader.Value {
	return DefaultConfig.Get(path...)
}

// Scan 将默认配置整体解析到 v
func Scan(v interface{}) error {
	return DefaultConfig.Scan(v)
}

func Bytes() []byte {
	return DefaultConfig.Bytes()
}

func Map() map[string]interface{} {
	return DefaultConfig.Map()
}

func Sync() error {
	return DefaultConfig.Sync()
}

func Close() error {
	return DefaultConfig.Close()
}
