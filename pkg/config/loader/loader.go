package loader

import (
	"context"

	"github.com/ninja0404/token-risk/pkg/config/reader"
	"github.com/ninja0404/token-risk/pkg/config/source"
)

// Loader 负责从多个来源加载配置并生成快照
type Loader interface {
	Close() error
	Load(...source.Source) error
	Snapshot() (*Snapshot, error)
	Sync() error
	String() string
}

// Snapshot 某一版本的合并后配置
type Snapshot struct {
	ChangeSet *source.ChangeSet
	Version   string
}

type Options struct {
	Reader  reader.Reader
	Source  []source.Source
	Context context.Context
}

type Option func(o *Options)
