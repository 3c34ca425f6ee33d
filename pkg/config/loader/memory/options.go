package memory

import (
	"github.com/ninja0404/token-risk/pkg/config/loader"
	"github.com/ninja0404/token-risk/pkg/config/reader"
	"github.com/ninja0404/token-risk/pkg/config/source"
)

// WithSource 追加一个配置来源
func WithSource(s source.Source) loader.Option {
	return func(o *loader.Options) {
		o.Source = append(o.Source, s)
	}
}

// WithReader 设置配置 reader
func WithReader(r reader.Reader) loader.Option {
	return func(o *loader.Options) {
		o.Reader = r
	}
}
