package file

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ninja0404/token-risk/pkg/config/source"
)

const (
	DefaultConfigFileName   = "config"
	DefaultConfigFileFormat = "yaml"
)

type file struct {
	path string
	opts source.Options
}

func (f *file) Read() (*source.ChangeSet, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}

	cs := &source.ChangeSet{
		Format:    f.opts.Format,
		Source:    f.String(),
		Timestamp: info.ModTime(),
		Data:      b,
	}
	cs.Checksum = cs.Sum()

	return cs, nil
}

func (f *file) String() string {
	return "file"
}

func (f *file) Watch() (source.Watcher, error) {
	if _, err := os.Stat(f.path); err != nil {
		return nil, err
	}
	return newWatcher(f)
}

func (f *file) Write(cs *source.ChangeSet) error {
	return nil
}

// NewSource 创建文件配置源，未指定格式时按扩展名推断
func NewSource(opts ...source.Option) source.Source {
	options := source.NewOptions(opts...)

	path, ok := options.Context.Value(filePathKey{}).(string)
	if !ok {
		if options.Format == "" {
			options.Format = DefaultConfigFileFormat
		}
		path = DefaultConfigFileName + "." + options.Format
	}

	if options.Format == "" {
		options.Format = strings.TrimPrefix(filepath.Ext(path), ".")
		if options.Format == "" {
			options.Format = DefaultConfigFileFormat
		}
	}

	return &file{opts: options, path: path}
}
