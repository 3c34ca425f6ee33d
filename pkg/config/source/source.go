package source

import (
	"errors"
	"fmt"
	"hash/fnv"
	"time"
)

// ErrWatcherStopped 监听器已停止
var ErrWatcherStopped = errors.New("watcher stopped")

// Source 配置来源（文件、MSE等）
type Source interface {
	Read() (*ChangeSet, error)
	Write(*ChangeSet) error
	Watch() (Watcher, error)
	String() string
}

// ChangeSet 一次配置读取的结果
type ChangeSet struct {
	Data      []byte
	Checksum  string
	Format    string
	Source    string
	Timestamp time.Time
}

// Watcher 监听配置变化
type Watcher interface {
	Next() (*ChangeSet, error)
	Stop() error
}

// Sum 计算数据校验和
func (c *ChangeSet) Sum() string {
	h := fnv.New64a()
	h.Write(c.Data)
	return fmt.Sprintf("%x", h.Sum(nil))
}
