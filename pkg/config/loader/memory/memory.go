package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/ninja0404/token-risk/pkg/config/loader"
	"github.com/ninja0404/token-risk/pkg/config/reader/json"
	"github.com/ninja0404/token-risk/pkg/config/source"
)

type memory struct {
	mu      sync.RWMutex
	opts    loader.Options
	snap    *loader.Snapshot
	sets    []*source.ChangeSet
	sources []source.Source

	exit      chan struct{}
	closeOnce sync.Once
}

// NewLoader 创建内存 loader，配置来源变化时自动重新合并
func NewLoader(opts ...loader.Option) loader.Loader {
	options := loader.Options{
		Reader:  json.NewReader(),
		Context: context.Background(),
	}
	for _, o := range opts {
		o(&options)
	}

	m := &memory{
		opts: options,
		snap: &loader.Snapshot{
			ChangeSet: &source.ChangeSet{Data: []byte("{}"), Format: "json", Source: "memory"},
			Version:   "0",
		},
		exit: make(chan struct{}),
	}

	if len(options.Source) > 0 {
		_ = m.Load(options.Source...)
	}
	return m
}

func (m *memory) Load(sources ...source.Source) error {
	var merr error

	for _, s := range sources {
		set, err := s.Read()
		if err != nil {
			merr = multierror.Append(merr, errors.Wrapf(err, "read source %s", s.String()))
			continue
		}

		m.mu.Lock()
		m.sources = append(m.sources, s)
		m.sets = append(m.sets, set)
		idx := len(m.sets) - 1
		m.mu.Unlock()

		go m.watch(idx, s)
	}

	if err := m.reload(); err != nil {
		merr = multierror.Append(merr, err)
	}
	return merr
}

// reload 合并当前所有 ChangeSet，生成新快照
func (m *memory) reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, err := m.opts.Reader.Merge(m.sets...)
	if err != nil {
		return err
	}

	m.snap = &loader.Snapshot{
		ChangeSet: set,
		Version:   strconv.FormatInt(time.Now().UnixNano(), 10),
	}
	return nil
}

func (m *memory) watch(idx int, s source.Source) {
	w, err := s.Watch()
	if err != nil {
		return
	}

	go func() {
		<-m.exit
		_ = w.Stop()
	}()

	for {
		cs, err := w.Next()
		if errors.Is(err, source.ErrWatcherStopped) {
			return
		}
		if err != nil {
			select {
			case <-m.exit:
				return
			case <-time.After(time.Second):
			}
			continue
		}

		m.mu.Lock()
		if cs.Checksum == m.sets[idx].Checksum {
			m.mu.Unlock()
			continue
		}
		m.sets[idx] = cs
		m.mu.Unlock()

		_ = m.reload()
	}
}

func (m *memory) Snapshot() (*loader.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cs := *m.snap.ChangeSet
	return &loader.Snapshot{ChangeSet: &cs, Version: m.snap.Version}, nil
}

// Sync 重新读取所有来源
func (m *memory) Sync() error {
	m.mu.RLock()
	sources := make([]source.Source, len(m.sources))
	copy(sources, m.sources)
	m.mu.RUnlock()

	var merr error
	sets := make([]*source.ChangeSet, 0, len(sources))
	for _, s := range sources {
		set, err := s.Read()
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		sets = append(sets, set)
	}
	if merr != nil {
		return merr
	}

	m.mu.Lock()
	m.sets = sets
	m.mu.Unlock()

	return m.reload()
}

func (m *memory) Close() error {
	m.closeOnce.Do(func() {
		close(m.exit)
	})
	return nil
}

func (m *memory) String() string {
	return "memory"
}
