package mse

import (
	"sync"
	"time"

	"github.com/nacos-group/nacos-sdk-go/vo"

	"github.com/ninja0404/token-risk/pkg/config/source"
)

type watcher struct {
	mse         *mse
	contentChan chan string
	exit        chan struct{}
	once        sync.Once
}

func newWatcher(m *mse) (source.Watcher, error) {
	w := &watcher{
		mse:         m,
		contentChan: make(chan string, 1),
		exit:        make(chan struct{}),
	}

	err := m.client.ListenConfig(vo.ConfigParam{
		DataId: m.config.DataID,
		Group:  m.config.Group,
		OnChange: func(namespace, group, dataId, data string) {
			select {
			case w.contentChan <- data:
			case <-w.exit:
			}
		},
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (w *watcher) Next() (*source.ChangeSet, error) {
	select {
	case data := <-w.contentChan:
		cs := &source.ChangeSet{
			Format:    w.mse.opts.Format,
			Source:    w.mse.String(),
			Timestamp: time.Now(),
			Data:      []byte(data),
		}
		cs.Checksum = cs.Sum()
		return cs, nil
	case <-w.exit:
		return nil, source.ErrWatcherStopped
	}
}

func (w *watcher) Stop() error {
	var err error
	w.once.Do(func() {
		close(w.exit)
		err = w.mse.client.CancelListenConfig(vo.ConfigParam{
			DataId: w.mse.config.DataID,
			Group:  w.mse.config.Group,
		})
	})
	return err
}
