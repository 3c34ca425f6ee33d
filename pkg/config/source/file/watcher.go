package file

import (
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/ninja0404/token-risk/pkg/config/source"
)

type watcher struct {
	f    *file
	fw   *fsnotify.Watcher
	exit chan struct{}
	once sync.Once
}

func newWatcher(f *file) (source.Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fw.Add(f.path); err != nil {
		_ = fw.Close()
		return nil, err
	}

	return &watcher{
		f:    f,
		fw:   fw,
		exit: make(chan struct{}),
	}, nil
}

func (w *watcher) Next() (*source.ChangeSet, error) {
	select {
	case <-w.exit:
		return nil, source.ErrWatcherStopped
	default:
	}

	for {
		select {
		case <-w.exit:
			return nil, source.ErrWatcherStopped
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil, source.ErrWatcherStopped
			}
			return nil, err
		case event, ok := <-w.fw.Events:
			if !ok {
				return nil, source.ErrWatcherStopped
			}

			// 编辑器保存时常见先删除再重建，需要重新挂载监听
			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				_ = w.fw.Remove(w.f.path)
				if err := w.fw.Add(w.f.path); err != nil {
					return nil, err
				}
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}

			return w.f.Read()
		}
	}
}

func (w *watcher) Stop() error {
	var err error
	w.once.Do(func() {
		close(w.exit)
		err = w.fw.Close()
	})
	return err
}
