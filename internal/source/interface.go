package source

import (
	"context"
	"sync"

	"github.com/ninja0404/token-risk/pkg/logger"
)

// AddressSource 待分析合约地址的数据源
type AddressSource interface {
	// Start 启动数据源
	Start(ctx context.Context) error

	// Stop 停止数据源
	Stop() error

	// Subscribe 订阅地址流，数据源不关闭该通道
	Subscribe() <-chan string

	// Errors 错误通道
	Errors() <-chan error

	// String 数据源名称
	String() string
}

// Manager 数据源管理器
type Manager struct {
	sources     []AddressSource
	addressChan chan string
	errorChan   chan error
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	stopOnce    sync.Once
}

// NewManager 创建数据源管理器
func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		sources:     make([]AddressSource, 0),
		addressChan: make(chan string, 10_000),
		errorChan:   make(chan error, 100),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// AddSource 添加数据源
func (m *Manager) AddSource(source AddressSource) {
	m.sources = append(m.sources, source)
}

// Len 已添加的数据源数量
func (m *Manager) Len() int {
	return len(m.sources)
}

// Start 启动所有数据源
func (m *Manager) Start() error {
	for _, source := range m.sources {
		if err := source.Start(m.ctx); err != nil {
			return err
		}

		m.wg.Add(1)
		go m.listenSource(source)
		logger.Info("✅ 数据源已启动", logger.String("source", source.String()))
	}
	return nil
}

// Stop 停止所有数据源，转发协程退出后关闭输出通道
func (m *Manager) Stop() error {
	var firstErr error
	m.stopOnce.Do(func() {
		m.cancel()

		for _, source := range m.sources {
			if err := source.Stop(); err != nil {
				logger.Error("停止数据源失败", logger.String("source", source.String()), logger.FieldErr(err))
				if firstErr == nil {
					firstErr = err
				}
			}
		}

		m.wg.Wait()
		close(m.addressChan)
		close(m.errorChan)
	})
	return firstErr
}

// Addresses 获取地址流
func (m *Manager) Addresses() <-chan string {
	return m.addressChan
}

// Errors 获取错误流
func (m *Manager) Errors() <-chan error {
	return m.errorChan
}

// listenSource 监听单个数据源
func (m *Manager) listenSource(source AddressSource) {
	defer m.wg.Done()

	addrChan := source.Subscribe()
	errChan := source.Errors()

	for {
		select {
		case <-m.ctx.Done():
			return
		case address, ok := <-addrChan:
			if !ok {
				return
			}
			select {
			case m.addressChan <- address:
			case <-m.ctx.Done():
				return
			}
		case err, ok := <-errChan:
			if !ok {
				return
			}
			select {
			case m.errorChan <- err:
			case <-m.ctx.Done():
				return
			}
		}
	}
}
