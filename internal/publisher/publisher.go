package publisher

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/ninja0404/token-risk/internal/metrics"
	"github.com/ninja0404/token-risk/internal/model"
	"github.com/ninja0404/token-risk/pkg/logger"
)

const (
	defaultQueueSize      = 1000
	defaultPublishTimeout = 15 * time.Second
)

// Publisher 报告发布器接口
type Publisher interface {
	// Publish 发布报告
	Publish(ctx context.Context, report *model.RiskReport) error

	// GetType 获取发布器类型
	GetType() string

	// Close 关闭发布器
	Close() error
}

// Manager 报告发布管理器，Submit 入队后由后台协程依次交给各发布器
type Manager struct {
	publishers []Publisher
	reports    chan *model.RiskReport
	timeout    time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// NewManager 创建发布管理器
func NewManager(queueSize int) *Manager {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		publishers: make([]Publisher, 0),
		reports:    make(chan *model.RiskReport, queueSize),
		timeout:    defaultPublishTimeout,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// AddPublisher 添加发布器，需在 Start 之前调用
func (m *Manager) AddPublisher(publisher Publisher) {
	m.publishers = append(m.publishers, publisher)
}

func (m *Manager) Start() error {
	for _, publisher := range m.publishers {
		logger.Info("✅ 已加载报告发布器", logger.String("type", publisher.GetType()))
	}

	m.wg.Add(1)
	go m.run()

	logger.Info("📡 报告发布管理器已启动", logger.Int("queue_size", cap(m.reports)))
	return nil
}

func (m *Manager) run() {
	defer m.wg.Done()
	for {
		select {
		case <-m.ctx.Done():
			m.drain()
			return
		case report := <-m.reports:
			m.Publish(report)
		}
	}
}

// drain 停止前把队列里剩余的报告发完
func (m *Manager) drain() {
	for {
		select {
		case report := <-m.reports:
			m.Publish(report)
		default:
			return
		}
	}
}

// Submit 非阻塞入队，队列满时丢弃并返回 false
func (m *Manager) Submit(report *model.RiskReport) bool {
	if report == nil {
		return false
	}
	select {
	case <-m.ctx.Done():
		return false
	default:
	}

	select {
	case m.reports <- report:
		return true
	default:
		logger.Warn("⚠️ 发布队列已满，丢弃报告",
			logger.FieldContract(report.Contract),
			logger.String("report_id", report.ID))
		return false
	}
}

// Publish 同步发布到所有发布器，单个发布器失败不影响其他发布器
func (m *Manager) Publish(report *model.RiskReport) {
	for _, publisher := range m.publishers {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		err := publisher.Publish(ctx, report)
		cancel()

		metrics.ObservePublish(publisher.GetType(), err)
		if err != nil {
			logger.Error("发布报告失败",
				logger.String("publisher", publisher.GetType()),
				logger.String("report_id", report.ID),
				logger.FieldContract(report.Contract),
				logger.FieldErr(err))
		}
	}
}

// Stop 停止接收新报告，发完队列后关闭所有发布器
func (m *Manager) Stop() error {
	var merr error
	m.once.Do(func() {
		m.cancel()
		m.wg.Wait()

		for _, publisher := range m.publishers {
			if err := publisher.Close(); err != nil {
				merr = multierror.Append(merr, err)
				logger.Error("关闭发布器失败",
					logger.String("type", publisher.GetType()),
					logger.FieldErr(err))
			}
		}
		logger.Info("报告发布管理器已停止")
	})
	return merr
}

// LogPublisher 日志发布器
type LogPublisher struct{}

func (p *LogPublisher) GetType() string {
	return "log"
}

func (p *LogPublisher) Publish(_ context.Context, report *model.RiskReport) error {
	logger.Info("🧾 风险报告",
		logger.String("report_id", report.ID),
		logger.FieldContract(report.Contract),
		logger.FieldScore(report.RiskScore),
		logger.String("action", string(report.Action)),
		logger.String("prediction", string(report.PredictionKind)))
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}

// ConsolePublisher 格式化输出完整报告，调试用
type ConsolePublisher struct{}

func (p *ConsolePublisher) GetType() string {
	return "console"
}

func (p *ConsolePublisher) Publish(_ context.Context, report *model.RiskReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	logger.Debug("🧾 风险报告详情", logger.String("report", string(data)))
	return nil
}

func (p *ConsolePublisher) Close() error {
	return nil
}
