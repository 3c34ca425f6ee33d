package pipeline

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ninja0404/token-risk/internal/model"
	"github.com/ninja0404/token-risk/pkg/logger"
	"github.com/ninja0404/token-risk/pkg/utils"
)

const (
	DefaultWorkers        = 4
	DefaultAnalyzeTimeout = 30 * time.Second
	workerQueueSize       = 256
)

// Analyzer 分析单个合约
type Analyzer interface {
	AnalyzeReport(ctx context.Context, address string) (*model.RiskReport, error)
}

// AddressSource 地址流，停止后关闭 Addresses 通道
type AddressSource interface {
	Start() error
	Stop() error
	Addresses() <-chan string
	Errors() <-chan error
}

// ReportPublisher 报告发布
type ReportPublisher interface {
	Start() error
	Stop() error
	Submit(report *model.RiskReport) bool
}

// Config 管道配置
type Config struct {
	Workers        int
	AnalyzeTimeout time.Duration
}

// Pipeline 数据处理管道：数据源 → 分析 worker → 发布管理器
type Pipeline struct {
	analyzer  Analyzer
	sources   AddressSource
	publisher ReportPublisher
	config    Config

	queues    []chan string
	workersWg sync.WaitGroup
	loopsWg   sync.WaitGroup
	stopOnce  sync.Once

	processed atomic.Int64
	failed    atomic.Int64
	errors    atomic.Int64
}

// NewPipeline 创建数据处理管道
func NewPipeline(analyzer Analyzer, sources AddressSource, publisher ReportPublisher, config Config) *Pipeline {
	if config.Workers <= 0 {
		config.Workers = DefaultWorkers
	}
	if config.AnalyzeTimeout <= 0 {
		config.AnalyzeTimeout = DefaultAnalyzeTimeout
	}
	return &Pipeline{
		analyzer:  analyzer,
		sources:   sources,
		publisher: publisher,
		config:    config,
	}
}

// Start 启动数据处理管道
func (p *Pipeline) Start() error {
	logger.Info("启动数据处理管道", logger.Int("workers", p.config.Workers))

	if err := p.publisher.Start(); err != nil {
		return err
	}

	p.queues = make([]chan string, p.config.Workers)
	for i := range p.queues {
		p.queues[i] = make(chan string, workerQueueSize)
		p.workersWg.Add(1)
		go p.worker(i, p.queues[i])
	}

	if err := p.sources.Start(); err != nil {
		return err
	}

	p.loopsWg.Add(2)
	go p.dispatch()
	go p.processErrors()

	logger.Info("数据处理管道已启动")
	return nil
}

// Stop 停止数据源，等待已入队的地址分析完成后停止发布管理器
func (p *Pipeline) Stop() error {
	var err error
	p.stopOnce.Do(func() {
		logger.Info("停止数据处理管道")

		if stopErr := p.sources.Stop(); stopErr != nil {
			logger.Error("停止数据源管理器失败", logger.FieldErr(stopErr))
		}
		p.loopsWg.Wait()

		for _, queue := range p.queues {
			close(queue)
		}
		p.workersWg.Wait()

		err = p.publisher.Stop()
		if err != nil {
			logger.Error("停止发布管理器失败", logger.FieldErr(err))
		}

		stats := p.GetStats()
		logger.Info("数据处理管道已停止",
			logger.Int64("processed", stats.Processed),
			logger.Int64("failed", stats.Failed),
			logger.Int64("source_errors", stats.SourceErrors))
	})
	return err
}

// dispatch 同一合约总是落到同一个 worker，保证串行分析
func (p *Pipeline) dispatch() {
	defer p.loopsWg.Done()

	for address := range p.sources.Addresses() {
		address = strings.TrimSpace(address)
		if address == "" {
			continue
		}
		idx := utils.ShardIndex(strings.ToLower(address), len(p.queues))
		p.queues[idx] <- address
	}
}

// processErrors 处理错误
func (p *Pipeline) processErrors() {
	defer p.loopsWg.Done()

	for err := range p.sources.Errors() {
		p.errors.Add(1)
		logger.Error("数据源错误", logger.FieldErr(err))
	}
}

func (p *Pipeline) worker(id int, queue <-chan string) {
	defer p.workersWg.Done()

	for address := range queue {
		p.handleAddress(id, address)
	}
}

// handleAddress 分析单个地址，panic 不影响 worker
func (p *Pipeline) handleAddress(id int, address string) {
	defer func() {
		if r := recover(); r != nil {
			p.failed.Add(1)
			logger.Error("分析协程 panic",
				logger.Int("worker", id),
				logger.FieldContract(address),
				logger.Any("panic", r),
				logger.FieldStack(utils.GetStack()))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), p.config.AnalyzeTimeout)
	defer cancel()

	start := time.Now()
	report, err := p.analyzer.AnalyzeReport(ctx, address)
	if err != nil {
		p.failed.Add(1)
		logger.Warn("分析失败", logger.Int("worker", id), logger.FieldContract(address), logger.FieldErr(err))
		return
	}

	p.processed.Add(1)
	p.publisher.Submit(report)
	logger.Debug("✅ 管道分析完成",
		logger.Int("worker", id),
		logger.FieldContract(address),
		logger.FieldScore(report.RiskScore),
		logger.FieldCost(time.Since(start)))
}

// Stats 获取管道统计信息
type Stats struct {
	Processed    int64 `json:"processed"`
	Failed       int64 `json:"failed"`
	SourceErrors int64 `json:"source_errors"`
}

// GetStats 获取管道统计信息
func (p *Pipeline) GetStats() *Stats {
	return &Stats{
		Processed:    p.processed.Load(),
		Failed:       p.failed.Load(),
		SourceErrors: p.errors.Load(),
	}
}
