package database

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/ninja0404/token-risk/internal/repo"
	"github.com/ninja0404/token-risk/pkg/logger"
)

const (
	DefaultQueryInterval  = time.Minute
	DefaultRescanInterval = 30 * time.Minute
	DefaultBatchSize      = 100
)

// Source 观察列表数据源，定期把到期未扫描的代币重新送去分析
type Source struct {
	addrChan chan string
	errChan  chan error
	ctx      context.Context
	cancel   context.CancelFunc
	config   SourceConfig
	repo     repo.WatchTokenRepo
	now      func() time.Time
	done     chan struct{}
	started  atomic.Bool
}

// SourceConfig 观察列表数据源配置
type SourceConfig struct {
	QueryInterval  time.Duration // 查询间隔
	RescanInterval time.Duration // 同一代币两次扫描的最小间隔
	BatchSize      int           // 批量查询大小
}

func (c SourceConfig) withDefaults() SourceConfig {
	if c.QueryInterval <= 0 {
		c.QueryInterval = DefaultQueryInterval
	}
	if c.RescanInterval <= 0 {
		c.RescanInterval = DefaultRescanInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	return c
}

// NewSource 创建观察列表数据源
func NewSource(config SourceConfig, watchRepo repo.WatchTokenRepo) *Source {
	ctx, cancel := context.WithCancel(context.Background())

	return &Source{
		addrChan: make(chan string, 1000),
		errChan:  make(chan error, 100),
		ctx:      ctx,
		cancel:   cancel,
		config:   config.withDefaults(),
		repo:     watchRepo,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start 启动数据库数据源
func (s *Source) Start(ctx context.Context) error {
	logger.Info("🗄️ 启动观察列表数据源",
		logger.String("query_interval", s.config.QueryInterval.String()),
		logger.String("rescan_interval", s.config.RescanInterval.String()),
		logger.Int("batch_size", s.config.BatchSize))

	if !s.started.CompareAndSwap(false, true) {
		return errors.New("观察列表数据源已启动")
	}
	go func() {
		select {
		case <-ctx.Done():
			s.cancel()
		case <-s.ctx.Done():
		}
	}()
	go s.startPolling()
	return nil
}

// Stop 停止数据库数据源
func (s *Source) Stop() error {
	logger.Info("🛑 停止观察列表数据源")
	s.cancel()
	if s.started.Load() {
		<-s.done
	}
	return nil
}

func (s *Source) Subscribe() <-chan string {
	return s.addrChan
}

func (s *Source) Errors() <-chan error {
	return s.errChan
}

// String 数据源名称
func (s *Source) String() string {
	return "watchlist"
}

// startPolling 启动轮询
func (s *Source) startPolling() {
	defer close(s.done)

	ticker := time.NewTicker(s.config.QueryInterval)
	defer ticker.Stop()

	s.poll()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.poll()
		}
	}
}

// poll 查询一批到期代币，投递成功的才标记为已扫描
func (s *Source) poll() {
	now := s.now()
	tokens, err := s.repo.ListDue(s.ctx, now.Add(-s.config.RescanInterval), s.config.BatchSize)
	if err != nil {
		s.sendError(errors.Wrap(err, "查询观察列表失败"))
		return
	}
	if len(tokens) == 0 {
		return
	}

	emitted := make([]string, 0, len(tokens))
	for _, token := range tokens {
		select {
		case s.addrChan <- token.Contract:
			emitted = append(emitted, token.Contract)
		case <-s.ctx.Done():
			s.markScanned(emitted, now)
			return
		}
	}
	s.markScanned(emitted, now)

	logger.Info("📊 观察列表已投递",
		logger.Int("count", len(emitted)))
}

func (s *Source) markScanned(contracts []string, at time.Time) {
	if len(contracts) == 0 {
		return
	}
	// 停止过程中也要写回，避免重启后立即重复扫描
	ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), 5*time.Second)
	defer cancel()
	if err := s.repo.MarkScanned(ctx, contracts, at); err != nil {
		s.sendError(errors.Wrap(err, "更新扫描时间失败"))
	}
}

func (s *Source) sendError(err error) {
	logger.Error("观察列表数据源错误", logger.FieldErr(err))
	select {
	case s.errChan <- err:
	default:
	}
}
