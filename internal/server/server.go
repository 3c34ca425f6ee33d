package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ninja0404/token-risk/internal/metrics"
	"github.com/ninja0404/token-risk/internal/model"
	"github.com/ninja0404/token-risk/internal/repo"
	"github.com/ninja0404/token-risk/pkg/logger"
)

const (
	DefaultAddr            = ":5000"
	DefaultShutdownTimeout = 10 * time.Second
)

// Config HTTP 服务配置
type Config struct {
	Addr            string        `yaml:"addr" json:"addr"`
	StrictAddress   bool          `yaml:"strict_address" json:"strict_address"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
	Debug           bool          `yaml:"debug" json:"debug"`
}

func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	return c
}

// Analyzer 分析单个合约
type Analyzer interface {
	AnalyzeReport(ctx context.Context, address string) (*model.RiskReport, error)
}

// ReportSubmitter 异步发布报告
type ReportSubmitter interface {
	Submit(report *model.RiskReport) bool
}

// Server HTTP 服务
type Server struct {
	config    Config
	analyzer  Analyzer
	publisher ReportSubmitter
	reports   repo.RiskReportRepo
	watchlist repo.WatchTokenRepo

	router  *gin.Engine
	httpSrv *http.Server
}

// Option 可选依赖
type Option func(*Server)

// WithPublisher 分析结果交给发布管理器
func WithPublisher(p ReportSubmitter) Option {
	return func(s *Server) {
		s.publisher = p
	}
}

// WithReportRepo 开启 /reports 查询
func WithReportRepo(r repo.RiskReportRepo) Option {
	return func(s *Server) {
		s.reports = r
	}
}

// WithWatchTokenRepo 开启 /watchlist
func WithWatchTokenRepo(r repo.WatchTokenRepo) Option {
	return func(s *Server) {
		s.watchlist = r
	}
}

// New 创建 HTTP 服务并注册路由
func New(config Config, analyzer Analyzer, opts ...Option) *Server {
	s := &Server{
		config:   config.WithDefaults(),
		analyzer: analyzer,
	}
	for _, opt := range opts {
		opt(s)
	}

	if !s.config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	s.router = gin.New()
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.CustomRecovery(recoveryHandler))
	s.router.Use(metrics.Middleware())
	s.router.Use(requestLogger())
	s.router.Use(corsMiddleware())
}

func (s *Server) setupRoutes() {
	s.router.POST("/analyze", s.analyzeHandler)
	s.router.OPTIONS("/analyze", s.preflightHandler)
	s.router.GET("/reports/:contract", s.listReportsHandler)
	s.router.POST("/watchlist", s.watchHandler)
	s.router.GET("/healthz", s.healthHandler)
	s.router.GET("/metrics", metrics.Handler())
}

// Router 测试用
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start 后台监听，监听失败时写入返回的通道
func (s *Server) Start() <-chan error {
	s.httpSrv = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("🌐 HTTP服务启动", logger.String("addr", s.config.Addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()
	return errChan
}

// Shutdown 优雅关闭，最多等待 shutdown_timeout
func (s *Server) Shutdown() error {
	if s.httpSrv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpSrv.Shutdown(ctx); err != nil {
		logger.Error("HTTP服务关闭失败", logger.FieldErr(err))
		return err
	}
	logger.Info("HTTP服务已关闭")
	return nil
}
