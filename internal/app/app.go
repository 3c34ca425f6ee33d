package app

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/ninja0404/token-risk/internal/aggregator"
	"github.com/ninja0404/token-risk/internal/config"
	"github.com/ninja0404/token-risk/internal/fetcher"
	"github.com/ninja0404/token-risk/internal/model"
	"github.com/ninja0404/token-risk/internal/notifier"
	"github.com/ninja0404/token-risk/internal/pipeline"
	"github.com/ninja0404/token-risk/internal/publisher"
	"github.com/ninja0404/token-risk/internal/repo"
	"github.com/ninja0404/token-risk/internal/server"
	"github.com/ninja0404/token-risk/internal/source"
	"github.com/ninja0404/token-risk/internal/source/database"
	kafkasource "github.com/ninja0404/token-risk/internal/source/kafka"
	"github.com/ninja0404/token-risk/pkg/database/polardbx"
	"github.com/ninja0404/token-risk/pkg/logger"
	"github.com/ninja0404/token-risk/pkg/mq/kafka"
)

// Application 代币风险分析服务
type Application struct {
	configManager *config.Manager
	config        *config.AppConfig

	db             *gorm.DB
	reportRepo     repo.RiskReportRepo
	watchTokenRepo repo.WatchTokenRepo
	producer       *kafka.KafkaProducer

	aggregator *aggregator.Aggregator
	publishers *publisher.Manager
	sources    *source.Manager
	pipeline   *pipeline.Pipeline
	server     *server.Server
}

// New 创建应用实例
func New() *Application {
	return &Application{
		configManager: config.NewManager(),
		sources:       source.NewManager(),
	}
}

// Initialize 初始化应用
func (app *Application) Initialize(configPath string) error {
	// 1. .env 不存在时忽略
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return err
	}

	// 2. 加载配置
	if err := app.configManager.Load(configPath); err != nil {
		return err
	}
	app.config = app.configManager.GetAppConfig()

	// 3. 初始化日志系统
	if err := app.configManager.InitLogger(); err != nil {
		return err
	}
	logger.Info("🚀 代币风险分析服务初始化开始", logger.String("config_path", configPath))

	// 4. 初始化数据库（可选）
	if err := app.initDatabase(); err != nil {
		return err
	}

	// 5. 分析器
	providers := app.config.ProviderConfig()
	if providers.EtherscanAPIKey == "" {
		logger.Warn("⚠️ 未配置 etherscan_api_key，转账历史查询会被拒绝")
	}
	agg, err := aggregator.NewAggregator(fetcher.NewSet(providers, &http.Client{}))
	if err != nil {
		return err
	}
	app.aggregator = agg

	// 6. 发布器
	if err := app.setupPublishers(); err != nil {
		return err
	}

	// 7. 数据源
	app.setupDataSources()

	app.pipeline = pipeline.NewPipeline(app.aggregator, app.sources, app.publishers, pipeline.Config{
		Workers:        app.config.Source.Workers,
		AnalyzeTimeout: app.config.AnalyzeTimeout(),
	})

	// 8. HTTP 服务
	opts := []server.Option{server.WithPublisher(app.publishers)}
	if app.reportRepo != nil {
		opts = append(opts, server.WithReportRepo(app.reportRepo), server.WithWatchTokenRepo(app.watchTokenRepo))
	}
	app.server = server.New(app.config.ServerConfig(), app.aggregator, opts...)

	logger.Info("✅ 代币风险分析服务初始化完成")
	return nil
}

// initDatabase 配置了 polarx.host 才连接数据库
func (app *Application) initDatabase() error {
	if !app.config.PolarX.Enabled() {
		logger.Info("📭 未配置数据库，报告不落库，观察列表不可用")
		return nil
	}

	db, err := polardbx.SetupDefault(app.config.PolarX, &model.RiskReportRow{}, &model.WatchToken{})
	if err != nil {
		return err
	}
	app.db = db
	app.reportRepo = repo.NewRiskReportRepo(db)
	app.watchTokenRepo = repo.NewWatchTokenRepo(db)

	logger.Info("📊 数据库连接已建立",
		logger.String("host", app.config.PolarX.Host),
		logger.String("database", app.config.PolarX.Database))
	return nil
}

// setupPublishers 按配置启用各发布器
func (app *Application) setupPublishers() error {
	pc := app.config.Publisher
	app.publishers = publisher.NewManager(pc.QueueSize)

	if pc.Log {
		app.publishers.AddPublisher(&publisher.LogPublisher{})
	}
	if app.config.Logger.Debug {
		app.publishers.AddPublisher(&publisher.ConsolePublisher{})
	}

	if app.config.FeishuEnabled() {
		lark := notifier.NewLarkNotifier(pc.Feishu.WebhookURL, nil)
		app.publishers.AddPublisher(publisher.NewFeishuPublisher(lark, pc.Feishu.AlertThreshold, app.config.FeishuCooldown()))
		logger.Info("🔔 已启用飞书告警",
			logger.Float64("alert_threshold", pc.Feishu.AlertThreshold),
			logger.String("cooldown", app.config.FeishuCooldown().String()))
	}

	if app.config.KafkaPublishEnabled() {
		producer, err := kafka.SetupKafkaProducer(pc.Kafka.Brokers, pc.Kafka.Producer)
		if err != nil {
			return err
		}
		app.producer = producer
		app.publishers.AddPublisher(publisher.NewKafkaPublisher(producer, pc.Kafka.Topic))
		logger.Info("📤 已启用Kafka报告发布", logger.String("topic", pc.Kafka.Topic))
	}

	if app.reportRepo != nil {
		app.publishers.AddPublisher(publisher.NewRepoPublisher(app.reportRepo))
	}
	return nil
}

// setupDataSources 设置数据源
func (app *Application) setupDataSources() {
	sc := app.config.Source

	if sc.Kafka.Enabled {
		app.sources.AddSource(kafkasource.NewSource(kafkasource.SourceConfig{
			Topic:       sc.Kafka.Topic,
			Brokers:     sc.Kafka.Brokers,
			KafkaConfig: sc.Kafka.Consumer,
		}))
		logger.Info("📥 已配置Kafka请求数据源", logger.String("topic", sc.Kafka.Topic))
	}

	if sc.Watchlist.Enabled {
		if app.watchTokenRepo == nil {
			logger.Warn("⚠️ 观察列表需要数据库，已跳过")
			return
		}
		sourceConfig := database.SourceConfig{
			QueryInterval:  sc.Watchlist.QueryEvery(),
			RescanInterval: sc.Watchlist.RescanAfter(),
			BatchSize:      sc.Watchlist.BatchSize,
		}
		app.sources.AddSource(database.NewSource(sourceConfig, app.watchTokenRepo))
		logger.Info("🗄️ 已配置观察列表数据源",
			logger.String("query_interval", sourceConfig.QueryInterval.String()),
			logger.String("rescan_interval", sourceConfig.RescanInterval.String()),
			logger.Int("batch_size", sourceConfig.BatchSize))
	}
}

// Run 运行应用，直到收到终止信号或 HTTP 服务异常退出
func (app *Application) Run() error {
	logger.Info("🎯 启动风险分析管道")
	if err := app.pipeline.Start(); err != nil {
		return multierror.Append(err, app.Shutdown())
	}

	serverErr := app.server.Start()
	logger.Info("🔥 代币风险分析服务已启动",
		logger.Int("sources", app.sources.Len()),
		logger.Int("workers", app.config.Source.Workers))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case sig := <-quit:
		logger.Info("📤 收到终止信号，开始优雅关闭应用...", logger.String("signal", sig.String()))
	case err, ok := <-serverErr:
		if ok && err != nil {
			logger.Error("HTTP服务异常退出", logger.FieldErr(err))
			runErr = err
		}
	}

	if err := app.Shutdown(); err != nil {
		runErr = multierror.Append(runErr, err)
	}
	return runErr
}

// Shutdown 依次关闭 HTTP 服务、管道、kafka 生产者、数据库
func (app *Application) Shutdown() error {
	logger.Info("🛑 开始关闭代币风险分析服务...")
	start := time.Now()

	var merr error
	if app.server != nil {
		if err := app.server.Shutdown(); err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	if app.pipeline != nil {
		if err := app.pipeline.Stop(); err != nil {
			merr = multierror.Append(merr, err)
		}
		stats := app.pipeline.GetStats()
		logger.Info("📈 服务运行统计",
			logger.Int64("processed", stats.Processed),
			logger.Int64("failed", stats.Failed),
			logger.Int64("source_errors", stats.SourceErrors))
	}

	if app.producer != nil {
		if err := kafka.CloseProducer(); err != nil {
			logger.Error("关闭Kafka生产者失败", logger.FieldErr(err))
			merr = multierror.Append(merr, err)
		}
	}

	if app.db != nil {
		if err := polardbx.Stop(); err != nil {
			logger.Error("关闭数据库连接失败", logger.FieldErr(err))
			merr = multierror.Append(merr, err)
		}
	}

	if err := app.configManager.Close(); err != nil {
		merr = multierror.Append(merr, err)
	}

	logger.Info("✨ 代币风险分析服务已关闭", logger.FieldCost(time.Since(start)))
	logger.Close()
	return merr
}

// Start 初始化并运行
func (app *Application) Start(configPath string) error {
	if err := app.Initialize(configPath); err != nil {
		logger.Error("❌ 代币风险分析服务初始化失败", logger.FieldErr(err))
		return err
	}

	if err := app.Run(); err != nil {
		logger.Error("❌ 代币风险分析服务运行失败", logger.FieldErr(err))
		return err
	}
	return nil
}

// GetPipeline 获取数据处理管道
func (app *Application) GetPipeline() *pipeline.Pipeline {
	return app.pipeline
}

// GetConfigManager 获取配置管理器
func (app *Application) GetConfigManager() *config.Manager {
	return app.configManager
}
