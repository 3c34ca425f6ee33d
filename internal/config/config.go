package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/ninja0404/token-risk/internal/fetcher"
	"github.com/ninja0404/token-risk/internal/server"
	"github.com/ninja0404/token-risk/pkg/config"
	"github.com/ninja0404/token-risk/pkg/config/source"
	"github.com/ninja0404/token-risk/pkg/config/source/file"
	"github.com/ninja0404/token-risk/pkg/config/source/mse"
	"github.com/ninja0404/token-risk/pkg/database/polardbx"
	"github.com/ninja0404/token-risk/pkg/logger"
	"github.com/ninja0404/token-risk/pkg/mq/kafka"
	"github.com/ninja0404/token-risk/pkg/utils"
)

const DefaultConfigPath = "config.yaml"

// AppConfig 应用配置结构
type AppConfig struct {
	Logger    logger.Config        `yaml:"logger" json:"logger"`
	Server    ServerConfig         `yaml:"server" json:"server"`
	Providers ProvidersConfig      `yaml:"providers" json:"providers"`
	Publisher PublisherConfig      `yaml:"publisher" json:"publisher"`
	Source    SourceConfig         `yaml:"source" json:"source"`
	PolarX    polardbx.MysqlConfig `yaml:"polarx" json:"polarx"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr            string `yaml:"addr" json:"addr"`
	StrictAddress   bool   `yaml:"strict_address" json:"strict_address"`
	ShutdownTimeout int    `yaml:"shutdown_timeout" json:"shutdown_timeout"` // 秒
}

// ProvidersConfig 外部数据源配置
type ProvidersConfig struct {
	EtherscanAPIKey string `yaml:"etherscan_api_key" json:"etherscan_api_key"`
	EtherscanURL    string `yaml:"etherscan_url" json:"etherscan_url"`
	DexScreenerURL  string `yaml:"dexscreener_url" json:"dexscreener_url"`
	HoneypotURL     string `yaml:"honeypot_url" json:"honeypot_url"`
	Chain           string `yaml:"chain" json:"chain"`
	Timeout         int    `yaml:"timeout" json:"timeout"` // 秒
}

// PublisherConfig 发布器配置
type PublisherConfig struct {
	QueueSize int          `yaml:"queue_size" json:"queue_size"`
	Log       bool         `yaml:"log" json:"log"`
	Feishu    FeishuConfig `yaml:"feishu" json:"feishu"`
	Kafka     KafkaPublish `yaml:"kafka" json:"kafka"`
}

// FeishuConfig 飞书发布器配置
type FeishuConfig struct {
	WebhookURL     string  `yaml:"webhook_url" json:"webhook_url"`
	AlertThreshold float64 `yaml:"alert_threshold" json:"alert_threshold"`
	Cooldown       int     `yaml:"cooldown" json:"cooldown"` // 秒
}

// KafkaPublish 报告写入 kafka
type KafkaPublish struct {
	Brokers  []string                  `yaml:"brokers" json:"brokers"`
	Topic    string                    `yaml:"topic" json:"topic"`
	Producer kafka.KafkaProducerConfig `yaml:"producer" json:"producer"`
}

// SourceConfig 分析请求来源配置
type SourceConfig struct {
	Workers        int             `yaml:"workers" json:"workers"`
	AnalyzeTimeout int             `yaml:"analyze_timeout" json:"analyze_timeout"` // 秒
	Kafka          KafkaSource     `yaml:"kafka" json:"kafka"`
	Watchlist      WatchlistConfig `yaml:"watchlist" json:"watchlist"`
}

// KafkaSource 从 kafka 读取分析请求
type KafkaSource struct {
	Enabled  bool                      `yaml:"enabled" json:"enabled"`
	Brokers  []string                  `yaml:"brokers" json:"brokers"`
	Topic    string                    `yaml:"topic" json:"topic"`
	Consumer kafka.KafkaConsumerConfig `yaml:"consumer" json:"consumer"`
}

// WatchlistConfig 观察列表定期重扫
type WatchlistConfig struct {
	Enabled        bool `yaml:"enabled" json:"enabled"`
	QueryInterval  int  `yaml:"query_interval" json:"query_interval"`   // 查询间隔（秒）
	RescanInterval int  `yaml:"rescan_interval" json:"rescan_interval"` // 重扫间隔（秒）
	BatchSize      int  `yaml:"batch_size" json:"batch_size"`           // 批量查询大小
}

// DefaultAppConfig 未配置项的默认值
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Logger: *logger.DefaultConfig(),
		Server: ServerConfig{
			Addr:            server.DefaultAddr,
			ShutdownTimeout: int(server.DefaultShutdownTimeout / time.Second),
		},
		Providers: ProvidersConfig{
			Timeout: int(fetcher.DefaultTimeout / time.Second),
		},
		Publisher: PublisherConfig{
			QueueSize: 1000,
			Log:       true,
			Feishu: FeishuConfig{
				AlertThreshold: 85,
				Cooldown:       3600,
			},
		},
		Source: SourceConfig{
			Workers:        4,
			AnalyzeTimeout: 30,
			Watchlist: WatchlistConfig{
				QueryInterval:  60,
				RescanInterval: 1800,
				BatchSize:      100,
			},
		},
	}
}

// Manager 配置管理器
type Manager struct {
	values config.Config
	config *AppConfig
}

// NewManager 创建配置管理器
func NewManager() *Manager {
	return &Manager{values: config.NewConfig()}
}

// Load 按 CONFIG_TYPE 选择来源：FILE 读取 configPath，MSE 读取 nacos
func (m *Manager) Load(configPath string) error {
	var src source.Source
	if utils.IsFileConfig() {
		src = file.NewSource(
			file.WithPath(utils.GetConfigFilePath(configPath)),
			source.WithFormat("yaml"),
		)
	} else {
		conf, err := mse.ConfigFromEnv(utils.GetEnvPrefix())
		if err != nil {
			return errors.Wrap(err, "读取MSE配置失败")
		}
		src, err = mse.NewSource(mse.WithMseConfig(conf), source.WithFormat("yaml"))
		if err != nil {
			return errors.Wrap(err, "创建MSE配置源失败")
		}
	}
	return m.LoadSource(src)
}

// LoadSource 加载指定来源并解析到 AppConfig
func (m *Manager) LoadSource(sources ...source.Source) error {
	if err := m.values.Load(sources...); err != nil {
		return errors.Wrap(err, "加载配置失败")
	}

	appConfig := DefaultAppConfig()
	if err := m.values.Scan(appConfig); err != nil {
		return errors.Wrap(err, "解析配置失败")
	}
	m.config = appConfig
	return nil
}

// Close 停止配置监听
func (m *Manager) Close() error {
	return m.values.Close()
}

// GetAppConfig 获取应用配置
func (m *Manager) GetAppConfig() *AppConfig {
	return m.config
}

// InitLogger 初始化日志系统
func (m *Manager) InitLogger() error {
	loggerInstance := m.config.Logger.Build()
	logger.SetDefault(loggerInstance)
	logger.SetDefaultL1(loggerInstance)
	return nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// ServerConfig 转换为 server.Config
func (c *AppConfig) ServerConfig() server.Config {
	return server.Config{
		Addr:            c.Server.Addr,
		StrictAddress:   c.Server.StrictAddress,
		ShutdownTimeout: seconds(c.Server.ShutdownTimeout),
		Debug:           c.Logger.Debug,
	}.WithDefaults()
}

// ProviderConfig 转换为 fetcher.ProviderConfig
func (c *AppConfig) ProviderConfig() fetcher.ProviderConfig {
	return fetcher.ProviderConfig{
		EtherscanAPIKey: strings.TrimSpace(c.Providers.EtherscanAPIKey),
		EtherscanURL:    c.Providers.EtherscanURL,
		DexScreenerURL:  c.Providers.DexScreenerURL,
		HoneypotURL:     c.Providers.HoneypotURL,
		Chain:           c.Providers.Chain,
		Timeout:         seconds(c.Providers.Timeout),
	}.WithDefaults()
}

// FeishuEnabled 配置了 webhook 才发送告警
func (c *AppConfig) FeishuEnabled() bool {
	return c.Publisher.Feishu.WebhookURL != ""
}

// KafkaPublishEnabled 配置了 brokers 和 topic 才写入 kafka
func (c *AppConfig) KafkaPublishEnabled() bool {
	return len(c.Publisher.Kafka.Brokers) > 0 && c.Publisher.Kafka.Topic != ""
}

func (c *AppConfig) FeishuCooldown() time.Duration {
	return seconds(c.Publisher.Feishu.Cooldown)
}

func (c *AppConfig) AnalyzeTimeout() time.Duration {
	return seconds(c.Source.AnalyzeTimeout)
}

func (w WatchlistConfig) QueryEvery() time.Duration {
	return seconds(w.QueryInterval)
}

func (w WatchlistConfig) RescanAfter() time.Duration {
	return seconds(w.RescanInterval)
}
