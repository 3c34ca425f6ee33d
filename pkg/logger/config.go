package logger

import (
	"path/filepath"

	pconfig "github.com/ninja0404/token-risk/pkg/config"
)

type Config struct {
	// Output 输出方式：stdout、file
	Output string `yaml:"output" json:"output" toml:"output"`
	// Dir 日志目录
	Dir string `yaml:"dir" json:"dir" toml:"dir"`
	// Name 日志文件名，同时作为 logger 名称
	Name string `yaml:"name" json:"name" toml:"name"`
	// Level 日志等级
	Level string `yaml:"level" json:"level" toml:"level"`
	// 是否添加调用者信息
	AddCaller bool `yaml:"add_caller" json:"add_caller" toml:"add_caller"`
	// 日志调用者层级
	CallerSkip int `yaml:"caller_skip" json:"caller_skip" toml:"caller_skip"`
	// 单文件最大长度(单位: mb)
	MaxSize int `yaml:"max_size" json:"max_size" toml:"max_size"`
	// 日志文件最大保留时间(单位: 天)
	MaxAge int `yaml:"max_age" json:"max_age" toml:"max_age"`
	// 日志副本数
	MaxBackup int `yaml:"max_backup" json:"max_backup" toml:"max_backup"`
	// 是否是调试状态，调试状态使用彩色控制台输出
	Debug bool `yaml:"debug" json:"debug" toml:"debug"`
	// 日志是否丢弃
	Discard bool `yaml:"discard" json:"discard" toml:"discard"`
	// 禁用Sentry
	DisableSentry bool `yaml:"disable_sentry" json:"disable_sentry" toml:"disable_sentry"`
	// Sentry DSN，为空时不初始化 sentry 客户端
	SentryDsn string `yaml:"sentry_dsn" json:"sentry_dsn" toml:"sentry_dsn"`
	// 发送sentry的等级
	SentryLevel string `yaml:"sentry_level" json:"sentry_level" toml:"sentry_level"`
	// Environment 上报 sentry 时的环境标识
	Environment string `yaml:"environment" json:"environment" toml:"environment"`
}

func (c *Config) Filename() string {
	return filepath.Join(c.Dir, c.Name+".log")
}

func (c *Config) Build() *Logger {
	return newLogger(c)
}

// FromConfig 从默认配置读取 key 对应的日志配置
func FromConfig(key string) *Config {
	conf := DefaultConfig()
	if err := pconfig.Get(key).Scan(conf); err != nil {
		panic(err)
	}
	return conf
}

func DefaultConfig() *Config {
	return &Config{
		Name:        "token-risk",
		Output:      "stdout",
		Dir:         "./logs/",
		Level:       "info",
		MaxSize:     1000, // 1000M
		MaxAge:      1,    // 1 day
		MaxBackup:   10,
		AddCaller:   true,
		SentryLevel: "error",
	}
}
