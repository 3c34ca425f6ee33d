package polardbx

import (
	"database/sql"
	"fmt"
	"time"

	mysqlDriver "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/ninja0404/token-risk/pkg/logger"
)

type MysqlWrapper struct {
	db     *gorm.DB
	sqldb  *sql.DB
	config *MysqlConfig
}

type MysqlConfig struct {
	Host     string `yaml:"host" json:"host" toml:"host"`
	Port     int    `yaml:"port" json:"port" toml:"port"`
	User     string `yaml:"user" json:"user" toml:"user"`
	Password string `yaml:"password" json:"password" toml:"password"`
	Database string `yaml:"database" json:"database" toml:"database"`

	Timeout string `yaml:"timeout" json:"timeout" toml:"timeout"` // 建连超时，如 5s

	MaxPoolSize     int           `yaml:"max_pool_size" json:"max_pool_size" toml:"max_pool_size"`
	MaxIdleSize     int           `yaml:"max_idle_size" json:"max_idle_size" toml:"max_idle_size"`
	MaxIdleDuration time.Duration `yaml:"max_idle_ts" json:"max_idle_ts" toml:"max_idle_ts"`
	SqlOpenDebug    bool          `yaml:"open_debug" json:"open_debug" toml:"open_debug"`
	LogLevel        string        `yaml:"log_level" json:"log_level" toml:"log_level"`
	AutoMigrate     bool          `yaml:"auto_migrate" json:"auto_migrate" toml:"auto_migrate"`
}

// Enabled 未配置 host 时视为不启用持久化
func (c *MysqlConfig) Enabled() bool {
	return c != nil && c.Host != ""
}

func openDatabase(srcConf *MysqlConfig) (*MysqlWrapper, error) {
	cnf := withDefaults(srcConf)

	gormConfig := gorm.Config{
		Logger: NewMysqlLogger(logger.DefaultL1().Named("polardbx"), mappingLoggerLevel(cnf.LogLevel, cnf.SqlOpenDebug)),
	}

	db, err := gorm.Open(mysqlDriver.Open(cnf.DSN()), &gormConfig)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cnf.MaxPoolSize)
	sqlDB.SetMaxIdleConns(cnf.MaxIdleSize)
	sqlDB.SetConnMaxIdleTime(cnf.MaxIdleDuration)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return &MysqlWrapper{
		db:     db,
		sqldb:  sqlDB,
		config: cnf,
	}, nil
}

func (w *MysqlWrapper) DB() *gorm.DB {
	return w.db
}

func (w *MysqlWrapper) Close() error {
	return w.sqldb.Close()
}

func withDefaults(src *MysqlConfig) *MysqlConfig {
	dst := *src

	if dst.Port == 0 {
		dst.Port = 3306
	}
	if dst.Timeout == "" {
		dst.Timeout = "5s"
	}
	if dst.MaxPoolSize == 0 {
		dst.MaxPoolSize = 20
	}
	if dst.MaxIdleSize == 0 {
		dst.MaxIdleSize = 10
	}
	if dst.MaxIdleDuration == 0 {
		dst.MaxIdleDuration = 10 * time.Minute
	}
	return &dst
}

// DSN 拼接 go-sql-driver/mysql 连接串
func (c *MysqlConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&timeout=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.Timeout)
}
