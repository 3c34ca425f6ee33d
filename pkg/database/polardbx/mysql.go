package polardbx

import (
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ninja0404/token-risk/pkg/logger"
)

const DEFAULT_DB = "default"

var ErrNotInitialized = errors.New("database does not initialized")

var (
	dbs   = make(map[string]*MysqlWrapper)
	dbsMu sync.RWMutex
)

// Setup 按名称注册一个数据库连接，models 非空且开启 auto_migrate 时同步表结构
func Setup(name string, cfg MysqlConfig, models ...interface{}) (*gorm.DB, error) {
	wrapper, err := openDatabase(&cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "open database %s", name)
	}

	if cfg.AutoMigrate && len(models) > 0 {
		if err = wrapper.db.AutoMigrate(models...); err != nil {
			_ = wrapper.Close()
			return nil, errors.Wrap(err, "auto migrate")
		}
	}

	dbsMu.Lock()
	if old, ok := dbs[name]; ok {
		_ = old.Close()
	}
	dbs[name] = wrapper
	dbsMu.Unlock()

	logger.Info("🗄️ mysql database connected",
		logger.String("name", name),
		logger.String("host", cfg.Host),
		logger.Int("port", wrapper.config.Port),
		logger.String("database", cfg.Database),
	)
	return wrapper.db, nil
}

func SetupDefault(cfg MysqlConfig, models ...interface{}) (*gorm.DB, error) {
	return Setup(DEFAULT_DB, cfg, models...)
}

func Stop() error {
	dbsMu.Lock()
	defer dbsMu.Unlock()

	var merr error
	for name, wrapper := range dbs {
		if err := wrapper.Close(); err != nil {
			merr = multierror.Append(merr, errors.Wrapf(err, "close database %s", name))
			continue
		}
		logger.Info("mysql database closed", logger.String("name", name))
	}
	dbs = make(map[string]*MysqlWrapper)
	return merr
}

func GetDb() (*gorm.DB, error) {
	return GetDbWithName(DEFAULT_DB)
}

func GetDbWithName(name string) (*gorm.DB, error) {
	dbsMu.RLock()
	defer dbsMu.RUnlock()

	wrapper, ok := dbs[name]
	if !ok {
		return nil, ErrNotInitialized
	}
	return wrapper.db, nil
}
