package polardbx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormLogger "gorm.io/gorm/logger"
)

func TestWithDefaults(t *testing.T) {
	cfg := withDefaults(&MysqlConfig{Host: "db", User: "root", Database: "risk"})

	assert.Equal(t, 3306, cfg.Port)
	assert.Equal(t, "5s", cfg.Timeout)
	assert.Equal(t, 20, cfg.MaxPoolSize)
	assert.Equal(t, 10, cfg.MaxIdleSize)
	assert.Equal(t, 10*time.Minute, cfg.MaxIdleDuration)
	assert.Equal(t, "root:@tcp(db:3306)/risk?charset=utf8mb4&parseTime=True&loc=UTC&timeout=5s", cfg.DSN())
}

func TestEnabled(t *testing.T) {
	var nilCfg *MysqlConfig
	assert.False(t, nilCfg.Enabled())
	assert.False(t, (&MysqlConfig{}).Enabled())
	assert.True(t, (&MysqlConfig{Host: "db"}).Enabled())
}

func TestMappingLoggerLevel(t *testing.T) {
	assert.Equal(t, gormLogger.Info, mappingLoggerLevel("error", true))
	assert.Equal(t, gormLogger.Warn, mappingLoggerLevel("", false))
	assert.Equal(t, gormLogger.Error, mappingLoggerLevel("fatal", false))
	assert.Equal(t, gormLogger.Silent, mappingLoggerLevel("off", false))
}

func TestGetDbNotInitialized(t *testing.T) {
	_, err := GetDbWithName("missing")
	require.ErrorIs(t, err, ErrNotInitialized)
}
