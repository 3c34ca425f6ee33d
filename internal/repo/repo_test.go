package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/ninja0404/token-risk/internal/model"
)

// dryRunDB 不建立连接，只生成 SQL
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/risk?parseTime=True",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestListByContractQuery(t *testing.T) {
	db := dryRunDB(t)
	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []*model.RiskReportRow
		return listByContractQuery(tx, "0xabc", 5).Find(&rows)
	})

	assert.Contains(t, sql, "FROM `risk_report`")
	assert.Contains(t, sql, "contract = '0xabc'")
	assert.Contains(t, sql, "ORDER BY analyzed_at DESC")
	assert.Contains(t, sql, "LIMIT 5")
}

func TestListDueQuery(t *testing.T) {
	db := dryRunDB(t)
	before := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var tokens []*model.WatchToken
		return listDueQuery(tx, before, 50).Find(&tokens)
	})

	assert.Contains(t, sql, "FROM `watch_token`")
	assert.Contains(t, sql, "enabled = true")
	assert.Contains(t, sql, "last_scanned_at IS NULL OR last_scanned_at <")
	assert.Contains(t, sql, "LIMIT 50")
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultListLimit, NormalizeLimit(-3))
	assert.Equal(t, 7, NormalizeLimit(7))
	assert.Equal(t, MaxListLimit, NormalizeLimit(10000))
}

func TestMarkScannedEmpty(t *testing.T) {
	r := NewWatchTokenRepo(dryRunDB(t))
	assert.NoError(t, r.MarkScanned(context.Background(), nil, time.Now()))
}
