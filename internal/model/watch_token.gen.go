package model

import "time"

const TableNameWatchToken = "watch_token"

// WatchToken 定时复查的代币
type WatchToken struct {
	ID            int64      `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	Contract      string     `gorm:"column:contract;type:varchar(128);not null;uniqueIndex;comment:合约地址" json:"contract"`
	Enabled       bool       `gorm:"column:enabled;not null;default:true;comment:是否启用" json:"enabled"`
	LastScannedAt *time.Time `gorm:"column:last_scanned_at;index;comment:上次扫描时间" json:"last_scanned_at"`
	CreatedAt     *time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt     *time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`
}

// TableName WatchToken's table name
func (*WatchToken) TableName() string {
	return TableNameWatchToken
}
