package model

import "github.com/shopspring/decimal"

// TransferEvent 一笔代币转账，数量已按精度换算
type TransferEvent struct {
	Amount    decimal.Decimal `json:"amount"`
	Timestamp int64           `json:"timestamp"` // unix 秒
	Decimals  int32           `json:"decimals"`
}

// TransferHistory 最近的转账记录及摘要
type TransferHistory struct {
	Events  []TransferEvent `json:"events"`
	Summary string          `json:"summary"`
}

// Timestamps 返回所有事件的时间戳，保持原顺序
func (h TransferHistory) Timestamps() []int64 {
	ts := make([]int64, 0, len(h.Events))
	for _, e := range h.Events {
		ts = append(ts, e.Timestamp)
	}
	return ts
}
