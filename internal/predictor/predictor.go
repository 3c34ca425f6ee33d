// Package predictor 根据转账时间间隔估算下一次抛售窗口。
//
// 采用简单的平均间隔估计，不处理周期性和异常值。
package predictor

import (
	"math"
	"sort"

	"github.com/ninja0404/token-risk/internal/model"
)

const (
	// MinEvents 少于该数量的事件不做预测
	MinEvents = 3
	// SparseGapSeconds 平均间隔超过 24 小时视为太稀疏
	SparseGapSeconds = 86400
	// ImminentGapSeconds 平均间隔小于 30 分钟视为即将抛售
	ImminentGapSeconds = 1800
)

// Predict 对事件按时间升序排序后计算相邻间隔均值，不修改入参
func Predict(events []model.TransferEvent) model.DumpPrediction {
	if len(events) < MinEvents {
		return model.NoPattern()
	}

	ts := make([]int64, len(events))
	for i, e := range events {
		ts[i] = e.Timestamp
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i] < ts[j] })

	var total float64
	for i := 1; i < len(ts); i++ {
		total += float64(ts[i] - ts[i-1])
	}
	mean := total / float64(len(ts)-1)

	switch {
	case mean > SparseGapSeconds:
		return model.NoPattern()
	case mean < ImminentGapSeconds:
		return model.ImminentWithinHour()
	default:
		return model.PeriodicEveryHours(roundTo(mean/3600, 1))
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
