package detector

import (
	"github.com/ninja0404/token-risk/internal/detector/condition"
)

// RiskTriggerName 风险关键词检测器在注册表中的名称
const RiskTriggerName = "risk_trigger"

// TriggerPenalty 命中任一风险关键词时在基础分上追加的分数
const TriggerPenalty = 7.0

// TriggerKeywords 风险关键词，对 dev_dump/liquidity/honeypot 三项小写文本做子串匹配
var TriggerKeywords = []string{"dumping", "dropped", "honeypot", "missing", "high sell tax"}

// Detector 检测器接口
type Detector interface {
	GetName() string
	Detect(context *condition.EvaluationContext) *Hit
}

// Hit 检测器命中结果
type Hit struct {
	Detector string
	Matched  []string
	Penalty  float64
}

// NewRiskTriggerDetector 风险关键词检测器
func NewRiskTriggerDetector() Detector {
	return NewDetectorBuilder().
		Name(RiskTriggerName).
		Description("原因文本包含风险关键词").
		Penalty(TriggerPenalty).
		WithCondition(condition.NewBuilder().
			Name("risk_keywords").
			Description("dumping/dropped/honeypot/missing/high sell tax").
			Keywords(condition.FieldAny, TriggerKeywords...).
			Build()).
		Build()
}

// NewAlertDetector 风险分达到阈值时命中
func NewAlertDetector(threshold float64) Detector {
	return NewDetectorBuilder().
		Name("alert_threshold").
		Description("风险分达到告警阈值").
		WithCondition(condition.NewConditionFactory().
			CreateScoreCondition("score_threshold", "risk_score >= threshold", ">=", threshold)).
		Build()
}
