package condition

import (
	"fmt"
	"strings"
)

// KeywordCondition 子串匹配，不区分大小写，不要求整词
type KeywordCondition struct {
	BaseCondition
	Keyword string
}

func NewKeywordCondition(keyword, field string) *KeywordCondition {
	kw := strings.ToLower(keyword)
	return &KeywordCondition{
		BaseCondition: BaseCondition{
			Name:        kw,
			Description: fmt.Sprintf("%s 包含关键词 %q", field, kw),
			Field:       field,
		},
		Keyword: kw,
	}
}

func (c *KeywordCondition) Evaluate(context *EvaluationContext) bool {
	if context == nil || c.Keyword == "" {
		return false
	}
	for _, text := range context.Texts(c.Field) {
		if strings.Contains(text, c.Keyword) {
			return true
		}
	}
	return false
}

// ScoreCondition 风险分阈值条件
type ScoreCondition struct {
	BaseCondition
	Threshold float64
}

func (c *ScoreCondition) Evaluate(context *EvaluationContext) bool {
	if context == nil {
		return false
	}
	return c.CompareFloat64(context.Score, c.Threshold)
}

// ConditionFactory 条件工厂，支持从配置创建条件
type ConditionFactory struct{}

func NewConditionFactory() *ConditionFactory {
	return &ConditionFactory{}
}

func (f *ConditionFactory) CreateKeywordCondition(keyword, field string) Condition {
	return NewKeywordCondition(keyword, field)
}

func (f *ConditionFactory) CreateScoreCondition(name, desc, operator string, threshold float64) Condition {
	return &ScoreCondition{
		BaseCondition: BaseCondition{
			Name:        name,
			Description: desc,
			Operator:    operator,
		},
		Threshold: threshold,
	}
}
