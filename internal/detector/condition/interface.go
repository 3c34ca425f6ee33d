package condition

import "strings"

// Condition 检测条件接口
type Condition interface {
	// Evaluate 评估条件是否满足
	Evaluate(context *EvaluationContext) bool

	// GetName 获取条件名称
	GetName() string

	// GetDescription 获取条件描述
	GetDescription() string
}

// 信号字段
const (
	FieldDevDump   = "dev_dump"
	FieldLiquidity = "liquidity"
	FieldHoneypot  = "honeypot"
	// FieldAny 任意一个可扫描的信号
	FieldAny = "*"
)

// EvaluationContext 评估上下文，信号文本在构造时统一转为小写
type EvaluationContext struct {
	signals map[string]string
	Score   float64
}

func NewEvaluationContext(devDump, liquidity, honeypot string) *EvaluationContext {
	return &EvaluationContext{
		signals: map[string]string{
			FieldDevDump:   strings.ToLower(devDump),
			FieldLiquidity: strings.ToLower(liquidity),
			FieldHoneypot:  strings.ToLower(honeypot),
		},
	}
}

// WithScore 附带分数，供分数类条件使用
func (c *EvaluationContext) WithScore(score float64) *EvaluationContext {
	c.Score = score
	return c
}

// Texts 返回指定字段的小写文本，FieldAny 返回全部
func (c *EvaluationContext) Texts(field string) []string {
	if field == FieldAny {
		return []string{c.signals[FieldDevDump], c.signals[FieldLiquidity], c.signals[FieldHoneypot]}
	}
	if text, ok := c.signals[field]; ok {
		return []string{text}
	}
	return nil
}

// LogicalOperator 逻辑操作符
type LogicalOperator string

const (
	AND LogicalOperator = "AND"
	OR  LogicalOperator = "OR"
	NOT LogicalOperator = "NOT"
)

// CompositeCondition 复合条件，支持AND/OR/NOT逻辑组合
type CompositeCondition struct {
	Name        string
	Description string
	Operator    LogicalOperator
	Conditions  []Condition
}

func (c *CompositeCondition) Evaluate(context *EvaluationContext) bool {
	switch c.Operator {
	case AND:
		for _, condition := range c.Conditions {
			if !condition.Evaluate(context) {
				return false
			}
		}
		return len(c.Conditions) > 0

	case OR:
		for _, condition := range c.Conditions {
			if condition.Evaluate(context) {
				return true
			}
		}
		return false

	case NOT:
		if len(c.Conditions) != 1 {
			return false
		}
		return !c.Conditions[0].Evaluate(context)

	default:
		return false
	}
}

func (c *CompositeCondition) GetName() string {
	return c.Name
}

func (c *CompositeCondition) GetDescription() string {
	return c.Description
}

// Matched 返回命中的子条件名称，OR 组合下用于日志
func (c *CompositeCondition) Matched(context *EvaluationContext) []string {
	names := make([]string, 0)
	for _, condition := range c.Conditions {
		if condition.Evaluate(context) {
			names = append(names, condition.GetName())
		}
	}
	return names
}

// Builder 条件建造者，支持链式调用
type Builder struct {
	conditions []Condition
	operator   LogicalOperator
	name       string
	desc       string
}

func NewBuilder() *Builder {
	return &Builder{
		conditions: make([]Condition, 0),
		operator:   AND,
	}
}

func (b *Builder) Name(name string) *Builder {
	b.name = name
	return b
}

func (b *Builder) Description(desc string) *Builder {
	b.desc = desc
	return b
}

func (b *Builder) And(condition Condition) *Builder {
	b.operator = AND
	b.conditions = append(b.conditions, condition)
	return b
}

func (b *Builder) Or(condition Condition) *Builder {
	b.operator = OR
	b.conditions = append(b.conditions, condition)
	return b
}

func (b *Builder) Not(condition Condition) *Builder {
	b.operator = NOT
	b.conditions = []Condition{condition}
	return b
}

// Keywords 以 OR 方式追加一组关键词条件
func (b *Builder) Keywords(field string, keywords ...string) *Builder {
	factory := NewConditionFactory()
	for _, kw := range keywords {
		b.Or(factory.CreateKeywordCondition(kw, field))
	}
	return b
}

func (b *Builder) Build() Condition {
	if len(b.conditions) == 1 && b.operator == AND {
		return b.conditions[0]
	}

	return &CompositeCondition{
		Name:        b.name,
		Description: b.desc,
		Operator:    b.operator,
		Conditions:  b.conditions,
	}
}
