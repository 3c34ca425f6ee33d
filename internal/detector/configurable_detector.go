package detector

import (
	"fmt"

	"github.com/ninja0404/token-risk/internal/detector/condition"
	"github.com/ninja0404/token-risk/pkg/logger"
)

// ConfigurableDetector 可配置的检测器
type ConfigurableDetector struct {
	Name        string
	Description string
	Condition   condition.Condition
	Penalty     float64
}

func (d *ConfigurableDetector) GetName() string {
	return d.Name
}

func (d *ConfigurableDetector) Detect(context *condition.EvaluationContext) *Hit {
	if d.Condition == nil || !d.Condition.Evaluate(context) {
		return nil
	}

	hit := &Hit{Detector: d.Name, Penalty: d.Penalty}
	if composite, ok := d.Condition.(*condition.CompositeCondition); ok && composite.Operator == condition.OR {
		hit.Matched = composite.Matched(context)
	} else {
		hit.Matched = []string{d.Condition.GetName()}
	}

	logger.Debug("🚨 检测器条件满足",
		logger.String("detector", d.Name),
		logger.String("condition", d.Condition.GetName()),
		logger.Strings("matched", hit.Matched))
	return hit
}

// DetectorBuilder 检测器建造者
type DetectorBuilder struct {
	detector *ConfigurableDetector
}

func NewDetectorBuilder() *DetectorBuilder {
	return &DetectorBuilder{detector: &ConfigurableDetector{}}
}

func (b *DetectorBuilder) Name(name string) *DetectorBuilder {
	b.detector.Name = name
	return b
}

func (b *DetectorBuilder) Description(desc string) *DetectorBuilder {
	b.detector.Description = desc
	return b
}

func (b *DetectorBuilder) Penalty(penalty float64) *DetectorBuilder {
	b.detector.Penalty = penalty
	return b
}

func (b *DetectorBuilder) WithCondition(cond condition.Condition) *DetectorBuilder {
	b.detector.Condition = cond
	return b
}

func (b *DetectorBuilder) Build() Detector {
	return b.detector
}

// DetectorRegistry 检测器注册表
type DetectorRegistry struct {
	factories map[string]func() Detector
}

func NewDetectorRegistry() *DetectorRegistry {
	r := &DetectorRegistry{factories: make(map[string]func() Detector)}
	r.Register(RiskTriggerName, NewRiskTriggerDetector)
	return r
}

func (r *DetectorRegistry) Register(name string, factory func() Detector) {
	r.factories[name] = factory
}

func (r *DetectorRegistry) Create(name string) (Detector, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("detector not found: %s", name)
	}
	return factory(), nil
}
