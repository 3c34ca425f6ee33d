package publisher

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ninja0404/token-risk/internal/detector"
	"github.com/ninja0404/token-risk/internal/detector/condition"
	"github.com/ninja0404/token-risk/internal/model"
	"github.com/ninja0404/token-risk/pkg/logger"
	"github.com/ninja0404/token-risk/pkg/utils"
)

const (
	DefaultAlertThreshold = 85.0
	DefaultAlertCooldown  = time.Hour
)

// Notifier 发送文本消息
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// FeishuPublisher 高风险告警，同一合约冷却期内只发送一次
type FeishuPublisher struct {
	notifier Notifier
	alert    detector.Detector
	cooldown time.Duration
	now      func() time.Time

	sent  map[string]time.Time
	mutex sync.Mutex
}

func NewFeishuPublisher(notifier Notifier, threshold float64, cooldown time.Duration) *FeishuPublisher {
	if threshold <= 0 {
		threshold = DefaultAlertThreshold
	}
	if cooldown <= 0 {
		cooldown = DefaultAlertCooldown
	}
	return &FeishuPublisher{
		notifier: notifier,
		alert:    detector.NewAlertDetector(threshold),
		cooldown: cooldown,
		now:      time.Now,
		sent:     make(map[string]time.Time),
	}
}

func (p *FeishuPublisher) GetType() string {
	return "feishu"
}

func (p *FeishuPublisher) Publish(ctx context.Context, report *model.RiskReport) error {
	evalCtx := condition.NewEvaluationContext(report.Reasons.DevDump, report.Reasons.Liquidity, report.Reasons.Honeypot).
		WithScore(report.RiskScore)
	if p.alert.Detect(evalCtx) == nil {
		return nil
	}

	key := strings.ToLower(report.Contract)
	if !p.reserve(key) {
		logger.Debug("⏭️ 告警在冷却期内，跳过发送",
			logger.FieldContract(report.Contract),
			logger.String("cooldown", p.cooldown.String()))
		return nil
	}

	if err := p.notifier.Send(ctx, p.formatMessage(report)); err != nil {
		p.release(key)
		return err
	}

	logger.Info("✅ 飞书告警发送成功",
		logger.FieldContract(report.Contract),
		logger.FieldScore(report.RiskScore))
	return nil
}

// reserve 检查冷却并占位，顺便清理过期记录
func (p *FeishuPublisher) reserve(key string) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	now := p.now()
	for k, at := range p.sent {
		if now.Sub(at) >= p.cooldown {
			delete(p.sent, k)
		}
	}
	if _, exists := p.sent[key]; exists {
		return false
	}
	p.sent[key] = now
	return true
}

// release 发送失败时撤销占位，下次可以重试
func (p *FeishuPublisher) release(key string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	delete(p.sent, key)
}

func (p *FeishuPublisher) Close() error {
	return nil
}

// formatMessage 格式化告警消息
func (p *FeishuPublisher) formatMessage(report *model.RiskReport) string {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		loc = time.UTC
	}

	advice := ""
	if len(report.Actionable) > 0 {
		advice = report.Actionable[0]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🚨 高风险代币告警 %s\n", utils.GetDisplayWalletAddress(report.Contract))
	fmt.Fprintf(&b, "合约地址: %s\n", report.Contract)
	fmt.Fprintf(&b, "风险评分: %.2f\n", report.RiskScore)
	fmt.Fprintf(&b, "操作建议: %s\n", advice)
	fmt.Fprintf(&b, "开发者钱包: %s\n", report.Reasons.DevDump)
	fmt.Fprintf(&b, "流动性: %s\n", report.Reasons.Liquidity)
	fmt.Fprintf(&b, "貔貅检测: %s\n", report.Reasons.Honeypot)
	fmt.Fprintf(&b, "抛售预测: %s\n", report.Reasons.Prediction)
	fmt.Fprintf(&b, "报告ID: %s\n", report.ID)
	fmt.Fprintf(&b, "分析时间: %s", report.AnalyzedAt.In(loc).Format("2006-01-02 15:04:05"))
	return b.String()
}
