// Package aggregator 汇总三个数据源和抛售预测，生成单次风险记录。
package aggregator

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ninja0404/token-risk/internal/detector"
	"github.com/ninja0404/token-risk/internal/detector/condition"
	"github.com/ninja0404/token-risk/internal/fetcher"
	"github.com/ninja0404/token-risk/internal/metrics"
	"github.com/ninja0404/token-risk/internal/model"
	"github.com/ninja0404/token-risk/internal/predictor"
	"github.com/ninja0404/token-risk/pkg/logger"
	"github.com/ninja0404/token-risk/pkg/utils"
)

// ErrInvalidRequest 未提供合约地址
var ErrInvalidRequest = errors.New("no contract address provided")

const (
	BaselineMin = 60.0
	BaselineMax = 99.0

	MinScore = 0.0
	MaxScore = 100.0

	// AvoidAbove 高于该分数建议不要买
	AvoidAbove = 85.0
	// CautionAbove 高于该分数建议谨慎
	CautionAbove = 70.0
)

// 建议文案
const (
	AdviceAvoid   = "DO NOT BUY this token!"
	AdviceCaution = "Proceed with caution: several risk signals are present, only trade what you can afford to lose."
	AdviceClear   = "No major red flags detected, but always do your own research."
)

// 占位信号，未接入真实数据源
const (
	SocialSignal = "Social Hype Spike: Sudden surge in chatter, a classic pump & dump signal."
	WhaleSignal  = "Whales Fleeing: Top 5 holders sold $2.1M in 24 hrs — price likely to crash."
)

const (
	NoPatternText = "No pattern detected yet."
	SimilarScam   = "Similar to Squid Game Token before collapse in 2021."
)

// RandSource 基础分的随机源
type RandSource interface {
	Float64() float64
}

// lockedRand math/rand.Rand 非并发安全，加锁后供多个请求共用
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// NewRandSource 以 seed 创建并发安全的随机源
func NewRandSource(seed int64) RandSource {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

type Aggregator struct {
	fetchers    fetcher.Set
	rand        RandSource
	triggerName string
	trigger     detector.Detector
	now         func() time.Time
}

type Option func(*Aggregator)

func WithRandSource(r RandSource) Option {
	return func(a *Aggregator) {
		if r != nil {
			a.rand = r
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithTrigger 指定注册表中的风险关键词检测器
func WithTrigger(name string) Option {
	return func(a *Aggregator) {
		a.triggerName = name
	}
}

func NewAggregator(fetchers fetcher.Set, opts ...Option) (*Aggregator, error) {
	a := &Aggregator{
		fetchers:    fetchers,
		rand:        NewRandSource(time.Now().UnixNano()),
		triggerName: detector.RiskTriggerName,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	trigger, err := detector.NewDetectorRegistry().Create(a.triggerName)
	if err != nil {
		return nil, errors.Wrap(err, "create trigger detector")
	}
	a.trigger = trigger
	return a, nil
}

// Analyze 并发请求三个数据源，转账历史返回后再做抛售预测
func (a *Aggregator) Analyze(ctx context.Context, address string) (*model.RiskRecord, error) {
	record, _, err := a.analyze(ctx, address)
	return record, err
}

// AnalyzeReport 在 Analyze 的基础上补充报告元数据
func (a *Aggregator) AnalyzeReport(ctx context.Context, address string) (*model.RiskReport, error) {
	record, prediction, err := a.analyze(ctx, address)
	if err != nil {
		return nil, err
	}
	return &model.RiskReport{
		ID:             utils.GenerateReportID(),
		RiskRecord:     *record,
		Action:         ActionFor(record.RiskScore),
		PredictionKind: prediction.Kind,
		AnalyzedAt:     a.now().UTC(),
	}, nil
}

func (a *Aggregator) analyze(ctx context.Context, address string) (*model.RiskRecord, model.DumpPrediction, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, model.DumpPrediction{}, ErrInvalidRequest
	}

	start := time.Now()
	log := logger.LogFromContext(ctx).With(logger.FieldContract(address))

	var (
		transfers  model.FetchResult[model.TransferHistory]
		liquidity  model.FetchResult[string]
		honeypot   model.FetchResult[string]
		prediction = model.NoPattern()
	)

	// fetcher 不返回 error，errgroup 只用来等待
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		transfers = a.fetchers.Transfers.Fetch(gctx, address)
		if transfers.IsOk() {
			prediction = predictor.Predict(transfers.Value().Events)
		}
		return nil
	})
	g.Go(func() error {
		liquidity = a.fetchers.Liquidity.Fetch(gctx, address)
		return nil
	})
	g.Go(func() error {
		honeypot = a.fetchers.Honeypot.Fetch(gctx, address)
		return nil
	})
	_ = g.Wait()

	reasons := model.Reasons{
		DevDump:    transfers.Text(func(h model.TransferHistory) string { return h.Summary }),
		Liquidity:  liquidity.Text(identity),
		Honeypot:   honeypot.Text(identity),
		Social:     SocialSignal,
		Whale:      WhaleSignal,
		Prediction: predictionText(prediction),
	}

	score := a.baseline()
	if hit := a.trigger.Detect(condition.NewEvaluationContext(reasons.DevDump, reasons.Liquidity, reasons.Honeypot)); hit != nil {
		score += hit.Penalty
		log.Debug("风险关键词命中", logger.Strings("matched", hit.Matched))
	}
	score = clamp(round2(score))

	record := &model.RiskRecord{
		Contract:     address,
		RiskScore:    score,
		Reasons:      reasons,
		Actionable:   []string{AdviceFor(score)},
		SimilarScams: []string{SimilarScam},
	}

	action := ActionFor(score)
	metrics.ObserveAnalysis(string(action), score)
	log.Info("📊 风险分析完成",
		logger.FieldScore(score),
		logger.String("action", string(action)),
		logger.String("prediction", string(prediction.Kind)),
		logger.FieldCost(time.Since(start)))

	return record, prediction, nil
}

// baseline [60, 99] 均匀分布，保留两位小数
func (a *Aggregator) baseline() float64 {
	return round2(BaselineMin + a.rand.Float64()*(BaselineMax-BaselineMin))
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func clamp(score float64) float64 {
	return math.Max(MinScore, math.Min(MaxScore, score))
}

// AdviceFor 按分数给出唯一一条建议
func AdviceFor(score float64) string {
	switch {
	case score > AvoidAbove:
		return AdviceAvoid
	case score > CautionAbove:
		return AdviceCaution
	default:
		return AdviceClear
	}
}

func ActionFor(score float64) model.Action {
	switch {
	case score > AvoidAbove:
		return model.ActionAvoid
	case score > CautionAbove:
		return model.ActionCaution
	default:
		return model.ActionClear
	}
}

func predictionText(p model.DumpPrediction) string {
	if p.IsNoPattern() {
		return NoPatternText
	}
	return p.String()
}

func identity(s string) string { return s }
