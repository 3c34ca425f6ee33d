package aggregator

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/token-risk/internal/detector"
	"github.com/ninja0404/token-risk/internal/fetcher"
	"github.com/ninja0404/token-risk/internal/model"
)

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

type stubTransfers struct {
	result model.FetchResult[model.TransferHistory]
	calls  atomic.Int32
}

func (s *stubTransfers) Fetch(_ context.Context, _ string) model.FetchResult[model.TransferHistory] {
	s.calls.Add(1)
	return s.result
}

type stubStatus struct {
	result model.FetchResult[string]
	calls  atomic.Int32
}

func (s *stubStatus) Fetch(_ context.Context, _ string) model.FetchResult[string] {
	s.calls.Add(1)
	return s.result
}

type stubs struct {
	transfers *stubTransfers
	liquidity *stubStatus
	honeypot  *stubStatus
}

func newStubs(transfers model.FetchResult[model.TransferHistory], liquidity, honeypot model.FetchResult[string]) *stubs {
	return &stubs{
		transfers: &stubTransfers{result: transfers},
		liquidity: &stubStatus{result: liquidity},
		honeypot:  &stubStatus{result: honeypot},
	}
}

func (s *stubs) set() fetcher.Set {
	return fetcher.Set{Transfers: s.transfers, Liquidity: s.liquidity, Honeypot: s.honeypot}
}

func noTransfers() model.FetchResult[model.TransferHistory] {
	return model.Ok(model.TransferHistory{Events: []model.TransferEvent{}, Summary: fetcher.NoTransferDataSummary})
}

func hourlyTransfers() model.FetchResult[model.TransferHistory] {
	return model.Ok(model.TransferHistory{
		Events: []model.TransferEvent{
			{Timestamp: 7200}, {Timestamp: 3600}, {Timestamp: 0},
		},
		Summary: "Devs Dumping: 3 tokens moved to untracked wallet.",
	})
}

const addr = "0x6982508145454ce325ddbe47a25d4ec3d2311933"

func newTestAggregator(t *testing.T, set fetcher.Set, opts ...Option) *Aggregator {
	t.Helper()
	a, err := NewAggregator(set, opts...)
	require.NoError(t, err)
	return a
}

func TestNewAggregatorUnknownTrigger(t *testing.T) {
	s := newStubs(noTransfers(), model.Ok(fetcher.LiquidityStable), model.Ok(fetcher.HoneypotClean))
	a, err := NewAggregator(s.set(), WithTrigger("no_such_detector"))
	require.Error(t, err)
	assert.Nil(t, a)
	assert.Contains(t, err.Error(), "no_such_detector")
}

func TestNewAggregatorUsesRegisteredTrigger(t *testing.T) {
	s := newStubs(noTransfers(), model.Ok(fetcher.LiquidityStable), model.Ok(fetcher.HoneypotClean))
	a := newTestAggregator(t, s.set())
	assert.Equal(t, detector.RiskTriggerName, a.trigger.GetName())
}

func TestAnalyzeHoneypotAddsPenalty(t *testing.T) {
	s := newStubs(noTransfers(), model.Ok(fetcher.LiquidityStable), model.Ok(fetcher.HoneypotDetected))
	a := newTestAggregator(t, s.set(), WithRandSource(fixedRand(0.5)))

	record, err := a.Analyze(context.Background(), addr)
	require.NoError(t, err)

	assert.Contains(t, record.Reasons.Honeypot, "Honeypot detected")
	assert.Equal(t, 86.5, record.RiskScore)
	assert.Equal(t, []string{AdviceAvoid}, record.Actionable)
}

func TestAnalyzeWithoutTriggers(t *testing.T) {
	s := newStubs(noTransfers(), model.Ok(fetcher.LiquidityStable), model.Ok("Clean contract."))
	a := newTestAggregator(t, s.set(), WithRandSource(fixedRand(0.5)))

	record, err := a.Analyze(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, 79.5, record.RiskScore)
	assert.Equal(t, []string{AdviceCaution}, record.Actionable)

	a = newTestAggregator(t, s.set(), WithRandSource(fixedRand(0)))
	record, err = a.Analyze(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, 60.0, record.RiskScore)
	assert.Equal(t, []string{AdviceClear}, record.Actionable)
}

func TestAnalyzeClampsScore(t *testing.T) {
	s := newStubs(noTransfers(), model.Ok(fetcher.LiquidityMissing), model.Ok(fetcher.HoneypotDetected))
	a := newTestAggregator(t, s.set(), WithRandSource(fixedRand(1)))

	record, err := a.Analyze(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, 100.0, record.RiskScore)
}

func TestAnalyzeAllUnavailable(t *testing.T) {
	s := newStubs(
		model.Unavailable[model.TransferHistory]("Error checking dev wallets: connection refused"),
		model.Unavailable[string](fetcher.LiquidityUnavailable),
		model.Unavailable[string]("Error checking honeypot: context deadline exceeded"),
	)
	a := newTestAggregator(t, s.set(), WithRandSource(fixedRand(0.2)))

	record, err := a.Analyze(context.Background(), addr)
	require.NoError(t, err)

	assert.Equal(t, addr, record.Contract)
	assert.Equal(t, "Error checking dev wallets: connection refused", record.Reasons.DevDump)
	assert.Equal(t, fetcher.LiquidityUnavailable, record.Reasons.Liquidity)
	assert.Equal(t, "Error checking honeypot: context deadline exceeded", record.Reasons.Honeypot)
	assert.Equal(t, SocialSignal, record.Reasons.Social)
	assert.Equal(t, WhaleSignal, record.Reasons.Whale)
	assert.Equal(t, NoPatternText, record.Reasons.Prediction)
	assert.Len(t, record.Actionable, 1)
	assert.Equal(t, []string{SimilarScam}, record.SimilarScams)
	assert.GreaterOrEqual(t, record.RiskScore, MinScore)
	assert.LessOrEqual(t, record.RiskScore, MaxScore)
}

func TestAnalyzeEmptyAddress(t *testing.T) {
	for _, address := range []string{"", "   "} {
		s := newStubs(noTransfers(), model.Ok(fetcher.LiquidityStable), model.Ok(fetcher.HoneypotClean))
		a := newTestAggregator(t, s.set())

		record, err := a.Analyze(context.Background(), address)
		require.ErrorIs(t, err, ErrInvalidRequest)
		assert.Nil(t, record)
		assert.Zero(t, s.transfers.calls.Load())
		assert.Zero(t, s.liquidity.calls.Load())
		assert.Zero(t, s.honeypot.calls.Load())
	}
}

func TestAnalyzePrediction(t *testing.T) {
	s := newStubs(hourlyTransfers(), model.Ok(fetcher.LiquidityStable), model.Ok(fetcher.HoneypotClean))
	a := newTestAggregator(t, s.set(), WithRandSource(fixedRand(0.5)))

	record, err := a.Analyze(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, model.PeriodicEveryHours(1.0).String(), record.Reasons.Prediction)

	twoEvents := model.Ok(model.TransferHistory{
		Events:  []model.TransferEvent{{Timestamp: 0}, {Timestamp: 60}},
		Summary: "Devs Dumping: 2 tokens moved to untracked wallet.",
	})
	s = newStubs(twoEvents, model.Ok(fetcher.LiquidityStable), model.Ok(fetcher.HoneypotClean))
	record, err = newTestAggregator(t, s.set(), WithRandSource(fixedRand(0.5))).Analyze(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, NoPatternText, record.Reasons.Prediction)
}

func TestAnalyzeDeterministicWithFixedRand(t *testing.T) {
	s := newStubs(hourlyTransfers(), model.Ok(fetcher.LiquidityStable), model.Ok(fetcher.HoneypotClean))
	a := newTestAggregator(t, s.set(), WithRandSource(fixedRand(0.37)))

	first, err := a.Analyze(context.Background(), addr)
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NotSame(t, first, second)
}

func TestAnalyzeScoreBounds(t *testing.T) {
	s := newStubs(noTransfers(), model.Ok(fetcher.LiquidityMissing), model.Ok(fetcher.HoneypotClean))
	a := newTestAggregator(t, s.set(), WithRandSource(NewRandSource(42)))

	for i := 0; i < 200; i++ {
		record, err := a.Analyze(context.Background(), addr)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, record.RiskScore, 67.0)
		assert.LessOrEqual(t, record.RiskScore, MaxScore)
	}
}

func TestAnalyzeReport(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newStubs(hourlyTransfers(), model.Ok(fetcher.LiquidityStable), model.Ok(fetcher.HoneypotDetected))
	a := newTestAggregator(t, s.set(), WithRandSource(fixedRand(0.5)), WithClock(func() time.Time { return at }))

	report, err := a.AnalyzeReport(context.Background(), addr)
	require.NoError(t, err)
	assert.Len(t, report.ID, 26)
	assert.Equal(t, model.ActionAvoid, report.Action)
	assert.Equal(t, model.PredictionPeriodic, report.PredictionKind)
	assert.Equal(t, at, report.AnalyzedAt)
	assert.Equal(t, addr, report.Contract)
}

func TestAdviceThresholds(t *testing.T) {
	assert.Equal(t, AdviceAvoid, AdviceFor(85.01))
	assert.Equal(t, AdviceCaution, AdviceFor(85))
	assert.Equal(t, AdviceCaution, AdviceFor(70.01))
	assert.Equal(t, AdviceClear, AdviceFor(70))
	assert.Equal(t, model.ActionClear, ActionFor(60))
}
