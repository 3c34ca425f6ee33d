package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchResult(t *testing.T) {
	ok := Ok("Liquidity is stable.")
	assert.True(t, ok.IsOk())
	assert.Equal(t, "Liquidity is stable.", ok.Value())
	assert.Empty(t, ok.Reason())

	bad := Unavailable[string]("Could not retrieve LP data.")
	assert.False(t, bad.IsOk())
	assert.Empty(t, bad.Value())
	assert.Equal(t, "Could not retrieve LP data.", bad.Text(func(s string) string { return s }))
}

func TestDumpPredictionString(t *testing.T) {
	assert.Equal(t, "No pattern detected yet.", NoPattern().String())
	assert.True(t, DumpPrediction{}.IsNoPattern())
	assert.Contains(t, PeriodicEveryHours(1.0).String(), "every 1.0 hours")
	assert.Contains(t, ImminentWithinHour().String(), "within the hour")
}

func TestRiskReportRowRoundTrip(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	report := &RiskReport{
		ID: "01J0000000000000000000000",
		RiskRecord: RiskRecord{
			Contract:     "0xabc",
			RiskScore:    92.5,
			Reasons:      Reasons{DevDump: "d", Liquidity: "l", Honeypot: "h", Social: "s", Whale: "w", Prediction: "p"},
			Actionable:   []string{"DO NOT BUY this token!"},
			SimilarScams: []string{"x"},
		},
		Action:         ActionAvoid,
		PredictionKind: PredictionNoPattern,
		AnalyzedAt:     at,
	}

	row, err := report.ToRow()
	require.NoError(t, err)
	assert.Equal(t, "avoid", row.Action)
	assert.Equal(t, "DO NOT BUY this token!", row.Actionable)

	back, err := row.ToReport()
	require.NoError(t, err)
	assert.Equal(t, report, back)
}
