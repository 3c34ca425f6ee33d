package model

import "time"

// Reasons 各项信号的可读说明
type Reasons struct {
	DevDump    string `json:"dev_dump"`
	Liquidity  string `json:"liquidity"`
	Honeypot   string `json:"honeypot"`
	Social     string `json:"social"`
	Whale      string `json:"whale"`
	Prediction string `json:"prediction"`
}

// RiskRecord 单次分析结果，risk_score 始终在 [0, 100]
type RiskRecord struct {
	Contract     string   `json:"contract"`
	RiskScore    float64  `json:"risk_score"`
	Reasons      Reasons  `json:"reasons"`
	Actionable   []string `json:"actionable"`
	SimilarScams []string `json:"similar_scams"`
}

type Action string

const (
	ActionAvoid   Action = "avoid"
	ActionCaution Action = "caution"
	ActionClear   Action = "clear"
)

// RiskReport 发往发布器和落库的报告
type RiskReport struct {
	ID string `json:"id"`
	RiskRecord
	Action         Action         `json:"action"`
	PredictionKind PredictionKind `json:"prediction_kind"`
	AnalyzedAt     time.Time      `json:"analyzed_at"`
}
