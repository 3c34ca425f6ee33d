package model

import (
	"encoding/json"
	"time"
)

const TableNameRiskReport = "risk_report"

// RiskReportRow 风险报告表
type RiskReportRow struct {
	ID             string     `gorm:"column:id;type:varchar(26);primaryKey;comment:ULID" json:"id"`
	Contract       string     `gorm:"column:contract;type:varchar(128);not null;index:idx_contract_analyzed,priority:1;comment:合约地址" json:"contract"`
	RiskScore      float64    `gorm:"column:risk_score;type:decimal(5,2);not null;comment:风险分" json:"risk_score"`
	Action         string     `gorm:"column:action;type:varchar(16);not null;comment:建议动作" json:"action"`
	Reasons        string     `gorm:"column:reasons;type:json;not null;comment:各项信号说明" json:"reasons"`
	Actionable     string     `gorm:"column:actionable;type:varchar(255);not null;default:'';comment:建议文案" json:"actionable"`
	SimilarScams   string     `gorm:"column:similar_scams;type:varchar(255);not null;default:'';comment:相似案例" json:"similar_scams"`
	PredictionKind string     `gorm:"column:prediction_kind;type:varchar(32);not null;comment:抛售预测类型" json:"prediction_kind"`
	AnalyzedAt     time.Time  `gorm:"column:analyzed_at;not null;index:idx_contract_analyzed,priority:2;comment:分析时间" json:"analyzed_at"`
	CreatedAt      *time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
}

// TableName RiskReportRow's table name
func (*RiskReportRow) TableName() string {
	return TableNameRiskReport
}

func (r *RiskReport) ToRow() (*RiskReportRow, error) {
	reasons, err := json.Marshal(r.Reasons)
	if err != nil {
		return nil, err
	}
	return &RiskReportRow{
		ID:             r.ID,
		Contract:       r.Contract,
		RiskScore:      r.RiskScore,
		Action:         string(r.Action),
		Reasons:        string(reasons),
		Actionable:     first(r.Actionable),
		SimilarScams:   first(r.SimilarScams),
		PredictionKind: string(r.PredictionKind),
		AnalyzedAt:     r.AnalyzedAt,
	}, nil
}

func (row *RiskReportRow) ToReport() (*RiskReport, error) {
	report := &RiskReport{
		ID: row.ID,
		RiskRecord: RiskRecord{
			Contract:     row.Contract,
			RiskScore:    row.RiskScore,
			Actionable:   one(row.Actionable),
			SimilarScams: one(row.SimilarScams),
		},
		Action:         Action(row.Action),
		PredictionKind: PredictionKind(row.PredictionKind),
		AnalyzedAt:     row.AnalyzedAt,
	}
	if err := json.Unmarshal([]byte(row.Reasons), &report.Reasons); err != nil {
		return nil, err
	}
	return report, nil
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func one(s string) []string {
	if s == "" {
		return []string{}
	}
	return []string{s}
}
