package repo

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ninja0404/token-risk/internal/model"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 200
)

type RiskReportRepo interface {
	// Save 保存一份风险报告
	Save(ctx context.Context, report *model.RiskReport) error

	// ListByContract 按分析时间倒序返回合约最近的报告
	ListByContract(ctx context.Context, contract string, limit int) ([]*model.RiskReport, error)
}

type riskReportRepoImpl struct {
	db *gorm.DB
}

func NewRiskReportRepo(db *gorm.DB) RiskReportRepo {
	return &riskReportRepoImpl{
		db: db,
	}
}

func (r *riskReportRepoImpl) Save(ctx context.Context, report *model.RiskReport) error {
	row, err := report.ToRow()
	if err != nil {
		return errors.Wrap(err, "encode risk report")
	}
	if err = r.db.WithContext(ctx).Create(row).Error; err != nil {
		return errors.Wrapf(err, "save risk report %s", report.ID)
	}
	return nil
}

func (r *riskReportRepoImpl) ListByContract(ctx context.Context, contract string, limit int) ([]*model.RiskReport, error) {
	var rows []*model.RiskReportRow
	if err := listByContractQuery(r.db.WithContext(ctx), contract, limit).Find(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "list risk reports of %s", contract)
	}

	reports := make([]*model.RiskReport, 0, len(rows))
	for _, row := range rows {
		report, err := row.ToReport()
		if err != nil {
			return nil, errors.Wrapf(err, "decode risk report %s", row.ID)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func listByContractQuery(db *gorm.DB, contract string, limit int) *gorm.DB {
	return db.Model(&model.RiskReportRow{}).
		Where("contract = ?", contract).
		Order("analyzed_at DESC").
		Limit(NormalizeLimit(limit))
}

// NormalizeLimit 非正数取默认值，超过上限截断
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
