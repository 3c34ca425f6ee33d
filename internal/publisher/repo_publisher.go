package publisher

import (
	"context"

	"github.com/ninja0404/token-risk/internal/model"
	"github.com/ninja0404/token-risk/internal/repo"
)

// RepoPublisher 报告落库
type RepoPublisher struct {
	reports repo.RiskReportRepo
}

func NewRepoPublisher(reports repo.RiskReportRepo) *RepoPublisher {
	return &RepoPublisher{reports: reports}
}

func (p *RepoPublisher) GetType() string {
	return "repo"
}

func (p *RepoPublisher) Publish(ctx context.Context, report *model.RiskReport) error {
	return p.reports.Save(ctx, report)
}

func (p *RepoPublisher) Close() error {
	return nil
}
