package repo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ninja0404/token-risk/internal/model"
)

type WatchTokenRepo interface {
	// ListDue 查询启用中且上次扫描早于 before(或从未扫描)的代币
	ListDue(ctx context.Context, before time.Time, limit int) ([]*model.WatchToken, error)

	// MarkScanned 更新扫描时间
	MarkScanned(ctx context.Context, contracts []string, at time.Time) error

	// Upsert 加入观察列表，已存在时重新启用
	Upsert(ctx context.Context, contract string) error
}

type watchTokenRepoImpl struct {
	db *gorm.DB
}

func NewWatchTokenRepo(db *gorm.DB) WatchTokenRepo {
	return &watchTokenRepoImpl{
		db: db,
	}
}

func (r *watchTokenRepoImpl) ListDue(ctx context.Context, before time.Time, limit int) ([]*model.WatchToken, error) {
	var tokens []*model.WatchToken
	if err := listDueQuery(r.db.WithContext(ctx), before, limit).Find(&tokens).Error; err != nil {
		return nil, errors.Wrap(err, "list due watch tokens")
	}
	return tokens, nil
}

func listDueQuery(db *gorm.DB, before time.Time, limit int) *gorm.DB {
	return db.Model(&model.WatchToken{}).
		Where("enabled = ?", true).
		Where("last_scanned_at IS NULL OR last_scanned_at < ?", before).
		Order("last_scanned_at ASC").
		Limit(limit)
}

func (r *watchTokenRepoImpl) MarkScanned(ctx context.Context, contracts []string, at time.Time) error {
	if len(contracts) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&model.WatchToken{}).
		Where("contract IN ?", contracts).
		Update("last_scanned_at", at).Error
	return errors.Wrap(err, "mark watch tokens scanned")
}

func (r *watchTokenRepoImpl) Upsert(ctx context.Context, contract string) error {
	token := &model.WatchToken{Contract: contract, Enabled: true}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "contract"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"enabled": true}),
		}).
		Create(token).Error
	return errors.Wrapf(err, "upsert watch token %s", contract)
}
