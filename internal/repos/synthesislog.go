package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/formsmith/formsmith-backend/internal/logger"
	"github.com/formsmith/formsmith-backend/internal/types"
)

type SynthesisLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.SynthesisLog) (*types.SynthesisLog, error)
	ListByFormID(ctx context.Context, tx *gorm.DB, formID uint) ([]*types.SynthesisLog, error)
}

type synthesisLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSynthesisLogRepo(db *gorm.DB, baseLog *logger.Logger) SynthesisLogRepo {
	repoLog := baseLog.With("repo", "SynthesisLogRepo")
	return &synthesisLogRepo{db: db, log: repoLog}
}

func (r *synthesisLogRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *synthesisLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.SynthesisLog) (*types.SynthesisLog, error) {
	if err := r.handle(tx).WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *synthesisLogRepo) ListByFormID(ctx context.Context, tx *gorm.DB, formID uint) ([]*types.SynthesisLog, error) {
	var results []*types.SynthesisLog
	if err := r.handle(tx).WithContext(ctx).
		Where("form_id = ?", formID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
