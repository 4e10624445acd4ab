package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/formsmith/formsmith-backend/internal/logger"
	"github.com/formsmith/formsmith-backend/internal/types"
)

type FieldOptionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, options []*types.FieldOption) ([]*types.FieldOption, error)
	GetByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uint) ([]*types.FieldOption, error)
	DeleteByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uint) error
}

type fieldOptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFieldOptionRepo(db *gorm.DB, baseLog *logger.Logger) FieldOptionRepo {
	repoLog := baseLog.With("repo", "FieldOptionRepo")
	return &fieldOptionRepo{db: db, log: repoLog}
}

func (r *fieldOptionRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *fieldOptionRepo) Create(ctx context.Context, tx *gorm.DB, options []*types.FieldOption) ([]*types.FieldOption, error) {
	if len(options) == 0 {
		return []*types.FieldOption{}, nil
	}
	if err := r.handle(tx).WithContext(ctx).Create(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *fieldOptionRepo) GetByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uint) ([]*types.FieldOption, error) {
	var results []*types.FieldOption
	if len(questionIDs) == 0 {
		return results, nil
	}
	if err := r.handle(tx).WithContext(ctx).
		Where("question_id IN ?", questionIDs).
		Order("question_id, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *fieldOptionRepo) DeleteByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uint) error {
	if len(questionIDs) == 0 {
		return nil
	}
	return r.handle(tx).WithContext(ctx).
		Where("question_id IN ?", questionIDs).
		Delete(&types.FieldOption{}).Error
}
