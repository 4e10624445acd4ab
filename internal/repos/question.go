package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/formsmith/formsmith-backend/internal/logger"
	"github.com/formsmith/formsmith-backend/internal/types"
)

type QuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, question *types.Question) (*types.Question, error)
	GetByFormID(ctx context.Context, tx *gorm.DB, formID uint) ([]*types.Question, error)
	CountByFormID(ctx context.Context, tx *gorm.DB, formID uint) (int64, error)
	DeleteByFormID(ctx context.Context, tx *gorm.DB, formID uint) error
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	repoLog := baseLog.With("repo", "QuestionRepo")
	return &questionRepo{db: db, log: repoLog}
}

func (r *questionRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create inserts a single question. Questions are inserted one at a time in
// document order so the autoincrement IDs encode display order.
func (r *questionRepo) Create(ctx context.Context, tx *gorm.DB, question *types.Question) (*types.Question, error) {
	if err := r.handle(tx).WithContext(ctx).Create(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

func (r *questionRepo) GetByFormID(ctx context.Context, tx *gorm.DB, formID uint) ([]*types.Question, error) {
	var results []*types.Question
	if err := r.handle(tx).WithContext(ctx).
		Where("form_id = ?", formID).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *questionRepo) CountByFormID(ctx context.Context, tx *gorm.DB, formID uint) (int64, error) {
	var count int64
	if err := r.handle(tx).WithContext(ctx).
		Model(&types.Question{}).
		Where("form_id = ?", formID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *questionRepo) DeleteByFormID(ctx context.Context, tx *gorm.DB, formID uint) error {
	return r.handle(tx).WithContext(ctx).
		Where("form_id = ?", formID).
		Delete(&types.Question{}).Error
}
