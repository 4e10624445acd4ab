package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/formsmith/formsmith-backend/internal/logger"
	"github.com/formsmith/formsmith-backend/internal/types"
)

type FormRepo interface {
	Create(ctx context.Context, tx *gorm.DB, form *types.Form) (*types.Form, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Form, error)
	GetByFormID(ctx context.Context, tx *gorm.DB, formID uuid.UUID) (*types.Form, error)
	GetTreeByFormID(ctx context.Context, tx *gorm.DB, formID uuid.UUID) (*types.Form, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID string) ([]*types.Form, error)
	SetPublished(ctx context.Context, tx *gorm.DB, formID uuid.UUID, published bool) error
	DeleteByID(ctx context.Context, tx *gorm.DB, id uint) error
}

type formRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFormRepo(db *gorm.DB, baseLog *logger.Logger) FormRepo {
	repoLog := baseLog.With("repo", "FormRepo")
	return &formRepo{db: db, log: repoLog}
}

func (r *formRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *formRepo) Create(ctx context.Context, tx *gorm.DB, form *types.Form) (*types.Form, error) {
	if err := r.handle(tx).WithContext(ctx).Create(form).Error; err != nil {
		return nil, err
	}
	return form, nil
}

func (r *formRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Form, error) {
	var form types.Form
	if err := r.handle(tx).WithContext(ctx).First(&form, id).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepo) GetByFormID(ctx context.Context, tx *gorm.DB, formID uuid.UUID) (*types.Form, error) {
	var form types.Form
	if err := r.handle(tx).WithContext(ctx).
		Where("form_id = ?", formID).
		First(&form).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

// GetTreeByFormID loads the form with its questions in insertion order and
// each question's options.
func (r *formRepo) GetTreeByFormID(ctx context.Context, tx *gorm.DB, formID uuid.UUID) (*types.Form, error) {
	var form types.Form
	if err := r.handle(tx).WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("question.id ASC")
		}).
		Preload("Questions.FieldOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("field_option.id ASC")
		}).
		Where("form_id = ?", formID).
		First(&form).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID string) ([]*types.Form, error) {
	var forms []*types.Form
	if err := r.handle(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

func (r *formRepo) SetPublished(ctx context.Context, tx *gorm.DB, formID uuid.UUID, published bool) error {
	return r.handle(tx).WithContext(ctx).
		Model(&types.Form{}).
		Where("form_id = ?", formID).
		Update("published", published).Error
}

func (r *formRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uint) error {
	return r.handle(tx).WithContext(ctx).
		Delete(&types.Form{}, id).Error
}
