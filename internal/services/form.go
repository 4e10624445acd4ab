package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/formsmith/formsmith-backend/internal/logger"
	"github.com/formsmith/formsmith-backend/internal/repos"
	"github.com/formsmith/formsmith-backend/internal/types"
)

var (
	// ErrPersistenceFailed wraps any database error during a multi-row
	// write. The transaction has already rolled back when it is returned.
	ErrPersistenceFailed = errors.New("failed to persist form data")
	ErrFormNotFound      = errors.New("form not found")
	ErrFormForbidden     = errors.New("form belongs to another user")
)

// FormService owns every write against the form tables. A validated
// document goes in, relational rows come out; each multi-row operation is
// one transaction, so an external observer never sees a form with a subset
// of its questions.
type FormService interface {
	CreateFromDocument(ctx context.Context, userID *string, userPrompt string, doc *types.FormDocument) (string, error)
	AppendQuestions(ctx context.Context, formInternalID uint, questions []types.QuestionDocument) ([]*types.Question, error)
	Publish(ctx context.Context, formID string, userID *string) error
	Remove(ctx context.Context, formID string, userID *string) error
	GetByFormID(ctx context.Context, formID string) (*types.Form, error)
	ListByUser(ctx context.Context, userID string) ([]*types.Form, error)
	CountQuestions(ctx context.Context, formInternalID uint) (int64, error)
}

type formService struct {
	db           *gorm.DB
	log          *logger.Logger
	formRepo     repos.FormRepo
	questionRepo repos.QuestionRepo
	optionRepo   repos.FieldOptionRepo
}

func NewFormService(db *gorm.DB, log *logger.Logger, formRepo repos.FormRepo, questionRepo repos.QuestionRepo, optionRepo repos.FieldOptionRepo) FormService {
	return &formService{
		db:           db,
		log:          log.With("service", "FormService"),
		formRepo:     formRepo,
		questionRepo: questionRepo,
		optionRepo:   optionRepo,
	}
}

// CreateFromDocument maps a validated document onto the three tables inside
// one transaction: the form row first, then each question in document order
// followed by its options. Any failure rolls the whole call back and no row
// from it is visible afterwards. Returns the external form identifier.
func (s *formService) CreateFromDocument(ctx context.Context, userID *string, userPrompt string, doc *types.FormDocument) (string, error) {
	form := &types.Form{
		FormID:      uuid.New(),
		Name:        doc.Name,
		Description: doc.Description,
		UserPrompt:  userPrompt,
		UserID:      userID,
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.formRepo.Create(ctx, tx, form); err != nil {
			return err
		}
		for _, qd := range doc.Questions {
			if err := s.insertQuestion(ctx, tx, form.ID, qd); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		s.log.Error("CreateFromDocument transaction failed", "error", txErr)
		return "", fmt.Errorf("%w: %v", ErrPersistenceFailed, txErr)
	}

	s.log.Info("Form created", "form_id", form.FormID.String(), "questions", len(doc.Questions))
	return form.FormID.String(), nil
}

// AppendQuestions adds questions to an existing form. Each question with
// its options is inserted atomically in its own transaction, so a failure
// partway through a batch never leaves a question without its options;
// questions appended before the failure remain, which is the additive
// contract augmentation relies on.
func (s *formService) AppendQuestions(ctx context.Context, formInternalID uint, questions []types.QuestionDocument) ([]*types.Question, error) {
	if _, err := s.formRepo.GetByID(ctx, nil, formInternalID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	created := make([]*types.Question, 0, len(questions))
	for _, qd := range questions {
		var inserted *types.Question
		txErr := s.db.Transaction(func(tx *gorm.DB) error {
			q, err := s.insertQuestionReturning(ctx, tx, formInternalID, qd)
			if err != nil {
				return err
			}
			inserted = q
			return nil
		})
		if txErr != nil {
			s.log.Error("AppendQuestions transaction failed", "form_internal_id", formInternalID, "error", txErr)
			return created, fmt.Errorf("%w: %v", ErrPersistenceFailed, txErr)
		}
		created = append(created, inserted)
	}
	return created, nil
}

func (s *formService) insertQuestion(ctx context.Context, tx *gorm.DB, formID uint, qd types.QuestionDocument) error {
	_, err := s.insertQuestionReturning(ctx, tx, formID, qd)
	return err
}

func (s *formService) insertQuestionReturning(ctx context.Context, tx *gorm.DB, formID uint, qd types.QuestionDocument) (*types.Question, error) {
	question := &types.Question{
		FormID:    formID,
		Text:      qd.Text,
		FieldType: qd.FieldType,
	}
	if _, err := s.questionRepo.Create(ctx, tx, question); err != nil {
		return nil, err
	}
	if len(qd.FieldOptions) > 0 {
		options := make([]*types.FieldOption, 0, len(qd.FieldOptions))
		for _, od := range qd.FieldOptions {
			options = append(options, &types.FieldOption{
				QuestionID: question.ID,
				Text:       od.Text,
				Value:      od.Value,
			})
		}
		if _, err := s.optionRepo.Create(ctx, tx, options); err != nil {
			return nil, err
		}
		question.FieldOptions = make([]types.FieldOption, 0, len(options))
		for _, o := range options {
			question.FieldOptions = append(question.FieldOptions, *o)
		}
	}
	return question, nil
}

// Publish flips the published flag. Owned forms can only be published by
// their owner. Idempotent: publishing an already published form is a no-op.
func (s *formService) Publish(ctx context.Context, formID string, userID *string) error {
	id, err := uuid.Parse(formID)
	if err != nil {
		return ErrFormNotFound
	}
	form, err := s.formRepo.GetByFormID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFormNotFound
		}
		return fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	if form.UserID != nil && (userID == nil || *form.UserID != *userID) {
		return ErrFormForbidden
	}
	if err := s.formRepo.SetPublished(ctx, nil, id, true); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	return nil
}

// Remove deletes the form and its whole tree. Deletes run options →
// questions → form inside one transaction, independent of whether the
// backing store honors the FK cascade.
func (s *formService) Remove(ctx context.Context, formID string, userID *string) error {
	id, err := uuid.Parse(formID)
	if err != nil {
		return ErrFormNotFound
	}
	form, err := s.formRepo.GetByFormID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFormNotFound
		}
		return fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	if form.UserID != nil && (userID == nil || *form.UserID != *userID) {
		return ErrFormForbidden
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		questions, err := s.questionRepo.GetByFormID(ctx, tx, form.ID)
		if err != nil {
			return err
		}
		questionIDs := make([]uint, 0, len(questions))
		for _, q := range questions {
			questionIDs = append(questionIDs, q.ID)
		}
		if err := s.optionRepo.DeleteByQuestionIDs(ctx, tx, questionIDs); err != nil {
			return err
		}
		if err := s.questionRepo.DeleteByFormID(ctx, tx, form.ID); err != nil {
			return err
		}
		return s.formRepo.DeleteByID(ctx, tx, form.ID)
	})
	if txErr != nil {
		s.log.Error("Remove transaction failed", "form_id", formID, "error", txErr)
		return fmt.Errorf("%w: %v", ErrPersistenceFailed, txErr)
	}
	s.log.Info("Form removed", "form_id", formID)
	return nil
}

func (s *formService) GetByFormID(ctx context.Context, formID string) (*types.Form, error) {
	id, err := uuid.Parse(formID)
	if err != nil {
		return nil, ErrFormNotFound
	}
	form, err := s.formRepo.GetTreeByFormID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	return form, nil
}

func (s *formService) ListByUser(ctx context.Context, userID string) ([]*types.Form, error) {
	forms, err := s.formRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	return forms, nil
}

func (s *formService) CountQuestions(ctx context.Context, formInternalID uint) (int64, error) {
	count, err := s.questionRepo.CountByFormID(ctx, nil, formInternalID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	return count, nil
}
