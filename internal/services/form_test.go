package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/formsmith/formsmith-backend/internal/repos"
	"github.com/formsmith/formsmith-backend/internal/repos/testutil"
	"github.com/formsmith/formsmith-backend/internal/types"
)

func newFormService(t *testing.T) (FormService, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewFormService(db, log,
		repos.NewFormRepo(db, log),
		repos.NewQuestionRepo(db, log),
		repos.NewFieldOptionRepo(db, log),
	)
	return svc, db
}

func feedbackDocument() *types.FormDocument {
	return &types.FormDocument{
		Name:        "Customer Feedback",
		Description: "Tell us how we did",
		Questions: []types.QuestionDocument{
			{
				Text:      "How satisfied are you?",
				FieldType: types.FieldTypeRadioGroup,
				FieldOptions: []types.OptionDocument{
					{Text: "Very satisfied", Value: "very"},
					{Text: "Not satisfied", Value: "not"},
				},
			},
			{Text: "Your email", FieldType: types.FieldTypeInput, FieldOptions: []types.OptionDocument{}},
			{Text: "Anything else?", FieldType: types.FieldTypeTextarea, FieldOptions: []types.OptionDocument{}},
		},
	}
}

func TestCreateFromDocumentRoundTrip(t *testing.T) {
	svc, _ := newFormService(t)
	ctx := context.Background()
	userID := "user-1"

	formID, err := svc.CreateFromDocument(ctx, &userID, "a feedback form", feedbackDocument())
	if err != nil {
		t.Fatalf("CreateFromDocument: %v", err)
	}
	if _, err := uuid.Parse(formID); err != nil {
		t.Fatalf("returned form id is not a uuid: %q", formID)
	}

	form, err := svc.GetByFormID(ctx, formID)
	if err != nil {
		t.Fatalf("GetByFormID: %v", err)
	}
	if form.Name != "Customer Feedback" || form.UserPrompt != "a feedback form" {
		t.Fatalf("unexpected form: %+v", form)
	}
	if form.UserID == nil || *form.UserID != userID {
		t.Fatalf("unexpected owner: %v", form.UserID)
	}
	if form.Published {
		t.Fatal("new form must not be published")
	}

	if len(form.Questions) != 3 {
		t.Fatalf("want 3 questions, got %d", len(form.Questions))
	}
	wantOrder := []string{"How satisfied are you?", "Your email", "Anything else?"}
	for i, q := range form.Questions {
		if q.Text != wantOrder[i] {
			t.Fatalf("question %d: want %q, got %q", i, wantOrder[i], q.Text)
		}
	}
	if len(form.Questions[0].FieldOptions) != 2 {
		t.Fatalf("want 2 options on first question, got %d", len(form.Questions[0].FieldOptions))
	}
	if form.Questions[0].FieldOptions[0].Text != "Very satisfied" {
		t.Fatalf("option order lost: %+v", form.Questions[0].FieldOptions)
	}
	if len(form.Questions[1].FieldOptions) != 0 {
		t.Fatalf("input question must have no options, got %d", len(form.Questions[1].FieldOptions))
	}
}

func TestCreateFromDocumentRollsBackOnFailure(t *testing.T) {
	svc, db := newFormService(t)
	ctx := context.Background()

	// Make the option insert fail mid-transaction.
	if err := db.Migrator().DropTable(&types.FieldOption{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	_, err := svc.CreateFromDocument(ctx, nil, "prompt", feedbackDocument())
	if !errors.Is(err, ErrPersistenceFailed) {
		t.Fatalf("want ErrPersistenceFailed, got %v", err)
	}

	var formCount, questionCount int64
	if err := db.Model(&types.Form{}).Count(&formCount).Error; err != nil {
		t.Fatalf("count forms: %v", err)
	}
	if err := db.Model(&types.Question{}).Count(&questionCount).Error; err != nil {
		t.Fatalf("count questions: %v", err)
	}
	if formCount != 0 || questionCount != 0 {
		t.Fatalf("partial write visible after rollback: forms=%d questions=%d", formCount, questionCount)
	}
}

func TestAppendQuestions(t *testing.T) {
	svc, _ := newFormService(t)
	ctx := context.Background()

	formID, err := svc.CreateFromDocument(ctx, nil, "prompt", feedbackDocument())
	if err != nil {
		t.Fatalf("CreateFromDocument: %v", err)
	}
	form, err := svc.GetByFormID(ctx, formID)
	if err != nil {
		t.Fatalf("GetByFormID: %v", err)
	}

	created, err := svc.AppendQuestions(ctx, form.ID, []types.QuestionDocument{
		{
			Text:      "Pick a plan",
			FieldType: types.FieldTypeSelect,
			FieldOptions: []types.OptionDocument{
				{Text: "Free", Value: "free"},
				{Text: "Pro", Value: "pro"},
			},
		},
	})
	if err != nil {
		t.Fatalf("AppendQuestions: %v", err)
	}
	if len(created) != 1 || len(created[0].FieldOptions) != 2 {
		t.Fatalf("unexpected created questions: %+v", created)
	}

	form, err = svc.GetByFormID(ctx, formID)
	if err != nil {
		t.Fatalf("GetByFormID after append: %v", err)
	}
	if len(form.Questions) != 4 {
		t.Fatalf("want 4 questions after append, got %d", len(form.Questions))
	}
	if last := form.Questions[len(form.Questions)-1]; last.Text != "Pick a plan" {
		t.Fatalf("appended question not last: %+v", last)
	}

	count, err := svc.CountQuestions(ctx, form.ID)
	if err != nil {
		t.Fatalf("CountQuestions: %v", err)
	}
	if count != 4 {
		t.Fatalf("want count 4, got %d", count)
	}
}

func TestAppendQuestionsUnknownForm(t *testing.T) {
	svc, _ := newFormService(t)
	_, err := svc.AppendQuestions(context.Background(), 9999, []types.QuestionDocument{{Text: "q", FieldType: types.FieldTypeInput}})
	if !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("want ErrFormNotFound, got %v", err)
	}
}

func TestPublish(t *testing.T) {
	svc, _ := newFormService(t)
	ctx := context.Background()
	owner := "user-1"
	other := "user-2"

	formID, err := svc.CreateFromDocument(ctx, &owner, "prompt", feedbackDocument())
	if err != nil {
		t.Fatalf("CreateFromDocument: %v", err)
	}

	if err := svc.Publish(ctx, formID, &other); !errors.Is(err, ErrFormForbidden) {
		t.Fatalf("want ErrFormForbidden for other user, got %v", err)
	}
	if err := svc.Publish(ctx, formID, &owner); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	// Idempotent.
	if err := svc.Publish(ctx, formID, &owner); err != nil {
		t.Fatalf("second Publish: %v", err)
	}

	form, err := svc.GetByFormID(ctx, formID)
	if err != nil {
		t.Fatalf("GetByFormID: %v", err)
	}
	if !form.Published {
		t.Fatal("form must be published")
	}

	if err := svc.Publish(ctx, "not-a-uuid", nil); !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("want ErrFormNotFound for malformed id, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("owner removes whole tree", func(t *testing.T) {
		svc, db := newFormService(t)

		owner := "user-1"
		formID, err := svc.CreateFromDocument(ctx, &owner, "prompt", feedbackDocument())
		if err != nil {
			t.Fatalf("CreateFromDocument: %v", err)
		}
		if err := svc.Remove(ctx, formID, &owner); err != nil {
			t.Fatalf("Remove: %v", err)
		}
		if _, err := svc.GetByFormID(ctx, formID); !errors.Is(err, ErrFormNotFound) {
			t.Fatalf("want ErrFormNotFound after remove, got %v", err)
		}

		var questionCount, optionCount int64
		db.Model(&types.Question{}).Count(&questionCount)
		db.Model(&types.FieldOption{}).Count(&optionCount)
		if questionCount != 0 || optionCount != 0 {
			t.Fatalf("orphan rows after remove: questions=%d options=%d", questionCount, optionCount)
		}
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		svc, _ := newFormService(t)
		owner := "user-1"
		other := "user-2"
		formID, err := svc.CreateFromDocument(ctx, &owner, "prompt", feedbackDocument())
		if err != nil {
			t.Fatalf("CreateFromDocument: %v", err)
		}
		if err := svc.Remove(ctx, formID, &other); !errors.Is(err, ErrFormForbidden) {
			t.Fatalf("want ErrFormForbidden, got %v", err)
		}
		if err := svc.Remove(ctx, formID, nil); !errors.Is(err, ErrFormForbidden) {
			t.Fatalf("want ErrFormForbidden for anonymous, got %v", err)
		}
	})

	t.Run("anonymous form removable by anyone", func(t *testing.T) {
		svc, _ := newFormService(t)
		formID, err := svc.CreateFromDocument(ctx, nil, "prompt", feedbackDocument())
		if err != nil {
			t.Fatalf("CreateFromDocument: %v", err)
		}
		if err := svc.Remove(ctx, formID, nil); err != nil {
			t.Fatalf("Remove: %v", err)
		}
	})
}

func TestListByUser(t *testing.T) {
	svc, _ := newFormService(t)
	ctx := context.Background()
	owner := "user-1"
	other := "user-2"

	if _, err := svc.CreateFromDocument(ctx, &owner, "first", feedbackDocument()); err != nil {
		t.Fatalf("CreateFromDocument: %v", err)
	}
	if _, err := svc.CreateFromDocument(ctx, &other, "second", feedbackDocument()); err != nil {
		t.Fatalf("CreateFromDocument: %v", err)
	}
	if _, err := svc.CreateFromDocument(ctx, nil, "anonymous", feedbackDocument()); err != nil {
		t.Fatalf("CreateFromDocument: %v", err)
	}

	forms, err := svc.ListByUser(ctx, owner)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(forms) != 1 || forms[0].UserPrompt != "first" {
		t.Fatalf("unexpected forms: %+v", forms)
	}
}
