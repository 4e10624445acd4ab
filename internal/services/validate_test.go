package services

import (
	"errors"
	"testing"

	"github.com/formsmith/formsmith-backend/internal/types"
)

func TestParseFormDocument(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		doc, err := ParseFormDocument([]byte(`{
			"name": "Customer Feedback",
			"description": "Tell us how we did",
			"questions": [
				{"text": "How satisfied are you?", "fieldType": "RadioGroup",
				 "fieldOptions": [{"text": "Very", "value": "very"}, {"text": "Not at all", "value": "not"}]},
				{"text": "Any comments?", "fieldType": "Textarea", "fieldOptions": []}
			]
		}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc.Name != "Customer Feedback" || len(doc.Questions) != 2 {
			t.Fatalf("unexpected document: %+v", doc)
		}
		if doc.Questions[0].FieldType != types.FieldTypeRadioGroup || len(doc.Questions[0].FieldOptions) != 2 {
			t.Fatalf("unexpected first question: %+v", doc.Questions[0])
		}
	})

	t.Run("not json", func(t *testing.T) {
		if _, err := ParseFormDocument([]byte(`{"name": "x",`)); !errors.Is(err, ErrParseFailed) {
			t.Fatalf("want ErrParseFailed, got %v", err)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := ParseFormDocument([]byte(`{"description": "d", "questions": []}`))
		if !errors.Is(err, ErrInvalidResponseShape) {
			t.Fatalf("want ErrInvalidResponseShape, got %v", err)
		}
	})

	t.Run("missing description", func(t *testing.T) {
		_, err := ParseFormDocument([]byte(`{"name": "n", "questions": []}`))
		if !errors.Is(err, ErrInvalidResponseShape) {
			t.Fatalf("want ErrInvalidResponseShape, got %v", err)
		}
	})

	t.Run("missing questions array", func(t *testing.T) {
		_, err := ParseFormDocument([]byte(`{"name": "n", "description": "d"}`))
		if !errors.Is(err, ErrInvalidResponseShape) {
			t.Fatalf("want ErrInvalidResponseShape, got %v", err)
		}
	})

	t.Run("empty questions array is valid", func(t *testing.T) {
		doc, err := ParseFormDocument([]byte(`{"name": "n", "description": "d", "questions": []}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(doc.Questions) != 0 {
			t.Fatalf("want no questions, got %d", len(doc.Questions))
		}
	})
}

func TestParseQuestionDocument(t *testing.T) {
	t.Run("valid list", func(t *testing.T) {
		doc, err := ParseQuestionDocument([]byte(`{"questions": [{"text": "Age?", "fieldType": "Input"}]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(doc.Questions) != 1 || doc.Questions[0].Text != "Age?" {
			t.Fatalf("unexpected document: %+v", doc)
		}
	})

	t.Run("missing questions", func(t *testing.T) {
		if _, err := ParseQuestionDocument([]byte(`{}`)); !errors.Is(err, ErrInvalidResponseShape) {
			t.Fatalf("want ErrInvalidResponseShape, got %v", err)
		}
	})
}

func TestNormalizeQuestions(t *testing.T) {
	cases := []struct {
		name        string
		in          types.QuestionDocument
		wantType    types.FieldType
		wantOptions int
	}{
		{
			name:     "unknown field type becomes Input",
			in:       types.QuestionDocument{Text: "q", FieldType: "Dropdown"},
			wantType: types.FieldTypeInput,
		},
		{
			name:     "empty field type becomes Input",
			in:       types.QuestionDocument{Text: "q"},
			wantType: types.FieldTypeInput,
		},
		{
			name: "options dropped for non-choice type",
			in: types.QuestionDocument{
				Text:         "q",
				FieldType:    types.FieldTypeTextarea,
				FieldOptions: []types.OptionDocument{{Text: "a", Value: "a"}},
			},
			wantType:    types.FieldTypeTextarea,
			wantOptions: 0,
		},
		{
			name: "options kept for choice type",
			in: types.QuestionDocument{
				Text:         "q",
				FieldType:    types.FieldTypeSelect,
				FieldOptions: []types.OptionDocument{{Text: "a", Value: "a"}, {Text: "b", Value: "b"}},
			},
			wantType:    types.FieldTypeSelect,
			wantOptions: 2,
		},
		{
			name:        "nil options become empty slice",
			in:          types.QuestionDocument{Text: "q", FieldType: types.FieldTypeRadioGroup},
			wantType:    types.FieldTypeRadioGroup,
			wantOptions: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := normalizeQuestions([]types.QuestionDocument{tc.in})
			if len(out) != 1 {
				t.Fatalf("want 1 question, got %d", len(out))
			}
			q := out[0]
			if q.FieldType != tc.wantType {
				t.Fatalf("want field type %q, got %q", tc.wantType, q.FieldType)
			}
			if q.FieldOptions == nil {
				t.Fatal("field options must never be nil after normalization")
			}
			if len(q.FieldOptions) != tc.wantOptions {
				t.Fatalf("want %d options, got %d", tc.wantOptions, len(q.FieldOptions))
			}
		})
	}
}
