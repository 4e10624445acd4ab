package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/formsmith/formsmith-backend/internal/types"
)

// ErrInvalidResponseShape means the document parsed but is missing the
// required top-level fields.
var ErrInvalidResponseShape = errors.New("invalid response format from AI")

// ParseFormDocument parses and validates a full form document: non-empty
// name, non-empty description, and a questions array. Questions themselves
// are normalized, never rejected — see normalizeQuestions.
//
// This step never touches storage.
func ParseFormDocument(data []byte) (*types.FormDocument, error) {
	var doc types.FormDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidResponseShape)
	}
	if doc.Description == "" {
		return nil, fmt.Errorf("%w: missing description", ErrInvalidResponseShape)
	}
	if doc.Questions == nil {
		return nil, fmt.Errorf("%w: missing questions array", ErrInvalidResponseShape)
	}
	doc.Questions = normalizeQuestions(doc.Questions)
	return &doc, nil
}

// ParseQuestionDocument parses and validates an augmentation document,
// which carries only a questions array.
func ParseQuestionDocument(data []byte) (*types.QuestionListDocument, error) {
	var doc types.QuestionListDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	if doc.Questions == nil {
		return nil, fmt.Errorf("%w: missing questions array", ErrInvalidResponseShape)
	}
	doc.Questions = normalizeQuestions(doc.Questions)
	return &doc, nil
}

// normalizeQuestions applies the per-question defaulting rules: an absent
// or unrecognized fieldType becomes Input rather than failing the whole
// document, a nil option list becomes empty, and options on field types
// that do not take them are dropped.
func normalizeQuestions(questions []types.QuestionDocument) []types.QuestionDocument {
	out := make([]types.QuestionDocument, 0, len(questions))
	for _, q := range questions {
		if !q.FieldType.Valid() {
			q.FieldType = types.FieldTypeInput
		}
		if q.FieldOptions == nil || !q.FieldType.TakesOptions() {
			q.FieldOptions = []types.OptionDocument{}
		}
		out = append(out, q)
	}
	return out
}
