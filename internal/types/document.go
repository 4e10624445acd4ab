package types

// The document types below are the transient shape recovered from a
// provider response. They are validated and normalized before being mapped
// onto Form/Question/FieldOption rows; they are never persisted as such.

type FormDocument struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Questions   []QuestionDocument `json:"questions"`
}

type QuestionDocument struct {
	Text         string           `json:"text"`
	FieldType    FieldType        `json:"fieldType"`
	FieldOptions []OptionDocument `json:"fieldOptions"`
}

type OptionDocument struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// QuestionListDocument is the augmentation response shape: questions only,
// no form header.
type QuestionListDocument struct {
	Questions []QuestionDocument `json:"questions"`
}
