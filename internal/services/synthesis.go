package services

import (
	"context"
	"encoding/json"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/formsmith/formsmith-backend/internal/config"
	"github.com/formsmith/formsmith-backend/internal/logger"
	"github.com/formsmith/formsmith-backend/internal/repos"
	"github.com/formsmith/formsmith-backend/internal/types"
)

// maxQuestionsPerForm caps the total question count a form can accumulate
// through augmentation. This is façade policy, not a validator rule.
const maxQuestionsPerForm = 8

// ErrQuestionLimitReached is returned when an augmentation call finds the
// form already at the question cap.
var ErrQuestionLimitReached = errors.New("form already has the maximum number of questions")

// SynthesisService is the single entry point the HTTP layer calls. One
// request walks provider → extraction → validation → persistence strictly
// in order; a failure at any step is reported with its originating kind and
// nothing is retried automatically.
type SynthesisService interface {
	Synthesize(ctx context.Context, userID *string, description string) (string, error)
	Augment(ctx context.Context, userID *string, formInternalID uint, formID string, userPrompt string, existingQuestionTexts []string) ([]types.QuestionDocument, error)
}

type synthesisService struct {
	log         *logger.Logger
	provider    TextProvider
	opts        GenerateOptions
	formService FormService
	synthRepo   repos.SynthesisLogRepo
	tracer      trace.Tracer
}

func NewSynthesisService(cfg *config.Config, log *logger.Logger, provider TextProvider, formService FormService, synthRepo repos.SynthesisLogRepo) SynthesisService {
	return &synthesisService{
		log:      log.With("service", "SynthesisService"),
		provider: provider,
		opts: GenerateOptions{
			Temperature: cfg.Generation.Temperature,
			TopP:        cfg.Generation.TopP,
			TopK:        cfg.Generation.TopK,
			MaxTokens:   cfg.Generation.MaxTokens,
		},
		formService: formService,
		synthRepo:   synthRepo,
		tracer:      otel.Tracer("formsmith/synthesis"),
	}
}

// Synthesize runs the full create-form pipeline and returns the external
// form identifier.
func (s *synthesisService) Synthesize(ctx context.Context, userID *string, description string) (string, error) {
	prompt := BuildCreationPrompt(description)

	rawText, err := s.generate(ctx, prompt)
	s.recordCall(ctx, userID, nil, types.SynthesisCallCreate, prompt, rawText, err)
	if err != nil {
		s.log.Error("Provider call failed", "provider", s.provider.Name(), "error", err)
		return "", err
	}

	doc, err := s.extractAndValidateForm(ctx, rawText)
	if err != nil {
		s.log.Error("Response could not be turned into a form document", "provider", s.provider.Name(), "error", err)
		return "", err
	}

	ctx, span := s.tracer.Start(ctx, "synthesis.persist")
	formID, err := s.formService.CreateFromDocument(ctx, userID, description, doc)
	if err != nil {
		span.RecordError(err)
		span.End()
		return "", err
	}
	span.End()
	return formID, nil
}

// Augment asks the provider for additional questions, excluding the known
// question texts from the prompt, and appends the result to the form. The
// exclusion list is computed before the write commits, so two concurrent
// augmentations of the same form can still produce duplicates; within one
// call each question is appended atomically.
func (s *synthesisService) Augment(ctx context.Context, userID *string, formInternalID uint, formID string, userPrompt string, existingQuestionTexts []string) ([]types.QuestionDocument, error) {
	current, err := s.formService.CountQuestions(ctx, formInternalID)
	if err != nil {
		return nil, err
	}
	remaining := maxQuestionsPerForm - int(current)
	if remaining <= 0 {
		return nil, ErrQuestionLimitReached
	}

	prompt := BuildAugmentPrompt(userPrompt, existingQuestionTexts)

	rawText, genErr := s.generate(ctx, prompt)
	s.recordCall(ctx, userID, &formInternalID, types.SynthesisCallAugment, prompt, rawText, genErr)
	if genErr != nil {
		s.log.Error("Provider call failed", "provider", s.provider.Name(), "form_id", formID, "error", genErr)
		return nil, genErr
	}

	doc, err := s.extractAndValidateQuestions(ctx, rawText)
	if err != nil {
		s.log.Error("Response could not be turned into a question list", "provider", s.provider.Name(), "form_id", formID, "error", err)
		return nil, err
	}

	questions := doc.Questions
	if len(questions) > remaining {
		questions = questions[:remaining]
	}

	ctx, span := s.tracer.Start(ctx, "synthesis.persist")
	defer span.End()
	if _, err := s.formService.AppendQuestions(ctx, formInternalID, questions); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return questions, nil
}

func (s *synthesisService) generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "synthesis.generate")
	defer span.End()
	text, err := s.provider.Generate(ctx, prompt, s.opts)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	return text, nil
}

func (s *synthesisService) extractAndValidateForm(ctx context.Context, rawText string) (*types.FormDocument, error) {
	ctx, span := s.tracer.Start(ctx, "synthesis.extract")
	candidate, err := ExtractJSONObject(rawText)
	if err != nil {
		span.RecordError(err)
		span.End()
		return nil, err
	}
	span.End()

	_, span = s.tracer.Start(ctx, "synthesis.validate")
	defer span.End()
	doc, err := ParseFormDocument([]byte(candidate))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return doc, nil
}

func (s *synthesisService) extractAndValidateQuestions(ctx context.Context, rawText string) (*types.QuestionListDocument, error) {
	ctx, span := s.tracer.Start(ctx, "synthesis.extract")
	candidate, err := ExtractJSONObject(rawText)
	if err != nil {
		span.RecordError(err)
		span.End()
		return nil, err
	}
	span.End()

	_, span = s.tracer.Start(ctx, "synthesis.validate")
	defer span.End()
	doc, err := ParseQuestionDocument([]byte(candidate))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return doc, nil
}

// recordCall writes a provenance row for the provider call. Best-effort:
// a logging failure must never fail the synthesis itself.
func (s *synthesisService) recordCall(ctx context.Context, userID *string, formInternalID *uint, callType, prompt, response string, callErr error) {
	if s.synthRepo == nil {
		return
	}
	entry := &types.SynthesisLog{
		UserID:   userID,
		FormID:   formInternalID,
		CallType: callType,
		Provider: s.provider.Name(),
		Model:    s.provider.Model(),
		Prompt:   prompt,
		Response: response,
		Success:  callErr == nil,
		Usage:    estimateUsage(prompt, response),
	}
	if callErr != nil {
		entry.Error = callErr.Error()
	}
	if _, err := s.synthRepo.Create(ctx, nil, entry); err != nil {
		s.log.Warn("Failed to record synthesis call", "error", err)
	}
}

// estimateUsage approximates token counts at four characters per token;
// none of the three provider APIs report usage on this code path.
func estimateUsage(prompt, response string) datatypes.JSON {
	promptTokens := (len(prompt) + 3) / 4
	responseTokens := (len(response) + 3) / 4
	raw, err := json.Marshal(map[string]int{
		"prompt_tokens":   promptTokens,
		"response_tokens": responseTokens,
		"total_tokens":    promptTokens + responseTokens,
	})
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
