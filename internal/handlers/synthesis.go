package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/formsmith/formsmith-backend/internal/logger"
	"github.com/formsmith/formsmith-backend/internal/services"
)

type SynthesisHandler struct {
	log         *logger.Logger
	synthesis   services.SynthesisService
	formService services.FormService
}

func NewSynthesisHandler(log *logger.Logger, synthesis services.SynthesisService, formService services.FormService) *SynthesisHandler {
	return &SynthesisHandler{
		log:         log.With("handler", "SynthesisHandler"),
		synthesis:   synthesis,
		formService: formService,
	}
}

type generateFormRequest struct {
	Description string `json:"description"`
}

type generateFormData struct {
	FormID string `json:"formId"`
}

// POST /api/forms/generate
// Turn a natural-language description into a persisted form.
func (h *SynthesisHandler) GenerateForm(c *gin.Context) {
	var req generateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Description == "" {
		RespondFailure(c, http.StatusBadRequest, "Failed to parse data", nil)
		return
	}

	userID := currentUserID(c)
	formID, err := h.synthesis.Synthesize(c.Request.Context(), userID, req.Description)
	if err != nil {
		h.log.Error("Form synthesis failed", "error", err)
		RespondFailure(c, statusForError(err), "Failed to create form", err)
		return
	}
	RespondSuccess(c, generateFormData{FormID: formID})
}

type addQuestionsRequest struct {
	Prompt string `json:"prompt"`
}

// POST /api/forms/:formId/questions
// Ask the provider for additional questions and append them to the form.
// The form's current question texts are excluded from the prompt; the
// provider may still repeat one, in which case it is appended anyway.
func (h *SynthesisHandler) AddQuestions(c *gin.Context) {
	formID := c.Param("formId")

	form, err := h.formService.GetByFormID(c.Request.Context(), formID)
	if err != nil {
		RespondFailure(c, statusForError(err), "Failed to create form", err)
		return
	}
	userID := currentUserID(c)
	if form.UserID != nil && (userID == nil || *form.UserID != *userID) {
		RespondFailure(c, http.StatusForbidden, "Failed to create form", services.ErrFormForbidden)
		return
	}

	var req addQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondFailure(c, http.StatusBadRequest, "Failed to parse data", nil)
		return
	}
	prompt := req.Prompt
	if prompt == "" {
		prompt = form.UserPrompt
	}

	existing := make([]string, 0, len(form.Questions))
	for _, q := range form.Questions {
		existing = append(existing, q.Text)
	}

	questions, err := h.synthesis.Augment(c.Request.Context(), userID, form.ID, formID, prompt, existing)
	if err != nil {
		h.log.Error("Form augmentation failed", "form_id", formID, "error", err)
		RespondFailure(c, statusForError(err), "Failed to create form", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success", "questions": questions})
}

// statusForError maps the pipeline's failure kinds onto HTTP statuses. The
// envelope message stays generic; the kind-specific detail only rides in
// the error field and the logs.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrFormNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrFormForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrQuestionLimitReached):
		return http.StatusConflict
	case errors.Is(err, services.ErrExtractionFailed),
		errors.Is(err, services.ErrParseFailed),
		errors.Is(err, services.ErrInvalidResponseShape):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrProviderMissingCredential),
		errors.Is(err, services.ErrProviderInvalidCredential),
		errors.Is(err, services.ErrProviderQuotaExceeded),
		errors.Is(err, services.ErrProviderUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
