package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/formsmith/formsmith-backend/internal/logger"
	"github.com/formsmith/formsmith-backend/internal/middleware"
	"github.com/formsmith/formsmith-backend/internal/services"
)

type FormHandler struct {
	log         *logger.Logger
	formService services.FormService
}

func NewFormHandler(log *logger.Logger, formService services.FormService) *FormHandler {
	return &FormHandler{
		log:         log.With("handler", "FormHandler"),
		formService: formService,
	}
}

// GET /api/forms/:formId
// Full tree: form, questions in display order, each question's options.
func (h *FormHandler) GetForm(c *gin.Context) {
	form, err := h.formService.GetByFormID(c.Request.Context(), c.Param("formId"))
	if err != nil {
		RespondFailure(c, statusForError(err), "Failed to fetch form", err)
		return
	}
	RespondSuccess(c, form)
}

// GET /api/forms
// Forms owned by the authenticated user.
func (h *FormHandler) ListForms(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		RespondFailure(c, http.StatusUnauthorized, "Failed to fetch forms", nil)
		return
	}
	forms, err := h.formService.ListByUser(c.Request.Context(), *userID)
	if err != nil {
		RespondFailure(c, statusForError(err), "Failed to fetch forms", err)
		return
	}
	RespondSuccess(c, forms)
}

// POST /api/forms/:formId/publish
// Owner-only for owned forms.
func (h *FormHandler) PublishForm(c *gin.Context) {
	if err := h.formService.Publish(c.Request.Context(), c.Param("formId"), currentUserID(c)); err != nil {
		RespondFailure(c, statusForError(err), "Failed to publish form", err)
		return
	}
	RespondSuccess(c, nil)
}

// DELETE /api/forms/:formId
// Owner-only; removal cascades to questions and options.
func (h *FormHandler) DeleteForm(c *gin.Context) {
	if err := h.formService.Remove(c.Request.Context(), c.Param("formId"), currentUserID(c)); err != nil {
		RespondFailure(c, statusForError(err), "Failed to delete form", err)
		return
	}
	RespondSuccess(c, nil)
}

// currentUserID returns the authenticated subject, or nil for anonymous
// requests.
func currentUserID(c *gin.Context) *string {
	val, ok := c.Get(middleware.ContextUserIDKey)
	if !ok {
		return nil
	}
	userID, ok := val.(string)
	if !ok || userID == "" {
		return nil
	}
	return &userID
}
