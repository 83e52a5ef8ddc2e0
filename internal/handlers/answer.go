package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studylane/studylane-backend/internal/logger"
	"github.com/studylane/studylane-backend/internal/services"
)

type AnswerHandler struct {
	log          *logger.Logger
	interactions services.InteractionService
}

func NewAnswerHandler(log *logger.Logger, interactions services.InteractionService) *AnswerHandler {
	return &AnswerHandler{
		log:          log.With("handler", "AnswerHandler"),
		interactions: interactions,
	}
}

type submitAnswerRequest struct {
	QuestionID uuid.UUID `json:"question_id" binding:"required"`
	Correct    *bool     `json:"correct" binding:"required"`
}

// POST /api/students/:id/answers
func (h *AnswerHandler) SubmitAnswer(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_student_id", fmt.Errorf("student id must be a uuid"))
		return
	}

	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	recorded, err := h.interactions.RecordAnswer(c.Request.Context(), studentID, req.QuestionID, *req.Correct)
	if err != nil {
		if errors.Is(err, services.ErrPersonalization) {
			RespondError(c, http.StatusBadRequest, "answer_rejected", err)
			return
		}
		h.log.Error("failed to record answer", "student_id", studentID, "question_id", req.QuestionID, "error", err)
		RespondError(c, http.StatusInternalServerError, "answer_failed", fmt.Errorf("could not record answer"))
		return
	}
	c.JSON(http.StatusCreated, recorded)
}
