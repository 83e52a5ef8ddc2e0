package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studylane/studylane-backend/internal/logger"
	"github.com/studylane/studylane-backend/internal/services"
)

// examDateLayout is the accepted format of the target_exam_date query param.
const examDateLayout = "2006-01-02"

type PlanHandler struct {
	log     *logger.Logger
	planner services.PlannerService
}

func NewPlanHandler(log *logger.Logger, planner services.PlannerService) *PlanHandler {
	return &PlanHandler{
		log:     log.With("handler", "PlanHandler"),
		planner: planner,
	}
}

// GET /api/students/:id/plan?department=nursing&target_exam_date=2026-04-06
func (h *PlanHandler) GetPlan(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_student_id", fmt.Errorf("student id must be a uuid"))
		return
	}

	department := strings.TrimSpace(c.Query("department"))
	if department == "" {
		RespondError(c, http.StatusBadRequest, "missing_department", fmt.Errorf("department query parameter is required"))
		return
	}

	var examDate *time.Time
	if raw := strings.TrimSpace(c.Query("target_exam_date")); raw != "" {
		parsed, err := time.Parse(examDateLayout, raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_exam_date", fmt.Errorf("target_exam_date must be formatted as %s", examDateLayout))
			return
		}
		examDate = &parsed
	}

	plan, err := h.planner.BuildPlan(c.Request.Context(), services.PlanRequest{
		StudentID:      studentID,
		Department:     department,
		TargetExamDate: examDate,
	})
	if err != nil {
		if errors.Is(err, services.ErrPersonalization) {
			RespondError(c, http.StatusBadRequest, "plan_rejected", err)
			return
		}
		h.log.Error("failed to build plan", "student_id", studentID, "department", department, "error", err)
		RespondError(c, http.StatusInternalServerError, "plan_failed", fmt.Errorf("could not build study plan"))
		return
	}
	RespondOK(c, plan)
}
