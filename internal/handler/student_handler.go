package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/champcode/academy-api/internal/models"
	appErrors "github.com/champcode/academy-api/pkg/errors"
	"github.com/champcode/academy-api/pkg/response"
)

// StudentPortalService exposes the student portal use cases.
type StudentPortalService interface {
	Dashboard(ctx context.Context, email string) (*models.StudentDashboard, error)
	Lessons(ctx context.Context, email string) (upcoming, history []models.Lesson, err error)
}

// StudentHandler wires the student portal endpoints.
type StudentHandler struct {
	service StudentPortalService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(svc StudentPortalService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// Dashboard godoc
// @Summary Student dashboard
// @Description The student's learner record with progress and lesson splits
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/dashboard [get]
func (h *StudentHandler) Dashboard(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	dashboard, err := h.service.Dashboard(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dashboard, nil)
}

// Lessons godoc
// @Summary Student lessons
// @Description Upcoming and historical lessons for the calling student
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /student/lessons [get]
func (h *StudentHandler) Lessons(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	upcoming, history, err := h.service.Lessons(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"upcoming": upcoming, "history": history}, nil)
}
