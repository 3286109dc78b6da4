package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/champcode/academy-api/internal/models"
	appErrors "github.com/champcode/academy-api/pkg/errors"
	"github.com/champcode/academy-api/pkg/response"
)

// TeacherPortalService exposes the teacher portal use cases.
type TeacherPortalService interface {
	Dashboard(ctx context.Context, teacher models.UserInfo) (*models.TeacherDashboard, error)
	Lessons(ctx context.Context, tutorName string) (upcoming, history []models.Lesson, err error)
	Training(ctx context.Context, teacherID string) ([]models.TeacherProgramDetail, error)
}

// TeacherHandler wires the teacher portal endpoints.
type TeacherHandler struct {
	service TeacherPortalService
}

// NewTeacherHandler creates a new handler.
func NewTeacherHandler(svc TeacherPortalService) *TeacherHandler {
	return &TeacherHandler{service: svc}
}

// Dashboard godoc
// @Summary Teacher dashboard
// @Description Monthly taught hours, student count, schedule split and training
// @Tags Teacher
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teacher/dashboard [get]
func (h *TeacherHandler) Dashboard(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	dashboard, err := h.service.Dashboard(c.Request.Context(), userInfoFromClaims(claims))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dashboard, nil)
}

// Lessons godoc
// @Summary Teacher lessons
// @Description Upcoming and historical lessons taught by the calling teacher
// @Tags Teacher
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /teacher/lessons [get]
func (h *TeacherHandler) Lessons(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	upcoming, history, err := h.service.Lessons(c.Request.Context(), claims.FullName)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"upcoming": upcoming, "history": history}, nil)
}

// Training godoc
// @Summary Teacher training programs
// @Tags Teacher
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /teacher/training [get]
func (h *TeacherHandler) Training(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	training, err := h.service.Training(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, training, nil)
}
