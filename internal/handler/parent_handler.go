package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/champcode/academy-api/internal/models"
	appErrors "github.com/champcode/academy-api/pkg/errors"
	"github.com/champcode/academy-api/pkg/response"
)

// ParentPortalService exposes the parent portal use cases.
type ParentPortalService interface {
	Dashboard(ctx context.Context, parentEmail string) (*models.ParentDashboard, error)
	Children(ctx context.Context, parentEmail string) ([]models.Child, error)
	LinkChild(ctx context.Context, parentEmail string, req models.LinkChildRequest) (*models.ParentChildLink, error)
	ChildLessons(ctx context.Context, parentEmail, childID string) (*models.ChildOverview, error)
}

// ParentHandler wires the parent portal endpoints.
type ParentHandler struct {
	service ParentPortalService
}

// NewParentHandler creates a new handler.
func NewParentHandler(svc ParentPortalService) *ParentHandler {
	return &ParentHandler{service: svc}
}

// Dashboard godoc
// @Summary Parent dashboard
// @Description Linked children with lesson splits plus the credit balance
// @Tags Parent
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /parent/dashboard [get]
func (h *ParentHandler) Dashboard(c *gin.Context) {
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

// Children godoc
// @Summary List linked children
// @Tags Parent
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /parent/children [get]
func (h *ParentHandler) Children(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	children, err := h.service.Children(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, children, nil)
}

// LinkChild godoc
// @Summary Link an existing child
// @Tags Parent
// @Accept json
// @Produce json
// @Param payload body models.LinkChildRequest true "Child to link"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /parent/children/link [post]
func (h *ParentHandler) LinkChild(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.LinkChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid link payload"))
		return
	}

	link, err := h.service.LinkChild(c.Request.Context(), claims.Email, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, link)
}

// ChildLessons godoc
// @Summary One child's overview
// @Description Enrollments plus upcoming and historical lessons for a linked child
// @Tags Parent
// @Produce json
// @Param id path string true "Child ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /parent/children/{id}/lessons [get]
func (h *ParentHandler) ChildLessons(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	overview, err := h.service.ChildLessons(c.Request.Context(), claims.Email, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, overview, nil)
}
