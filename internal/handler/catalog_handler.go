package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/champcode/academy-api/internal/models"
	"github.com/champcode/academy-api/pkg/response"
)

// CatalogBrowser exposes the public catalog reads.
type CatalogBrowser interface {
	Programs(ctx context.Context) ([]models.Program, error)
	Plans(ctx context.Context) ([]models.SubscriptionPlan, error)
}

// CatalogHandler wires the public marketing endpoints. No authentication.
type CatalogHandler struct {
	service CatalogBrowser
}

// NewCatalogHandler creates a new handler.
func NewCatalogHandler(svc CatalogBrowser) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// Programs godoc
// @Summary Program catalog
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /programs [get]
func (h *CatalogHandler) Programs(c *gin.Context) {
	programs, err := h.service.Programs(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programs, nil)
}

// Plans godoc
// @Summary Subscription plan catalog
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /plans [get]
func (h *CatalogHandler) Plans(c *gin.Context) {
	plans, err := h.service.Plans(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plans, nil)
}
