package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/champcode/academy-api/internal/service"
	appErrors "github.com/champcode/academy-api/pkg/errors"
	"github.com/champcode/academy-api/pkg/response"
)

// InvoiceHandler serves invoice downloads through signed tokens. The token
// itself authorizes the download, so the route stays public.
type InvoiceHandler struct {
	service *service.InvoiceService
}

// NewInvoiceHandler creates a new handler.
func NewInvoiceHandler(svc *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: svc}
}

// Download godoc
// @Summary Download an invoice
// @Description Streams the invoice PDF referenced by a signed token
// @Tags Payments
// @Produce application/pdf
// @Param token path string true "Signed invoice token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /invoices/{token} [get]
func (h *InvoiceHandler) Download(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token required"))
		return
	}

	file, name, err := h.service.Resolve(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Header("Content-Type", "application/pdf")
	c.File(file.Name())
}
