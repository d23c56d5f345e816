package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ledgerApp "beatrush/internal/application/ledger"
	"beatrush/internal/application/ledger/dto"
	"beatrush/internal/shared/logger"
	"beatrush/internal/shared/utils"
)

// PurchaseHandler handles HTTP requests for purchases and refunds.
type PurchaseHandler struct {
	ledger *ledgerApp.Service
	logger logger.Interface
}

// NewPurchaseHandler creates a purchase handler.
func NewPurchaseHandler(ledger *ledgerApp.Service, log logger.Interface) *PurchaseHandler {
	return &PurchaseHandler{ledger: ledger, logger: log}
}

// Create handles POST /purchases. The purchase row and the granted
// entitlement commit in one transaction.
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req dto.RecordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.ledger.RecordPurchase(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

// Get handles GET /purchases/:id
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.ledger.GetPurchase(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// List handles GET /purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	resp, err := h.ledger.ListPurchases(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"purchases": resp})
}

// Refund handles POST /purchases/:id/refund
func (h *PurchaseHandler) Refund(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ledger.Refund(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "purchase refunded", nil)
}
