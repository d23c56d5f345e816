package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ledgerApp "beatrush/internal/application/ledger"
	"beatrush/internal/domain/entitlement"
	"beatrush/internal/shared/logger"
	"beatrush/internal/shared/utils"
)

// EntitlementHandler handles HTTP requests for play-access grants.
type EntitlementHandler struct {
	ledger *ledgerApp.Service
	logger logger.Interface
}

// NewEntitlementHandler creates an entitlement handler.
func NewEntitlementHandler(ledger *ledgerApp.Service, log logger.Interface) *EntitlementHandler {
	return &EntitlementHandler{ledger: ledger, logger: log}
}

type grantRequest struct {
	SongID uint   `json:"song_id" binding:"required"`
	Source string `json:"source" binding:"required"`
}

// Grant handles POST /users/:id/entitlements (admin-gated).
func (h *EntitlementHandler) Grant(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req grantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	source, err := h.ledger.Grant(c.Request.Context(), userID, req.SongID, entitlement.Source(req.Source))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"user_id": userID,
		"song_id": req.SongID,
		"source":  source.String(),
	})
}

// ListByUser handles GET /users/:id/entitlements
func (h *EntitlementHandler) ListByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.ledger.ListEntitlements(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"entitlements": resp})
}

// CheckAccess handles GET /users/:id/access/:song_id
func (h *EntitlementHandler) CheckAccess(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	songID, ok := parseIDParam(c, "song_id")
	if !ok {
		return
	}

	has, err := h.ledger.HasAccess(c.Request.Context(), userID, songID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"user_id":    userID,
		"song_id":    songID,
		"has_access": has,
	})
}

// Revoke handles DELETE /users/:id/entitlements/:song_id (admin-gated).
// Removal is unconditional regardless of how access was granted.
func (h *EntitlementHandler) Revoke(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	songID, ok := parseIDParam(c, "song_id")
	if !ok {
		return
	}

	if err := h.ledger.RevokeAdmin(c.Request.Context(), userID, songID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
