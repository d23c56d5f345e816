package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sessionApp "beatrush/internal/application/session"
	"beatrush/internal/application/session/dto"
	"beatrush/internal/shared/logger"
	"beatrush/internal/shared/utils"
)

// SessionHandler handles HTTP requests for gameplay sessions.
type SessionHandler struct {
	service *sessionApp.Service
	logger  logger.Interface
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(service *sessionApp.Service, log logger.Interface) *SessionHandler {
	return &SessionHandler{service: service, logger: log}
}

// Start handles POST /sessions
func (h *SessionHandler) Start(c *gin.Context) {
	var req dto.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.StartSession(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, resp)
}

// Get handles GET /sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetSession(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// Close handles POST /sessions/:id/close
func (h *SessionHandler) Close(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.CloseSession(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "session closed", resp)
}

// Sync handles POST /sessions/:id/sync
func (h *SessionHandler) Sync(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.MarkSynced(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "session synced", resp)
}

// SubmitPerformance handles POST /sessions/:id/performance
func (h *SessionHandler) SubmitPerformance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SubmitPerformanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.SubmitPerformance(c.Request.Context(), id, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, resp)
}

// GetPerformance handles GET /sessions/:id/performance
func (h *SessionHandler) GetPerformance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetPerformance(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// ListByUser handles GET /users/:id/sessions
func (h *SessionHandler) ListByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.ListUserSessions(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"sessions": resp})
}
