package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	adminApp "beatrush/internal/application/admin"
	"beatrush/internal/application/admin/dto"
	"beatrush/internal/shared/logger"
	"beatrush/internal/shared/utils"
)

// AdminHandler handles HTTP requests for admin management.
type AdminHandler struct {
	service *adminApp.Service
	logger  logger.Interface
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(service *adminApp.Service, log logger.Interface) *AdminHandler {
	return &AdminHandler{service: service, logger: log}
}

// Create handles POST /admins
func (h *AdminHandler) Create(c *gin.Context) {
	var req dto.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.CreateAdmin(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, resp)
}

// Get handles GET /admins/:id
func (h *AdminHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetAdmin(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// List handles GET /admins
func (h *AdminHandler) List(c *gin.Context) {
	resp, err := h.service.ListAdmins(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"admins": resp})
}

// ChangeRole handles PUT /admins/:id
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.ChangeRole(c.Request.Context(), id, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// Delete handles DELETE /admins/:id
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteAdmin(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
