package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	songApp "beatrush/internal/application/song"
	"beatrush/internal/application/song/dto"
	"beatrush/internal/shared/logger"
	"beatrush/internal/shared/utils"
)

// SongHandler handles HTTP requests for the song catalog.
type SongHandler struct {
	service *songApp.Service
	logger  logger.Interface
}

// NewSongHandler creates a song handler.
func NewSongHandler(service *songApp.Service, log logger.Interface) *SongHandler {
	return &SongHandler{service: service, logger: log}
}

// Create handles POST /songs
func (h *SongHandler) Create(c *gin.Context) {
	var req dto.CreateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.CreateSong(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, resp)
}

// Get handles GET /songs/:id
func (h *SongHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetSong(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// List handles GET /songs. ?published=true restricts to the playable catalog.
func (h *SongHandler) List(c *gin.Context) {
	publishedOnly := c.Query("published") == "true"

	resp, err := h.service.ListSongs(c.Request.Context(), publishedOnly)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"songs": resp})
}

// Update handles PUT /songs/:id
func (h *SongHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.UpdateSong(c.Request.Context(), id, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// Publish handles POST /songs/:id/publish
func (h *SongHandler) Publish(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.PublishSong(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "song published", resp)
}

// Unpublish handles POST /songs/:id/unpublish
func (h *SongHandler) Unpublish(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.UnpublishSong(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "song unpublished", resp)
}

// Delete handles DELETE /songs/:id
func (h *SongHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteSong(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
