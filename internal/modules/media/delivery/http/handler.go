package handler

import (
	"net/http"

	"anoa.com/socialgram/pkg/response"
	"anoa.com/socialgram/pkg/storage"
	"github.com/gin-gonic/gin"
)

// MediaHandler forwards uploads to the external media provider and returns
// the opaque content reference; nothing about the media is persisted here.
type MediaHandler struct {
	storage storage.MediaStorage
	folder  string
}

func NewMediaHandler(mediaStorage storage.MediaStorage, folder string) *MediaHandler {
	return &MediaHandler{
		storage: mediaStorage,
		folder:  folder,
	}
}

func (h *MediaHandler) Upload(c *gin.Context) {
	if _, err := response.GetUserID(c); err != nil {
		response.ResponseError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer file.Close()

	url, err := h.storage.Upload(c.Request.Context(), file, h.folder, fileHeader.Filename)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
