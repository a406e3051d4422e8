package handler

import (
	"net/http"

	feed "anoa.com/socialgram/internal/modules/feed/service"
	"anoa.com/socialgram/pkg/response"
	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedService feed.FeedService
}

func NewFeedHandler(feedService feed.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

func (h *FeedHandler) GetFeed(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	posts, err := h.feedService.AssembleFeed(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}
