package handlers

import (
	"net/http"

	"restaurant-directory/helper"
	"restaurant-directory/models"
	"restaurant-directory/services"

	"github.com/gin-gonic/gin"
)

type HashtagHandler struct {
	hashtagService services.HashtagService
	Helper         *helper.HTTPHelper
}

func NewHashtagHandler(hashtagService services.HashtagService, httpHelper *helper.HTTPHelper) *HashtagHandler {
	return &HashtagHandler{hashtagService: hashtagService, Helper: httpHelper}
}

func (h *HashtagHandler) CreateHashtag(c *gin.Context) {
	var req models.CreateHashtagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendError(c, helper.BindError(err))
		return
	}

	hashtag, err := h.hashtagService.CreateHashtag(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, http.StatusCreated, gin.H{
		"message": "Hashtag added successfully",
		"hashtag": hashtag,
	})
}

func (h *HashtagHandler) GetHashtags(c *gin.Context) {
	var params models.HashtagListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, "Invalid query parameters")
		return
	}

	hashtags, err := h.hashtagService.SearchHashtags(c.Request.Context(), params.Search)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, http.StatusOK, gin.H{"hashtags": hashtags})
}

func (h *HashtagHandler) UpdateHashtag(c *gin.Context) {
	var req models.UpdateHashtagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendError(c, helper.BindError(err))
		return
	}

	hashtag, err := h.hashtagService.UpdateHashtag(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, http.StatusOK, gin.H{
		"message": "Hashtag updated successfully",
		"hashtag": hashtag,
	})
}
