package handlers

import (
	"net/http"

	"restaurant-directory/helper"
	"restaurant-directory/models"
	"restaurant-directory/services"

	"github.com/gin-gonic/gin"
)

type RestaurantHandler struct {
	restaurantService services.RestaurantService
	Helper            *helper.HTTPHelper
	maxUploadBytes    int64
}

func NewRestaurantHandler(restaurantService services.RestaurantService, httpHelper *helper.HTTPHelper, maxUploadBytes int64) *RestaurantHandler {
	return &RestaurantHandler{
		restaurantService: restaurantService,
		Helper:            httpHelper,
		maxUploadBytes:    maxUploadBytes,
	}
}

func (h *RestaurantHandler) CreateRestaurant(c *gin.Context) {
	form, err := helper.ReadRestaurantForm(c.Writer, c.Request, h.maxUploadBytes)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	restaurant, err := h.restaurantService.CreateRestaurant(c.Request.Context(), form)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, http.StatusCreated, gin.H{
		"message":    "Restaurant added successfully",
		"restaurant": restaurant,
	})
}

func (h *RestaurantHandler) GetRestaurants(c *gin.Context) {
	var params models.RestaurantListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, "Invalid query parameters")
		return
	}

	restaurants, err := h.restaurantService.ListRestaurants(c.Request.Context(), params.Hashtag)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, http.StatusOK, gin.H{"restaurants": restaurants})
}

func (h *RestaurantHandler) UpdateRestaurant(c *gin.Context) {
	form, err := helper.ReadRestaurantForm(c.Writer, c.Request, h.maxUploadBytes)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	restaurant, err := h.restaurantService.UpdateRestaurant(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, http.StatusOK, gin.H{
		"message":    "Restaurant updated successfully",
		"restaurant": restaurant,
	})
}
