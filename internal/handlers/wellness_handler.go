package handlers

import (
	"net/http"
	"strconv"

	"eduhealth_backend/internal/dto"
	"eduhealth_backend/internal/middleware"
	"eduhealth_backend/internal/services"

	"github.com/gin-gonic/gin"
)

const defaultSummaryDays = 7

type WellnessHandler struct {
	*BaseHandler
	wellnessService services.WellnessService
}

func NewWellnessHandler(base *BaseHandler, wellnessService services.WellnessService) *WellnessHandler {
	return &WellnessHandler{
		BaseHandler:     base,
		wellnessService: wellnessService,
	}
}

func (h *WellnessHandler) RegisterRoutes(r *gin.RouterGroup) {
	wellness := r.Group("/wellness")
	wellness.Use(middleware.AuthMiddleware())
	{
		wellness.POST("/activities", h.LogActivity)
		wellness.GET("/activities", h.ListActivities)
		wellness.GET("/summary", h.Summary)
	}
}

func (h *WellnessHandler) LogActivity(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.LogActivityRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	activity, err := h.wellnessService.LogActivity(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, activity)
}

func (h *WellnessHandler) ListActivities(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	activities, err := h.wellnessService.ListActivities(userID, queryDays(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": activities, "total": len(activities)})
}

func (h *WellnessHandler) Summary(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	summary, err := h.wellnessService.Summary(userID, queryDays(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func queryDays(c *gin.Context) int {
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(defaultSummaryDays)))
	if err != nil || days <= 0 {
		return defaultSummaryDays
	}
	return days
}
