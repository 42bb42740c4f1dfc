package handlers

import (
	"net/http"

	"eduhealth_backend/internal/dto"
	"eduhealth_backend/internal/middleware"
	"eduhealth_backend/internal/repositories"
	"eduhealth_backend/internal/services"
	"eduhealth_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		chatService: chatService,
	}
}

func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup, userRepo repositories.UserRepository) {
	chat := r.Group("/chat")
	chat.Use(middleware.AuthMiddleware(), middleware.LoadUserMiddleware(userRepo))
	{
		chat.POST("", h.Chat)
		chat.GET("/history", h.History)
	}

	// Recommendations reserve the larger model for paying users.
	recs := r.Group("/recommendations")
	recs.Use(middleware.AuthMiddleware(), middleware.LoadUserMiddleware(userRepo), middleware.PremiumMiddleware())
	{
		recs.GET("/learning", h.LearningRecommendation)
		recs.GET("/wellness", h.WellnessRecommendation)
	}

	aiTools := r.Group("/ai")
	aiTools.Use(middleware.AuthMiddleware(), middleware.LoadUserMiddleware(userRepo), middleware.PremiumMiddleware())
	{
		aiTools.POST("/study-plan", h.StudyPlan)
		aiTools.GET("/learning-analysis", h.LearningAnalysis)
	}
}

func (h *ChatHandler) Chat(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return
	}

	var req dto.ChatRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.chatService.Chat(c.Request.Context(), user, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) History(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	history, err := h.chatService.History(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": history, "total": len(history)})
}

func (h *ChatHandler) LearningRecommendation(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return
	}

	rec, err := h.chatService.LearningRecommendation(c.Request.Context(), user)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *ChatHandler) StudyPlan(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return
	}

	var req dto.StudyPlanRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	plan, err := h.chatService.StudyPlan(c.Request.Context(), user, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", plan)
}

func (h *ChatHandler) LearningAnalysis(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return
	}

	analysis, err := h.chatService.LearningAnalysis(c.Request.Context(), user)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", analysis)
}

func (h *ChatHandler) WellnessRecommendation(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return
	}

	rec, err := h.chatService.WellnessRecommendation(c.Request.Context(), user)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
