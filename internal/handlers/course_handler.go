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

type CourseHandler struct {
	*BaseHandler
	courseService services.CourseService
}

func NewCourseHandler(base *BaseHandler, courseService services.CourseService) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   base,
		courseService: courseService,
	}
}

func (h *CourseHandler) RegisterRoutes(r *gin.RouterGroup, userRepo repositories.UserRepository) {
	courses := r.Group("/courses")
	courses.Use(middleware.AuthMiddleware(), middleware.LoadUserMiddleware(userRepo))
	{
		courses.GET("", h.List)
		courses.GET("/:id", h.Get)
		courses.POST("/:id/progress", h.UpdateProgress)
		courses.GET("/progress", h.Progress)
	}
}

func (h *CourseHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return
	}

	courses, err := h.courseService.ListCourses(c.Query("category"), user)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses, "total": len(courses)})
}

func (h *CourseHandler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return
	}

	course, err := h.courseService.GetCourse(c.Param("id"), user)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) UpdateProgress(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProgressRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.courseService.UpdateProgress(userID, c.Param("id"), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *CourseHandler) Progress(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	progress, err := h.courseService.GetProgress(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": progress})
}
