package routes

import (
	"net/http"

	"distance-learning-backend/app/model"
	"distance-learning-backend/app/service"
	"distance-learning-backend/utils"

	"github.com/gin-gonic/gin"
)

// StatsHandler serves the role-scoped statistics views.
type StatsHandler struct {
	statsService service.StatsService
}

func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) SetupStatsRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	api := r.Group("/api", auth)
	{
		api.GET("/teacher/stats", h.TeacherStats)
		api.GET("/admin/stats", h.AdminStats)
		api.GET("/student/stats", h.StudentStats)
		api.GET("/student/completed-tests", h.StudentCompletedTests)
		api.GET("/teacher/courses/:id/statistics", h.CourseStatistics)
		api.GET("/teacher/courses/:id/tests", h.CourseTestsWithStats)
	}
}

func (h *StatsHandler) TeacherStats(ctx *gin.Context) {
	user := requireRole(ctx, model.RoleTeacher)
	if user == nil {
		return
	}

	stats, err := h.statsService.TeacherStats(user)
	if err != nil {
		respondError(ctx, "Failed to compute teacher statistics", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Statistics fetched", stats))
}

func (h *StatsHandler) AdminStats(ctx *gin.Context) {
	if user := requireRole(ctx, model.RoleAdmin); user == nil {
		return
	}

	stats, err := h.statsService.AdminStats()
	if err != nil {
		respondError(ctx, "Failed to compute admin statistics", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Statistics fetched", stats))
}

func (h *StatsHandler) StudentStats(ctx *gin.Context) {
	user := requireRole(ctx, model.RoleStudent)
	if user == nil {
		return
	}

	stats, err := h.statsService.StudentStats(user)
	if err != nil {
		respondError(ctx, "Failed to compute student statistics", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Statistics fetched", stats))
}

func (h *StatsHandler) StudentCompletedTests(ctx *gin.Context) {
	user := requireRole(ctx, model.RoleStudent)
	if user == nil {
		return
	}

	details, err := h.statsService.StudentCompletedTests(user)
	if err != nil {
		respondError(ctx, "Failed to fetch completed tests", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Completed tests fetched", details))
}

func (h *StatsHandler) CourseStatistics(ctx *gin.Context) {
	user := requireRole(ctx, model.RoleTeacher)
	if user == nil {
		return
	}

	courseID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	stats, err := h.statsService.CourseStatistics(user, courseID)
	if err != nil {
		respondError(ctx, "Failed to compute course statistics", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Course statistics fetched", stats))
}

func (h *StatsHandler) CourseTestsWithStats(ctx *gin.Context) {
	user := requireRole(ctx, model.RoleTeacher)
	if user == nil {
		return
	}

	courseID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	tests, err := h.statsService.CourseTestsWithStats(user, courseID)
	if err != nil {
		respondError(ctx, "Failed to compute test statistics", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Test statistics fetched", tests))
}
