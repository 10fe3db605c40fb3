package routes

import (
	"net/http"

	"distance-learning-backend/app/model"
	"distance-learning-backend/app/service"
	"distance-learning-backend/middleware"
	"distance-learning-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CourseHandler serves the role-shaped course list, course test views and the
// student submit flow.
type CourseHandler struct {
	courseService service.CourseService
}

func NewCourseHandler(courseService service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

func (h *CourseHandler) SetupCourseRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	api := r.Group("/api", auth)
	{
		api.GET("/courses/my", h.MyCourses)
		api.GET("/courses/:id/tests", h.CourseTests)
		api.GET("/courses/:id/tests-with-completion", h.TestsWithCompletion)
		api.POST("/completed-tests", h.SubmitResult)
	}
}

// MyCourses dispatches on the caller's role exactly once; each branch returns
// its own report shape.
func (h *CourseHandler) MyCourses(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		ctx.JSON(http.StatusUnauthorized,
			utils.BuildResponseFailed("Authentication required", "no_current_user", nil))
		return
	}

	var (
		data interface{}
		err  error
	)
	switch user.Role {
	case model.RoleStudent:
		data, err = h.courseService.MyCoursesStudent(user)
	case model.RoleTeacher:
		data, err = h.courseService.MyCoursesTeacher(user)
	default:
		data, err = h.courseService.MyCoursesAdmin()
	}
	if err != nil {
		respondError(ctx, "Failed to fetch courses", err)
		return
	}

	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Courses fetched", data))
}

func (h *CourseHandler) CourseTests(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		ctx.JSON(http.StatusUnauthorized,
			utils.BuildResponseFailed("Authentication required", "no_current_user", nil))
		return
	}

	courseID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	tests, err := h.courseService.CourseTests(user, courseID)
	if err != nil {
		respondError(ctx, "Failed to fetch course tests", err)
		return
	}

	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Tests fetched", tests))
}

func (h *CourseHandler) TestsWithCompletion(ctx *gin.Context) {
	user := requireRole(ctx, model.RoleStudent)
	if user == nil {
		return
	}

	courseID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	tests, err := h.courseService.TestsWithCompletion(user, courseID)
	if err != nil {
		respondError(ctx, "Failed to fetch course tests", err)
		return
	}

	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Tests fetched", tests))
}

// SubmitResult upserts the caller's completion record for a test. Score uses
// a pointer so an explicit zero still passes the required binding.
func (h *CourseHandler) SubmitResult(ctx *gin.Context) {
	user := requireRole(ctx, model.RoleStudent)
	if user == nil {
		return
	}

	var input struct {
		TestID string `json:"test_id" binding:"required"`
		Score  *int   `json:"score" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("test_id and score are required", err.Error(), nil))
		return
	}

	testID, err := uuid.Parse(input.TestID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Invalid test_id", err.Error(), nil))
		return
	}

	if err := h.courseService.SubmitResult(user, testID, *input.Score); err != nil {
		respondError(ctx, "Failed to save test result", err)
		return
	}

	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Test result saved", nil))
}
