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

// AdminHandler serves the admin CRUD surface plus the shared group listing.
type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) SetupAdminRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	// Group listing is available to any authenticated caller; the frontend
	// needs it for profile and course forms.
	r.GET("/api/groups", auth, h.ListGroupsAny)

	admin := r.Group("/api/admin", auth)
	{
		admin.GET("/users", h.ListUsers)
		admin.POST("/users", h.CreateUser)
		admin.PUT("/users/:id", h.UpdateUser)
		admin.DELETE("/users/:id", h.DeleteUser)

		admin.GET("/groups", h.ListGroups)
		admin.POST("/groups", h.CreateGroup)
		admin.PUT("/groups/:id", h.UpdateGroup)
		admin.DELETE("/groups/:id", h.DeleteGroup)

		admin.GET("/courses", h.ListCourses)
		admin.POST("/courses", h.CreateCourse)
		admin.PUT("/courses/:id", h.UpdateCourse)
		admin.DELETE("/courses/:id", h.DeleteCourse)

		admin.GET("/tests", h.ListTests)
		admin.POST("/tests", h.CreateTest)
		admin.PUT("/tests/:id", h.UpdateTest)
		admin.DELETE("/tests/:id", h.DeleteTest)
	}
}

// userInput is the wire shape for user create/update. Password may be empty
// on update, which keeps the stored hash.
type userInput struct {
	Login    string  `json:"login" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	FullName string  `json:"full_name" binding:"required"`
	Password string  `json:"password"`
	Role     string  `json:"role" binding:"required,oneof=student teacher admin"`
	GroupID  *string `json:"group_id"`
}

func (in *userInput) toServiceInput(ctx *gin.Context) (service.UserInput, bool) {
	input := service.UserInput{
		Login:    in.Login,
		Email:    in.Email,
		FullName: in.FullName,
		Password: in.Password,
		Role:     in.Role,
	}
	if in.GroupID != nil && *in.GroupID != "" {
		gid, err := uuid.Parse(*in.GroupID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest,
				utils.BuildResponseFailed("Invalid group_id", err.Error(), nil))
			return input, false
		}
		input.GroupID = &gid
	}
	return input, true
}

// ----- users -----

func (h *AdminHandler) ListUsers(ctx *gin.Context) {
	if user := requireRole(ctx, model.RoleAdmin); user == nil {
		return
	}

	users, err := h.adminService.ListUsers()
	if err != nil {
		respondError(ctx, "Failed to fetch users", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Users fetched", users))
}

func (h *AdminHandler) CreateUser(ctx *gin.Context) {
	if user := requireRole(ctx, model.RoleAdmin); user == nil {
		return
	}

	var in userInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Invalid user payload", err.Error(), nil))
		return
	}
	if in.Password == "" {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Password is required", "missing_password", nil))
		return
	}

	input, ok := in.toServiceInput(ctx)
	if !ok {
		return
	}

	user, err := h.adminService.CreateUser(input)
	if err != nil {
		respondError(ctx, "Failed to create user", err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("User created", user))
}

func (h *AdminHandler) UpdateUser(ctx *gin.Context) {
	if user := requireRole(ctx, model.RoleAdmin); user == nil {
		return
	}

	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var in userInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Invalid user payload", err.Error(), nil))
		return
	}

	input, ok := in.toServiceInput(ctx)
	if !ok {
		return
	}

	user, err := h.adminService.UpdateUser(id, input)
	if err != nil {
		respondError(ctx, "Failed to update user", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("User updated", user))
}

func (h *AdminHandler) DeleteUser(ctx *gin.Context) {
	admin := requireRole(ctx, model.RoleAdmin)
	if admin == nil {
		return
	}

	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(admin, id); err != nil {
		respondError(ctx, "Failed to delete user", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("User deleted", nil))
}

// ----- groups -----

func (h *AdminHandler) ListGroupsAny(ctx *gin.Context) {
	if middleware.CurrentUser(ctx) == nil {
		ctx.JSON(http.StatusUnauthorized,
			utils.BuildResponseFailed("Authentication required", "no_current_user", nil))
		return
	}

	groups, err := h.adminService.ListGroups()
	if err != nil {
		respondError(ctx, "Failed to fetch groups", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Groups fetched", groups))
}

func (h *AdminHandler) ListGroups(ctx *gin.Context) {
	if user := requireRole(ctx, model.RoleAdmin); user == nil {
		return
	}

	groups, err := h.adminService.ListGroups()
	if err != nil {
		respondError(ctx, "Failed to fetch groups", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Groups fetched", groups))
}

func (h *AdminHandler) CreateGroup(ctx *gin.Context) {
	if user := requireRole(ctx, model.RoleAdmin); user == nil {
		return
	}

	var in struct {
		Name string `json:"name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Group name is required", err.Error(), nil))
		return
	}

	group, err := h.adminService.CreateGroup(in.Name)
	if err != nil {
		respondError(ctx, "Failed to create group", err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Group created", group))
}

func (h *AdminHandler) UpdateGroup(ctx *gin.Context) {
	if user := requireRole(ctx, model.RoleAdmin); user == nil {
		return
	}

	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var in struct {
		Name string `json:"name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Group name is required", err.Error(), nil))
		return
	}

	group, err := h.adminService.UpdateGroup(id, in.Name)
	if err != nil {
		respondError(ctx, "Failed to update group", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Group updated", group))
}

func (h *AdminHandler) DeleteGroup(ctx *gin.Context) {
	if user := requireRole(ctx, model.RoleAdmin); user == nil {
		return
	}

	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := h.adminService.DeleteGroup(id); err != nil {
		respondError(ctx, "Failed to delete group", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Group deleted", nil))
}

// ----- courses -----

type courseInput struct {
	Name      string `json:"name" binding:"required"`
	TeacherID string `json:"teacher_id" binding:"required"`
	GroupID   string `json:"group_id" binding:"required"`
}

func (in *courseInput) toServiceInput(ctx *gin.Context) (service.CourseInput, bool) {
	teacherID, err := uuid.Parse(in.TeacherID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Invalid teacher_id", err.Error(), nil))
		return service.CourseInput{}, false
	}
	groupID, err := uuid.Parse(in.GroupID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Invalid group_id", err.Error(), nil))
		return service.CourseInput{}, false
	}
	return service.CourseInput{
		Name:      in.Name,
		TeacherID: teacherID,
		GroupID:   groupID,
	}, true
}

func (h *AdminHandler) ListCourses(ctx *gin.Context) {
	if user := requireRole(ctx, model.RoleAdmin); user == nil {
		return
	}

	courses, err := h.adminService.ListCourses()
	if err != nil {
		respondError(ctx, "Failed to fetch courses", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Courses fetched", courses))
}

func (h *AdminHandler) CreateCourse(ctx *gin.Context) {
	if user := requireRole(ctx, model.RoleAdmin); user == nil {
		return
	}

	var in courseInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Invalid course payload", err.Error(), nil))
		return
	}

	input, ok := in.toServiceInput(ctx)
	if !ok {
		return
	}

	course, err := h.adminService.CreateCourse(input)
	if err != nil {
		respondError(ctx, "Failed to create course", err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Course created", course))
}

func (h *AdminHandler) UpdateCourse(ctx *gin.Context) {
	if user := requireRole(ctx, model.RoleAdmin); user == nil {
		return
	}

	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var in courseInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Invalid course payload", err.Error(), nil))
		return
	}

	input, ok := in.toServiceInput(ctx)
	if !ok {
		return
	}

	course, err := h.adminService.UpdateCourse(id, input)
	if err != nil {
		respondError(ctx, "Failed to update course", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Course updated", course))
}

func (h *AdminHandler) DeleteCourse(ctx *gin.Context) {
	if user := requireRole(ctx, model.RoleAdmin); user == nil {
		return
	}

	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := h.adminService.DeleteCourse(id); err != nil {
		respondError(ctx, "Failed to delete course", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Course deleted", nil))
}

// ----- tests -----

type testInput struct {
	Name     string `json:"name" binding:"required"`
	CourseID string `json:"course_id" binding:"required"`
}

func (in *testInput) toServiceInput(ctx *gin.Context) (service.TestInput, bool) {
	courseID, err := uuid.Parse(in.CourseID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Invalid course_id", err.Error(), nil))
		return service.TestInput{}, false
	}
	return service.TestInput{Name: in.Name, CourseID: courseID}, true
}

func (h *AdminHandler) ListTests(ctx *gin.Context) {
	if user := requireRole(ctx, model.RoleAdmin); user == nil {
		return
	}

	tests, err := h.adminService.ListTests()
	if err != nil {
		respondError(ctx, "Failed to fetch tests", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Tests fetched", tests))
}

func (h *AdminHandler) CreateTest(ctx *gin.Context) {
	if user := requireRole(ctx, model.RoleAdmin); user == nil {
		return
	}

	var in testInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Invalid test payload", err.Error(), nil))
		return
	}

	input, ok := in.toServiceInput(ctx)
	if !ok {
		return
	}

	test, err := h.adminService.CreateTest(input)
	if err != nil {
		respondError(ctx, "Failed to create test", err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Test created", test))
}

func (h *AdminHandler) UpdateTest(ctx *gin.Context) {
	if user := requireRole(ctx, model.RoleAdmin); user == nil {
		return
	}

	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var in testInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Invalid test payload", err.Error(), nil))
		return
	}

	input, ok := in.toServiceInput(ctx)
	if !ok {
		return
	}

	test, err := h.adminService.UpdateTest(id, input)
	if err != nil {
		respondError(ctx, "Failed to update test", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Test updated", test))
}

func (h *AdminHandler) DeleteTest(ctx *gin.Context) {
	if user := requireRole(ctx, model.RoleAdmin); user == nil {
		return
	}

	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := h.adminService.DeleteTest(id); err != nil {
		respondError(ctx, "Failed to delete test", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Test deleted", nil))
}
