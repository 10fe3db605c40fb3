package service

import (
	"errors"

	"distance-learning-backend/app/model"
	"distance-learning-backend/app/repository"
	"distance-learning-backend/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserInput is the admin payload for creating or updating a user. Password is
// optional on update: empty keeps the existing hash.
type UserInput struct {
	Login    string
	Email    string
	FullName string
	Password string
	Role     string
	GroupID  *uuid.UUID
}

// CourseInput is the admin payload for creating or updating a course.
type CourseInput struct {
	Name      string
	TeacherID uuid.UUID
	GroupID   uuid.UUID
}

// TestInput is the admin payload for creating or updating a test.
type TestInput struct {
	Name     string
	CourseID uuid.UUID
}

// AdminService is the admin-only CRUD surface with referential validation
// before every mutation. Uniqueness pre-checks are the fast path; the unique
// indexes in the store are the backstop against concurrent inserts.
type AdminService interface {
	ListUsers() ([]model.User, error)
	CreateUser(input UserInput) (*model.User, error)
	UpdateUser(id uuid.UUID, input UserInput) (*model.User, error)
	DeleteUser(actingAdmin *model.User, id uuid.UUID) error

	ListGroups() ([]model.Group, error)
	CreateGroup(name string) (*model.Group, error)
	UpdateGroup(id uuid.UUID, name string) (*model.Group, error)
	DeleteGroup(id uuid.UUID) error

	ListCourses() ([]model.Course, error)
	CreateCourse(input CourseInput) (*model.Course, error)
	UpdateCourse(id uuid.UUID, input CourseInput) (*model.Course, error)
	DeleteCourse(id uuid.UUID) error

	ListTests() ([]model.Test, error)
	CreateTest(input TestInput) (*model.Test, error)
	UpdateTest(id uuid.UUID, input TestInput) (*model.Test, error)
	DeleteTest(id uuid.UUID) error
}

type adminService struct {
	userRepo   repository.UserRepository
	groupRepo  repository.GroupRepository
	courseRepo repository.CourseRepository
	testRepo   repository.TestRepository
	ctRepo     repository.CompletedTestRepository
}

func NewAdminService(
	userRepo repository.UserRepository,
	groupRepo repository.GroupRepository,
	courseRepo repository.CourseRepository,
	testRepo repository.TestRepository,
	ctRepo repository.CompletedTestRepository,
) AdminService {
	return &adminService{
		userRepo:   userRepo,
		groupRepo:  groupRepo,
		courseRepo: courseRepo,
		testRepo:   testRepo,
		ctRepo:     ctRepo,
	}
}

// ----- users -----

func (s *adminService) ListUsers() ([]model.User, error) {
	return s.userRepo.FindAll()
}

func (s *adminService) CreateUser(input UserInput) (*model.User, error) {
	taken, err := s.userRepo.ExistsWithLoginOrEmail(input.Login, input.Email, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, utils.ErrConflict("a user with this login or email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Login:        input.Login,
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: string(hash),
		Role:         input.Role,
		GroupID:      input.GroupID,
	}
	if err := s.userRepo.Create(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *adminService) UpdateUser(id uuid.UUID, input UserInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound("user not found")
	}
	if err != nil {
		return nil, err
	}

	taken, err := s.userRepo.ExistsWithLoginOrEmail(input.Login, input.Email, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, utils.ErrConflict("a user with this login or email already exists")
	}

	user.Login = input.Login
	user.Email = input.Email
	user.FullName = input.FullName
	user.Role = input.Role
	user.GroupID = input.GroupID
	user.Group = nil

	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser refuses to let an admin delete themself, then removes the user
// and everything hanging off them in one transaction.
func (s *adminService) DeleteUser(actingAdmin *model.User, id uuid.UUID) error {
	if actingAdmin.ID == id {
		return utils.ErrForbidden("you cannot delete your own account")
	}

	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrNotFound("user not found")
		}
		return err
	}

	if err := s.userRepo.Delete(id); err != nil {
		return utils.ErrInternal("failed to delete user", err)
	}
	return nil
}

// ----- groups -----

func (s *adminService) ListGroups() ([]model.Group, error) {
	return s.groupRepo.FindAll()
}

func (s *adminService) CreateGroup(name string) (*model.Group, error) {
	taken, err := s.groupRepo.ExistsWithName(name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, utils.ErrConflict("a group with this name already exists")
	}

	group := model.Group{Name: name}
	if err := s.groupRepo.Create(&group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *adminService) UpdateGroup(id uuid.UUID, name string) (*model.Group, error) {
	group, err := s.groupRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound("group not found")
	}
	if err != nil {
		return nil, err
	}

	taken, err := s.groupRepo.ExistsWithName(name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, utils.ErrConflict("a group with this name already exists")
	}

	group.Name = name
	if err := s.groupRepo.Update(group); err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup detaches member users, then removes the group. A store failure
// rolls the whole thing back and surfaces as a 500 with the message.
func (s *adminService) DeleteGroup(id uuid.UUID) error {
	if _, err := s.groupRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrNotFound("group not found")
		}
		return err
	}

	if err := s.groupRepo.Delete(id); err != nil {
		return utils.ErrInternal("failed to delete group", err)
	}
	return nil
}

// ----- courses -----

func (s *adminService) ListCourses() ([]model.Course, error) {
	return s.courseRepo.FindAll()
}

// validateCourseRefs checks that teacher_id resolves to a user with the
// teacher role and group_id to an existing group.
func (s *adminService) validateCourseRefs(input CourseInput) error {
	teacher, err := s.userRepo.FindByID(input.TeacherID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrNotFound("teacher not found")
	}
	if err != nil {
		return err
	}
	if teacher.Role != model.RoleTeacher {
		return utils.ErrNotFound("teacher not found")
	}

	if _, err := s.groupRepo.FindByID(input.GroupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrNotFound("group not found")
		}
		return err
	}
	return nil
}

func (s *adminService) CreateCourse(input CourseInput) (*model.Course, error) {
	if err := s.validateCourseRefs(input); err != nil {
		return nil, err
	}

	course := model.Course{
		Name:      input.Name,
		TeacherID: input.TeacherID,
		GroupID:   input.GroupID,
	}
	if err := s.courseRepo.Create(&course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *adminService) UpdateCourse(id uuid.UUID, input CourseInput) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound("course not found")
	}
	if err != nil {
		return nil, err
	}

	if err := s.validateCourseRefs(input); err != nil {
		return nil, err
	}

	course.Name = input.Name
	course.TeacherID = input.TeacherID
	course.GroupID = input.GroupID
	course.Teacher = nil
	course.Group = nil

	if err := s.courseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse cascades to the course's tests and their completions.
func (s *adminService) DeleteCourse(id uuid.UUID) error {
	if _, err := s.courseRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrNotFound("course not found")
		}
		return err
	}

	if err := s.courseRepo.Delete(id); err != nil {
		return utils.ErrInternal("failed to delete course", err)
	}
	return nil
}

// ----- tests -----

func (s *adminService) ListTests() ([]model.Test, error) {
	return s.testRepo.FindAllWithDetails()
}

func (s *adminService) CreateTest(input TestInput) (*model.Test, error) {
	if _, err := s.courseRepo.FindByID(input.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound("course not found")
		}
		return nil, err
	}

	test := model.Test{
		Name:     input.Name,
		CourseID: input.CourseID,
	}
	if err := s.testRepo.Create(&test); err != nil {
		return nil, err
	}
	return &test, nil
}

func (s *adminService) UpdateTest(id uuid.UUID, input TestInput) (*model.Test, error) {
	test, err := s.testRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound("test not found")
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.courseRepo.FindByID(input.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound("course not found")
		}
		return nil, err
	}

	test.Name = input.Name
	test.CourseID = input.CourseID
	test.Course = nil

	if err := s.testRepo.Update(test); err != nil {
		return nil, err
	}
	return test, nil
}

// DeleteTest is a referential guard, not a cascade: while completion records
// reference the test the delete is refused as a conflict.
func (s *adminService) DeleteTest(id uuid.UUID) error {
	if _, err := s.testRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrNotFound("test not found")
		}
		return err
	}

	completions, err := s.ctRepo.CountByTest(id)
	if err != nil {
		return err
	}
	if completions > 0 {
		return utils.ErrConflict("cannot delete a test with student results attached")
	}

	if err := s.testRepo.Delete(id); err != nil {
		return utils.ErrInternal("failed to delete test", err)
	}
	return nil
}
