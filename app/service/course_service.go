package service

import (
	"errors"
	"time"

	"distance-learning-backend/app/model"
	"distance-learning-backend/app/repository"
	"distance-learning-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseService covers the course views and the student submit flow. The
// course list has one method per caller role; the handler resolves the role
// once and dispatches, so nothing downstream re-inspects it.
type CourseService interface {
	MyCoursesStudent(student *model.User) ([]model.StudentCourse, error)
	MyCoursesTeacher(teacher *model.User) ([]model.TeacherCourse, error)
	MyCoursesAdmin() ([]model.Course, error)
	CourseTests(caller *model.User, courseID uuid.UUID) ([]model.Test, error)
	TestsWithCompletion(student *model.User, courseID uuid.UUID) ([]model.TestWithCompletion, error)
	SubmitResult(student *model.User, testID uuid.UUID, score int) error
}

type courseService struct {
	courseRepo repository.CourseRepository
	testRepo   repository.TestRepository
	userRepo   repository.UserRepository
	ctRepo     repository.CompletedTestRepository
}

func NewCourseService(
	courseRepo repository.CourseRepository,
	testRepo repository.TestRepository,
	userRepo repository.UserRepository,
	ctRepo repository.CompletedTestRepository,
) CourseService {
	return &courseService{
		courseRepo: courseRepo,
		testRepo:   testRepo,
		userRepo:   userRepo,
		ctRepo:     ctRepo,
	}
}

// MyCoursesStudent lists the courses of the student's group with the
// student's own completion rate. A student without a group has no courses.
func (s *courseService) MyCoursesStudent(student *model.User) ([]model.StudentCourse, error) {
	result := []model.StudentCourse{}
	if student.GroupID == nil {
		return result, nil
	}

	courses, err := s.courseRepo.FindByGroup(*student.GroupID)
	if err != nil {
		return nil, err
	}

	for _, course := range courses {
		totalTests, err := s.testRepo.CountByCourse(course.ID)
		if err != nil {
			return nil, err
		}
		completed, err := s.ctRepo.FindByStudentAndCourse(student.ID, course.ID)
		if err != nil {
			return nil, err
		}
		completedCount := int64(len(completed))

		result = append(result, model.StudentCourse{
			ID:             course.ID,
			Name:           course.Name,
			Teacher:        course.Teacher,
			Group:          course.Group,
			CreatedAt:      course.CreatedAt,
			TotalTests:     totalTests,
			CompletedTests: completedCount,
			CompletionRate: utils.Percentage(completedCount, totalTests),
		})
	}
	return result, nil
}

// MyCoursesTeacher lists owned courses with the group-wide average progress:
// completions across all students over student_count * total_tests.
func (s *courseService) MyCoursesTeacher(teacher *model.User) ([]model.TeacherCourse, error) {
	courses, err := s.courseRepo.FindByTeacher(teacher.ID)
	if err != nil {
		return nil, err
	}

	result := []model.TeacherCourse{}
	for _, course := range courses {
		totalTests, err := s.testRepo.CountByCourse(course.ID)
		if err != nil {
			return nil, err
		}
		studentCount, err := s.userRepo.CountStudentsByGroup(course.GroupID)
		if err != nil {
			return nil, err
		}
		completedCount, err := s.ctRepo.CountByCourse(course.ID)
		if err != nil {
			return nil, err
		}

		result = append(result, model.TeacherCourse{
			ID:              course.ID,
			Name:            course.Name,
			Teacher:         course.Teacher,
			Group:           course.Group,
			CreatedAt:       course.CreatedAt,
			TotalTests:      totalTests,
			StudentCount:    studentCount,
			AverageProgress: utils.Percentage(completedCount, studentCount*totalTests),
		})
	}
	return result, nil
}

// MyCoursesAdmin returns every course with teacher and group detail, without
// computed rates.
func (s *courseService) MyCoursesAdmin() ([]model.Course, error) {
	return s.courseRepo.FindAll()
}

// CourseTests lists a course's tests. Students may only see courses of their
// own group.
func (s *courseService) CourseTests(caller *model.User, courseID uuid.UUID) ([]model.Test, error) {
	course, err := s.courseRepo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound("course not found")
	}
	if err != nil {
		return nil, err
	}

	if caller.Role == model.RoleStudent {
		if caller.GroupID == nil || *caller.GroupID != course.GroupID {
			return nil, utils.ErrForbidden("no access to this course")
		}
	}

	return s.testRepo.FindByCourse(courseID)
}

// TestsWithCompletion annotates each test of the course with the calling
// student's completion record.
func (s *courseService) TestsWithCompletion(student *model.User, courseID uuid.UUID) ([]model.TestWithCompletion, error) {
	course, err := s.courseRepo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound("course not found")
	}
	if err != nil {
		return nil, err
	}

	if student.GroupID == nil || *student.GroupID != course.GroupID {
		return nil, utils.ErrForbidden("no access to this course")
	}

	tests, err := s.testRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}

	result := []model.TestWithCompletion{}
	for _, test := range tests {
		item := model.TestWithCompletion{
			ID:        test.ID,
			Name:      test.Name,
			CourseID:  test.CourseID,
			CreatedAt: test.CreatedAt,
		}

		ct, err := s.ctRepo.FindByStudentAndTest(student.ID, test.ID)
		if err != nil {
			return nil, err
		}
		if ct != nil {
			score := ct.Score
			completedAt := ct.CompletedAt
			item.Completed = true
			item.Score = &score
			item.CompletedAt = &completedAt
		}

		result = append(result, item)
	}
	return result, nil
}

// SubmitResult upserts the completion record for (student, test). The
// student's group must match the test's course's group. A resubmission
// overwrites score and timestamp; the unique index on (student_id, test_id)
// backstops a concurrent identical insert.
func (s *courseService) SubmitResult(student *model.User, testID uuid.UUID, score int) error {
	test, err := s.testRepo.FindByID(testID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrNotFound("test not found")
	}
	if err != nil {
		return err
	}

	course, err := s.courseRepo.FindByID(test.CourseID)
	if err != nil {
		return err
	}
	if student.GroupID == nil || *student.GroupID != course.GroupID {
		return utils.ErrForbidden("no access to this test")
	}

	existing, err := s.ctRepo.FindByStudentAndTest(student.ID, testID)
	if err != nil {
		return err
	}

	if existing != nil {
		existing.Score = score
		existing.CompletedAt = time.Now().UTC()
		return s.ctRepo.Update(existing)
	}

	return s.ctRepo.Create(&model.CompletedTest{
		StudentID:   student.ID,
		TestID:      testID,
		Score:       score,
		CompletedAt: time.Now().UTC(),
	})
}
