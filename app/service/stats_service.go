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

// StatsService is the reporting engine: it turns raw rows into the fixed
// percentage/average report shapes. Every division treats an empty
// population as 0.0 instead of failing.
type StatsService interface {
	TeacherStats(teacher *model.User) (*model.TeacherStats, error)
	AdminStats() (*model.AdminStats, error)
	StudentStats(student *model.User) (*model.StudentStats, error)
	StudentCompletedTests(student *model.User) ([]model.StudentTestDetail, error)
	CourseStatistics(teacher *model.User, courseID uuid.UUID) (*model.CourseStatistics, error)
	CourseTestsWithStats(teacher *model.User, courseID uuid.UUID) ([]model.TestWithStatistics, error)
}

type statsService struct {
	userRepo   repository.UserRepository
	groupRepo  repository.GroupRepository
	courseRepo repository.CourseRepository
	testRepo   repository.TestRepository
	ctRepo     repository.CompletedTestRepository
}

func NewStatsService(
	userRepo repository.UserRepository,
	groupRepo repository.GroupRepository,
	courseRepo repository.CourseRepository,
	testRepo repository.TestRepository,
	ctRepo repository.CompletedTestRepository,
) StatsService {
	return &statsService{
		userRepo:   userRepo,
		groupRepo:  groupRepo,
		courseRepo: courseRepo,
		testRepo:   testRepo,
		ctRepo:     ctRepo,
	}
}

// TeacherStats counts owned courses, the distinct groups across them and the
// distinct students (role=student) within those groups.
func (s *statsService) TeacherStats(teacher *model.User) (*model.TeacherStats, error) {
	courseCount, err := s.courseRepo.CountByTeacher(teacher.ID)
	if err != nil {
		return nil, err
	}
	groupCount, err := s.courseRepo.CountDistinctGroupsByTeacher(teacher.ID)
	if err != nil {
		return nil, err
	}
	studentCount, err := s.userRepo.CountDistinctStudentsOfTeacher(teacher.ID)
	if err != nil {
		return nil, err
	}

	return &model.TeacherStats{
		CourseCount:  courseCount,
		GroupCount:   groupCount,
		StudentCount: studentCount,
	}, nil
}

// AdminStats returns the global course/user/group counts.
func (s *statsService) AdminStats() (*model.AdminStats, error) {
	courseCount, err := s.courseRepo.Count()
	if err != nil {
		return nil, err
	}
	userCount, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	groupCount, err := s.groupRepo.Count()
	if err != nil {
		return nil, err
	}

	return &model.AdminStats{
		CourseCount: courseCount,
		UserCount:   userCount,
		GroupCount:  groupCount,
	}, nil
}

// StudentStats summarizes the student's completions against every test of
// their group's courses.
func (s *statsService) StudentStats(student *model.User) (*model.StudentStats, error) {
	completions, err := s.ctRepo.FindByStudent(student.ID)
	if err != nil {
		return nil, err
	}

	var totalTests int64
	if student.GroupID != nil {
		totalTests, err = s.testRepo.CountByGroupCourses(*student.GroupID)
		if err != nil {
			return nil, err
		}
	}

	completedCount := int64(len(completions))
	averageScore := 0.0
	if completedCount > 0 {
		var totalScore int
		for _, ct := range completions {
			totalScore += ct.Score
		}
		averageScore = utils.Round1(float64(totalScore) / float64(completedCount))
	}

	return &model.StudentStats{
		CompletedTestsCount:  completedCount,
		AverageScore:         averageScore,
		TotalTestsCount:      totalTests,
		CompletionPercentage: utils.Percentage(completedCount, totalTests),
	}, nil
}

// StudentCompletedTests lists every completion by the student with test,
// course and teacher names, most recent first. MaxScore is the fixed ceiling.
func (s *statsService) StudentCompletedTests(student *model.User) ([]model.StudentTestDetail, error) {
	details, err := s.ctRepo.FindDetailsByStudent(student.ID)
	if err != nil {
		return nil, err
	}
	for i := range details {
		details[i].MaxScore = model.MaxScore
	}
	return details, nil
}

// CourseStatistics builds the per-student progress table for an owned course.
// The aggregate denominators intentionally differ: average_completion_rate is
// the mean over every student in the group, while average_score is the mean
// over students with at least one completion.
func (s *statsService) CourseStatistics(teacher *model.User, courseID uuid.UUID) (*model.CourseStatistics, error) {
	course, err := s.courseRepo.FindByIDAndTeacher(courseID, teacher.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound("course not found or no access")
	}
	if err != nil {
		return nil, err
	}

	students, err := s.userRepo.FindStudentsByGroup(course.GroupID)
	if err != nil {
		return nil, err
	}
	totalTests, err := s.testRepo.CountByCourse(courseID)
	if err != nil {
		return nil, err
	}

	progress := []model.StudentProgress{}
	var (
		totalCompletionRate float64
		totalScore          float64
		activeStudents      int64
	)

	for _, student := range students {
		completions, err := s.ctRepo.FindByStudentAndCourse(student.ID, courseID)
		if err != nil {
			return nil, err
		}

		completedCount := int64(len(completions))
		completionRate := utils.Percentage(completedCount, totalTests)

		avgScore := 0.0
		var lastActivity *time.Time
		if completedCount > 0 {
			var sum int
			last := completions[0].CompletedAt
			for _, ct := range completions {
				sum += ct.Score
				if ct.CompletedAt.After(last) {
					last = ct.CompletedAt
				}
			}
			avgScore = float64(sum) / float64(completedCount)
			totalScore += avgScore
			activeStudents++
			lastActivity = &last
		}

		progress = append(progress, model.StudentProgress{
			StudentID:      student.ID,
			StudentName:    student.FullName,
			StudentLogin:   student.Login,
			CompletedTests: completedCount,
			TotalTests:     totalTests,
			CompletionRate: completionRate,
			AverageScore:   utils.Round1(avgScore),
			LastActivity:   lastActivity,
		})
		totalCompletionRate += completionRate
	}

	totalStudents := int64(len(students))
	avgCompletionRate := 0.0
	if totalStudents > 0 {
		avgCompletionRate = utils.Round1(totalCompletionRate / float64(totalStudents))
	}
	avgScore := 0.0
	if activeStudents > 0 {
		avgScore = utils.Round1(totalScore / float64(activeStudents))
	}

	return &model.CourseStatistics{
		CourseID:              course.ID,
		CourseName:            course.Name,
		GroupName:             course.Group.Name,
		TotalStudents:         totalStudents,
		TotalTests:            totalTests,
		AverageCompletionRate: avgCompletionRate,
		AverageScore:          avgScore,
		StudentProgress:       progress,
	}, nil
}

// CourseTestsWithStats annotates each test of an owned course with its
// group-wide completion figures.
func (s *statsService) CourseTestsWithStats(teacher *model.User, courseID uuid.UUID) ([]model.TestWithStatistics, error) {
	course, err := s.courseRepo.FindByIDAndTeacher(courseID, teacher.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound("course not found or no access")
	}
	if err != nil {
		return nil, err
	}

	tests, err := s.testRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}
	totalStudents, err := s.userRepo.CountStudentsByGroup(course.GroupID)
	if err != nil {
		return nil, err
	}

	result := []model.TestWithStatistics{}
	for _, test := range tests {
		completions, err := s.ctRepo.FindByTest(test.ID)
		if err != nil {
			return nil, err
		}

		completedCount := int64(len(completions))
		avgScore := 0.0
		if completedCount > 0 {
			var sum int
			for _, ct := range completions {
				sum += ct.Score
			}
			avgScore = utils.Round1(float64(sum) / float64(completedCount))
		}

		result = append(result, model.TestWithStatistics{
			ID:             test.ID,
			Name:           test.Name,
			CourseID:       test.CourseID,
			CreatedAt:      test.CreatedAt,
			TotalStudents:  totalStudents,
			CompletedCount: completedCount,
			AverageScore:   avgScore,
			CompletionRate: utils.Percentage(completedCount, totalStudents),
		})
	}
	return result, nil
}
