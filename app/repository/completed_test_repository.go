package repository

import (
	"errors"

	"distance-learning-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompletedTestRepository defines the database contract for completion records.
type CompletedTestRepository interface {
	Create(ct *model.CompletedTest) error
	Update(ct *model.CompletedTest) error
	// FindByStudentAndTest returns (nil, nil) when no record exists, so the
	// submit upsert can branch without inspecting gorm errors.
	FindByStudentAndTest(studentID, testID uuid.UUID) (*model.CompletedTest, error)
	FindByStudent(studentID uuid.UUID) ([]model.CompletedTest, error)
	FindDetailsByStudent(studentID uuid.UUID) ([]model.StudentTestDetail, error)
	FindByStudentAndCourse(studentID, courseID uuid.UUID) ([]model.CompletedTest, error)
	FindByTest(testID uuid.UUID) ([]model.CompletedTest, error)
	CountByTest(testID uuid.UUID) (int64, error)
	CountByCourse(courseID uuid.UUID) (int64, error)
}

type completedTestRepository struct {
	db *gorm.DB
}

func NewCompletedTestRepository(db *gorm.DB) CompletedTestRepository {
	return &completedTestRepository{db}
}

func (r *completedTestRepository) Create(ct *model.CompletedTest) error {
	return r.db.Create(ct).Error
}

func (r *completedTestRepository) Update(ct *model.CompletedTest) error {
	return r.db.Save(ct).Error
}

func (r *completedTestRepository) FindByStudentAndTest(studentID, testID uuid.UUID) (*model.CompletedTest, error) {
	var ct model.CompletedTest
	err := r.db.Where("student_id = ? AND test_id = ?", studentID, testID).First(&ct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

func (r *completedTestRepository) FindByStudent(studentID uuid.UUID) ([]model.CompletedTest, error) {
	var cts []model.CompletedTest
	err := r.db.Where("student_id = ?", studentID).Find(&cts).Error
	return cts, err
}

// FindDetailsByStudent joins each completion to its test, course and owning
// teacher, most recent first.
func (r *completedTestRepository) FindDetailsByStudent(studentID uuid.UUID) ([]model.StudentTestDetail, error) {
	var details []model.StudentTestDetail
	err := r.db.Table("completed_tests").
		Select(`tests.name AS test_name,
			courses.name AS course_name,
			completed_tests.score AS score,
			completed_tests.completed_at AS completed_at,
			users.full_name AS teacher_name`).
		Joins("JOIN tests ON tests.id = completed_tests.test_id").
		Joins("JOIN courses ON courses.id = tests.course_id").
		Joins("JOIN users ON users.id = courses.teacher_id").
		Where("completed_tests.student_id = ?", studentID).
		Order("completed_tests.completed_at DESC").
		Scan(&details).Error
	return details, err
}

func (r *completedTestRepository) FindByStudentAndCourse(studentID, courseID uuid.UUID) ([]model.CompletedTest, error) {
	var cts []model.CompletedTest
	err := r.db.
		Joins("JOIN tests ON tests.id = completed_tests.test_id").
		Where("completed_tests.student_id = ? AND tests.course_id = ?", studentID, courseID).
		Find(&cts).Error
	return cts, err
}

func (r *completedTestRepository) FindByTest(testID uuid.UUID) ([]model.CompletedTest, error) {
	var cts []model.CompletedTest
	err := r.db.Where("test_id = ?", testID).Find(&cts).Error
	return cts, err
}

func (r *completedTestRepository) CountByTest(testID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.CompletedTest{}).
		Where("test_id = ?", testID).
		Count(&count).Error
	return count, err
}

// CountByCourse counts completions across all tests of a course, for the
// teacher's group-wide average progress.
func (r *completedTestRepository) CountByCourse(courseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.CompletedTest{}).
		Joins("JOIN tests ON tests.id = completed_tests.test_id").
		Where("tests.course_id = ?", courseID).
		Count(&count).Error
	return count, err
}
