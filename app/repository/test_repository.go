package repository

import (
	"distance-learning-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TestRepository defines the database contract for the Test entity.
// Deleting a test here is a plain row delete: the completion guard lives in
// the admin service, which refuses the delete while results reference it.
type TestRepository interface {
	Create(test *model.Test) error
	Update(test *model.Test) error
	Delete(id uuid.UUID) error
	FindAllWithDetails() ([]model.Test, error)
	FindByID(id uuid.UUID) (*model.Test, error)
	FindByCourse(courseID uuid.UUID) ([]model.Test, error)
	CountByCourse(courseID uuid.UUID) (int64, error)
	CountByGroupCourses(groupID uuid.UUID) (int64, error)
}

type testRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db}
}

func (r *testRepository) Create(test *model.Test) error {
	return r.db.Create(test).Error
}

func (r *testRepository) Update(test *model.Test) error {
	return r.db.Save(test).Error
}

func (r *testRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Test{}, "id = ?", id).Error
}

// FindAllWithDetails loads every test with its course, the course's group and
// the owning teacher, for the admin listing.
func (r *testRepository) FindAllWithDetails() ([]model.Test, error) {
	var tests []model.Test
	err := r.db.
		Preload("Course").
		Preload("Course.Group").
		Preload("Course.Teacher").
		Order("created_at").
		Find(&tests).Error
	return tests, err
}

func (r *testRepository) FindByID(id uuid.UUID) (*model.Test, error) {
	var test model.Test
	err := r.db.First(&test, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *testRepository) FindByCourse(courseID uuid.UUID) ([]model.Test, error) {
	var tests []model.Test
	err := r.db.Where("course_id = ?", courseID).Order("created_at").Find(&tests).Error
	return tests, err
}

func (r *testRepository) CountByCourse(courseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Test{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

// CountByGroupCourses counts every test belonging to any course assigned to
// the group. Used for the student's completion percentage denominator.
func (r *testRepository) CountByGroupCourses(groupID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Test{}).
		Joins("JOIN courses ON courses.id = tests.course_id").
		Where("courses.group_id = ?", groupID).
		Count(&count).Error
	return count, err
}
