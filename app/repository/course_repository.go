package repository

import (
	"distance-learning-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseRepository defines the database contract for the Course entity.
type CourseRepository interface {
	Create(course *model.Course) error
	Update(course *model.Course) error
	Delete(id uuid.UUID) error
	FindAll() ([]model.Course, error)
	FindByID(id uuid.UUID) (*model.Course, error)
	FindByIDAndTeacher(id, teacherID uuid.UUID) (*model.Course, error)
	FindByGroup(groupID uuid.UUID) ([]model.Course, error)
	FindByTeacher(teacherID uuid.UUID) ([]model.Course, error)
	CountByTeacher(teacherID uuid.UUID) (int64, error)
	CountDistinctGroupsByTeacher(teacherID uuid.UUID) (int64, error)
	Count() (int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db}
}

func (r *courseRepository) Create(course *model.Course) error {
	return r.db.Create(course).Error
}

func (r *courseRepository) Update(course *model.Course) error {
	return r.db.Save(course).Error
}

// Delete cascades: the course's tests and the completions of those tests go
// with it, all in one transaction.
func (r *courseRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return deleteCoursesCascade(tx, []uuid.UUID{id})
	})
}

// deleteCoursesCascade removes courses with their tests and completions.
// Shared with the user cascade, so it expects to run inside a transaction.
func deleteCoursesCascade(tx *gorm.DB, courseIDs []uuid.UUID) error {
	var testIDs []uuid.UUID
	if err := tx.Model(&model.Test{}).
		Where("course_id IN ?", courseIDs).
		Pluck("id", &testIDs).Error; err != nil {
		return err
	}

	if len(testIDs) > 0 {
		if err := tx.Where("test_id IN ?", testIDs).Delete(&model.CompletedTest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", testIDs).Delete(&model.Test{}).Error; err != nil {
			return err
		}
	}

	return tx.Where("id IN ?", courseIDs).Delete(&model.Course{}).Error
}

func (r *courseRepository) FindAll() ([]model.Course, error) {
	var courses []model.Course
	err := r.db.Preload("Teacher").Preload("Group").Order("created_at").Find(&courses).Error
	return courses, err
}

func (r *courseRepository) FindByID(id uuid.UUID) (*model.Course, error) {
	var course model.Course
	err := r.db.Preload("Teacher").Preload("Group").First(&course, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByIDAndTeacher fetches a course only when the given teacher owns it,
// which is how ownership checks are phrased throughout the teacher endpoints.
func (r *courseRepository) FindByIDAndTeacher(id, teacherID uuid.UUID) (*model.Course, error) {
	var course model.Course
	err := r.db.Preload("Teacher").Preload("Group").
		Where("id = ? AND teacher_id = ?", id, teacherID).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindByGroup(groupID uuid.UUID) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.Preload("Teacher").Preload("Group").
		Where("group_id = ?", groupID).
		Order("created_at").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepository) FindByTeacher(teacherID uuid.UUID) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.Preload("Teacher").Preload("Group").
		Where("teacher_id = ?", teacherID).
		Order("created_at").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepository) CountByTeacher(teacherID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Course{}).
		Where("teacher_id = ?", teacherID).
		Count(&count).Error
	return count, err
}

func (r *courseRepository) CountDistinctGroupsByTeacher(teacherID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Course{}).
		Distinct("group_id").
		Where("teacher_id = ?", teacherID).
		Count(&count).Error
	return count, err
}

func (r *courseRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Course{}).Count(&count).Error
	return count, err
}
