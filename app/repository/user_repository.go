package repository

import (
	"errors"

	"distance-learning-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository defines the database contract for the User entity.
type UserRepository interface {
	Create(user *model.User) error
	Update(user *model.User) error
	Delete(id uuid.UUID) error
	FindAll() ([]model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)
	FindByLogin(login string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	ExistsWithLoginOrEmail(login, email string, excludeID uuid.UUID) (bool, error)
	FindStudentsByGroup(groupID uuid.UUID) ([]model.User, error)
	CountStudentsByGroup(groupID uuid.UUID) (int64, error)
	CountDistinctStudentsOfTeacher(teacherID uuid.UUID) (int64, error)
	Count() (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

// Delete removes a user together with everything hanging off them: their own
// completions and, for teachers, their courses with all tests and completions.
// The whole removal is one transaction so a store failure leaves no partial state.
func (r *userRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).Delete(&model.CompletedTest{}).Error; err != nil {
			return err
		}

		var courseIDs []uuid.UUID
		if err := tx.Model(&model.Course{}).
			Where("teacher_id = ?", id).
			Pluck("id", &courseIDs).Error; err != nil {
			return err
		}
		if len(courseIDs) > 0 {
			if err := deleteCoursesCascade(tx, courseIDs); err != nil {
				return err
			}
		}

		return tx.Delete(&model.User{}, "id = ?", id).Error
	})
}

func (r *userRepository) FindAll() ([]model.User, error) {
	var users []model.User
	err := r.db.Preload("Group").Order("created_at").Find(&users).Error
	return users, err
}

func (r *userRepository) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.Preload("Group").First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByLogin(login string) (*model.User, error) {
	var user model.User
	err := r.db.Preload("Group").Where("login = ?", login).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Preload("Group").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsWithLoginOrEmail reports whether another user already holds the given
// login or email. excludeID skips the user being updated; pass uuid.Nil on create.
func (r *userRepository) ExistsWithLoginOrEmail(login, email string, excludeID uuid.UUID) (bool, error) {
	var user model.User
	q := r.db.Where("login = ? OR email = ?", login, email)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *userRepository) FindStudentsByGroup(groupID uuid.UUID) ([]model.User, error) {
	var students []model.User
	err := r.db.
		Where("group_id = ? AND role = ?", groupID, model.RoleStudent).
		Order("full_name").
		Find(&students).Error
	return students, err
}

func (r *userRepository) CountStudentsByGroup(groupID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).
		Where("group_id = ? AND role = ?", groupID, model.RoleStudent).
		Count(&count).Error
	return count, err
}

// CountDistinctStudentsOfTeacher counts students across all groups the
// teacher's courses are assigned to.
func (r *userRepository) CountDistinctStudentsOfTeacher(teacherID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).
		Distinct("users.id").
		Joins("JOIN courses ON courses.group_id = users.group_id").
		Where("courses.teacher_id = ? AND users.role = ?", teacherID, model.RoleStudent).
		Count(&count).Error
	return count, err
}

func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Count(&count).Error
	return count, err
}
