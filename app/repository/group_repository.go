package repository

import (
	"errors"

	"distance-learning-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroupRepository defines the database contract for the Group entity.
type GroupRepository interface {
	Create(group *model.Group) error
	Update(group *model.Group) error
	Delete(id uuid.UUID) error
	FindAll() ([]model.Group, error)
	FindByID(id uuid.UUID) (*model.Group, error)
	ExistsWithName(name string, excludeID uuid.UUID) (bool, error)
	Count() (int64, error)
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db}
}

func (r *groupRepository) Create(group *model.Group) error {
	return r.db.Create(group).Error
}

func (r *groupRepository) Update(group *model.Group) error {
	return r.db.Save(group).Error
}

// Delete detaches the group's members before removing the group. Users are
// never deleted here, their group reference just becomes NULL.
func (r *groupRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).
			Where("group_id = ?", id).
			Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Group{}, "id = ?", id).Error
	})
}

func (r *groupRepository) FindAll() ([]model.Group, error) {
	var groups []model.Group
	err := r.db.Order("name").Find(&groups).Error
	return groups, err
}

func (r *groupRepository) FindByID(id uuid.UUID) (*model.Group, error) {
	var group model.Group
	err := r.db.First(&group, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// ExistsWithName reports whether another group already uses the given name.
func (r *groupRepository) ExistsWithName(name string, excludeID uuid.UUID) (bool, error) {
	var group model.Group
	q := r.db.Where("name = ?", name)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *groupRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Group{}).Count(&count).Error
	return count, err
}
