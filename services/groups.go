package services

import (
	"gorm.io/gorm"

	"github.com/postline/postline/models"
)

// GroupService covers group lifecycle. Deleting a group is a weak cascade:
// member posts survive with their group link nulled.
type GroupService struct {
	db *gorm.DB
}

// NewGroupService creates a new GroupService instance.
func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

// Create stores a new group. The slug must be unique.
func (s *GroupService) Create(group *models.Group) error {
	return s.db.Create(group).Error
}

// Delete removes the group resolved from slug, nulling the group link on its
// posts in the same transaction so no post ever references a missing group.
func (s *GroupService) Delete(slug string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.Where("slug = ?", slug).First(&group).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{}).
			Where("group_id = ?", group.ID).
			Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&group).Error
	})
}
