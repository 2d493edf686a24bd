package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/postline/postline/models"
)

// FollowService mutates the follow-edge set. Both operations are idempotent:
// a duplicate follow and a missing unfollow are silent no-ops, never errors.
type FollowService struct {
	db *gorm.DB
}

// NewFollowService creates a new FollowService instance.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Follow creates the viewer→target edge unless it already exists or the
// viewer is the target (self-follow is rejected silently). The unique
// (user_id, author_id) index plus an OnConflict DoNothing insert makes
// concurrent attempts for the same pair collapse into a single row.
// Returns gorm.ErrRecordNotFound for an unknown target username.
func (s *FollowService) Follow(viewerID uint, targetUsername string) error {
	var target models.User
	if err := s.db.Where("username = ?", targetUsername).First(&target).Error; err != nil {
		return err
	}
	if target.ID == viewerID {
		return nil
	}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Follow{UserID: viewerID, AuthorID: target.ID}).Error
}

// Unfollow removes the viewer→target edge if present.
func (s *FollowService) Unfollow(viewerID uint, targetUsername string) error {
	var target models.User
	if err := s.db.Where("username = ?", targetUsername).First(&target).Error; err != nil {
		return err
	}
	return s.db.Where("user_id = ? AND author_id = ?", viewerID, target.ID).
		Delete(&models.Follow{}).Error
}

// IsFollowing reports whether the viewer already follows the author.
func (s *FollowService) IsFollowing(viewerID, authorID uint) (bool, error) {
	var n int64
	err := s.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", viewerID, authorID).
		Count(&n).Error
	return n > 0, err
}
